package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/telhawk-systems/telhawk-bridge/internal/config"
	"github.com/telhawk-systems/telhawk-bridge/internal/forwarder"
	"github.com/telhawk-systems/telhawk-bridge/internal/hec"
	"github.com/telhawk-systems/telhawk-bridge/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("BRIDGE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("stream-forwarder"))
	logging.SetDefault(logger)

	relay := hec.NewClient(hec.Config{
		URL:                cfg.HEC.URL,
		Token:              cfg.HEC.Token,
		RetryMax:           cfg.HEC.RetryMax,
		Timeout:            cfg.HEC.Timeout,
		InsecureSkipVerify: cfg.HEC.InsecureSkipVerify,
	})

	fw := forwarder.NewStream(relay, cfg.Forwarder, logger)
	lambda.Start(fw.Handle)
}
