package forwarder

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/telhawk-systems/telhawk-bridge/internal/config"
	"github.com/telhawk-systems/telhawk-bridge/internal/hec"
	"github.com/telhawk-systems/telhawk-bridge/internal/logging"
	"github.com/telhawk-systems/telhawk-bridge/internal/metrics"
)

// Stream forwards DynamoDB change-stream batches. Each change record
// becomes one event; the whole batch is delivered in a single flush.
type Stream struct {
	relay *hec.Client
	cfg   config.ForwarderConfig
	log   *logging.Logger
	now   func() time.Time
}

// NewStream creates a Stream forwarder bound to the given relay client.
func NewStream(relay *hec.Client, cfg config.ForwarderConfig, log *logging.Logger) *Stream {
	return &Stream{
		relay: relay,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Handle is the invocation entry point. It returns the number of
// records forwarded, or the flush error; a failed invocation is
// redelivered wholesale by the stream integration.
func (f *Stream) Handle(ctx context.Context, event events.DynamoDBEvent) (int, error) {
	id := invocationID(ctx)
	source := invocationSource(ctx, f.cfg.Source)

	batch := f.relay.NewBatch()
	for _, record := range event.Records {
		batch.Add(hec.Event{
			Time:       hec.EpochSeconds(f.now()),
			Host:       f.cfg.Host,
			Source:     source,
			SourceType: streamSourceType,
			Index:      f.cfg.Index,
			Event:      record,
		})
	}

	n, err := batch.Flush(ctx)
	if err != nil {
		metrics.InvocationsFailed.WithLabelValues("stream", "flush").Inc()
		f.log.Error("flush failed",
			logging.InvocationID(id),
			logging.Source(source),
			logging.Error(err),
		)
		return 0, err
	}

	metrics.RecordsForwarded.WithLabelValues("stream").Add(float64(n))
	f.log.Info("forwarded change records",
		logging.InvocationID(id),
		logging.Source(source),
		logging.Count(n),
		logging.Endpoint(f.relay.URL()),
	)
	return n, nil
}
