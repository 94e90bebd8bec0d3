package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HEC       HECConfig       `mapstructure:"hec"`
	Forwarder ForwarderConfig `mapstructure:"forwarder"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type HECConfig struct {
	URL                string        `mapstructure:"url"`
	Token              string        `mapstructure:"token"`
	RetryMax           int           `mapstructure:"retry_max"`
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

type ForwarderConfig struct {
	Host   string `mapstructure:"host"`
	Source string `mapstructure:"source"`
	Index  string `mapstructure:"index"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration once at process start. Values come from an
// optional yaml file (for local runs) and BRIDGE_* environment
// variables, which is how the Lambda functions are configured.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults. Keys without a meaningful default still need to be
	// registered so AutomaticEnv can populate them during Unmarshal.
	v.SetDefault("hec.url", "")
	v.SetDefault("hec.token", "")
	v.SetDefault("hec.retry_max", 3)
	v.SetDefault("hec.timeout", "10s")
	v.SetDefault("hec.insecure_skip_verify", false)
	v.SetDefault("forwarder.host", "serverless")
	v.SetDefault("forwarder.source", "")
	v.SetDefault("forwarder.index", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/telhawk/bridge")
	}

	// Environment variables override, e.g. BRIDGE_HEC_URL
	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HEC.URL == "" {
		return fmt.Errorf("hec.url is required")
	}
	if c.HEC.Token == "" {
		return fmt.Errorf("hec.token is required")
	}
	if c.HEC.RetryMax < 0 {
		return fmt.Errorf("hec.retry_max must not be negative")
	}
	return nil
}
