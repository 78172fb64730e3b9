package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory  = "memory"
	DriverGateway = "gateway"
)

type Config struct {
	Env      string        `mapstructure:"env"`
	Language string        `mapstructure:"language"`
	Agent    AgentConfig   `mapstructure:"agent"`
	SDK      SDKConfig     `mapstructure:"sdk"`
	Plan     PlanConfig    `mapstructure:"plan"`
	Runner   RunnerConfig  `mapstructure:"runner"`
	Kafka    KafkaConfig   `mapstructure:"kafka"`
	Server   ServerConfig  `mapstructure:"server"`
	Storage  StorageConfig `mapstructure:"storage"`
}

type AgentConfig struct {
	Name         string `mapstructure:"name"`
	PollInterval int    `mapstructure:"poll_interval"`
}

type SDKConfig struct {
	Driver  string `mapstructure:"driver"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"`
}

type PlanConfig struct {
	Variant         string `mapstructure:"variant"`
	FlashblocksWait int    `mapstructure:"flashblocks_wait_ms"`
}

type RunnerConfig struct {
	// ProbeTimeout in seconds; 0 disables the per-probe bound.
	ProbeTimeout int `mapstructure:"probe_timeout"`
}

type KafkaConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Brokers []string    `mapstructure:"brokers"`
	Topics  KafkaTopics `mapstructure:"topics"`
}

type KafkaTopics struct {
	Runs     string `mapstructure:"runs"`
	Outcomes string `mapstructure:"outcomes"`
	Logs     string `mapstructure:"logs"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("local")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("language", "")

	// Agent defaults
	v.SetDefault("agent.name", "sdk-probe-01")
	v.SetDefault("agent.poll_interval", 30)

	// SDK defaults
	v.SetDefault("sdk.driver", DriverMemory)
	v.SetDefault("sdk.url", "http://localhost:8545")
	v.SetDefault("sdk.token", "")
	v.SetDefault("sdk.timeout", 10)

	// Plan defaults
	v.SetDefault("plan.variant", "standard")
	v.SetDefault("plan.flashblocks_wait_ms", 100)
	v.SetDefault("runner.probe_timeout", 0)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topics.runs", "probe-runs")
	v.SetDefault("kafka.topics.outcomes", "probe-outcomes")
	v.SetDefault("kafka.topics.logs", "probe-logs")

	// Server defaults
	v.SetDefault("server.port", "8081")

	v.SetDefault("storage.path", "./data/preferences")
}

// Validate rejects settings the agent cannot start with.
func (c *Config) Validate() error {
	switch c.SDK.Driver {
	case DriverMemory, DriverGateway:
	default:
		return fmt.Errorf("unknown sdk driver %q", c.SDK.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled without brokers")
	}
	if c.Runner.ProbeTimeout < 0 {
		return fmt.Errorf("runner.probe_timeout must not be negative")
	}
	return nil
}

func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Agent.PollInterval) * time.Second
}

func (c *Config) GetSDKTimeout() time.Duration {
	return time.Duration(c.SDK.Timeout) * time.Second
}

func (c *Config) GetProbeTimeout() time.Duration {
	return time.Duration(c.Runner.ProbeTimeout) * time.Second
}

func (c *Config) GetFlashblocksWait() time.Duration {
	return time.Duration(c.Plan.FlashblocksWait) * time.Millisecond
}
