// Package config loads and validates the fleet monitor's configuration from
// a JSON file plus EMS_-style environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Collector CollectorConfig `mapstructure:"collector" validate:"required"`
	Remote    RemoteConfig    `mapstructure:"remote" validate:"required"`
	HTTP      HTTPConfig      `mapstructure:"http" validate:"required"`
	Batteries []BatteryConfig `mapstructure:"batteries" validate:"required,min=1,dive"`
	Logger    LoggerConfig    `mapstructure:"logger" validate:"required"`
}

// CollectorConfig controls the poll/buffer/push-pull behavior of the fleet
// poller.
type CollectorConfig struct {
	PollInterval        time.Duration `mapstructure:"poll_interval" validate:"required,aligned_interval"`
	BufferWindowMinutes int           `mapstructure:"buffer_window_minutes" validate:"required,min=1"`
	DisablePush         bool          `mapstructure:"disable_push"`
	DisablePull         bool          `mapstructure:"disable_pull"`
}

// RemoteConfig points at the remote time-series sink used for both the push
// writer and the PromQL read-path client.
type RemoteConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// HTTPConfig configures the two HTTP listeners: the control API and the
// Prometheus scrape endpoint.
type HTTPConfig struct {
	ControlPort int `mapstructure:"control_port" validate:"required,min=1,max=65535"`
	ScrapePort  int `mapstructure:"scrape_port" validate:"required,min=1,max=65535,nefield=ControlPort"`
}

// BatteryConfig identifies one physical battery and how to reach it.
type BatteryConfig struct {
	ID        string `mapstructure:"id" validate:"required"`
	Transport string `mapstructure:"transport" validate:"required,oneof=serial ble"`

	// Serial transport fields.
	Path string `mapstructure:"path" validate:"required_if=Transport serial"`
	Baud int    `mapstructure:"baud"`

	// BLE transport fields.
	MAC     string `mapstructure:"mac"`
	Adapter string `mapstructure:"adapter"`

	// Addresses lists known slave addresses for this battery entry; if
	// empty, address-band discovery runs instead.
	Addresses []byte `mapstructure:"addresses"`
}

// LoggerConfig controls the structured logger.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// Load reads configuration from configPath (or ./configs/config.json, then
// ./config.json, if empty), applies EMS_-prefixed environment overrides,
// and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EMS")
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("collector.poll_interval")
	v.BindEnv("collector.buffer_window_minutes")
	v.BindEnv("collector.disable_push")
	v.BindEnv("collector.disable_pull")
	v.BindEnv("remote.url")
	v.BindEnv("http.control_port")
	v.BindEnv("http.scrape_port")
	v.BindEnv("logger.level")
	v.BindEnv("logger.format")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("collector.poll_interval", 10*time.Second)
	v.SetDefault("collector.buffer_window_minutes", 30)
	v.SetDefault("collector.disable_push", false)
	v.SetDefault("collector.disable_pull", false)

	v.SetDefault("http.control_port", 8080)
	v.SetDefault("http.scrape_port", 9100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

// Validate runs struct-tag validation, including the custom aligned_interval
// validator registered in validator.go.
func (c *Config) Validate() error {
	return sharedValidator.Struct(c)
}
