package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Adapters []AdapterConfig `mapstructure:"adapters"`
	Capture  CaptureConfig   `mapstructure:"capture"`
	State    StateConfig     `mapstructure:"state"`
	API      APIConfig       `mapstructure:"api"`
	Security SecurityConfig  `mapstructure:"security"`
	Alerts   AlertsConfig    `mapstructure:"alerts"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

type AdapterConfig struct {
	Name          string `mapstructure:"name"`
	Driver        string `mapstructure:"driver"`
	MAC           string `mapstructure:"mac"`
	IP            string `mapstructure:"ip"`
	Netmask       string `mapstructure:"netmask"`
	Gateway       string `mapstructure:"gateway"`
	MTU           int    `mapstructure:"mtu"`
	QueueCapacity int    `mapstructure:"queue_capacity"`
}

type CaptureConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	SnapLen int    `mapstructure:"snap_len"`
}

type StateConfig struct {
	Path            string `mapstructure:"path"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

type APIConfig struct {
	Address string `mapstructure:"address"`
}

type SecurityConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	RequireAuth bool          `mapstructure:"require_auth"`
	Tokens      []TokenConfig `mapstructure:"tokens"`
}

type TokenConfig struct {
	Value string `mapstructure:"value"`
	Role  string `mapstructure:"role"`
}

type AlertsConfig struct {
	RxDropsThreshold  uint64 `mapstructure:"rx_drops_threshold"`
	TxErrorsThreshold uint64 `mapstructure:"tx_errors_threshold"`
}

type MetricsConfig struct {
	Address string              `mapstructure:"address"`
	Path    string              `mapstructure:"path"`
	Export  MetricsExportConfig `mapstructure:"export"`
}

type MetricsExportConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	RemoteWriteURL  string `mapstructure:"remote_write_url"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return finish(v)
}

// LoadFromBytes parses a YAML config held in memory. Used by tests and
// config validation tooling.
func LoadFromBytes(data []byte) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	for i := range cfg.Adapters {
		if cfg.Adapters[i].Driver == "" {
			cfg.Adapters[i].Driver = "tap"
		}
		if cfg.Adapters[i].MTU == 0 {
			cfg.Adapters[i].MTU = 1500
		}
		if cfg.Adapters[i].QueueCapacity == 0 {
			cfg.Adapters[i].QueueCapacity = 512
		}
	}
	if cfg.Capture.SnapLen == 0 {
		cfg.Capture.SnapLen = 65536
	}
	if cfg.State.Path == "" {
		cfg.State.Path = "state/adapters.msgpack"
	}
	if cfg.State.IntervalSeconds == 0 {
		cfg.State.IntervalSeconds = 60
	}
	if cfg.API.Address == "" {
		cfg.API.Address = ":8080"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func validate(cfg *Config) error {
	for i, ad := range cfg.Adapters {
		if ad.Name == "" {
			return fmt.Errorf("adapters[%d].name is required", i)
		}
		switch ad.Driver {
		case "tap", "loopback":
		default:
			return fmt.Errorf("adapters[%d].driver %q is not supported", i, ad.Driver)
		}
		if ad.MTU < 68 {
			return fmt.Errorf("adapters[%d].mtu %d below IPv4 minimum", i, ad.MTU)
		}
	}
	if cfg.Capture.Enabled && cfg.Capture.Path == "" {
		return fmt.Errorf("capture.path is required when capture is enabled")
	}
	return nil
}
