package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete daemon configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one table
type TableConfig struct {
	Name               string `hcl:"name,label"`
	Seats              int    `hcl:"seats,optional"`
	SmallBlind         int    `hcl:"small_blind"`
	BigBlind           int    `hcl:"big_blind"`
	BuyInMin           int    `hcl:"buy_in_min,optional"`
	BuyInMax           int    `hcl:"buy_in_max,optional"`
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
}

// TurnTimeout returns the configured timeout as a duration
func (t TableConfig) TurnTimeout() time.Duration {
	return time.Duration(t.TurnTimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:               "main",
				Seats:              6,
				SmallBlind:         25,
				BigBlind:           50,
				BuyInMin:           2500,
				BuyInMax:           25000,
				TurnTimeoutSeconds: 30,
			},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}

	for i := range config.Tables {
		t := &config.Tables[i]
		if t.Seats == 0 {
			t.Seats = 6
		}
		if t.BuyInMin == 0 {
			t.BuyInMin = t.BigBlind * 50
		}
		if t.BuyInMax == 0 {
			t.BuyInMax = t.BigBlind * 500
		}
		if t.TurnTimeoutSeconds == 0 {
			t.TurnTimeoutSeconds = 30
		}
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name: %s", t.Name)
		}
		seen[t.Name] = true
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", t.Name)
		}
		if t.Seats < 2 || t.Seats > 10 {
			return fmt.Errorf("table %s: seats must be between 2 and 10", t.Name)
		}
		if t.BuyInMin >= t.BuyInMax {
			return fmt.Errorf("table %s: buy-in minimum must be less than maximum", t.Name)
		}
	}
	return nil
}

// ListenAddress returns the host:port the server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
