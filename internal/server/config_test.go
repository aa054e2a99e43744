package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, `
server {
  address = "0.0.0.0"
  port    = 9000
}

table "main" {
  small_blind = 10
  big_blind   = 20
}

table "highroller" {
  seats                = 9
  small_blind          = 100
  big_blind            = 200
  buy_in_min           = 10000
  buy_in_max           = 100000
  turn_timeout_seconds = 15
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	require.Len(t, cfg.Tables, 2)

	// Defaults fill in what the file omits
	main := cfg.Tables[0]
	assert.Equal(t, 6, main.Seats)
	assert.Equal(t, 20*50, main.BuyInMin)
	assert.Equal(t, 20*500, main.BuyInMax)
	assert.Equal(t, 30, main.TurnTimeoutSeconds)

	high := cfg.Tables[1]
	assert.Equal(t, 9, high.Seats)
	assert.Equal(t, 10000, high.BuyInMin)
	assert.Equal(t, 15, high.TurnTimeoutSeconds)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	require.Len(t, cfg.Tables, 1)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()
	path := writeConfigFile(t, `table "broken" {`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no tables", func(c *Config) { c.Tables = nil }},
		{"zero small blind", func(c *Config) { c.Tables[0].SmallBlind = 0 }},
		{"big blind below small", func(c *Config) { c.Tables[0].BigBlind = c.Tables[0].SmallBlind }},
		{"too many seats", func(c *Config) { c.Tables[0].Seats = 11 }},
		{"inverted buy-in range", func(c *Config) { c.Tables[0].BuyInMin = c.Tables[0].BuyInMax }},
		{"duplicate names", func(c *Config) { c.Tables = append(c.Tables, c.Tables[0]) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
