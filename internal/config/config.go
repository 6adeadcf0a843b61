// Package config loads the YAML configuration shared by the bridge and
// the simulator binaries. Durations are plain millisecond integers in
// the file; use the helper methods for time.Duration values.
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Sim       SimConfig       `yaml:"sim"`
	Log       LogConfig       `yaml:"log"`
}

// SimulatorConfig is the bridge side: where the input simulator lives
// and the timing of the connection to it.
type SimulatorConfig struct {
	URL                 string `yaml:"url"`
	ReconnectIntervalMS int    `yaml:"reconnect_interval_ms"`
	DialTimeoutMS       int    `yaml:"dial_timeout_ms"`
	WriteTimeoutMS      int    `yaml:"write_timeout_ms"`
}

func (c SimulatorConfig) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalMS) * time.Millisecond
}

func (c SimulatorConfig) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMS) * time.Millisecond
}

func (c SimulatorConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// SimConfig is the padsim side: listen address, connection cap, and the
// demo event generator.
type SimConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	MaxConnections int    `yaml:"max_connections"`
	Demo           bool   `yaml:"demo"`
	DemoIntervalMS int    `yaml:"demo_interval_ms"`
}

func (c SimConfig) DemoInterval() time.Duration {
	return time.Duration(c.DemoIntervalMS) * time.Millisecond
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			URL:                 "ws://127.0.0.1:8765/ws",
			ReconnectIntervalMS: 5000,
			DialTimeoutMS:       5000,
			WriteTimeoutMS:      10000,
		},
		Sim: SimConfig{
			ListenAddr:     "127.0.0.1:8765",
			MaxConnections: 8,
			Demo:           false,
			DemoIntervalMS: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path and unmarshals it over the defaults, so a partial
// file only overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to the
// defaults when it does not. Parse failures still error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}
