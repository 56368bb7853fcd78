package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://127.0.0.1:0",
			Timeout:   5 * time.Second,
			UserAgent: "rssview-test/1.0",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:0",
			UpstreamTimeout:   5 * time.Second,
			UserAgent:         "rssview-test/1.0",
			RequestsPerSecond: 100,
			Burst:             100,
			AllowPrivate:      true, // httptest servers listen on loopback
		},
		Log: LogConfig{Level: "off"},
		UI:  defaultConfig().UI,
	}
}
