package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		PostgresHost:      "localhost",
		PostgresDB:        "paygate",
		PaystackSecretKey: "sk_test",
		SiteURL:           "https://guide.example.com",
		AccessTokenSecret: "token-secret",
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing paystack secret", func(c *Config) { c.PaystackSecretKey = "" }},
		{"missing site url", func(c *Config) { c.SiteURL = "" }},
		{"missing token secret", func(c *Config) { c.AccessTokenSecret = "" }},
		{"missing db name", func(c *Config) { c.PostgresDB = "" }},
		{"missing db host", func(c *Config) { c.PostgresHost = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test")
	t.Setenv("SITE_URL", "https://guide.example.com")
	t.Setenv("ACCESS_TOKEN_SECRET", "token-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PostgresPort != 5432 {
		t.Errorf("expected default postgres port, got %d", cfg.PostgresPort)
	}
	if cfg.PaystackBaseURL != "https://api.paystack.co" {
		t.Errorf("expected default gateway base URL, got %q", cfg.PaystackBaseURL)
	}
	if cfg.GatewayTimeout != 15*time.Second {
		t.Errorf("expected default gateway timeout, got %v", cfg.GatewayTimeout)
	}
	if cfg.GuideURL() != "https://guide.example.com/guide" {
		t.Errorf("unexpected guide URL %q", cfg.GuideURL())
	}
}
