package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8081, MaxBodyBytes: 1 << 20},
		MealSource: MealSourceConfig{
			Enabled: true,
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		PlanStore: PlanStoreConfig{Enabled: true, BaseURL: "http://localhost:8080"},
		SaveQueue: QueueConfig{Workers: 2, MaxSize: 100, JobTimeout: 15 * time.Second},
		Cache: CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
		RateLimit: RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute},
		Policy:    PolicyConfig{PeriodIssuesMaxAge: 55, SupervisionAge: 70},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, true},
		{"missing meal source url", func(c *Config) { c.MealSource.BaseURL = "" }, true},
		{"meal source disabled without url", func(c *Config) {
			c.MealSource.Enabled = false
			c.MealSource.BaseURL = ""
		}, false},
		{"missing plan store url", func(c *Config) { c.PlanStore.BaseURL = "" }, true},
		{"bad save queue", func(c *Config) { c.SaveQueue.Workers = 0 }, true},
		{"save queue ignored without plan store", func(c *Config) {
			c.PlanStore.Enabled = false
			c.SaveQueue = QueueConfig{}
		}, false},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without address", func(c *Config) { c.Cache.Backend = "redis" }, true},
		{"redis with address", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = "localhost:6379"
		}, false},
		{"cache disabled ignores backend", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.Backend = ""
		}, false},
		{"bad rate limit", func(c *Config) { c.RateLimit.Requests = 0 }, true},
		{"bad policy", func(c *Config) { c.Policy.SupervisionAge = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CACHE_BACKEND", "RATE_LIMIT_WINDOW", "MEAL_SOURCE_URL", "DEDUP_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.RateLimit.Window != time.Minute {
		t.Errorf("rate limit window = %v", cfg.RateLimit.Window)
	}
	if cfg.SaveQueue.Workers != 2 || cfg.SaveQueue.JobTimeout != 15*time.Second {
		t.Errorf("save queue = %+v", cfg.SaveQueue)
	}
	if cfg.DedupWindow != time.Second {
		t.Errorf("dedup window = %v", cfg.DedupWindow)
	}
	if cfg.Policy.PeriodIssuesMaxAge != 55 || cfg.Policy.SupervisionAge != 70 {
		t.Errorf("policy = %+v", cfg.Policy)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MEAL_SOURCE_URL", "http://meals.internal")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.MealSource.BaseURL != "http://meals.internal" {
		t.Errorf("meal source url = %q", cfg.MealSource.BaseURL)
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("window = %v", cfg.RateLimit.Window)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}
	if got := maskAPIKey("abcd1234efgh5678"); got != "abcd...5678" {
		t.Errorf("maskAPIKey = %q", got)
	}
}
