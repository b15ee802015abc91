package loader_test

import (
	"os"
	"testing"
	"time"

	"textmill/internal/infra/loader"
)

func TestDefaultConfig(t *testing.T) {
	cfg := loader.DefaultConfig()

	// Verify all default values
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("expected CacheTTL=15m, got %v", cfg.CacheTTL)
	}

	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected Timeout=30s, got %v", cfg.Timeout)
	}

	if cfg.RateLimit != 2 {
		t.Errorf("expected RateLimit=2, got %v", cfg.RateLimit)
	}

	if cfg.RateBurst != 4 {
		t.Errorf("expected RateBurst=4, got %d", cfg.RateBurst)
	}

	if cfg.MaxBodySize != 20*1024*1024 {
		t.Errorf("expected MaxBodySize=20MB, got %d", cfg.MaxBodySize)
	}

	if cfg.MaxRedirects != 5 {
		t.Errorf("expected MaxRedirects=5, got %d", cfg.MaxRedirects)
	}

	if !cfg.DenyPrivateIPs {
		t.Error("expected DenyPrivateIPs=true by default (security)")
	}

	if !cfg.AllowLocalFiles {
		t.Error("expected AllowLocalFiles=true by default")
	}

	// Verify default config is valid
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
}

func TestConfigValidate_Valid(t *testing.T) {
	cfg := loader.SourceLoadConfig{
		CacheTTL:        time.Hour,
		Timeout:         15 * time.Second,
		RateLimit:       5,
		RateBurst:       10,
		MaxBodySize:     50 * 1024 * 1024,
		MaxRedirects:    3,
		DenyPrivateIPs:  true,
		AllowLocalFiles: false,
	}

	err := cfg.Validate()
	if err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfigValidate_ZeroCacheTTL(t *testing.T) {
	// Zero TTL is valid (means caching disabled)
	cfg := loader.DefaultConfig()
	cfg.CacheTTL = 0

	err := cfg.Validate()
	if err != nil {
		t.Errorf("expected valid config for CacheTTL=0, got error: %v", err)
	}
}

func TestConfigValidate_NegativeCacheTTL(t *testing.T) {
	cfg := loader.DefaultConfig()
	cfg.CacheTTL = -time.Minute

	err := cfg.Validate()
	if err == nil {
		t.Error("expected validation error for negative cache TTL")
	}
}

func TestConfigValidate_InvalidTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "zero timeout",
			timeout: 0,
		},
		{
			name:    "negative timeout",
			timeout: -1 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loader.DefaultConfig()
			cfg.Timeout = tt.timeout

			err := cfg.Validate()
			if err == nil {
				t.Errorf("expected validation error for timeout=%v", tt.timeout)
			}
		})
	}
}

func TestConfigValidate_InvalidRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		rateLimit  float64
		rateBurst  int
		shouldFail bool
	}{
		{
			name:       "zero rate limit",
			rateLimit:  0,
			rateBurst:  4,
			shouldFail: true,
		},
		{
			name:       "negative rate limit",
			rateLimit:  -1,
			rateBurst:  4,
			shouldFail: true,
		},
		{
			name:       "fractional rate limit",
			rateLimit:  0.5,
			rateBurst:  1,
			shouldFail: false,
		},
		{
			name:       "zero burst",
			rateLimit:  2,
			rateBurst:  0,
			shouldFail: true,
		},
		{
			name:       "burst at min boundary",
			rateLimit:  2,
			rateBurst:  1,
			shouldFail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loader.DefaultConfig()
			cfg.RateLimit = tt.rateLimit
			cfg.RateBurst = tt.rateBurst

			err := cfg.Validate()
			if tt.shouldFail {
				if err == nil {
					t.Errorf("expected validation error for RateLimit=%v RateBurst=%d", tt.rateLimit, tt.rateBurst)
				}
			} else {
				if err != nil {
					t.Errorf("expected valid config for RateLimit=%v RateBurst=%d, got error: %v", tt.rateLimit, tt.rateBurst, err)
				}
			}
		})
	}
}

func TestConfigValidate_InvalidMaxBodySize(t *testing.T) {
	tests := []struct {
		name        string
		maxBodySize int64
		shouldFail  bool
	}{
		{
			name:        "zero size",
			maxBodySize: 0,
			shouldFail:  true,
		},
		{
			name:        "below minimum (1KB)",
			maxBodySize: 500,
			shouldFail:  true,
		},
		{
			name:        "at minimum boundary (1KB)",
			maxBodySize: 1024,
			shouldFail:  false,
		},
		{
			name:        "at maximum boundary (100MB)",
			maxBodySize: 100 * 1024 * 1024,
			shouldFail:  false,
		},
		{
			name:        "above maximum (200MB)",
			maxBodySize: 200 * 1024 * 1024,
			shouldFail:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loader.DefaultConfig()
			cfg.MaxBodySize = tt.maxBodySize

			err := cfg.Validate()
			if tt.shouldFail {
				if err == nil {
					t.Errorf("expected validation error for MaxBodySize=%d", tt.maxBodySize)
				}
			} else {
				if err != nil {
					t.Errorf("expected valid config for MaxBodySize=%d, got error: %v", tt.maxBodySize, err)
				}
			}
		})
	}
}

func TestConfigValidate_InvalidMaxRedirects(t *testing.T) {
	tests := []struct {
		name         string
		maxRedirects int
		shouldFail   bool
	}{
		{
			name:         "negative redirects",
			maxRedirects: -1,
			shouldFail:   true,
		},
		{
			name:         "at minimum boundary (0)",
			maxRedirects: 0,
			shouldFail:   false,
		},
		{
			name:         "at maximum boundary (10)",
			maxRedirects: 10,
			shouldFail:   false,
		},
		{
			name:         "above maximum (11)",
			maxRedirects: 11,
			shouldFail:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loader.DefaultConfig()
			cfg.MaxRedirects = tt.maxRedirects

			err := cfg.Validate()
			if tt.shouldFail {
				if err == nil {
					t.Errorf("expected validation error for MaxRedirects=%d", tt.maxRedirects)
				}
			} else {
				if err != nil {
					t.Errorf("expected valid config for MaxRedirects=%d, got error: %v", tt.maxRedirects, err)
				}
			}
		})
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	// Clear all environment variables
	envVars := []string{
		"SOURCE_LOAD_CACHE_TTL",
		"SOURCE_LOAD_TIMEOUT",
		"SOURCE_LOAD_RATE_LIMIT",
		"SOURCE_LOAD_RATE_BURST",
		"SOURCE_LOAD_MAX_BODY_SIZE",
		"SOURCE_LOAD_MAX_REDIRECTS",
		"SOURCE_LOAD_DENY_PRIVATE_IPS",
		"SOURCE_LOAD_ALLOW_LOCAL_FILES",
	}

	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}

	cfg, err := loader.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	// Should match default config
	defaultCfg := loader.DefaultConfig()

	if cfg.CacheTTL != defaultCfg.CacheTTL {
		t.Errorf("expected CacheTTL=%v, got %v", defaultCfg.CacheTTL, cfg.CacheTTL)
	}

	if cfg.Timeout != defaultCfg.Timeout {
		t.Errorf("expected Timeout=%v, got %v", defaultCfg.Timeout, cfg.Timeout)
	}

	if cfg.RateLimit != defaultCfg.RateLimit {
		t.Errorf("expected RateLimit=%v, got %v", defaultCfg.RateLimit, cfg.RateLimit)
	}

	if cfg.RateBurst != defaultCfg.RateBurst {
		t.Errorf("expected RateBurst=%d, got %d", defaultCfg.RateBurst, cfg.RateBurst)
	}

	if cfg.MaxBodySize != defaultCfg.MaxBodySize {
		t.Errorf("expected MaxBodySize=%d, got %d", defaultCfg.MaxBodySize, cfg.MaxBodySize)
	}

	if cfg.MaxRedirects != defaultCfg.MaxRedirects {
		t.Errorf("expected MaxRedirects=%d, got %d", defaultCfg.MaxRedirects, cfg.MaxRedirects)
	}

	if cfg.DenyPrivateIPs != defaultCfg.DenyPrivateIPs {
		t.Errorf("expected DenyPrivateIPs=%v, got %v", defaultCfg.DenyPrivateIPs, cfg.DenyPrivateIPs)
	}

	if cfg.AllowLocalFiles != defaultCfg.AllowLocalFiles {
		t.Errorf("expected AllowLocalFiles=%v, got %v", defaultCfg.AllowLocalFiles, cfg.AllowLocalFiles)
	}
}

func TestLoadConfigFromEnv_CustomValues(t *testing.T) {
	// Set custom environment variables
	_ = os.Setenv("SOURCE_LOAD_CACHE_TTL", "1h")
	_ = os.Setenv("SOURCE_LOAD_TIMEOUT", "20s")
	_ = os.Setenv("SOURCE_LOAD_RATE_LIMIT", "0.5")
	_ = os.Setenv("SOURCE_LOAD_RATE_BURST", "2")
	_ = os.Setenv("SOURCE_LOAD_MAX_BODY_SIZE", "10485760") // 10MB
	_ = os.Setenv("SOURCE_LOAD_MAX_REDIRECTS", "3")
	_ = os.Setenv("SOURCE_LOAD_DENY_PRIVATE_IPS", "false")
	_ = os.Setenv("SOURCE_LOAD_ALLOW_LOCAL_FILES", "false")

	defer func() {
		// Clean up
		_ = os.Unsetenv("SOURCE_LOAD_CACHE_TTL")
		_ = os.Unsetenv("SOURCE_LOAD_TIMEOUT")
		_ = os.Unsetenv("SOURCE_LOAD_RATE_LIMIT")
		_ = os.Unsetenv("SOURCE_LOAD_RATE_BURST")
		_ = os.Unsetenv("SOURCE_LOAD_MAX_BODY_SIZE")
		_ = os.Unsetenv("SOURCE_LOAD_MAX_REDIRECTS")
		_ = os.Unsetenv("SOURCE_LOAD_DENY_PRIVATE_IPS")
		_ = os.Unsetenv("SOURCE_LOAD_ALLOW_LOCAL_FILES")
	}()

	cfg, err := loader.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	// Verify custom values
	if cfg.CacheTTL != time.Hour {
		t.Errorf("expected CacheTTL=1h, got %v", cfg.CacheTTL)
	}

	if cfg.Timeout != 20*time.Second {
		t.Errorf("expected Timeout=20s, got %v", cfg.Timeout)
	}

	if cfg.RateLimit != 0.5 {
		t.Errorf("expected RateLimit=0.5, got %v", cfg.RateLimit)
	}

	if cfg.RateBurst != 2 {
		t.Errorf("expected RateBurst=2, got %d", cfg.RateBurst)
	}

	if cfg.MaxBodySize != 10485760 {
		t.Errorf("expected MaxBodySize=10485760, got %d", cfg.MaxBodySize)
	}

	if cfg.MaxRedirects != 3 {
		t.Errorf("expected MaxRedirects=3, got %d", cfg.MaxRedirects)
	}

	if cfg.DenyPrivateIPs != false {
		t.Errorf("expected DenyPrivateIPs=false, got %v", cfg.DenyPrivateIPs)
	}

	if cfg.AllowLocalFiles != false {
		t.Errorf("expected AllowLocalFiles=false, got %v", cfg.AllowLocalFiles)
	}
}

func TestLoadConfigFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{
			name:   "invalid cache TTL (wrong format)",
			envVar: "SOURCE_LOAD_CACHE_TTL",
			value:  "15",
		},
		{
			name:   "invalid timeout (wrong format)",
			envVar: "SOURCE_LOAD_TIMEOUT",
			value:  "10",
		},
		{
			name:   "invalid rate limit (not a number)",
			envVar: "SOURCE_LOAD_RATE_LIMIT",
			value:  "fast",
		},
		{
			name:   "invalid rate burst (not a number)",
			envVar: "SOURCE_LOAD_RATE_BURST",
			value:  "some",
		},
		{
			name:   "invalid max body size (not a number)",
			envVar: "SOURCE_LOAD_MAX_BODY_SIZE",
			value:  "huge",
		},
		{
			name:   "invalid max redirects (not a number)",
			envVar: "SOURCE_LOAD_MAX_REDIRECTS",
			value:  "few",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = os.Setenv(tt.envVar, tt.value)
			defer func() { _ = os.Unsetenv(tt.envVar) }()

			_, err := loader.LoadConfigFromEnv()
			if err == nil {
				t.Errorf("expected error for invalid %s=%q, got nil", tt.envVar, tt.value)
			}
		})
	}
}

func TestLoadConfigFromEnv_InvalidValidation(t *testing.T) {
	// Set value that parses correctly but fails validation
	_ = os.Setenv("SOURCE_LOAD_MAX_REDIRECTS", "50")
	defer func() { _ = os.Unsetenv("SOURCE_LOAD_MAX_REDIRECTS") }()

	_, err := loader.LoadConfigFromEnv()
	if err == nil {
		t.Error("expected validation error for out-of-range max redirects, got nil")
	}
}

func TestLoadConfigFromEnv_PartialCustom(t *testing.T) {
	// Set only some environment variables, others should use defaults
	_ = os.Setenv("SOURCE_LOAD_CACHE_TTL", "5m")
	_ = os.Setenv("SOURCE_LOAD_RATE_BURST", "8")
	defer func() {
		_ = os.Unsetenv("SOURCE_LOAD_CACHE_TTL")
		_ = os.Unsetenv("SOURCE_LOAD_RATE_BURST")
	}()

	cfg, err := loader.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	// Verify custom values
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected CacheTTL=5m, got %v", cfg.CacheTTL)
	}

	if cfg.RateBurst != 8 {
		t.Errorf("expected RateBurst=8, got %d", cfg.RateBurst)
	}

	// Verify defaults for unset values
	defaultCfg := loader.DefaultConfig()
	if cfg.Timeout != defaultCfg.Timeout {
		t.Errorf("expected Timeout=%v (default), got %v", defaultCfg.Timeout, cfg.Timeout)
	}

	if cfg.MaxBodySize != defaultCfg.MaxBodySize {
		t.Errorf("expected MaxBodySize=%d (default), got %d", defaultCfg.MaxBodySize, cfg.MaxBodySize)
	}
}
