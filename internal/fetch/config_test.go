package fetch

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsViper(t *testing.T) {
	v := viper.New()
	v.Set("scraper.user_agent", "patchvault/1.0")
	v.Set("scraper.request_timeout", "10s")
	v.Set("scraper.rate_limit_per_domain", 2)
	v.Set("scraper.ignore_robots", true)
	v.Set("scraper.retry_max_attempts", 3)
	v.Set("render.enabled", true)
	v.Set("render.timeout", "25s")
	v.Set("render.nav_wait", "6s")
	v.Set("render.max_concurrency", 2)
	v.Set("render.domain_qps", 0.5)
	v.Set("detector.min_html_bytes", 2048)
	v.Set("detector.signal_selectors", `ul a[href^="#"], h1 strong, `)
	v.Set("detector.keywords", []string{"__NEXT_DATA__", " __NEXT_DATA__ ", ""})

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "patchvault/1.0", cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.RateLimitPerDomain)
	assert.True(t, cfg.IgnoreRobots)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.True(t, cfg.RenderEnabled)
	assert.Equal(t, 25*time.Second, cfg.RenderTimeout)
	assert.Equal(t, 6*time.Second, cfg.RenderNavWait)
	assert.Equal(t, 2, cfg.RenderMaxConcurrency)
	assert.Equal(t, 0.5, cfg.RenderDomainQPS)
	assert.Equal(t, 2048, cfg.DetectorMinHTMLBytes)
	assert.Equal(t, []string{`ul a[href^="#"]`, "h1 strong"}, cfg.DetectorSignals)
	assert.Equal(t, []string{"__NEXT_DATA__"}, cfg.DetectorKeywords)
}

func TestLoadConfigRejectsEmptyViper(t *testing.T) {
	_, err := LoadConfig(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.user_agent")
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{
			UserAgent:            "ua",
			RequestTimeout:       time.Second,
			RateLimitPerDomain:   2,
			RetryMaxAttempts:     3,
			RenderTimeout:        time.Second,
			RenderMaxConcurrency: 1,
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"render knobs at rest are valid", func(c *Config) {
			c.RenderNavWait = 0
			c.RenderMaxConcurrency = 0
		}, ""},
		{"missing user agent", func(c *Config) { c.UserAgent = "" }, "scraper.user_agent"},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, "scraper.request_timeout"},
		{"zero domain rate", func(c *Config) { c.RateLimitPerDomain = 0 }, "scraper.rate_limit_per_domain"},
		{"zero retry attempts", func(c *Config) { c.RetryMaxAttempts = 0 }, "scraper.retry_max_attempts"},
		{"zero render timeout", func(c *Config) { c.RenderTimeout = 0 }, "render.timeout"},
		{"negative nav wait", func(c *Config) { c.RenderNavWait = -time.Second }, "render.nav_wait"},
		{"negative render concurrency", func(c *Config) { c.RenderMaxConcurrency = -1 }, "render.max_concurrency"},
		{"negative domain qps", func(c *Config) { c.RenderDomainQPS = -1 }, "render.domain_qps"},
		{"negative detector threshold", func(c *Config) { c.DetectorMinHTMLBytes = -1 }, "detector.min_html_bytes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
