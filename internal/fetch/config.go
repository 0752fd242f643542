package fetch

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences page retrieval.
// All values originate from Viper so fetching can be configured via files,
// env vars, or CLI flags.
type Config struct {
	UserAgent            string
	RequestTimeout       time.Duration
	RateLimitPerDomain   int
	IgnoreRobots         bool
	RetryMaxAttempts     int
	RenderEnabled        bool
	RenderTimeout        time.Duration
	RenderNavWait        time.Duration
	RenderMaxConcurrency int
	RenderDomainQPS      float64
	RenderHeadful        bool
	DetectorMinHTMLBytes int
	DetectorSignals      []string
	DetectorKeywords     []string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		UserAgent:            v.GetString("scraper.user_agent"),
		RequestTimeout:       v.GetDuration("scraper.request_timeout"),
		RateLimitPerDomain:   v.GetInt("scraper.rate_limit_per_domain"),
		IgnoreRobots:         v.GetBool("scraper.ignore_robots"),
		RetryMaxAttempts:     v.GetInt("scraper.retry_max_attempts"),
		RenderEnabled:        v.GetBool("render.enabled"),
		RenderTimeout:        v.GetDuration("render.timeout"),
		RenderNavWait:        v.GetDuration("render.nav_wait"),
		RenderMaxConcurrency: v.GetInt("render.max_concurrency"),
		RenderDomainQPS:      v.GetFloat64("render.domain_qps"),
		RenderHeadful:        v.GetBool("render.headful"),
		DetectorMinHTMLBytes: v.GetInt("detector.min_html_bytes"),
		DetectorSignals:      splitSelectors(v.GetString("detector.signal_selectors")),
		DetectorKeywords:     normalizeKeywords(v.GetStringSlice("detector.keywords")),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if c.RateLimitPerDomain <= 0 {
		return fmt.Errorf("scraper.rate_limit_per_domain must be > 0")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("scraper.retry_max_attempts must be > 0")
	}
	if c.RenderTimeout <= 0 {
		return fmt.Errorf("render.timeout must be > 0")
	}
	if c.RenderNavWait < 0 {
		return fmt.Errorf("render.nav_wait must be >= 0")
	}
	if c.RenderMaxConcurrency < 0 {
		return fmt.Errorf("render.max_concurrency must be >= 0")
	}
	if c.RenderDomainQPS < 0 {
		return fmt.Errorf("render.domain_qps must be >= 0")
	}
	if c.DetectorMinHTMLBytes < 0 {
		return fmt.Errorf("detector.min_html_bytes must be >= 0")
	}
	return nil
}

func splitSelectors(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
