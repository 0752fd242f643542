package pipeline

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config controls Pipeline behavior. Topic is not read from Viper here; the
// owner of the publisher decides which topic events go to.
type Config struct {
	URLFile   string
	Overwrite bool
	Topic     string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		URLFile:   v.GetString("scraper.url_file"),
		Overwrite: v.GetBool("scraper.overwrite"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration.
func (c Config) Validate() error {
	if c.URLFile == "" {
		return fmt.Errorf("scraper.url_file must be set")
	}
	return nil
}
