// Package config initializes the application's configuration. It uses
// Viper to merge settings from a config file, environment variables, and
// command-line flags into one tree the component loaders read from.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets defaults, defines the config search paths, and enables
// environment variables. Called once at startup from the cobra hook;
// an explicit cfgFile skips the search paths.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/patchvault/")
		viper.AddConfigPath("$HOME/.patchvault")
	}

	const defaultUA = "PatchVault/1.0 (+https://github.com/jbalsam/patchvault)"
	viper.SetDefault("scraper.user_agent", defaultUA)
	viper.SetDefault("scraper.url_file", "patch-urls.txt")
	viper.SetDefault("scraper.out_dir", "patch-json")
	viper.SetDefault("scraper.overwrite", false)
	viper.SetDefault("scraper.request_timeout", "30s")
	viper.SetDefault("scraper.rate_limit_per_domain", 2)
	viper.SetDefault("scraper.ignore_robots", false)
	viper.SetDefault("scraper.retry_max_attempts", 3)

	viper.SetDefault("render.enabled", true)
	viper.SetDefault("render.timeout", "30s")
	viper.SetDefault("render.nav_wait", "15s")
	viper.SetDefault("render.max_concurrency", 2)
	viper.SetDefault("render.domain_qps", 0.5)
	viper.SetDefault("render.headful", false)

	viper.SetDefault("detector.min_html_bytes", 2048)
	viper.SetDefault("detector.signal_selectors", `ul a[href^="#"],h1 strong,h1 ~ h1`)
	viper.SetDefault("detector.keywords", []string{
		"__NEXT_DATA__",
		"data-reactroot",
		"enable javascript",
	})

	viper.SetDefault("archive.file", "README.md")

	viper.SetDefault("store.provider", "fs")
	viper.SetDefault("store.gcs.prefix", "patches")

	viper.SetDefault("history.provider", "noop")
	viper.SetDefault("history.postgres.table", "patch_scrapes")

	viper.SetDefault("notify.provider", "noop")

	viper.SetDefault("server.listen_addr", "")
	viper.SetDefault("logging.development", false)

	viper.SetEnvPrefix("PATCHVAULT") // e.g. PATCHVAULT_SCRAPER_OUT_DIR=/var/patches
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("config file not found; using defaults and environment variables")
		} else {
			logging.L.Error("error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
