package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/api"
	"github.com/jbalsam/patchvault/internal/app"
	"github.com/jbalsam/patchvault/internal/history"
	"github.com/jbalsam/patchvault/internal/logging"
	"github.com/jbalsam/patchvault/internal/notify"
	"github.com/jbalsam/patchvault/internal/store"
	"github.com/jbalsam/patchvault/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetStore() store.Store
	GetRecorder() history.Recorder
	GetPublisher() notify.Publisher
	GetTopic() string
	GetRuns() *api.RunHolder
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patchvault",
		Short: "Scrapes game patch notes into a versioned JSON archive.",
		Long: `patchvault fetches patch-notes pages, live or from archive.org captures,
parses the section structure across every layout the pages have used over
the years, and persists one JSON record per version. The merge subcommand
folds stored records into a single reviewable document.`,

		// This hook runs AFTER config is loaded but BEFORE the subcommand's
		// RunE, so every subcommand finds a ready App on its context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// This hook ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	// Initialize Viper configuration. The closure defers the cfgFile read
	// until after cobra has parsed the persistent flags.
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/patchvault, $HOME/.patchvault)")
	cmd.PersistentFlags().String("out-dir", "", "directory holding the per-version JSON records")
	cobra.CheckErr(viper.BindPFlag("scraper.out_dir", cmd.PersistentFlags().Lookup("out-dir")))

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newMergeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	logging.Init()

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}
