// Package app initializes and holds long-lived application services,
// acting as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gstorage "cloud.google.com/go/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/api"
	"github.com/jbalsam/patchvault/internal/history"
	"github.com/jbalsam/patchvault/internal/logging"
	"github.com/jbalsam/patchvault/internal/metrics"
	"github.com/jbalsam/patchvault/internal/notify"
	"github.com/jbalsam/patchvault/internal/store"
)

// App holds the shared services for one command invocation: the logger,
// the record store, the scrape ledger, the event publisher, and the
// optional status server. It is initialized once at startup and handed
// to the commands through the cobra context.
type App struct {
	logger    *zap.Logger
	store     store.Store
	recorder  history.Recorder
	publisher notify.Publisher
	topic     string
	runs      *api.RunHolder
	gcsClient *gstorage.Client
	statusSrv *http.Server
}

// GetLogger returns the shared zap logger.
func (a *App) GetLogger() *zap.Logger { return a.logger }

// GetStore exposes the configured patch record store.
func (a *App) GetStore() store.Store { return a.store }

// GetRecorder provides the scrape ledger recorder.
func (a *App) GetRecorder() history.Recorder { return a.recorder }

// GetPublisher returns the event publisher.
func (a *App) GetPublisher() notify.Publisher { return a.publisher }

// GetTopic names the publish topic. Empty means events are disabled.
func (a *App) GetTopic() string { return a.topic }

// GetRuns returns the holder the status server reads run summaries from.
func (a *App) GetRuns() *api.RunHolder { return a.runs }

// NewApp creates and initializes a new App based on the loaded
// configuration. It instantiates the configured providers and fails
// fast when any critical service cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.New(viper.GetBool("logging.development"))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	logging.Replace(logger)
	metrics.Init()

	logger.Info("initializing application services")
	a := &App{logger: logger, runs: &api.RunHolder{}}

	if err := setupStore(ctx, a); err != nil {
		return nil, err
	}
	if err := setupRecorder(ctx, a); err != nil {
		return nil, err
	}
	if err := setupPublisher(ctx, a); err != nil {
		return nil, err
	}

	if addr := viper.GetString("server.listen_addr"); addr != "" {
		a.startStatusServer(addr)
	}

	logger.Info("application services initialized")
	return a, nil
}

func setupStore(ctx context.Context, a *App) error {
	provider := viper.GetString("store.provider")
	switch provider {
	case "fs":
		dir := viper.GetString("scraper.out_dir")
		a.logger.Info("using filesystem store", zap.String("dir", dir))
		st, err := store.NewFSStore(dir, a.logger.Named("store"))
		if err != nil {
			return fmt.Errorf("init filesystem store: %w", err)
		}
		a.store = st
	case "memory":
		a.logger.Info("using in-memory store, records are discarded on exit")
		a.store = store.NewMemoryStore()
	case "gcs":
		bucket := viper.GetString("store.gcs.bucket")
		if bucket == "" {
			return errors.New("store provider is 'gcs' but store.gcs.bucket is not set")
		}
		client, err := store.NewGCSClient(ctx)
		if err != nil {
			return fmt.Errorf("init gcs client: %w", err)
		}
		a.gcsClient = client
		a.logger.Info("using gcs store", zap.String("bucket", bucket))
		st, err := store.NewGCSStore(client, store.GCSConfig{
			Bucket: bucket,
			Prefix: viper.GetString("store.gcs.prefix"),
		}, a.logger.Named("store"))
		if err != nil {
			return fmt.Errorf("init gcs store: %w", err)
		}
		a.store = st
	default:
		return fmt.Errorf("unknown store provider: %s", provider)
	}
	return nil
}

func setupRecorder(ctx context.Context, a *App) error {
	provider := viper.GetString("history.provider")
	switch provider {
	case "noop":
		a.logger.Info("scrape ledger disabled")
		a.recorder = history.Noop{}
	case "postgres":
		dsn := viper.GetString("history.postgres.dsn")
		if dsn == "" {
			return errors.New("history provider is 'postgres' but history.postgres.dsn is not set")
		}
		a.logger.Info("connecting scrape ledger to postgres")
		rec, err := history.NewPostgresRecorder(ctx, history.PostgresConfig{
			DSN:   dsn,
			Table: viper.GetString("history.postgres.table"),
		})
		if err != nil {
			return fmt.Errorf("init history recorder: %w", err)
		}
		a.recorder = rec
	default:
		return fmt.Errorf("unknown history provider: %s", provider)
	}
	return nil
}

func setupPublisher(ctx context.Context, a *App) error {
	provider := viper.GetString("notify.provider")
	switch provider {
	case "noop":
		a.logger.Info("event publishing disabled")
		a.publisher = notify.Noop{}
	case "memory":
		a.logger.Info("using in-memory event publisher")
		a.publisher = notify.NewMemory()
		a.topic = viper.GetString("notify.pubsub.topic_id")
		if a.topic == "" {
			a.topic = "patch-notes"
		}
	case "pubsub":
		projectID := viper.GetString("notify.pubsub.project_id")
		topicID := viper.GetString("notify.pubsub.topic_id")
		if projectID == "" || topicID == "" {
			return errors.New("notify provider is 'pubsub' but project_id or topic_id is not set")
		}
		a.logger.Info("connecting to GCP Pub/Sub", zap.String("topic", topicID))
		pub, err := notify.NewPubSub(ctx, projectID, topicID, a.logger.Named("notify"))
		if err != nil {
			return fmt.Errorf("init pubsub publisher: %w", err)
		}
		a.publisher = pub
		a.topic = topicID
	default:
		return fmt.Errorf("unknown notify provider: %s", provider)
	}
	return nil
}

func (a *App) startStatusServer(addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(a.runs, a.logger.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.statusSrv = srv
	go func() {
		a.logger.Info("status server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server error", zap.Error(err))
		}
	}()
}

// Close gracefully shuts down all services in the App container. It is
// called by a cobra hook after the command finishes execution.
func (a *App) Close() {
	a.logger.Info("shutting down application services")

	if a.statusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.statusSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("status server shutdown failed", zap.Error(err))
		}
		cancel()
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close failed", zap.Error(err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("gcs client close failed", zap.Error(err))
		}
	}

	if err := a.logger.Sync(); err != nil {
		a.logger.Warn("logger sync failed", zap.Error(err))
	}
}
