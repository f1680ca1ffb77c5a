// jsonvault - a minimal JSON document vault.
//
// This is the main entry point for the jsonvault service: an HTTP CRUD
// surface over arbitrary JSON documents, held in memory and mirrored one
// file per item on disk, with a daily retention sweep purging aged files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/oakmund/jsonvault/migrations"

	"github.com/oakmund/jsonvault/internal/api"
	"github.com/oakmund/jsonvault/internal/audit"
	"github.com/oakmund/jsonvault/internal/infrastructure/config"
	"github.com/oakmund/jsonvault/internal/infrastructure/database"
	"github.com/oakmund/jsonvault/internal/infrastructure/influxdb"
	"github.com/oakmund/jsonvault/internal/infrastructure/logging"
	"github.com/oakmund/jsonvault/internal/infrastructure/mqtt"
	"github.com/oakmund/jsonvault/internal/item"
	"github.com/oakmund/jsonvault/internal/retention"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting jsonvault",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the audit database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	auditRepo := audit.NewSQLiteRepository(db.DB)

	// Item storage: the in-memory store starts empty on every boot; anything
	// already on disk is served through repository fallback.
	store := item.NewStore()
	repo, err := item.NewRepository(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening item repository: %w", err)
	}
	log.Info("item repository ready", "data_dir", cfg.Storage.DataDir)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			// Events are best effort; the vault runs without them.
			log.Error("connecting to MQTT, continuing without events", "error", err)
			mqttClient = nil
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			mqttClient.SetLogger(log)
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			log.Error("connecting to InfluxDB, continuing without metrics", "error", err)
			influxClient = nil
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			influxClient.SetOnError(func(err error) {
				log.Error("InfluxDB write error", "error", err)
			})
			log.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"org", cfg.InfluxDB.Org,
				"bucket", cfg.InfluxDB.Bucket,
			)
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the retention sweeper
	sweeper, err := startSweeper(ctx, cfg, store, repo, auditRepo, mqttClient, influxClient, log)
	if err != nil {
		return fmt.Errorf("starting retention sweeper: %w", err)
	}
	defer func() {
		log.Info("stopping retention sweeper")
		if closeErr := sweeper.Close(); closeErr != nil {
			log.Error("error stopping sweeper", "error", closeErr)
		}
	}()

	// Start the API server
	server, err := api.New(api.Deps{
		Config:  cfg.Server,
		Auth:    cfg.Auth,
		Logger:  log,
		Store:   store,
		Repo:    repo,
		Audit:   auditRepo,
		Events:  mqttClient,
		Metrics: influxClient,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drain in-flight requests)
	// 2. Retention sweeper
	// 3. InfluxDB (flush pending metrics, if enabled)
	// 4. MQTT (graceful offline status, if enabled)
	// 5. Database

	log.Info("jsonvault stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses JSONVAULT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("JSONVAULT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startSweeper creates and starts the retention sweeper, wiring purges into
// the audit trail, the event publisher, and the metrics client.
func startSweeper(
	ctx context.Context,
	cfg *config.Config,
	store *item.Store,
	repo *item.Repository,
	auditRepo audit.Repository,
	mqttClient *mqtt.Client,
	influxClient *influxdb.Client,
	log *logging.Logger,
) (*retention.Sweeper, error) {
	loc, err := time.LoadLocation(cfg.Retention.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Retention.Timezone, err)
	}

	sweeper, err := retention.New(retention.Config{
		Store:      store,
		Repository: repo,
		MaxAge:     cfg.RetentionAge(),
		Location:   loc,
		Logger:     log.With("component", "retention"),
	})
	if err != nil {
		return nil, err
	}

	sweeper.SetOnPurge(func(id string) {
		entry := &audit.Entry{
			Action: audit.ActionPurge,
			ItemID: id,
			Source: audit.SourceSweeper,
		}
		if recordErr := auditRepo.Record(ctx, entry); recordErr != nil &&
			!errors.Is(recordErr, context.Canceled) {
			log.Warn("recording purge audit entry", "id", id, "error", recordErr)
		}

		if mqttClient != nil {
			mqttClient.PublishItemEvent(id, mqtt.EventPurged)
		}
	})

	sweeper.SetOnSweep(func(result retention.Result) {
		if influxClient != nil {
			influxClient.WriteSweepMetric(result.Scanned, result.Purged, result.Failed, result.Duration)
		}
	})

	sweeper.Start(ctx)
	log.Info("retention sweeper started",
		"max_age_days", cfg.Retention.Days,
		"timezone", cfg.Retention.Timezone,
	)

	return sweeper, nil
}
