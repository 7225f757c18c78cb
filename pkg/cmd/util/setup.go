package util

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/app"
	"github.com/mpapenbr/trackroll/pkg/catalog"
	"github.com/mpapenbr/trackroll/pkg/config"
	"github.com/mpapenbr/trackroll/pkg/model"
	"github.com/mpapenbr/trackroll/pkg/outcome"
	"github.com/mpapenbr/trackroll/pkg/storage"
	"github.com/mpapenbr/trackroll/pkg/storage/memory"
	"github.com/mpapenbr/trackroll/pkg/storage/sqlite"
	"github.com/mpapenbr/trackroll/version"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger replaces the default logger according to the log flags.
func SetupLogger() error {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	filterOpt, err := log.WithFilter(config.LogFilter)
	if err != nil {
		return fmt.Errorf("invalid log filter: %w", err)
	}
	opts = append(opts, filterOpt)

	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			opts...)
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.WarnLevel),
			opts...)
	}
	log.ResetDefault(logger)

	log.Debug("Config:",
		log.String("data", config.DataFile),
		log.String("dataPath", config.DataPath),
		log.String("store", config.Store),
		log.Int64("seed", config.Seed),
		log.Float("speed", config.Speed),
	)
	return nil
}

// SetupTelemetry returns nil if telemetry is disabled or could not be set up.
func SetupTelemetry(ctx context.Context) *config.Telemetry {
	if !config.EnableTelemetry {
		return nil
	}
	log.Info("Enabling telemetry")
	telemetry, err := config.SetupTelemetry(ctx)
	if err != nil {
		log.Warn("Could not setup telemetry", log.ErrorField(err))
		return nil
	}
	return telemetry
}

// OpenStore opens the configured preference backend.
func OpenStore(ctx context.Context) (storage.Store, error) {
	switch config.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StoreSQLite, "":
		path := config.DataPath
		if path == "" {
			path = sqlite.DefaultPath()
		}
		return sqlite.Open(ctx, path,
			sqlite.WithAppVersion(version.Version),
			sqlite.WithLogger(log.Default().Named("storage.sqlite")))
	default:
		return nil, fmt.Errorf("unknown store %q", config.Store)
	}
}

// LoadCatalog reads and normalizes the configured dataset. A missing dataset
// yields an empty catalog.
func LoadCatalog() ([]model.Track, error) {
	entries, err := catalog.Load(config.DataFile, catalogOptions()...)
	if err != nil {
		return nil, err
	}
	tracks := catalog.Normalize(entries)
	log.Debug("catalog loaded", log.String("file", config.DataFile), log.Int("tracks", len(tracks)))
	return tracks, nil
}

func catalogOptions() []catalog.Option {
	opts := []catalog.Option{catalog.WithLogger(log.Default().Named("catalog"))}
	if config.RecordPath != "" {
		opts = append(opts, catalog.WithRecordPath(config.RecordPath))
	}
	return opts
}

// WatchCatalog reloads the dataset on changes until ctx is done.
func WatchCatalog(ctx context.Context, onChange func([]model.Track)) error {
	return catalog.Watch(ctx, config.DataFile, onChange, catalogOptions()...)
}

// AppOptions returns the app options derived from the configuration.
func AppOptions(tracks []model.Track) []app.Option {
	return []app.Option{
		app.WithRandom(outcome.NewRNG(config.Seed)),
		app.WithTimeScale(config.Speed),
		app.WithDefaultFilters(app.AllFilters(tracks)),
		app.WithLogger(log.Default().Named("app")),
	}
}

// WarnUnknown logs values of an axis which do not occur in the catalog,
// together with a suggestion if one is close enough.
func WarnUnknown(axis app.Axis, values, known []string) {
	for _, v := range values {
		if lo.Contains(known, v) {
			continue
		}
		if s, ok := catalog.Suggest(v, known); ok {
			log.Warn("unknown filter value",
				log.String("axis", string(axis)),
				log.String("value", v),
				log.String("suggestion", s))
		} else {
			log.Warn("unknown filter value",
				log.String("axis", string(axis)),
				log.String("value", v))
		}
	}
}
