package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/config"
	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/metrics"
	"github.com/tranvictor/ensgraph/store"
	"github.com/tranvictor/ensgraph/ui"
	"github.com/tranvictor/ensgraph/util/addrbook"
)

var (
	appUI      ui.UI = ui.NewTerminalUI()
	appConfig        = config.Default()
	appLogger        = zap.NewNop()
	appMetrics       = metrics.New()
	addressBook      = addrbook.NewDefault(nil)

	// newResolver builds the profile resolver every command uses. Tests
	// replace it with a fake.
	newResolver = func(cfg config.Config, logger *zap.Logger, rec ens.Recorder) ens.ProfileResolver {
		return ens.NewEngine(
			cfg.ProviderFactory(),
			cfg.EngineOptions(),
			ens.WithLogger(logger),
			ens.WithRecorder(rec),
		)
	}
)

// setup loads the config, applies flags and builds the logger.
func setup() error {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		return err
	}
	cfg.ApplyFlags()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.ConfigPath, err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	appConfig = cfg
	appLogger = logger
	addressBook = addrbook.NewDefault(cfg.AddressLabels)
	return nil
}

func resolver() ens.ProfileResolver {
	return newResolver(appConfig, appLogger, appMetrics)
}

// edges bundles the local edge store with its remote mirror.
type edges struct {
	store.Mirrored
	closers []func() error
}

func (e *edges) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			appLogger.Warn("failed to close edge store", zap.Error(err))
		}
	}
}

// remote returns the configured mirror, or an Unconfigured one that only
// logs.
func (e *edges) remote() store.Remote {
	if e.Remote == nil {
		return store.Unconfigured{Logger: appLogger}
	}
	return e.Remote
}

// openEdges opens the configured local and remote edge stores.
func openEdges(ctx context.Context, cfg config.Config, logger *zap.Logger) (*edges, error) {
	res := &edges{}

	var kv store.KV
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := store.OpenSQLiteKV(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		res.closers = append(res.closers, db.Close)
		kv = db
	default:
		kv = store.NewFileKV(cfg.Storage.Path)
	}
	res.Local = store.NewLocal(kv, logger)

	switch cfg.Remote.Backend {
	case "supabase":
		remote, err := store.NewSupabaseRemote(cfg.Remote.SupabaseURL, cfg.Remote.SupabaseKey, logger)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.Remote = remote
	case "postgres":
		remote, err := store.OpenSQLRemote(ctx, cfg.Remote.PostgresDSN, logger)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.closers = append(res.closers, remote.Close)
		res.Remote = remote
	}
	return res, nil
}
