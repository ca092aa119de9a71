package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/config"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/engine"
	"github.com/cory-johannsen/spellbook/internal/game/roster"
	"github.com/cory-johannsen/spellbook/internal/game/session"
	"github.com/cory-johannsen/spellbook/internal/observability"
	"github.com/cory-johannsen/spellbook/internal/storage"
	"github.com/cory-johannsen/spellbook/internal/storage/postgres"
	redisstore "github.com/cory-johannsen/spellbook/internal/storage/redis"
	"github.com/cory-johannsen/spellbook/internal/storage/sqlite"
)

// app holds everything a subcommand needs, built from the config file.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	content  engine.Content
	settings engine.Settings
	source   dice.Source
	store    storage.CharacterStore

	pool     *postgres.Pool
	redisLog *redisstore.Log
	closers  []func()
}

func newApp(ctx context.Context) (*app, error) {
	start := time.Now()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, settings: engine.SettingsFromConfig(cfg.Engine)}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if a.content, err = engine.LoadContent(cfg.Content.Dir); err != nil {
		a.close()
		return nil, err
	}
	if a.source, err = engine.SourceFromConfig(cfg.Engine); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	if cfg.BattleLog.Sink == "redis" {
		client, err := redisstore.NewClient(cfg.Redis)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.redisLog = redisstore.NewLog(client, cfg.Redis.LogKeyPrefix, cfg.Redis.MaxLogLines)
		pingRedis(ctx, client, logger)
	}

	logger.Debug("app ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("battlelog", cfg.BattleLog.Sink),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

func pingRedis(ctx context.Context, client *goredis.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, battle log lines will not be persisted", zap.Error(err))
	}
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Storage.Driver {
	case "memory":
		a.store = roster.New()
	case "sqlite":
		s, err := sqlite.Open(a.cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		a.store = s
	case "postgres":
		pool, err := postgres.NewPool(ctx, a.cfg.Database, a.logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.pool = pool
		a.store = postgres.NewCharacterRepository(pool.DB())
	default:
		return fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// sinkFor returns the battle log sink for characterID. Lines always reach
// out; the configured sink decides where else they are kept.
func (a *app) sinkFor(characterID string, out io.Writer) battlelog.Sink {
	sinks := battlelog.Fanout{battlelog.NewWriterSink(out, a.logger)}
	switch a.cfg.BattleLog.Sink {
	case "stdout":
		sinks = append(sinks, battlelog.NewZapSink(a.logger))
	case "redis":
		sinks = append(sinks, redisstore.NewSink(a.redisLog, characterID, a.logger))
	case "postgres":
		sinks = append(sinks, postgres.NewSink(a.battleLog(), characterID, a.logger))
	}
	return sinks
}

// battleLog returns the postgres battle log table.
//
// Precondition: the storage driver is postgres.
func (a *app) battleLog() *postgres.BattleLogRepository {
	return postgres.NewBattleLogRepository(a.pool.DB())
}

func (a *app) engine(sink battlelog.Sink) *engine.Engine {
	return engine.New(a.content, a.source, sink, a.logger, a.settings)
}

func (a *app) prompter() battlelog.Prompter {
	if assumeYes {
		return battlelog.AutoConfirm{}
	}
	return battlelog.NewLinePrompter(os.Stdin, os.Stdout)
}

// sessionConfig wires a session for characterID writing to out. A nil
// prompter lets the session read answers from its own input.
func (a *app) sessionConfig(characterID string, out io.Writer, p battlelog.Prompter) session.Config {
	return session.Config{
		CharacterID: characterID,
		Engine:      a.engine(a.sinkFor(characterID, out)),
		Store:       a.store,
		Prompter:    p,
		Out:         out,
		Logger:      a.logger,
	}
}
