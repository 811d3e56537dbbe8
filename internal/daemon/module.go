// Package daemon wires the session daemon, chatd, with fx.
package daemon

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fixitnow/chatsync/internal/api"
	"github.com/fixitnow/chatsync/internal/archive"
	"github.com/fixitnow/chatsync/internal/bus"
	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/config"
	"github.com/fixitnow/chatsync/internal/lock"
	"github.com/fixitnow/chatsync/internal/logging"
	"github.com/fixitnow/chatsync/internal/outbox"
	"github.com/fixitnow/chatsync/internal/remote"
	"github.com/fixitnow/chatsync/internal/session"
	"github.com/fixitnow/chatsync/internal/status"
	chatsync "github.com/fixitnow/chatsync/internal/sync"
	"github.com/fixitnow/chatsync/internal/transport"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	Config      *config.Config
	SocketPath  string      // optional override; empty = session default
	Logger      *zap.Logger // optional override; nil = log file + stderr
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Default()
	}
	return fx.Module("daemon",
		fx.Supply(p, p.Config),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideArchive,
			provideIdentity,
			provideAdapter,
			provideRemote,
			provideSynchronizer,
			provideRecorder,
			provideWidgetService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if p.Logger != nil {
		return p.Logger, nil
	}
	return logging.New(session.LogPath(p.SessionName), p.SessionName, cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(session.LockPath(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired", zap.String("path", l.Path()))
	return l, nil
}

// provideArchive depends on the lock so two daemons never migrate the same
// file.
func provideArchive(p Params, _ *lock.Lock, logger *zap.Logger) (*archive.DB, error) {
	path := session.ArchivePath(p.SessionName)
	db, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("archive initialized", zap.String("path", path))
	return db, nil
}

func provideIdentity(cfg *config.Config) (*session.Static, session.Provider) {
	ids := session.NewStatic(session.Identity{
		UserID: chat.UserID(cfg.Identity.UserID),
		Token:  cfg.Identity.Token,
	})
	return ids, ids
}

func provideAdapter(cfg *config.Config, b *bus.Bus, m *status.Machine, logger *zap.Logger) *transport.Adapter {
	tc := transport.Config{
		MaxReconnectAttempts: cfg.Transport.MaxReconnectAttempts,
		InitialBackoff:       cfg.Transport.InitialBackoff.Duration,
		MaxBackoff:           cfg.Transport.MaxBackoff.Duration,
		SendQueueSize:        cfg.Transport.SendQueueSize,
		HandshakeTimeout:     cfg.Transport.HandshakeTimeout.Duration,
	}
	return transport.NewAdapter(tc, transport.NewWSDialer(cfg.Backend.LiveURL), b, m, logger.Named("transport"))
}

func provideRemote(cfg *config.Config, ids session.Provider, logger *zap.Logger) *remote.Client {
	hc := &http.Client{Timeout: cfg.Backend.RequestTimeout.Duration}
	return remote.NewClient(cfg.Backend.BaseURL, ids, hc, logger.Named("remote"))
}

func provideSynchronizer(
	cfg *config.Config,
	ids session.Provider,
	adapter *transport.Adapter,
	rc *remote.Client,
	db *archive.DB,
	b *bus.Bus,
	logger *zap.Logger,
) *chatsync.Synchronizer {
	sc := chatsync.Config{
		PollInterval:    cfg.Sync.PollInterval.Duration,
		FreshnessWindow: cfg.Sync.FreshnessWindow.Duration,
		Send: outbox.Config{
			AckTimeout:     cfg.Sync.AckTimeout.Duration,
			MaxAttempts:    cfg.Send.MaxAttempts,
			InitialBackoff: cfg.Send.InitialBackoff.Duration,
		},
	}
	return chatsync.New(sc, ids, adapter, rc, db, b, logger.Named("sync"))
}

func provideRecorder(db *archive.DB, b *bus.Bus, logger *zap.Logger) *archive.Recorder {
	return archive.NewRecorder(db, b, logger.Named("archive"))
}

func provideWidgetService(s *chatsync.Synchronizer, b *bus.Bus, logger *zap.Logger) *api.WidgetService {
	return api.NewWidgetService(s, b, logger.Named("api"))
}

func registerLifecycle(
	lc fx.Lifecycle,
	srv *Server,
	lk *lock.Lock,
	db *archive.DB,
	recorder *archive.Recorder,
	adapter *transport.Adapter,
	synchronizer *chatsync.Synchronizer,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			recorder.Start()
			synchronizer.Start()
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()
			logger.Info("daemon started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			synchronizer.Close()
			adapter.Disconnect()
			recorder.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing archive", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
