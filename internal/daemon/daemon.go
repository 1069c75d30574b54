package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"videoai/internal/api"
	"videoai/internal/config"
	"videoai/internal/jobs"
	"videoai/internal/logging"
	"videoai/internal/pipeline"
	"videoai/internal/realtime"
)

// Daemon coordinates the job engine services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *jobs.Store
	registry *realtime.Registry
	pool     *pipeline.Pool
	server   *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Options carries externally constructed collaborators into the daemon.
// Production wiring builds them from config; tests substitute fakes.
type Options struct {
	Collaborators api.Collaborators
	Users         realtime.UserDirectory
}

// New constructs a daemon with all engine services wired.
func New(cfg *config.Config, store *jobs.Store, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	registry := realtime.NewRegistry()
	bus := realtime.NewBus(registry, logger)
	runner := pipeline.NewRunner(store, bus, logger)
	pool := pipeline.NewPool(cfg.Workflow.MaxConcurrentJobs)
	service := api.NewService(store, registry, runner, pool, opts.Collaborators, logger)

	socket := realtime.NewSocketHandler(registry, opts.Users, logger, realtime.SocketOptions{
		AllowedOrigins:  cfg.Realtime.AllowedOrigins,
		WriteTimeout:    cfg.Realtime.WriteTimeout(),
		MaxMessageBytes: cfg.Realtime.MaxMessageBytes,
	})

	server, err := api.NewServer(cfg, service, socket, logger)
	if err != nil {
		return nil, fmt.Errorf("build api server: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "videoai.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		registry: registry,
		pool:     pool,
		server:   server,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and begins serving. It returns once the
// listener is bound; the daemon shuts down when ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another videoai instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.server.Addr()),
	)
	return nil
}

// Stop shuts the HTTP surface down, waits for running pipelines to finish,
// and releases the instance lock. Pipelines are never interrupted.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.pool.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the bound API address once started.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Connections reports the number of live push channels.
func (d *Daemon) Connections() int {
	return d.registry.ConnectionCount()
}
