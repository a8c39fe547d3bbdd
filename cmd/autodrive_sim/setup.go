package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/OCAP2/autodrive/internal/config"
	"github.com/OCAP2/autodrive/internal/dispatcher"
	"github.com/OCAP2/autodrive/internal/influx"
	"github.com/OCAP2/autodrive/internal/logging"
	"github.com/OCAP2/autodrive/internal/monitor"
	"github.com/OCAP2/autodrive/internal/otel"
	"github.com/OCAP2/autodrive/internal/storage"
	"github.com/OCAP2/autodrive/internal/worker"
)

// app holds everything a run sets up, torn down in reverse by close.
type app struct {
	settings   config.Settings
	slog       *logging.SlogManager
	infra      zerolog.Logger
	otel       *otel.Provider
	backend    storage.Backend
	influx     *influx.Manager
	dispatcher *dispatcher.Dispatcher
	worker     *worker.Manager
	monitor    *monitor.Service
	closers    []func() error
}

func loadSettings(configDir string) (config.Settings, error) {
	if err := config.Load(configDir); err != nil {
		// defaults are registered before the file is read
		fmt.Fprintf(os.Stderr, "autodrive_sim: %v, using defaults\n", err)
	}
	return config.Get()
}

// setupLogging opens the log file and wires slog, OTel and zerolog to it.
func (a *app) setupLogging(start time.Time) error {
	s := a.settings
	if err := os.MkdirAll(s.LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(s.LogsDir, logging.ServiceName, start))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	a.closers = append(a.closers, logFile.Close)

	var otelWriter io.Writer
	if s.OTel.Enabled && s.OTel.Endpoint == "" {
		f, err := os.Create(filepath.Join(s.LogsDir, logging.ServiceName+".otel.jsonl"))
		if err != nil {
			return fmt.Errorf("failed to create otel log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		otelWriter = f
	}
	a.otel, err = otel.New(otel.Config{
		Enabled:      s.OTel.Enabled,
		ServiceName:  s.OTel.ServiceName,
		BatchTimeout: s.OTel.BatchTimeout,
		LogWriter:    otelWriter,
		Endpoint:     s.OTel.Endpoint,
		Insecure:     s.OTel.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up otel: %w", err)
	}
	a.closers = append(a.closers, func() error { return a.otel.Shutdown(context.Background()) })

	a.slog = logging.NewSlogManager()
	a.slog.Setup(logFile, s.LogLevel, a.otel.LoggerProvider())
	a.infra = logging.NewZerolog(logFile, s.LogLevel, "infra")
	return nil
}

func (a *app) setupStorage() error {
	backend, err := storage.NewBackend(a.settings.Storage, a.settings.DB, a.infra, a.slog.Logger())
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", a.settings.Storage.Type, err)
	}
	a.backend = backend
	a.closers = append(a.closers, backend.Close)
	a.slog.Logger().Info("Storage backend initialized", "type", a.settings.Storage.Type)
	return nil
}

// setupInflux is best effort; failures leave telemetry off.
func (a *app) setupInflux(ctx context.Context) {
	m := influx.NewManager(a.infra, filepath.Join(a.settings.LogsDir, "influx_backup.log.gz"))
	if err := m.Connect(ctx, a.settings.Influx); err != nil {
		if !errors.Is(err, influx.ErrDisabled) {
			a.infra.Warn().Err(err).Msg("InfluxDB unavailable, telemetry off")
		}
		return
	}
	a.influx = m
	a.closers = append(a.closers, m.Close)
}

func (a *app) setupDispatcher(resolve worker.ResolverFunc) error {
	d, err := dispatcher.New(logging.NewDispatcherLogger(a.infra))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	a.dispatcher = d
	a.closers = append(a.closers, func() error { d.Close(); return nil })

	deps := worker.Dependencies{
		Resolve:    resolve,
		Planner:    a.settings.Planner,
		LogManager: a.slog,
	}
	if a.influx != nil {
		deps.Telemetry = a.influx
	}
	a.worker = worker.NewManager(deps, a.backend)
	a.worker.RegisterHandlers(d)
	a.slog.Logger().Debug("Handlers registered", "commands", d.Commands())

	a.monitor = monitor.NewService(monitor.Dependencies{
		Stats:      a.worker,
		Logger:     a.slog.Logger(),
		StatusPath: filepath.Join(a.settings.LogsDir, "status.json"),
		Telemetry:  deps.Telemetry,
	})
	a.monitor.Start()
	a.closers = append(a.closers, func() error { a.monitor.Stop(); return nil })
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
