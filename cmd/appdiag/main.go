package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/appdiag/internal/config"
	"codeberg.org/mutker/appdiag/internal/diagnostics"
	"codeberg.org/mutker/appdiag/internal/errors"
	"codeberg.org/mutker/appdiag/internal/event"
	"codeberg.org/mutker/appdiag/internal/gpu"
	"codeberg.org/mutker/appdiag/internal/logger"
	"codeberg.org/mutker/appdiag/internal/metrics"
	"codeberg.org/mutker/appdiag/internal/pid"
	"codeberg.org/mutker/appdiag/internal/procinfo"
	"codeberg.org/mutker/appdiag/internal/settings"
	"codeberg.org/mutker/appdiag/internal/sysinfo"
)

type app struct {
	cfg      *config.Config
	bus      *event.Bus
	store    settings.Store
	reporter *diagnostics.Reporter
	guard    *pid.File
	session  *diagnostics.Session
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, logger.IsService())
	logger.Debug().Msg("Config loaded")

	a, err := newApp(cfg)
	if err != nil {
		if owner, ok := pid.RunningPID(err); ok {
			notifyPrimary(owner)
			os.Exit(0)
		}
		logErr(err, "failed to initialize")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	code := a.run(ctx)
	a.cleanup()
	os.Exit(code)
}

func newApp(cfg *config.Config) (*app, error) {
	errFactory := errors.New()

	a := &app{
		cfg:   cfg,
		bus:   event.NewBus(),
		guard: pid.New(""),
	}

	if err := a.guard.Acquire(); err != nil {
		return nil, err
	}

	store, err := settings.Open(settings.Config{
		DBPath:    cfg.GetSettingsDBPath(),
		BackupDir: cfg.GetBackupDir(),
	}, logger.Default())
	if err != nil {
		_ = a.guard.Release()
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}
	a.store = store

	if err := a.applySettings(context.Background()); err != nil {
		a.cleanup()
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}

	appCfg := cfg.GetApp()
	reporter, err := diagnostics.New(diagnostics.Deps{
		Sink:    logger.NewSink("diagnostics"),
		System:  sysinfo.New(),
		GPU:     gpu.New(logger.Default()),
		Config:  store,
		Metrics: metrics.NewCollector(logger.Default()),
		Process: procinfo.New(procinfo.Options{
			Version:       appCfg.Version,
			ResourcesPath: appCfg.ResourcesPath,
			Sandboxed:     appCfg.Sandboxed,
			MAS:           appCfg.MAS,
			WindowsStore:  appCfg.WindowsStore,
		}),
		Events: a.bus,
	})
	if err != nil {
		a.cleanup()
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}
	a.reporter = reporter

	return a, nil
}

// applySettings stores the name=<json> values given on the command line or
// in the config file
func (a *app) applySettings(ctx context.Context) error {
	assignments, err := a.cfg.Assignments()
	if err != nil {
		return err
	}

	for _, as := range assignments {
		if err := a.store.SetRaw(ctx, as.Name, as.Value); err != nil {
			return err
		}
		logger.Debug().Msgf("Setting %s updated", as.Name)
	}

	return nil
}

func (a *app) run(ctx context.Context) int {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1)
	defer signal.Stop(sigs)

	a.bus.Emit("will-finish-launching", nil)

	session, err := a.reporter.Run(ctx)
	if err != nil {
		logErr(err, "diagnostics pass failed")
		return 1
	}
	a.session = session

	a.bus.Emit("ready", nil)

	if a.cfg.IsRunOnce() {
		waitPodResult(ctx, session.Config)
		a.quit()
		return 0
	}

	go waitPodResult(ctx, session.Config)

	a.handleSignals(ctx, sigs)
	return 0
}

func (a *app) handleSignals(ctx context.Context, sigs <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				logger.Info().Msg("Received refresh signal.")
				pod, err := a.reporter.Refresh(ctx)
				if err != nil {
					logErr(err, "diagnostics refresh failed")
				}
				if pod != nil {
					go waitPodResult(ctx, pod)
				}
			case syscall.SIGUSR1:
				a.bus.Emit("second-instance", nil)
			default:
				logger.Info().Msg("Received termination signal.")
				a.quit()
				return
			}
		}
	}
}

func (a *app) quit() {
	a.bus.Emit("before-quit", nil)
	a.bus.Emit("will-quit", nil)
	a.bus.Emit("quit", nil)
}

func (a *app) cleanup() {
	if err := a.session.Close(); err != nil {
		logErr(err, "failed to remove event listeners")
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logErr(err, "failed to close settings store")
		}
	}
	if err := a.guard.Release(); err != nil {
		logErr(err, "failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}

func waitPodResult(ctx context.Context, ch <-chan diagnostics.PodResult) {
	select {
	case <-ctx.Done():
	case res := <-ch:
		if res.Err != nil {
			logErr(res.Err, "failed to read application settings")
		}
	}
}

// notifyPrimary tells the running instance that a second one was started
func notifyPrimary(owner int) {
	process, err := os.FindProcess(owner)
	if err == nil {
		err = process.Signal(syscall.SIGUSR1)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("failed to notify running instance %d", owner)
		return
	}
	logger.Info().Msgf("appdiag is already running (PID %d)", owner)
}

func logErr(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}
