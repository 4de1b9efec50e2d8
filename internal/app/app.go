// Package app wires configuration, logging, storage, the planner and the
// automation session into one runnable unit for the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	"github.com/MaryEjairu/InstaAutomator/internal/config"
	"github.com/MaryEjairu/InstaAutomator/internal/eventbus"
	"github.com/MaryEjairu/InstaAutomator/internal/executor"
	"github.com/MaryEjairu/InstaAutomator/internal/planner"
	"github.com/MaryEjairu/InstaAutomator/internal/runtime/supervisor"
	"github.com/MaryEjairu/InstaAutomator/internal/storage"
	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.ConfigManager
	logs *logx.Service
	log  logx.Logger

	bus   *eventbus.Bus
	store storage.Store
}

func New(cfgPath string) *App {
	return &App{cfgPath: cfgPath}
}

// Log returns the root logger. Valid after Init.
func (a *App) Log() logx.Logger { return a.log }

// Store returns the outcome archive, or nil when storage is disabled.
// Valid after Init.
func (a *App) Store() storage.Store { return a.store }

// Init loads and validates the config and brings up logging and storage.
func (a *App) Init() (*config.Config, error) {
	a.cfgm = config.NewConfigManager(a.cfgPath)
	cfg, err := a.cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", a.cfgPath, err)
	}

	a.logs, a.log = logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	// Fail fast on anything the session would reject later, and hold
	// reloads to the same bar so a bad edit cannot displace a good config.
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	a.cfgm.SetValidator(validateConfig)

	storeCfg, err := cfg.ArchiveConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storeCfg, a.log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	a.store = store

	a.bus = eventbus.New()
	return cfg, nil
}

// validateConfig checks everything a session start would reject.
func validateConfig(cfg *config.Config) error {
	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return err
	}
	if err := sessionCfg.Validate(); err != nil {
		return err
	}
	_, err = cfg.PlannerSchedules()
	return err
}

// RunSession executes one automation session over the queued actions plus
// whatever the configured schedules enqueue while it runs.
func (a *App) RunSession(ctx context.Context, cfg *config.Config, actions []automation.Action) (automation.RunReport, error) {
	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return automation.RunReport{}, err
	}
	// Schedule-fed runs must outlive an empty queue: cron firings arrive
	// while the session is up, and an early drain would strand them.
	sessionCfg.Linger = len(cfg.Schedules) > 0

	exec := executor.NewDryRun(cfg.DryRun(), a.log.With(logx.String("comp", "executor")))
	session, err := automation.NewSession(sessionCfg, automation.Deps{
		Executor: exec,
		// The session logs one debug line per pacing wait and execution.
		Log: a.log.With(logx.String("comp", "session")).Throttled(10, 20),
		Bus: a.bus,
	})
	if err != nil {
		return automation.RunReport{}, err
	}
	if len(actions) > 0 {
		if err := session.Enqueue(actions...); err != nil {
			return automation.RunReport{}, err
		}
	}

	sup := supervisor.New(ctx, supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))))

	// Hot-reload tuning between sessions: the watcher keeps the committed
	// config fresh and re-applies logging; the running session keeps the
	// config it started with.
	updates := a.cfgm.Subscribe(4)
	sup.Go("config.watch", func(ctx context.Context) error {
		return a.cfgm.Watch(ctx)
	})
	sup.Go0("config.apply", func(ctx context.Context) {
		last := cfg
		for {
			select {
			case <-ctx.Done():
				return
			case next, ok := <-updates:
				if !ok {
					return
				}
				changed, attrs := config.SummarizeConfigChange(last, next)
				last = next
				if len(changed) == 0 {
					continue
				}
				a.logs.Apply(logx.Config{
					Level:   next.Logging.Level,
					Console: next.Logging.Console,
					File: logx.FileConfig{
						Enabled: next.Logging.File.Enabled,
						Path:    next.Logging.File.Path,
					},
				})
				a.log.Info("config reloaded", append(attrs, logx.Any("sections", changed))...)
			}
		}
	})

	if a.store != nil {
		a.archiveEvents(sup, time.Now().UTC().Format("20060102T150405Z"))
	}

	var plan *planner.Service
	if len(cfg.Schedules) > 0 {
		defs, err := cfg.PlannerSchedules()
		if err != nil {
			return automation.RunReport{}, err
		}
		plan = planner.NewService(a.log.With(logx.String("comp", "planner")), session)
		for _, d := range defs {
			if err := plan.Add(d); err != nil {
				return automation.RunReport{}, err
			}
		}
		if err := plan.Start(); err != nil {
			return automation.RunReport{}, err
		}
	}

	report, runErr := session.Run(ctx)

	if plan != nil {
		plan.Stop()
	}
	a.cfgm.Unsubscribe(updates)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sup.Stop(stopCtx); err != nil && runErr == nil {
		a.log.Warn("shutdown incomplete", logx.Err(err))
	}
	return report, runErr
}

// archiveEvents copies every executed action from the bus into the store.
func (a *App) archiveEvents(sup *supervisor.Supervisor, sessionID string) {
	events, unsub := a.bus.Subscribe(64)
	sup.Go0("archive", func(ctx context.Context) {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				if e.Type != automation.EventActionExecuted {
					continue
				}
				o, ok := e.Data.(automation.Outcome)
				if !ok {
					continue
				}
				rec := storage.OutcomeRecord{
					At:      o.At,
					Session: sessionID,
					Kind:    o.Action.Kind.String(),
					Target:  o.Action.Target,
					Result:  o.Result.String(),
					Detail:  o.Detail,
				}
				if err := a.store.AppendOutcome(ctx, rec); err != nil {
					a.log.Warn("archiving outcome failed", logx.Err(err))
				}
			}
		}
	})
}

// Close releases storage and log sinks.
func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
}
