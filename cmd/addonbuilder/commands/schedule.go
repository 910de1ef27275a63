package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/metrics"
	"git.home.luguber.info/inful/addonbuilder/internal/schedule"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Cron     string        `help:"Cron expression (overrides schedule.cron)"`
	Interval time.Duration `help:"Fixed interval (overrides schedule.interval)"`
	Listen   string        `help:"Address for the /metrics endpoint (overrides metrics.listen)"`
	Now      bool          `help:"Run once immediately before waiting for the schedule" default:"true" negatable:""`
}

func (s *ScheduleCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, "")
	if err != nil {
		return err
	}
	if s.Listen != "" {
		cfg.Metrics.Listen = s.Listen
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := newRunner(cfg)
	defer r.close()

	sched, err := schedule.NewScheduler()
	if err != nil {
		return derrors.InternalError("scheduler", err)
	}
	adapter := derrors.NewCLIErrorAdapter(root.Verbose, g.Logger)
	task := func() {
		if _, err := r.run(ctx, true); err != nil {
			adapter.Log(err)
		}
	}
	if err := s.register(sched, cfg.Schedule.Cron, cfg.Schedule.Interval, task); err != nil {
		return err
	}

	if cfg.Metrics.Listen != "" && r.registry != nil {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux(r), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", slog.String("addr", cfg.Metrics.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sched.Start(ctx)
	if s.Now {
		if err := sched.RunNow(); err != nil {
			slog.Warn("Immediate run failed to start", logfields.Error(err))
		}
	}
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping scheduler")
	return sched.Stop(context.Background())
}

// register picks the flag values over the configuration; cron wins over interval.
func (s *ScheduleCmd) register(sched *schedule.Scheduler, cfgCron, cfgInterval string, task func()) error {
	cron := cfgCron
	if s.Cron != "" {
		cron = s.Cron
	}
	interval := s.Interval
	if interval == 0 && cfgInterval != "" {
		d, err := time.ParseDuration(cfgInterval)
		if err != nil {
			return derrors.ValidationFailed("schedule.interval", err.Error())
		}
		interval = d
	}

	var err error
	switch {
	case s.Cron != "" || (cron != "" && s.Interval == 0):
		_, err = sched.ScheduleCron("pull", cron, task)
	case interval > 0:
		_, err = sched.ScheduleEvery("pull", interval, task)
	default:
		return derrors.ValidationFailed("schedule", "set schedule.cron or schedule.interval")
	}
	if err != nil {
		return derrors.ValidationFailed("schedule", err.Error())
	}
	return nil
}

func metricsMux(r *runner) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(r.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
