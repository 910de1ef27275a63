package commands

import (
	"context"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/addonbuilder/internal/config"
	"git.home.luguber.info/inful/addonbuilder/internal/git"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/metrics"
	"git.home.luguber.info/inful/addonbuilder/internal/notify"
	"git.home.luguber.info/inful/addonbuilder/internal/pipeline"
)

// runner holds what survives between runs in watch and schedule mode.
type runner struct {
	cfg      *config.Config
	git      *git.Client
	registry *prom.Registry
	recorder metrics.Recorder
	notifier *notify.Notifier
}

func newRunner(cfg *config.Config) *runner {
	r := &runner{cfg: cfg, git: git.NewClient(), recorder: metrics.NoopRecorder{}}
	if cfg.Metrics.Textfile != "" || cfg.Metrics.Listen != "" {
		r.registry = prom.NewRegistry()
		r.recorder = metrics.NewPrometheusRecorder(r.registry)
	}
	if cfg.Notify.NATSURL != "" {
		n, err := notify.Connect(cfg.Notify)
		if err != nil {
			slog.Warn("Completion events disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		} else {
			r.notifier = n
		}
	}
	return r
}

// run performs one mirror. With clone false the existing checkout is used as is.
func (r *runner) run(ctx context.Context, clone bool) (*pipeline.Result, error) {
	commit, err := r.checkout(ctx, clone)
	if err != nil {
		r.recorder.IncRunOutcome(metrics.RunFailed)
		r.writeTextfile()
		return nil, err
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		SourceDir:       r.cfg.Upstream.Path,
		OutputDir:       r.cfg.Output.Directory,
		Commit:          commit,
		Addons:          r.cfg.Addons,
		NewAddons:       r.cfg.NewAddons,
		DefaultLocale:   r.cfg.DefaultLocale,
		LocaleAliases:   r.cfg.LocaleAliases,
		ContributorsURL: r.cfg.ContributorsURL,
		Recorder:        r.recorder,
	})
	r.writeTextfile()
	if err != nil {
		return res, err
	}
	r.publish(res)
	return res, nil
}

func (r *runner) checkout(ctx context.Context, clone bool) (string, error) {
	if !clone {
		return git.ShortHead(r.cfg.Upstream.Path)
	}
	t0 := time.Now()
	commit, err := r.git.Clone(ctx, r.cfg.Upstream)
	r.recorder.ObserveCloneDuration(time.Since(t0), err == nil)
	return commit, err
}

func (r *runner) writeTextfile() {
	if r.registry == nil || r.cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(r.cfg.Metrics.Textfile, r.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(r.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func (r *runner) publish(res *pipeline.Result) {
	if r.notifier == nil {
		return
	}
	err := r.notifier.PublishCompleted(notify.CompletedEvent{
		RunID:      res.RunID,
		Commit:     res.Commit,
		Addons:     len(res.Addons),
		Locales:    res.Locales,
		Libraries:  res.Libraries,
		DurationMS: res.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Warn("Failed to publish completion event", logfields.RunID(res.RunID), logfields.Error(err))
	}
}

func (r *runner) close() {
	r.notifier.Close()
}
