package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output   string        `short:"o" help:"Output directory (overrides output.directory)"`
	Debounce time.Duration `help:"Quiet period before a rerun" default:"500ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, w.Output)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := newRunner(cfg)
	defer r.close()

	if _, err := r.run(ctx, false); err != nil {
		return err
	}

	watcher, err := watch.New(cfg.Upstream.Path, w.Debounce)
	if err != nil {
		return derrors.FileSystem("watch", cfg.Upstream.Path, err)
	}
	adapter := derrors.NewCLIErrorAdapter(root.Verbose, g.Logger)
	return watcher.Run(ctx, func(ctx context.Context) {
		if _, err := r.run(ctx, false); err != nil {
			adapter.Log(err)
			return
		}
		slog.Info("Output regenerated")
	})
}
