package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// PullCmd implements the default 'pull' command.
type PullCmd struct {
	NoClone bool   `name:"no-clone" help:"Use the existing upstream checkout instead of cloning"`
	Output  string `short:"o" help:"Output directory (overrides output.directory)"`
}

func (p *PullCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, p.Output)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := newRunner(cfg)
	defer r.close()

	res, err := r.run(ctx, !p.NoClone)
	if err != nil {
		return err
	}
	// Provide friendly user-facing summary on stdout.
	fmt.Printf("Mirrored %d addons, %d locales and %d libraries at %s into %s\n",
		len(res.Addons), len(res.Locales), len(res.Libraries), res.Commit, cfg.Output.Directory)
	return nil
}
