package git

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/addonbuilder/internal/config"
	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/retry"
)

// Client handles Git operations
type Client struct {
	policy *retry.Policy // overrides the upstream-derived policy when set
}

// NewClient creates a new Git client.
func NewClient() *Client { return &Client{} }

// Clone replaces upstream.Path with a fresh clone of upstream.URL and returns
// the short hash of its HEAD.
func (c *Client) Clone(ctx context.Context, upstream config.UpstreamConfig) (string, error) {
	policy := retry.ForUpstream(upstream)
	if c.policy != nil {
		policy = *c.policy
	}
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := policy.Delay(attempt)
			slog.Warn("Retrying upstream clone", logfields.URL(upstream.URL), slog.Int("attempt", attempt), slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return "", derrors.GitClone(upstream.URL, ctx.Err())
			case <-time.After(delay):
			}
		}
		err := c.cloneOnce(ctx, upstream)
		if err == nil {
			return ShortHead(upstream.Path)
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}
	return "", derrors.GitClone(upstream.URL, lastErr)
}

func (c *Client) cloneOnce(ctx context.Context, upstream config.UpstreamConfig) error {
	slog.Debug("Cloning repository", logfields.URL(upstream.URL), slog.String("branch", upstream.Branch), logfields.Path(upstream.Path))
	if err := os.RemoveAll(upstream.Path); err != nil {
		return derrors.FileSystem("remove", upstream.Path, err)
	}

	cloneOptions := &git.CloneOptions{URL: upstream.URL, Depth: upstream.Depth}
	if upstream.Branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(upstream.Branch)
		cloneOptions.SingleBranch = true
	}
	if _, err := git.PlainCloneContext(ctx, upstream.Path, false, cloneOptions); err != nil {
		return classifyCloneError(upstream.URL, err)
	}
	slog.Info("Repository cloned successfully", logfields.URL(upstream.URL), logfields.Path(upstream.Path))
	return nil
}
