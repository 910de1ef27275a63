package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/addonbuilder/internal/config"
	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/retry"
	helpers "git.home.luguber.info/inful/addonbuilder/internal/testutil/testutils"
)

func addFileAndCommit(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return helpers.CommitTree(t, wt, dir, map[string]string{name: content})
}

func TestShortHead(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	hash := addFileAndCommit(t, repo, dir, "addons/a/addon.json", "{}")

	short, err := ShortHead(dir)
	require.NoError(t, err)
	require.Len(t, short, ShortHashLength)
	require.Equal(t, hash.String()[:ShortHashLength], short)
}

func TestShortHead_NotARepository(t *testing.T) {
	_, err := ShortHead(t.TempDir())
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryGit))
}

func TestShortHead_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = ShortHead(dir)
	require.Error(t, err)
}

func TestClone_ReplacesExistingCheckout(t *testing.T) {
	tmp := t.TempDir()
	barePath := filepath.Join(tmp, "remote.git")
	_, err := git.PlainInit(barePath, true)
	require.NoError(t, err)

	seedPath := filepath.Join(tmp, "seed")
	seed, err := git.PlainInit(seedPath, false)
	require.NoError(t, err)
	_, err = seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{barePath}})
	require.NoError(t, err)
	hash := addFileAndCommit(t, seed, seedPath, "addons/a/addon.json", "{}")
	require.NoError(t, seed.Push(&git.PushOptions{RemoteName: "origin"}))
	head, err := seed.Head()
	require.NoError(t, err)

	dest := filepath.Join(tmp, "checkout")
	require.NoError(t, os.MkdirAll(dest, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("x"), 0o600))

	short, err := NewClient().Clone(context.Background(), config.UpstreamConfig{
		URL:    barePath,
		Branch: head.Name().Short(),
		Path:   dest,
	})
	require.NoError(t, err)
	require.Equal(t, hash.String()[:ShortHashLength], short)
	require.FileExists(t, filepath.Join(dest, "addons", "a", "addon.json"))
	require.NoFileExists(t, filepath.Join(dest, "stale.txt"))
}

func TestClone_MissingRemoteIsNotRetried(t *testing.T) {
	tmp := t.TempDir()
	c := &Client{policy: &retry.Policy{Mode: config.RetryBackoffFixed, Initial: time.Hour, Max: time.Hour, MaxRetries: 3}}

	_, err := c.Clone(context.Background(), config.UpstreamConfig{
		URL:     filepath.Join(tmp, "does-not-exist"),
		Path:    filepath.Join(tmp, "checkout"),
		Retries: 3,
	})
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryGit))
}

func TestClassifyCloneError(t *testing.T) {
	base := errors.New("dial tcp: i/o timeout")
	require.True(t, isTransient(classifyCloneError("u", base)))
	require.True(t, isTransient(classifyCloneError("u", errors.New("429 Too Many Requests"))))

	var nf *NotFoundError
	require.ErrorAs(t, classifyCloneError("u", errors.New("repository not found")), &nf)
	require.False(t, isTransient(nf))

	var auth *AuthError
	require.ErrorAs(t, classifyCloneError("u", errors.New("authentication required")), &auth)

	plain := errors.New("something else")
	require.Equal(t, plain, classifyCloneError("u", plain))
}
