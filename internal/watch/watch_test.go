package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) *atomic.Int32 {
	t.Helper()
	w, err := New(root, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var runs atomic.Int32
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(context.Context) { runs.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &runs
}

func TestWatcher_RerunsOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "addons", "a"), 0o750))
	runs := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "addons", "a", "addon.json"), []byte("{}"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	root := t.TempDir()
	runs := startWatcher(t, root)

	for i := range 10 {
		require.NoError(t, os.WriteFile(filepath.Join(root, "f.js"), []byte{byte(i)}, 0o600))
	}
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.Less(t, runs.Load(), int32(10))
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	runs := startWatcher(t, root)

	dir := filepath.Join(root, "addons", "new-addon")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := runs.Load()
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "userscript.js"), []byte("x"), 0o600)
		return runs.Load() > before
	}, 5*time.Second, 100*time.Millisecond)
}

func TestWatcher_IgnoresGitMetadata(t *testing.T) {
	require.True(t, ignored("/tree/.git"))
	require.True(t, insideIgnored("/tree", "/tree/.git/objects/ab"))
	require.False(t, insideIgnored("/tree", "/tree/addons/a/userscript.js"))
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), 0)
	require.Error(t, err)
}
