package resources_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/filesystem"
	"github.com/vesper-engine/vesper/engine/resources"
	"github.com/vesper-engine/vesper/engine/resources/loaders"
)

func TestWatcherReloadsChangedResource(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("first"), 0o644))

	local, err := filesystem.NewLocalFileSystem(dir)
	require.NoError(t, err)

	m, err := resources.NewResourceManager(resources.ResourceManagerConfig{AssetBasePath: dir}, local)
	require.NoError(t, err)

	id := m.LoadResource(notes, loaders.NewTextResource)
	text, err := resources.Get[*loaders.TextResource](m, id)
	require.NoError(t, err)
	require.Equal(t, "first", text.Text)

	w, err := resources.NewReloadWatcher(m)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(notes, []byte("second"), 0o644))

	require.Eventually(t, func() bool {
		return w.Update() > 0
	}, 5*time.Second, 10*time.Millisecond, "watcher never observed the change")

	text, err = resources.Get[*loaders.TextResource](m, id)
	require.NoError(t, err)
	assert.Equal(t, "second", text.Text)
}

func TestWatcherIgnoresUnregisteredFiles(t *testing.T) {
	dir := t.TempDir()

	local, err := filesystem.NewLocalFileSystem(dir)
	require.NoError(t, err)
	m, err := resources.NewResourceManager(resources.ResourceManagerConfig{AssetBasePath: dir}, local)
	require.NoError(t, err)

	w, err := resources.NewReloadWatcher(m)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644))

	// Give the watcher a moment to observe the event, then confirm no
	// resource was touched.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, w.Update())
	assert.Equal(t, 0, m.Count())
}
