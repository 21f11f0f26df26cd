package filesystem_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/filesystem"
)

// syncBackend completes every read inside ReadFile, like the archive and
// local filesystems do.
type syncBackend struct {
	files map[string][]byte
}

func (b *syncBackend) ReadFile(path string, onComplete filesystem.ReadCallback) {
	data, ok := b.files[path]
	onComplete(data, ok)
}

func TestBridgeDefersDeliveryToUpdate(t *testing.T) {
	bridge := filesystem.NewBridgeFileSystem(&syncBackend{
		files: map[string][]byte{"a.txt": []byte("a")},
	}, 8)

	var calls int
	bridge.ReadFile("a.txt", func(data []byte, ok bool) {
		calls++
		assert.True(t, ok)
		assert.Equal(t, []byte("a"), data)
	})

	// Nothing may fire inside ReadFile.
	require.Equal(t, 0, calls)
	require.Equal(t, 1, bridge.Pending())

	assert.Equal(t, 1, bridge.Update())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bridge.Pending())

	// A second pump is a no-op; the callback fires exactly once.
	assert.Equal(t, 0, bridge.Update())
	assert.Equal(t, 1, calls)
}

func TestBridgePreservesCompletionOrder(t *testing.T) {
	backend := &syncBackend{files: map[string][]byte{}}
	for i := 0; i < 5; i++ {
		backend.files[fmt.Sprintf("%d.txt", i)] = []byte{byte(i)}
	}
	bridge := filesystem.NewBridgeFileSystem(backend, 8)

	var order []string
	for i := 0; i < 5; i++ {
		path := fmt.Sprintf("%d.txt", i)
		bridge.ReadFile(path, func(data []byte, ok bool) {
			require.True(t, ok)
			order = append(order, path)
		})
	}

	require.Equal(t, 5, bridge.Update())
	assert.Equal(t, []string{"0.txt", "1.txt", "2.txt", "3.txt", "4.txt"}, order)
}

func TestBridgeReportsMissingFiles(t *testing.T) {
	bridge := filesystem.NewBridgeFileSystem(&syncBackend{}, 4)

	var calls int
	bridge.ReadFile("missing.txt", func(data []byte, ok bool) {
		calls++
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	require.Equal(t, 1, bridge.Update())
	assert.Equal(t, 1, calls)
}

// holdingBackend keeps reads open until the test releases them, like a real
// async platform bridge would.
type holdingBackend struct {
	files map[string][]byte
	held  []func()
}

func (b *holdingBackend) ReadFile(path string, onComplete filesystem.ReadCallback) {
	data, ok := b.files[path]
	b.held = append(b.held, func() { onComplete(data, ok) })
}

func (b *holdingBackend) release() {
	for _, complete := range b.held {
		complete()
	}
	b.held = nil
}

func TestBridgeTracksOutstandingReads(t *testing.T) {
	backend := &holdingBackend{files: map[string][]byte{
		"a.txt": []byte("a"),
		"b.txt": []byte("b"),
	}}
	bridge := filesystem.NewBridgeFileSystem(backend, 8)

	var calls int
	onComplete := func(data []byte, ok bool) { calls++ }
	bridge.ReadFile("a.txt", onComplete)
	bridge.ReadFile("b.txt", onComplete)

	// Still in the backend: outstanding but not yet queued.
	assert.Equal(t, 2, bridge.Outstanding())
	assert.Equal(t, 0, bridge.Pending())
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, bridge.OutstandingPaths())

	// Completed by the backend: queued, still undelivered.
	backend.release()
	assert.Equal(t, 2, bridge.Outstanding())
	assert.Equal(t, 2, bridge.Pending())
	require.Equal(t, 0, calls)

	require.Equal(t, 2, bridge.Update())
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, bridge.Outstanding())
	assert.Empty(t, bridge.OutstandingPaths())
}

func TestBridgeTracksEachRequestSeparately(t *testing.T) {
	backend := &holdingBackend{files: map[string][]byte{"a.txt": []byte("a")}}
	bridge := filesystem.NewBridgeFileSystem(backend, 8)

	onComplete := func(data []byte, ok bool) {}
	bridge.ReadFile("a.txt", onComplete)
	bridge.ReadFile("a.txt", onComplete)

	// Two concurrent reads of one path are two requests.
	assert.Equal(t, 2, bridge.Outstanding())
	assert.Equal(t, []string{"a.txt", "a.txt"}, bridge.OutstandingPaths())
}

func TestBridgeFullQueueFallsBackToSyncDelivery(t *testing.T) {
	backend := &syncBackend{files: map[string][]byte{"a.txt": []byte("a")}}
	bridge := filesystem.NewBridgeFileSystem(backend, 2)

	var calls int
	onComplete := func(data []byte, ok bool) { calls++ }

	bridge.ReadFile("a.txt", onComplete)
	bridge.ReadFile("a.txt", onComplete)
	require.Equal(t, 2, bridge.Pending())
	require.Equal(t, 0, calls)

	// The queue is full; the overflowing read still completes, just in place,
	// and is no longer tracked as outstanding.
	bridge.ReadFile("a.txt", onComplete)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, bridge.Pending())
	assert.Equal(t, 2, bridge.Outstanding())

	assert.Equal(t, 2, bridge.Update())
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, bridge.Outstanding())
}
