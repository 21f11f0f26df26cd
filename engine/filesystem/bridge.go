package filesystem

import (
	"github.com/google/uuid"

	"github.com/vesper-engine/vesper/engine/containers"
	"github.com/vesper-engine/vesper/engine/core"
)

type completedRead struct {
	requestID  string
	path       string
	data       []byte
	ok         bool
	onComplete ReadCallback
}

// BridgeFileSystem proxies reads through a backend and defers completion to
// the owning loop. ReadFile never invokes the callback inside the call stack
// of the caller; finished reads are queued and delivered on the next Update.
// This mirrors how a platform bridge resumes work on the main thread's event
// loop, and is the implementation to use when load callbacks must not run
// while the caller still holds partial state.
//
// Every read is issued under a unique request id. A request stays tracked
// from ReadFile until its callback has been delivered, so diagnostics can
// always name the reads that are still in the backend or waiting in the
// queue.
type BridgeFileSystem struct {
	backend FileSystem
	pending *containers.RingQueue[completedRead]
	// request id -> path, for every read not yet delivered to its caller.
	inFlight map[string]string
}

func NewBridgeFileSystem(backend FileSystem, queueSize int) *BridgeFileSystem {
	return &BridgeFileSystem{
		backend:  backend,
		pending:  containers.NewRingQueue[completedRead](queueSize),
		inFlight: make(map[string]string),
	}
}

func (fs *BridgeFileSystem) ReadFile(path string, onComplete ReadCallback) {
	requestID := uuid.New().String()
	fs.inFlight[requestID] = path
	fs.backend.ReadFile(path, func(data []byte, ok bool) {
		err := fs.pending.Enqueue(completedRead{
			requestID:  requestID,
			path:       path,
			data:       data,
			ok:         ok,
			onComplete: onComplete,
		})
		if err != nil {
			// The callback must still fire exactly once, so a full queue
			// degrades to synchronous delivery.
			core.LogWarn("bridge completion queue is full, delivering read %s for '%s' in place", requestID, path)
			delete(fs.inFlight, requestID)
			onComplete(data, ok)
		}
	})
	core.LogDebug("bridge read %s issued for '%s'", requestID, path)
}

// Update delivers every read completed since the previous call, in completion
// order, and returns how many callbacks fired. Call once per frame.
func (fs *BridgeFileSystem) Update() int {
	delivered := 0
	for !fs.pending.IsEmpty() {
		finished, err := fs.pending.Dequeue()
		if err != nil {
			break
		}
		delete(fs.inFlight, finished.requestID)
		finished.onComplete(finished.data, finished.ok)
		delivered++
	}
	return delivered
}

// Pending returns the number of completed reads waiting for delivery.
func (fs *BridgeFileSystem) Pending() int {
	return fs.pending.Len()
}

// Outstanding returns the number of reads issued but not yet delivered. This
// counts both reads still in the backend and reads queued for the next
// Update.
func (fs *BridgeFileSystem) Outstanding() int {
	return len(fs.inFlight)
}

// OutstandingPaths returns the paths of all undelivered reads, for
// diagnostics. A path read more than once concurrently appears once per
// request.
func (fs *BridgeFileSystem) OutstandingPaths() []string {
	paths := make([]string, 0, len(fs.inFlight))
	for _, path := range fs.inFlight {
		paths = append(paths, path)
	}
	return paths
}
