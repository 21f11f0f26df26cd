package resources

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vesper-engine/vesper/engine/core"
)

// ReloadWatcher watches the manager's base path and reloads registered
// resources when their backing files change on disk. File events are
// collected on a background goroutine but reloads only happen inside Update,
// which the owning loop calls once per frame. The manager itself is never
// touched off the main loop.
type ReloadWatcher struct {
	manager  *ResourceManager
	fsnotify *fsnotify.Watcher
	modified chan string
	done     chan struct{}
	isClosed bool
}

func NewReloadWatcher(manager *ResourceManager) (*ReloadWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &ReloadWatcher{
		manager:  manager,
		fsnotify: fsWatch,
		modified: make(chan string, 256),
		done:     make(chan struct{}),
	}
	go w.start()

	if err := w.addRecursive(manager.BasePath()); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive starts watching the named directory and all sub-directories.
func (w *ReloadWatcher) addRecursive(name string) error {
	if w.isClosed {
		return errors.New("reload watcher already closed")
	}
	return w.watchRecursive(name, false)
}

// watchRecursive adds all directories under the given one to the watch list.
func (w *ReloadWatcher) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		if unWatch {
			return w.fsnotify.Remove(walkPath)
		}
		return w.fsnotify.Add(walkPath)
	})
}

func (w *ReloadWatcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					w.watchRecursive(e.Name, false)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				select {
				case w.modified <- e.Name:
				default:
					core.LogWarn("reload watcher dropped change notification for '%s'", e.Name)
				}
			}
			if e.Op&fsnotify.Remove != 0 {
				w.fsnotify.Remove(e.Name)
			}

		case e := <-w.fsnotify.Errors:
			if e != nil {
				core.LogError(e.Error())
			}

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// Update reloads every registered resource whose file changed since the
// previous call and returns how many reloads were issued. Changed files
// without a registered resource are ignored.
func (w *ReloadWatcher) Update() int {
	reloaded := 0
	for {
		select {
		case path := <-w.modified:
			id, ok := w.manager.IDByPath(path)
			if !ok {
				continue
			}

			context := core.EventContext{}
			context.Data.U32[0] = uint32(id)
			context.Data.C[0] = path
			core.EventFire(core.EVENT_CODE_FILE_MODIFIED, w, context)

			core.LogInfo("hot reloading resource id %d from '%s'", id, path)
			w.manager.Reload(id)
			reloaded++
		default:
			return reloaded
		}
	}
}

func (w *ReloadWatcher) Close() error {
	if w.isClosed {
		return nil
	}
	w.isClosed = true
	close(w.done)
	return nil
}
