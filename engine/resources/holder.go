package resources

import (
	"slices"

	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/filesystem"
)

// ResourceHolder is the durable per-resource record owned by the manager:
// identity, path, current status, the loader instance and the two dependency
// sets. Holders are created by Schedule* calls and live until the manager is
// destroyed.
type ResourceHolder struct {
	name   string
	path   string
	loader Loader
	status Status

	// Ids this resource needs, and ids that need this resource. The two sets
	// are kept symmetric across all holders of a manager and are rebuilt from
	// scratch on every reload.
	dependencies map[ResourceID]struct{}
	dependents   map[ResourceID]struct{}
}

func newResourceHolder(name, path string, loader Loader) *ResourceHolder {
	return &ResourceHolder{
		name:         name,
		path:         path,
		loader:       loader,
		status:       Unloaded(),
		dependencies: make(map[ResourceID]struct{}),
		dependents:   make(map[ResourceID]struct{}),
	}
}

func (h *ResourceHolder) Name() string {
	return h.name
}

// Path returns the resource path relative to the manager's base path.
func (h *ResourceHolder) Path() string {
	return h.path
}

func (h *ResourceHolder) Status() Status {
	return h.status
}

// Loader returns the holder's loader instance as a shared, read-only view.
func (h *ResourceHolder) Loader() Loader {
	return h.loader
}

// Dependencies returns the ids of the resources this one needs, sorted.
func (h *ResourceHolder) Dependencies() []ResourceID {
	return sortedIDs(h.dependencies)
}

// Dependents returns the ids of the resources that need this one, sorted.
func (h *ResourceHolder) Dependents() []ResourceID {
	return sortedIDs(h.dependents)
}

func (h *ResourceHolder) HasDependency(id ResourceID) bool {
	_, ok := h.dependencies[id]
	return ok
}

func (h *ResourceHolder) HasDependent(id ResourceID) bool {
	_, ok := h.dependents[id]
	return ok
}

/**
 * Reload drives both the first load and every subsequent one; scheduling a
 * resource never performs I/O on its own.
 *
 * If a load is already in flight the call is a silent no-op, so at most one
 * read per resource is ever outstanding. Otherwise the previous dependency
 * links are torn down (the new attempt may declare a different set), the
 * status flips to Loading and the file read is issued. The completion
 * callback may run within this call stack or later from the filesystem's
 * pump; callers must not assume either.
 */
func (h *ResourceHolder) Reload(fs filesystem.FileSystem, assignedID ResourceID, manager *ResourceManager) {
	if h.status.State == StateLoading {
		core.LogDebug("resource '%s' is already loading, reload skipped", h.name)
		return
	}

	manager.releaseDependencies(assignedID)

	reporter := manager.newReporter(assignedID)
	h.status = Loading()

	fullPath := manager.FullPath(h.path)
	fs.ReadFile(fullPath, func(data []byte, ok bool) {
		if !ok {
			h.status = Errorf("File not found: %s", fullPath)
			core.LogWarn("resource '%s': %s", h.name, h.status.Message)
			return
		}

		h.status = h.loader.LoadFromData(reporter, data, h.path)

		context := core.EventContext{}
		context.Data.U32[0] = uint32(assignedID)
		context.Data.C[0] = h.path
		core.EventFire(core.EVENT_CODE_RESOURCE_LOADED, manager, context)
	})
}

func sortedIDs(set map[ResourceID]struct{}) []ResourceID {
	ids := make([]ResourceID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
