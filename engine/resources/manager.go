package resources

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/filesystem"
)

// package errors
var (
	ErrNilFileSystem   = errors.New("resource manager requires a file system")
	ErrInvalidID       = errors.New("resource id was not issued by this manager")
	ErrNotLoaded       = errors.New("resource is not loaded")
	ErrWrongLoaderType = errors.New("resource loader has a different type")
)

/** @brief The configuration for a resource manager. */
type ResourceManagerConfig struct {
	/** @brief The relative base path all resource paths resolve against. */
	AssetBasePath string
}

// ResourceManager is the registry: it owns every ResourceHolder, deduplicates
// paths to ids, orchestrates reloads and mediates dependency registration.
// The holder list only ever grows; entries are never removed or reordered, so
// issued ids stay valid until the manager is closed.
//
// The manager is single-threaded by design. Reads may complete within the
// same call stack or from a later pump on the same loop, but never from
// another goroutine without an added lock layer.
type ResourceManager struct {
	config     ResourceManagerConfig
	fileSystem filesystem.FileSystem
	holders    []*ResourceHolder
	handle     *managerHandle
}

func NewResourceManager(config ResourceManagerConfig, fs filesystem.FileSystem) (*ResourceManager, error) {
	if fs == nil {
		core.LogError("failed to create resource manager: %s", ErrNilFileSystem.Error())
		return nil, ErrNilFileSystem
	}

	m := &ResourceManager{
		config:     config,
		fileSystem: fs,
	}
	m.handle = &managerHandle{manager: m}

	core.LogInfo("Resource manager initialized with base path '%s'.", config.AssetBasePath)
	return m, nil
}

// Close revokes every reporter issued by this manager. Dependency
// declarations made through a retained reporter become no-ops afterwards.
func (m *ResourceManager) Close() {
	m.handle.revoke()
}

// FileSystem returns the file-read capability the manager loads through.
func (m *ResourceManager) FileSystem() filesystem.FileSystem {
	return m.fileSystem
}

func (m *ResourceManager) BasePath() string {
	return m.config.AssetBasePath
}

// FullPath resolves a resource path against the base path to the canonical
// absolute form used for identity comparison and file reads.
func (m *ResourceManager) FullPath(path string) string {
	if !filepath.IsAbs(path) && m.config.AssetBasePath != "" {
		path = filepath.Join(m.config.AssetBasePath, path)
	}
	return filepath.Clean(path)
}

// ScheduleLoadResource returns the id of the resource at path, creating an
// Unloaded entry with a loader built by build if none exists. No I/O occurs.
func (m *ResourceManager) ScheduleLoadResource(path string, build LoaderBuilder) ResourceID {
	if id, ok := m.IDByPath(path); ok {
		return id
	}

	holder := newResourceHolder(resourceName(path), path, build())
	m.holders = append(m.holders, holder)
	id := ResourceID(len(m.holders) - 1)

	core.LogDebug("scheduled %s resource '%s' at '%s' as id %d", holder.loader.TypeName(), holder.name, path, id)
	return id
}

// LoadResource schedules the resource at path and immediately triggers its
// first reload. If the path is already registered the existing id is
// returned and no reload is issued.
func (m *ResourceManager) LoadResource(path string, build LoaderBuilder) ResourceID {
	if id, ok := m.IDByPath(path); ok {
		return id
	}
	id := m.ScheduleLoadResource(path, build)
	m.Reload(id)
	return id
}

// Reload delegates to the resource's own reload, supplying the manager's
// file system and the manager itself so dependency links can be released and
// rebuilt.
func (m *ResourceManager) Reload(id ResourceID) error {
	holder, err := m.HolderByID(id)
	if err != nil {
		return err
	}
	holder.Reload(m.fileSystem, id, m)
	return nil
}

// ReloadPending reloads every resource currently in Unloaded status and
// returns how many reloads were issued. Resources deferred by their loader
// make progress only through this scan, so the owning application should
// call it once per frame.
func (m *ResourceManager) ReloadPending() int {
	count := 0
	pending := len(m.holders)
	for i := 0; i < pending; i++ {
		holder := m.holders[i]
		if holder.Status().State != StateUnloaded {
			continue
		}
		holder.Reload(m.fileSystem, ResourceID(i), m)
		count++
	}
	return count
}

// IDByPath resolves a path to the id of the resource registered for it.
// This is a linear scan over all holders comparing canonicalized absolute
// paths; callers are expected to cache the id after the first lookup.
func (m *ResourceManager) IDByPath(path string) (ResourceID, bool) {
	want := m.FullPath(path)
	for i, holder := range m.holders {
		if m.FullPath(holder.path) == want {
			return ResourceID(i), true
		}
	}
	return InvalidResourceID, false
}

// HolderByID returns the holder for id, failing on ids this manager never
// issued.
func (m *ResourceManager) HolderByID(id ResourceID) (*ResourceHolder, error) {
	if int(id) >= len(m.holders) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return m.holders[id], nil
}

// HolderByIDUnchecked skips bounds validation, relying on the invariant that
// every issued id is valid. Passing an id that was never issued is a
// programming error and panics.
func (m *ResourceManager) HolderByIDUnchecked(id ResourceID) *ResourceHolder {
	return m.holders[id]
}

// Count returns the number of registered resources.
func (m *ResourceManager) Count() int {
	return len(m.holders)
}

// Enumerate walks all (id, holder) pairs by index. The sequence is lazy and
// restartable, and safe to range over while reload callbacks mutate holders,
// since no long-lived reference into the list is held.
func (m *ResourceManager) Enumerate() iter.Seq2[ResourceID, *ResourceHolder] {
	return func(yield func(ResourceID, *ResourceHolder) bool) {
		for i := 0; i < len(m.holders); i++ {
			if !yield(ResourceID(i), m.holders[i]) {
				return
			}
		}
	}
}

func (m *ResourceManager) newReporter(owner ResourceID) *DependencyReporter {
	return &DependencyReporter{
		handle: m.handle,
		owner:  owner,
	}
}

// declareDependency links owner to the resource at path, scheduling one with
// build if the path is not registered yet. Scheduling here does not load the
// new resource.
func (m *ResourceManager) declareDependency(owner ResourceID, path string, build LoaderBuilder) (ResourceID, Status) {
	id, ok := m.IDByPath(path)
	if !ok {
		id = m.ScheduleLoadResource(path, build)
	}

	ownerHolder := m.HolderByIDUnchecked(owner)
	depHolder := m.HolderByIDUnchecked(id)
	ownerHolder.dependencies[id] = struct{}{}
	depHolder.dependents[owner] = struct{}{}

	return id, depHolder.status
}

// releaseDependencies removes id from the dependent set of everything it
// depends on, then clears its dependency set. Runs before every load attempt
// so the attempt starts from a clean slate.
func (m *ResourceManager) releaseDependencies(id ResourceID) {
	holder := m.HolderByIDUnchecked(id)
	for depID := range holder.dependencies {
		delete(m.HolderByIDUnchecked(depID).dependents, id)
	}
	clear(holder.dependencies)
}

// Get returns the loader of a loaded resource as type T. It fails when the
// resource is not currently Loaded or when the stored loader is of a
// different concrete type.
func Get[T Loader](m *ResourceManager, id ResourceID) (T, error) {
	var zero T
	holder, err := m.HolderByID(id)
	if err != nil {
		return zero, err
	}
	if holder.Status().State != StateLoaded {
		return zero, fmt.Errorf("%w: '%s' is %s", ErrNotLoaded, holder.Path(), holder.Status())
	}
	typed, ok := holder.Loader().(T)
	if !ok {
		return zero, fmt.Errorf("%w: '%s' holds %s", ErrWrongLoaderType, holder.Path(), holder.Loader().TypeName())
	}
	return typed, nil
}

func resourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
