package resources

// managerHandle is the revocable back-reference reporters hold instead of the
// manager itself. Closing the manager clears the pointer, which turns every
// call through an outstanding reporter into a safe no-op.
type managerHandle struct {
	manager *ResourceManager
}

func (h *managerHandle) get() *ResourceManager {
	if h == nil {
		return nil
	}
	return h.manager
}

func (h *managerHandle) revoke() {
	h.manager = nil
}

// DependencyReporter is the narrow handle a loader receives during a load
// attempt. It lets the loader register dependencies on other paths without
// owning the registry. Nothing prevents retaining one past the load, but a
// closed manager degrades its calls to no-ops.
type DependencyReporter struct {
	handle *managerHandle
	owner  ResourceID
}

// DeclareDependency records that the resource being loaded needs the resource
// at path. If no resource exists there yet, one is scheduled with build, so
// declaring a dependency is enough to bring a resource into existence, but
// does not itself load it. The dependency's id and current status are
// returned so the loader can decide whether to defer.
func (r *DependencyReporter) DeclareDependency(path string, build LoaderBuilder) (ResourceID, Status) {
	m := r.handle.get()
	if m == nil {
		return InvalidResourceID, Unloaded()
	}
	return m.declareDependency(r.owner, path, build)
}

// Owner returns the id of the resource this reporter was issued for.
func (r *DependencyReporter) Owner() ResourceID {
	return r.owner
}
