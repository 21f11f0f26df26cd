package resources

import "math"

// ResourceID is an opaque handle to one resource inside a manager. Ids index
// into the manager's append-only holder list, so once issued an id stays
// valid for the lifetime of the manager.
type ResourceID uint32

// InvalidResourceID is never issued by a manager.
const InvalidResourceID ResourceID = math.MaxUint32

/**
 * Loader is the contract every asset kind implements. LoadFromData receives
 * the raw file bytes and turns them into the loader's in-memory
 * representation, reporting further resources it needs through the reporter.
 *
 * The returned status is the only channel for signalling the outcome:
 * Loaded on success, Error on unrecoverable decode failure, Unloaded when the
 * loader cannot proceed yet (a declared dependency is not ready; the owning
 * application's per-frame scan retries those), Loading to block any further
 * attempts, which should be rare.
 */
type Loader interface {
	// TypeName identifies the asset kind, for diagnostics.
	TypeName() string
	LoadFromData(reporter *DependencyReporter, data []byte, path string) Status
}

// LoaderBuilder constructs a fresh loader instance for a newly scheduled
// resource.
type LoaderBuilder func() Loader
