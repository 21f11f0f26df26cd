package resources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesper-engine/vesper/engine/resources"
)

// requireSymmetry checks that the dependency/dependent sets across all
// holders mirror each other exactly.
func requireSymmetry(t *testing.T, m *resources.ResourceManager) {
	t.Helper()
	for id, holder := range m.Enumerate() {
		for _, dep := range holder.Dependencies() {
			depHolder, err := m.HolderByID(dep)
			require.NoError(t, err)
			assert.True(t, depHolder.HasDependent(id),
				"%s depends on %s but is missing from its dependents", holder.Path(), depHolder.Path())
		}
		for _, dependent := range holder.Dependents() {
			depHolder, err := m.HolderByID(dependent)
			require.NoError(t, err)
			assert.True(t, depHolder.HasDependency(id),
				"%s is a dependent of %s but does not depend on it", depHolder.Path(), holder.Path())
		}
	}
}

func TestDeclareDependencyCreatesUnloadedResource(t *testing.T) {
	m, fs := newTestManager(t)
	fs.files["shader.frag"] = []byte("frag source")

	loader := &stubLoader{deps: []string{"noise.png"}}
	id := m.ScheduleLoadResource("shader.frag", func() resources.Loader { return loader })
	require.NoError(t, m.Reload(id))

	depID, ok := m.IDByPath("noise.png")
	require.True(t, ok, "declaring a dependency should schedule the target")

	depHolder := m.HolderByIDUnchecked(depID)
	assert.Equal(t, resources.StateUnloaded, depHolder.Status().State, "declaring must not load")

	holder := m.HolderByIDUnchecked(id)
	assert.True(t, holder.HasDependency(depID))
	assert.True(t, depHolder.HasDependent(id))
	requireSymmetry(t, m)
}

func TestDependencyRebuildOnReload(t *testing.T) {
	m, fs := newTestManager(t)
	fs.files["a.mat"] = []byte("material")

	loader := &stubLoader{deps: []string{"b.png"}}
	a := m.ScheduleLoadResource("a.mat", func() resources.Loader { return loader })
	require.NoError(t, m.Reload(a))

	b, ok := m.IDByPath("b.png")
	require.True(t, ok)
	require.True(t, m.HolderByIDUnchecked(b).HasDependent(a))

	// The second attempt declares nothing; the old link must be gone.
	loader.deps = nil
	require.NoError(t, m.Reload(a))

	assert.False(t, m.HolderByIDUnchecked(b).HasDependent(a))
	assert.Empty(t, m.HolderByIDUnchecked(a).Dependencies())
	requireSymmetry(t, m)
}

func TestDependencySymmetryAcrossReloadSequences(t *testing.T) {
	m, fs := newTestManager(t)
	fs.files["root.cfg"] = []byte("root")
	fs.files["mid.cfg"] = []byte("mid")

	rootLoader := &stubLoader{deps: []string{"mid.cfg", "leaf1.png"}}
	midLoader := &stubLoader{deps: []string{"leaf2.png"}}

	root := m.ScheduleLoadResource("root.cfg", func() resources.Loader { return rootLoader })
	mid := m.ScheduleLoadResource("mid.cfg", func() resources.Loader { return midLoader })

	require.NoError(t, m.Reload(root))
	require.NoError(t, m.Reload(mid))
	requireSymmetry(t, m)

	// Shuffle the declared sets and reload in both orders a few times.
	rootLoader.deps = []string{"leaf2.png"}
	midLoader.deps = []string{"leaf1.png", "root.cfg"}
	require.NoError(t, m.Reload(mid))
	require.NoError(t, m.Reload(root))
	requireSymmetry(t, m)

	rootLoader.deps = nil
	require.NoError(t, m.Reload(root))
	requireSymmetry(t, m)

	assert.Empty(t, m.HolderByIDUnchecked(root).Dependencies())
	assert.True(t, m.HolderByIDUnchecked(root).HasDependent(mid))
}

func TestDependencyOnExistingResourceLinksWithoutScheduling(t *testing.T) {
	m, fs := newTestManager(t)
	fs.files["a.cfg"] = []byte("a")
	fs.files["shared.png"] = []byte("not a real png")

	shared := m.ScheduleLoadResource("shared.png", newStubBuilder)
	before := m.Count()

	loader := &stubLoader{deps: []string{"shared.png"}}
	a := m.ScheduleLoadResource("a.cfg", func() resources.Loader { return loader })
	require.NoError(t, m.Reload(a))

	assert.Equal(t, before+1, m.Count(), "only a.cfg itself should have been added")
	assert.True(t, m.HolderByIDUnchecked(a).HasDependency(shared))
	requireSymmetry(t, m)
}

func TestDeferredLoaderRetriedByPendingScan(t *testing.T) {
	m, fs := newTestManager(t)
	fs.files["font.fnt"] = []byte("font")
	fs.files["page.png"] = []byte("page")

	unloaded := resources.Unloaded()
	fontLoader := &stubLoader{deps: []string{"page.png"}, result: &unloaded}
	font := m.ScheduleLoadResource("font.fnt", func() resources.Loader { return fontLoader })
	require.NoError(t, m.Reload(font))
	require.Equal(t, resources.StateUnloaded, m.HolderByIDUnchecked(font).Status().State)

	// First scan loads the page and retries the font, which defers again.
	m.ReloadPending()

	page, ok := m.IDByPath("page.png")
	require.True(t, ok)
	require.Equal(t, resources.StateLoaded, m.HolderByIDUnchecked(page).Status().State)

	// Once the dependency is ready the loader succeeds.
	fontLoader.result = nil
	m.ReloadPending()
	assert.Equal(t, resources.StateLoaded, m.HolderByIDUnchecked(font).Status().State)
	requireSymmetry(t, m)
}
