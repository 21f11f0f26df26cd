package loaders

import (
	"regexp"

	"github.com/vesper-engine/vesper/engine/resources"
)

// requirePattern matches require calls at the start of a line, with or
// without parentheses, and captures the required path.
var requirePattern = regexp.MustCompile(`(?m)^\s*(?:local\s+\w+\s*=\s*)?require\s*\(?\s*["']([^"']+)["']`)

// ScriptResource holds the source of an embedded script and its export
// table. The table is created once per path and survives every reload, so
// all consumers of a script share one table no matter how often the source
// changes underneath them.
type ScriptResource struct {
	Exports  map[string]interface{}
	Source   string
	Requires []string
}

func NewScriptResource() resources.Loader {
	return &ScriptResource{Exports: make(map[string]interface{})}
}

// NewScriptResourceWithExports builds a script resource pre-bound to a
// caller-supplied export table, so a script can be created already pointing
// at the table its consumers hold.
func NewScriptResourceWithExports(exports map[string]interface{}) resources.LoaderBuilder {
	return func() resources.Loader {
		if exports == nil {
			exports = make(map[string]interface{})
		}
		return &ScriptResource{Exports: exports}
	}
}

func (r *ScriptResource) TypeName() string {
	return "script"
}

func (r *ScriptResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	r.Source = string(data)

	r.Requires = r.Requires[:0]
	for _, match := range requirePattern.FindAllStringSubmatch(r.Source, -1) {
		required := match[1]
		r.Requires = append(r.Requires, required)
		reporter.DeclareDependency(required, NewScriptResource)
	}
	return resources.Loaded()
}

// ScheduleScript registers the script at path, reusing any existing entry.
// When a script already exists there, its export table wins over the
// caller-supplied one, so repeated require-style loads of one script share a
// single table across reloads. If the path is registered to a resource of a
// different kind the caller's table is returned unchanged instead of failing.
func ScheduleScript(m *resources.ResourceManager, path string, exports map[string]interface{}) (resources.ResourceID, map[string]interface{}) {
	id := m.ScheduleLoadResource(path, NewScriptResourceWithExports(exports))
	holder := m.HolderByIDUnchecked(id)
	if script, ok := holder.Loader().(*ScriptResource); ok {
		return id, script.Exports
	}
	return id, exports
}
