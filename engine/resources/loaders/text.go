package loaders

import (
	"github.com/vesper-engine/vesper/engine/resources"
)

// TextResource holds the contents of a plain text asset.
type TextResource struct {
	Text string
}

func NewTextResource() resources.Loader {
	return &TextResource{}
}

func (r *TextResource) TypeName() string {
	return "text"
}

func (r *TextResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	r.Text = string(data)
	return resources.Loaded()
}
