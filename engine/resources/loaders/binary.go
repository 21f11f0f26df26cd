package loaders

import (
	"github.com/vesper-engine/vesper/engine/resources"
)

// BinaryResource holds the raw bytes of an asset that needs no decoding,
// such as a compiled shader stage.
type BinaryResource struct {
	Data []byte
}

func NewBinaryResource() resources.Loader {
	return &BinaryResource{}
}

func (r *BinaryResource) TypeName() string {
	return "binary"
}

func (r *BinaryResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	r.Data = make([]byte, len(data))
	copy(r.Data, data)
	return resources.Loaded()
}
