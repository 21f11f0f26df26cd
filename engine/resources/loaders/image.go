package loaders

import (
	"bytes"
	"image"
	"image/draw"

	// Decoders picked up by image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/vesper-engine/vesper/engine/resources"
)

// ImageResource holds decoded pixel data, always converted to 4-channel NRGBA
// regardless of the source format.
type ImageResource struct {
	Width        uint32
	Height       uint32
	ChannelCount uint8
	Format       string
	Pixels       []uint8
}

func NewImageResource() resources.Loader {
	return &ImageResource{}
}

func (r *ImageResource) TypeName() string {
	return "image"
}

func (r *ImageResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return resources.Errorf("failed to decode image '%s': %v", path, err)
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	r.Width = uint32(bounds.Dx())
	r.Height = uint32(bounds.Dy())
	r.ChannelCount = 4
	r.Format = format
	r.Pixels = nrgba.Pix
	return resources.Loaded()
}
