package loaders

import (
	"bytes"
	"path/filepath"

	"github.com/fzipp/bmfont"

	"github.com/vesper-engine/vesper/engine/resources"
)

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type FontPage struct {
	ID      int
	File    string
	ImageID resources.ResourceID
}

// BitmapFontResource is a BMFont-described bitmap font. Page atlas images are
// pulled in as image dependencies; the font stays deferred until every page
// has loaded, so a consumer holding a Loaded font can rely on its atlases.
type BitmapFontResource struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     []*FontGlyph
	Kernings   []*FontKerning
	Pages      []*FontPage
}

func NewBitmapFontResource() resources.Loader {
	return &BitmapFontResource{}
}

func (r *BitmapFontResource) TypeName() string {
	return "bitmap_font"
}

func (r *BitmapFontResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	desc, err := bmfont.ReadDescriptor(bytes.NewReader(data))
	if err != nil {
		return resources.Errorf("failed to parse bitmap font '%s': %v", path, err)
	}

	r.Face = desc.Info.Face
	r.Size = uint32(desc.Info.Size)
	r.LineHeight = int32(desc.Common.LineHeight)
	r.Baseline = int32(desc.Common.Base)
	r.AtlasSizeX = int32(desc.Common.ScaleW)
	r.AtlasSizeY = int32(desc.Common.ScaleH)

	r.Glyphs = make([]*FontGlyph, 0, len(desc.Chars))
	for _, g := range desc.Chars {
		r.Glyphs = append(r.Glyphs, &FontGlyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		})
	}

	r.Kernings = make([]*FontKerning, 0, len(desc.Kerning))
	for pair, k := range desc.Kerning {
		r.Kernings = append(r.Kernings, &FontKerning{
			Codepoint0: pair.First,
			Codepoint1: pair.Second,
			Amount:     int16(k.Amount),
		})
	}

	// Page files live next to the font descriptor.
	dir := filepath.Dir(path)
	pending := 0
	r.Pages = make([]*FontPage, 0, len(desc.Pages))
	for _, p := range desc.Pages {
		pagePath := filepath.Join(dir, p.File)
		imageID, status := reporter.DeclareDependency(pagePath, NewImageResource)
		if status.State != resources.StateLoaded {
			pending++
		}
		r.Pages = append(r.Pages, &FontPage{
			ID:      p.ID,
			File:    p.File,
			ImageID: imageID,
		})
	}

	if pending > 0 {
		// Not an error: the per-frame pending scan retries until the page
		// atlases have loaded.
		return resources.Unloaded()
	}
	return resources.Loaded()
}
