package loaders

import (
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/vesper-engine/vesper/engine/resources"
)

// TilesetResource is a tile atlas descriptor plus a dependency on its image.
// The tileset stays deferred until the image has loaded, since tile geometry
// without pixels is useless to every consumer.
type TilesetResource struct {
	Image      string
	TileWidth  int
	TileHeight int
	Columns    int
	Rows       int
	ImageID    resources.ResourceID
}

type tilesetConfig struct {
	Image      string `toml:"image"`
	TileWidth  int    `toml:"tile_width"`
	TileHeight int    `toml:"tile_height"`
	Columns    int    `toml:"columns"`
	Rows       int    `toml:"rows"`
}

func NewTilesetResource() resources.Loader {
	return &TilesetResource{}
}

func (r *TilesetResource) TypeName() string {
	return "tileset"
}

func (r *TilesetResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	var config tilesetConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return resources.Errorf("failed to parse tileset '%s': %v", path, err)
	}
	if config.Image == "" {
		return resources.Errorf("tileset '%s' names no image", path)
	}
	if config.TileWidth <= 0 || config.TileHeight <= 0 {
		return resources.Errorf("tileset '%s' has invalid tile size %dx%d", path, config.TileWidth, config.TileHeight)
	}

	r.Image = config.Image
	r.TileWidth = config.TileWidth
	r.TileHeight = config.TileHeight
	r.Columns = config.Columns
	r.Rows = config.Rows

	imagePath := filepath.Join(filepath.Dir(path), config.Image)
	imageID, status := reporter.DeclareDependency(imagePath, NewImageResource)
	r.ImageID = imageID
	if status.State != resources.StateLoaded {
		return resources.Unloaded()
	}
	return resources.Loaded()
}

// TileCount returns the number of tiles described by the atlas.
func (r *TilesetResource) TileCount() int {
	return r.Columns * r.Rows
}
