package engine

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ApplicationConfig struct {
	Name            string `toml:"name"`
	AssetBasePath   string `toml:"asset_base_path"`
	TargetFrameRate int    `toml:"target_frame_rate"`
	EnableHotReload bool   `toml:"enable_hot_reload"`
	BridgeQueueSize int    `toml:"bridge_queue_size"`
}

func defaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:            "Vesper Application",
		AssetBasePath:   "assets",
		TargetFrameRate: 60,
		BridgeQueueSize: 256,
	}
}

// LoadApplicationConfig reads a TOML application config. Missing keys keep
// their defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := defaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}
