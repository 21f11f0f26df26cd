package loaders

import (
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/vesper-engine/vesper/engine/resources"
)

type ShaderStage struct {
	Type     string
	Source   string
	BinaryID resources.ResourceID
}

// ShaderResource is a parsed shader config. The config lists the stages that
// make up the program; each stage's compiled binary is declared as a binary
// dependency and loads on its own.
type ShaderResource struct {
	Name     string
	CullMode string
	Stages   []*ShaderStage
}

type shaderConfig struct {
	Name     string `toml:"name"`
	CullMode string `toml:"cull_mode"`
	Stages   []struct {
		Type   string `toml:"type"`
		Source string `toml:"source"`
	} `toml:"stages"`
}

var validStageTypes = map[string]struct{}{
	"vertex":   {},
	"fragment": {},
	"geometry": {},
	"compute":  {},
}

func NewShaderResource() resources.Loader {
	return &ShaderResource{}
}

func (r *ShaderResource) TypeName() string {
	return "shader"
}

func (r *ShaderResource) LoadFromData(reporter *resources.DependencyReporter, data []byte, path string) resources.Status {
	var config shaderConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return resources.Errorf("failed to parse shader config '%s': %v", path, err)
	}
	if config.Name == "" {
		return resources.Errorf("shader config '%s' has no name", path)
	}
	if len(config.Stages) == 0 {
		return resources.Errorf("shader config '%s' declares no stages", path)
	}

	dir := filepath.Dir(path)
	stages := make([]*ShaderStage, 0, len(config.Stages))
	for _, s := range config.Stages {
		if _, ok := validStageTypes[s.Type]; !ok {
			return resources.Errorf("shader config '%s' has unknown stage type '%s'", path, s.Type)
		}
		if s.Source == "" {
			return resources.Errorf("shader config '%s' has a '%s' stage with no source", path, s.Type)
		}
		binaryID, _ := reporter.DeclareDependency(filepath.Join(dir, s.Source), NewBinaryResource)
		stages = append(stages, &ShaderStage{
			Type:     s.Type,
			Source:   s.Source,
			BinaryID: binaryID,
		})
	}

	r.Name = config.Name
	r.CullMode = config.CullMode
	r.Stages = stages
	return resources.Loaded()
}
