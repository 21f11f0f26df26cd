/*
Package testbed is an example game wiring the resource subsystem into the
engine loop: it schedules a handful of assets, lets the per-frame scan bring
them in, and reports once everything is usable.
*/
package testbed

import (
	"github.com/vesper-engine/vesper/engine"
	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/resources"
	"github.com/vesper-engine/vesper/engine/resources/loaders"
)

type gameState struct {
	bootScript resources.ResourceID
	exports    map[string]interface{}
	terrain    resources.ResourceID
	litShader  resources.ResourceID
	notes      resources.ResourceID

	assetsReady bool
}

func NewTestGame(config *engine.ApplicationConfig) *engine.Game {
	state := &gameState{}
	return &engine.Game{
		ApplicationConfig: config,
		State:             state,
		FnInitialize:      state.initialize,
		FnUpdate:          state.update,
	}
}

func (s *gameState) initialize(e *engine.Engine) error {
	rm := e.ResourceManager()

	s.bootScript, s.exports = loaders.ScheduleScript(rm, "scripts/main.lua", nil)
	s.terrain = rm.ScheduleLoadResource("tilesets/terrain.toml", loaders.NewTilesetResource)
	s.litShader = rm.ScheduleLoadResource("shaders/lit.toml", loaders.NewShaderResource)
	s.notes = rm.LoadResource("notes.txt", loaders.NewTextResource)

	return nil
}

func (s *gameState) update(e *engine.Engine, deltaTime float64) error {
	if s.assetsReady {
		return nil
	}

	rm := e.ResourceManager()
	for _, id := range []resources.ResourceID{s.bootScript, s.terrain, s.litShader, s.notes} {
		holder, err := rm.HolderByID(id)
		if err != nil {
			return err
		}
		if holder.Status().State != resources.StateLoaded {
			return nil
		}
	}

	s.assetsReady = true
	core.LogInfo("all testbed assets loaded")
	for id, holder := range rm.Enumerate() {
		core.LogInfo("  [%d] %s '%s': %s", id, holder.Loader().TypeName(), holder.Path(), holder.Status())
	}
	return nil
}
