package engine

import (
	"fmt"
	"time"

	"github.com/vesper-engine/vesper/engine/core"
	"github.com/vesper-engine/vesper/engine/filesystem"
	"github.com/vesper-engine/vesper/engine/resources"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine completed boot and is ready to be initialized
	EngineStageBootComplete
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Engine owns the resource subsystem and drives it from a single-threaded
// frame loop: file-read completions, hot-reload events and the pending
// resource scan all run between two game updates.
type Engine struct {
	currentStage    Stage
	gameInstance    *Game
	isRunning       bool
	bridge          *filesystem.BridgeFileSystem
	resourceManager *resources.ResourceManager
	watcher         *resources.ReloadWatcher
	clock           *core.Clock
	lastTime        float64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = defaultApplicationConfig()
	}

	local, err := filesystem.NewLocalFileSystem(g.ApplicationConfig.AssetBasePath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	bridge := filesystem.NewBridgeFileSystem(local, g.ApplicationConfig.BridgeQueueSize)

	// The manager shares the local filesystem's resolved base path. Resource
	// paths then canonicalize to absolute form, which keeps the hot-reload
	// watcher's file events resolvable back to registered ids.
	rm, err := resources.NewResourceManager(resources.ResourceManagerConfig{
		AssetBasePath: local.BasePath(),
	}, bridge)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:    EngineStageBootComplete,
		gameInstance:    g,
		clock:           core.NewClock(),
		bridge:          bridge,
		resourceManager: rm,
		isRunning:       true,
	}, nil
}

func (e *Engine) Initialize() error {
	if !core.EventInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESOURCE_LOADED, e, e.onResourceLoaded)

	if e.gameInstance.ApplicationConfig.EnableHotReload {
		watcher, err := resources.NewReloadWatcher(e.resourceManager)
		if err != nil {
			return err
		}
		e.watcher = watcher
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	targetFrameSeconds := 1.0 / float64(e.gameInstance.ApplicationConfig.TargetFrameRate)

	for e.isRunning {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		// Deliver finished reads, apply hot reloads, then retry anything a
		// loader deferred last frame.
		e.bridge.Update()
		if e.watcher != nil {
			e.watcher.Update()
		}
		e.resourceManager.ReloadPending()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(e, delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err.Error())
				e.isRunning = false
				break
			}
		}

		e.clock.Update()
		frameElapsed := e.clock.Elapsed() - currentTime
		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.watcher != nil {
		e.watcher.Close()
	}
	e.resourceManager.Close()
	core.EventShutdown()

	core.LogInfo("engine shut down")
	return nil
}

// ResourceManager exposes the registry to the game instance.
func (e *Engine) ResourceManager() *resources.ResourceManager {
	return e.resourceManager
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onResourceLoaded(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	id := resources.ResourceID(data.Data.U32[0])
	holder, err := e.resourceManager.HolderByID(id)
	if err != nil {
		return false
	}
	core.LogDebug("resource '%s' finished a load attempt: %s", holder.Name(), holder.Status())
	// Other listeners may care as well.
	return false
}
