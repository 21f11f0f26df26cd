package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
}

type Initialize func(engine *Engine) error
type Update func(engine *Engine, deltaTime float64) error
