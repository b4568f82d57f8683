package visynth

import "errors"

var (
	// ErrNoRenderer means no backend could draw to the surface. The engine
	// is not usable.
	ErrNoRenderer = errors.New("visynth: no renderer backend available")
	ErrDestroyed  = errors.New("visynth: engine destroyed")
)
