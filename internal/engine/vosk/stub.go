//go:build !vosk

package vosk

import (
	"context"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/services"
)

// Load reports that this binary was built without Vosk support.
func (l *Loader) Load(context.Context, backend.Plan) (engine.Session, error) {
	return nil, services.Wrap(services.ErrBackendUnavailable, "vosk", "load",
		"binary built without vosk support (rebuild with -tags vosk)", nil)
}
