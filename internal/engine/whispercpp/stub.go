//go:build !whisper_cpp

package whispercpp

import (
	"context"

	"subgen/internal/backend"
	"subgen/internal/engine"
	"subgen/internal/services"
)

// Load reports that this binary was built without whisper.cpp support.
func (l *Loader) Load(context.Context, backend.Plan) (engine.Session, error) {
	return nil, services.Wrap(services.ErrBackendUnavailable, "whisper-cpp", "load",
		"binary built without whisper.cpp support (rebuild with -tags whisper_cpp)", nil)
}
