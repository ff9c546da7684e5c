package renderer

import "errors"

var (
	// ErrInvalidScene is returned when a rendering is started without a usable scene
	ErrInvalidScene = errors.New("invalid scene")
	// ErrUninitialized is returned when a pass is requested before NewRendering
	ErrUninitialized = errors.New("rendering not initialized")
	// ErrInvalidFormat is returned for unknown renderer types or malformed checkpoints
	ErrInvalidFormat = errors.New("invalid format")
	// ErrStopped is returned by a pass that was interrupted; the image is unchanged
	ErrStopped = errors.New("rendering stopped")
	// ErrNoData is returned when colors are requested before any pass completed
	ErrNoData = errors.New("no rendered data")
)
