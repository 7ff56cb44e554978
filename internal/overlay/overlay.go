// Package overlay abstracts the native dimming primitive: a borderless,
// click-through, always-on-top window painted over one display.
package overlay

import "github.com/quickdim/quickdim/internal/display"

// Manager is the overlay side-effect primitive consumed by the engine.
//
// All three operations are idempotent: creating an overlay that already
// exists updates its opacity, destroying a nonexistent one is a no-op.
// The engine treats calls as fire-and-confirm and reconciles desired vs
// actual state on the next pass, so implementations should fail fast
// rather than block.
type Manager interface {
	Create(displayID int, bounds display.Bounds, opacity float64) error
	SetOpacity(displayID int, opacity float64) error
	Destroy(displayID int) error
}
