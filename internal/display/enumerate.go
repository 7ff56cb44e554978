package display

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// EnumerateFunc is the display enumeration primitive. Tests replace it
// with a fixture.
var EnumerateFunc = enumerateDisplays

// Enumerate returns the currently connected displays.
func Enumerate() ([]Display, error) {
	return EnumerateFunc()
}

func enumerateDisplays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, fmt.Errorf("enumerate displays: no active displays reported")
	}

	out := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, Display{
			ID: i,
			Bounds: Bounds{
				X:      b.Min.X,
				Y:      b.Min.Y,
				Width:  b.Dx(),
				Height: b.Dy(),
			},
			// Display 0 always contains the origin and is the primary.
			IsBuiltin: i == 0,
		})
	}
	return out, nil
}
