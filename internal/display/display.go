// Package display holds the authoritative list of connected displays and
// resolves a focused-window position to a display identity.
package display

import "sort"

// Bounds is a display rectangle in pixels. Hit testing is half-open:
// a point on the right or bottom edge belongs to the neighbouring display.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Display is one connected display as reported by the OS enumerator.
// The ID is stable for the session but not across reboots.
type Display struct {
	ID        int    `json:"id"`
	Bounds    Bounds `json:"bounds"`
	IsBuiltin bool   `json:"is_builtin"`
}

// Registry maps display IDs to Displays and caches the primary display
// height used for coordinate conversion. It is not safe for concurrent
// use; the overlay coordinator serializes all access.
type Registry struct {
	displays      map[int]Display
	order         []int
	primaryHeight int
}

func NewRegistry(displays []Display) *Registry {
	r := &Registry{}
	r.Replace(displays)
	return r
}

// Replace swaps in a freshly enumerated display set and refreshes the
// cached primary height, since the primary display itself may have
// changed across a hot-plug event.
func (r *Registry) Replace(displays []Display) {
	r.displays = make(map[int]Display, len(displays))
	r.order = r.order[:0]
	for _, d := range displays {
		if _, dup := r.displays[d.ID]; dup {
			continue
		}
		r.displays[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	sort.Ints(r.order)

	r.primaryHeight = 0
	for _, d := range displays {
		if d.IsBuiltin {
			r.primaryHeight = d.Bounds.Height
			break
		}
	}
	if r.primaryHeight == 0 && len(r.order) > 0 {
		r.primaryHeight = r.displays[r.order[0]].Bounds.Height
	}
}

// Displays returns the registered displays in ascending ID order.
func (r *Registry) Displays() []Display {
	out := make([]Display, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.displays[id])
	}
	return out
}

// IDs returns the registered display IDs in ascending order.
func (r *Registry) IDs() []int {
	return append([]int(nil), r.order...)
}

func (r *Registry) Get(id int) (Display, bool) {
	d, ok := r.displays[id]
	return d, ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

// PrimaryHeight returns the cached height of the primary display.
func (r *Registry) PrimaryHeight() int {
	return r.primaryHeight
}
