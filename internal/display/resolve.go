package display

// Resolve maps a focused-window origin to the display that contains it.
//
// The focus sampler and the registry use vertically opposed coordinate
// origins, so the Y coordinate is converted with the cached primary
// display height before hit testing. Displays are tested in ascending ID
// order, first match wins; displays don't overlap, the fixed order just
// keeps the answer deterministic.
//
// When no display contains the point (window parked off-screen, stale
// bounds mid-hotplug) the lowest-ID display is returned: the engine must
// always have an answer for "which display is focused". The second
// return value is false only when the registry is empty.
func (r *Registry) Resolve(x, y int) (int, bool) {
	if len(r.order) == 0 {
		return 0, false
	}

	cy := r.primaryHeight - y
	for _, id := range r.order {
		if r.displays[id].Bounds.Contains(x, cy) {
			return id, true
		}
	}

	return r.order[0], true
}
