package engine

import "github.com/quickdim/quickdim/internal/display"

// MonitorInfo is the externally visible state of one display's dimming
// configuration.
type MonitorInfo struct {
	DisplayID  int            `json:"display_id"`
	Enabled    bool           `json:"enabled"`
	Opacity    float64        `json:"opacity"`
	Bounds     display.Bounds `json:"bounds"`
	IsFocused  bool           `json:"is_focused"`
	HasOverlay bool           `json:"has_overlay"`
}

// DisplayInfo describes one connected display.
type DisplayInfo struct {
	ID         int            `json:"id"`
	Bounds     display.Bounds `json:"bounds"`
	IsBuiltin  bool           `json:"is_builtin"`
	IsFocused  bool           `json:"is_focused"`
	HasOverlay bool           `json:"has_overlay"`
}

// Status is the full authoritative state snapshot.
type Status struct {
	Enabled         bool                `json:"enabled"`
	Opacity         float64             `json:"opacity"`
	FocusedDisplay  *int                `json:"focused_display"`
	Displays        int                 `json:"displays"`
	ActiveOverlays  int                 `json:"active_overlays"`
	MonitorSettings map[int]MonitorInfo `json:"monitor_settings"`
}

// Status returns a snapshot no older than the last completed
// reconciliation.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Enabled:         c.enabled,
		Opacity:         c.globalOpacity,
		Displays:        c.registry.Len(),
		ActiveOverlays:  len(c.hasOverlay),
		MonitorSettings: c.monitorsLocked(),
	}
	if c.focused != noDisplay {
		focused := c.focused
		st.FocusedDisplay = &focused
	}
	return st
}

// Displays lists connected displays with their focus/overlay state.
func (c *Coordinator) Displays() []DisplayInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]DisplayInfo, 0, c.registry.Len())
	for _, d := range c.registry.Displays() {
		out = append(out, DisplayInfo{
			ID:         d.ID,
			Bounds:     d.Bounds,
			IsBuiltin:  d.IsBuiltin,
			IsFocused:  d.ID == c.focused,
			HasOverlay: c.hasOverlay[d.ID],
		})
	}
	return out
}

// Monitors returns per-display settings for every connected display.
func (c *Coordinator) Monitors() map[int]MonitorInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitorsLocked()
}

// Monitor returns the settings for one connected display.
func (c *Coordinator) Monitor(id int) (MonitorInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.registry.Get(id)
	if !ok {
		return MonitorInfo{}, ErrUnknownDisplay
	}
	return c.monitorInfoLocked(d), nil
}

func (c *Coordinator) monitorsLocked() map[int]MonitorInfo {
	out := make(map[int]MonitorInfo, c.registry.Len())
	for _, d := range c.registry.Displays() {
		out[d.ID] = c.monitorInfoLocked(d)
	}
	return out
}

func (c *Coordinator) monitorInfoLocked(d display.Display) MonitorInfo {
	s := c.settingLocked(d.ID)
	return MonitorInfo{
		DisplayID:  d.ID,
		Enabled:    s.enabled,
		Opacity:    s.opacity,
		Bounds:     d.Bounds,
		IsFocused:  d.ID == c.focused,
		HasOverlay: c.hasOverlay[d.ID],
	}
}
