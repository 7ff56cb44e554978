// Package engine owns the authoritative dimming state and the
// reconciliation algorithm that turns focus changes into a minimal set
// of overlay create/destroy/opacity actions.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quickdim/quickdim/internal/display"
	"github.com/quickdim/quickdim/internal/focus"
	"github.com/quickdim/quickdim/internal/overlay"
)

// ErrUnknownDisplay is returned for operations naming a display that is
// not currently connected.
var ErrUnknownDisplay = errors.New("unknown display")

const noDisplay = -1

// createFailureLimit is how many consecutive overlay-create failures
// count as resource exhaustion. Transient failures reset on the first
// success; sustained failure means no display can be dimmed at all and
// the daemon should exit rather than spin.
const createFailureLimit = 10

type monitorSetting struct {
	enabled bool
	opacity float64
	// custom marks an explicit per-monitor opacity override; global
	// opacity changes skip overridden monitors.
	custom bool
}

type opKind int

const (
	opCreate opKind = iota
	opSetOpacity
	opDestroy
)

// command is an overlay side effect decided under the state lock and
// executed outside it, so slow OS calls never hold up state reads.
type command struct {
	op      opKind
	id      int
	bounds  display.Bounds
	opacity float64
}

// Options configures a Coordinator.
type Options struct {
	Overlays  overlay.Manager
	Enumerate func() ([]display.Display, error)
	Publish   func(Event)
	Logger    *slog.Logger

	Enabled bool
	Opacity float64
}

// Coordinator is the single writer for all dimming state: the display
// registry, per-monitor settings and the global enabled/opacity flags.
// Every external mutation goes through one of its methods.
type Coordinator struct {
	overlays  overlay.Manager
	enumerate func() ([]display.Display, error)
	publish   func(Event)
	logger    *slog.Logger

	mu            sync.Mutex
	registry      *display.Registry
	settings      map[int]*monitorSetting // retains entries for unplugged displays
	hasOverlay    map[int]bool
	retry         map[int]struct{} // displays whose last overlay op failed
	enabled       bool
	globalOpacity float64
	focused       int

	createFailStreak int
	exhausted        chan struct{}
	exhaustOnce      sync.Once
}

func New(opts Options) (*Coordinator, error) {
	if opts.Overlays == nil {
		return nil, fmt.Errorf("engine: overlay manager is required")
	}

	enumerate := opts.Enumerate
	if enumerate == nil {
		enumerate = display.Enumerate
	}

	displays, err := enumerate()
	if err != nil {
		return nil, fmt.Errorf("engine: initial display enumeration: %w", err)
	}

	publish := opts.Publish
	if publish == nil {
		publish = func(Event) {}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		overlays:      opts.Overlays,
		enumerate:     enumerate,
		publish:       publish,
		logger:        logger,
		registry:      display.NewRegistry(displays),
		settings:      make(map[int]*monitorSetting),
		hasOverlay:    make(map[int]bool),
		retry:         make(map[int]struct{}),
		enabled:       opts.Enabled,
		globalOpacity: clampOpacity(opts.Opacity),
		focused:       noDisplay,
		exhausted:     make(chan struct{}),
	}

	for _, d := range displays {
		c.settingLocked(d.ID)
	}

	logger.Info("engine.started", "displays", len(displays), "enabled", c.enabled, "opacity", c.globalOpacity)
	return c, nil
}

// SetPublisher installs the event sink. Must be called before the
// sampling loop starts.
func (c *Coordinator) SetPublisher(publish func(Event)) {
	if publish != nil {
		c.publish = publish
	}
}

// Exhausted is closed when overlay creation has failed persistently
// enough that dimming cannot work at all. The daemon treats this as
// fatal and shuts down, destroying whatever overlays remain.
func (c *Coordinator) Exhausted() <-chan struct{} {
	return c.exhausted
}

// HandleSample runs one reconciliation pass for a focus sample. Unknown
// samples are dropped: dimming everything because one OS query failed
// would be far worse than holding the previous state for a tick.
func (c *Coordinator) HandleSample(s focus.Sample) {
	if !s.Known {
		return
	}

	c.mu.Lock()
	id, ok := c.registry.Resolve(s.X, s.Y)
	if !ok {
		c.mu.Unlock()
		return
	}

	// Dominant case: focus stayed on the same display and nothing is
	// pending a retry.
	if id == c.focused && len(c.retry) == 0 {
		c.mu.Unlock()
		return
	}

	focusMoved := id != c.focused
	c.focused = id
	cmds := c.reconcileLocked()
	c.mu.Unlock()

	c.apply(cmds)
	if focusMoved {
		c.logger.Debug("engine.focus_changed", "display", id, "app", s.App)
		c.publish(focusChangedEvent(id))
	}
}

// Toggle flips master dimming and re-reconciles all displays.
func (c *Coordinator) Toggle() bool {
	c.mu.Lock()
	enabled := !c.enabled
	c.mu.Unlock()
	c.SetEnabled(enabled)
	return enabled
}

// SetEnabled sets master dimming and re-reconciles all displays.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	if c.enabled == enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = enabled
	cmds := c.reconcileLocked()
	c.mu.Unlock()

	c.apply(cmds)
	c.logger.Info("engine.enabled_changed", "enabled", enabled)
	c.publish(enabledChangedEvent(enabled))
}

// SetGlobalOpacity sets the default opacity for every monitor without an
// explicit override and updates live overlays in place; an existing
// overlay is never destroyed and recreated for an opacity change.
func (c *Coordinator) SetGlobalOpacity(opacity float64) float64 {
	opacity = clampOpacity(opacity)

	c.mu.Lock()
	c.globalOpacity = opacity
	var cmds []command
	for id, s := range c.settings {
		if s.custom {
			continue
		}
		s.opacity = opacity
		if c.hasOverlay[id] {
			cmds = append(cmds, command{op: opSetOpacity, id: id, opacity: opacity})
		}
	}
	c.mu.Unlock()

	c.apply(cmds)
	c.logger.Info("engine.opacity_changed", "opacity", opacity)
	c.publish(opacityChangedEvent(opacity))
	return opacity
}

// SetMonitorOpacity sets an explicit opacity override for one display.
func (c *Coordinator) SetMonitorOpacity(id int, opacity float64) error {
	opacity = clampOpacity(opacity)

	c.mu.Lock()
	if _, ok := c.registry.Get(id); !ok {
		c.mu.Unlock()
		return fmt.Errorf("set monitor opacity: %w: %d", ErrUnknownDisplay, id)
	}
	s := c.settingLocked(id)
	s.opacity = opacity
	s.custom = true
	var cmds []command
	if c.hasOverlay[id] {
		cmds = append(cmds, command{op: opSetOpacity, id: id, opacity: opacity})
	}
	c.mu.Unlock()

	c.apply(cmds)
	c.logger.Info("engine.monitor_opacity_changed", "display", id, "opacity", opacity)
	c.publish(monitorOpacityChangedEvent(id, opacity))
	return nil
}

// SetMonitorEnabled turns dimming on or off for one display and
// reconciles only that display.
func (c *Coordinator) SetMonitorEnabled(id int, enabled bool) error {
	c.mu.Lock()
	d, ok := c.registry.Get(id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("set monitor enabled: %w: %d", ErrUnknownDisplay, id)
	}
	s := c.settingLocked(id)
	s.enabled = enabled

	var cmds []command
	target := c.enabled && enabled && id != c.focused
	switch {
	case target && !c.hasOverlay[id]:
		cmds = append(cmds, command{op: opCreate, id: id, bounds: d.Bounds, opacity: s.opacity})
	case !target && c.hasOverlay[id]:
		cmds = append(cmds, command{op: opDestroy, id: id})
	}
	c.mu.Unlock()

	c.apply(cmds)
	c.logger.Info("engine.monitor_enabled_changed", "display", id, "enabled", enabled)
	c.publish(monitorEnabledChangedEvent(id, enabled))
	return nil
}

// Shutdown destroys every active overlay. A leaked overlay outlives the
// engine and permanently dims a display, so this must run before exit.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.hasOverlay))
	for id := range c.hasOverlay {
		ids = append(ids, id)
	}
	c.hasOverlay = make(map[int]bool)
	c.retry = make(map[int]struct{})
	c.mu.Unlock()

	for _, id := range ids {
		if err := c.overlays.Destroy(id); err != nil {
			c.logger.Error("engine.shutdown.destroy_failed", "display", id, "error", err)
		}
	}
	c.logger.Info("engine.stopped", "overlays_destroyed", len(ids))
}

// reconcileLocked diffs desired overlay state against recorded state for
// every connected display. Target state: dimmed iff master dimming is
// on, the monitor is enabled, and it is not the focused display — focus
// always wins, and a disabled monitor is never dimmed.
func (c *Coordinator) reconcileLocked() []command {
	var cmds []command
	for _, d := range c.registry.Displays() {
		s := c.settingLocked(d.ID)
		target := c.enabled && s.enabled && d.ID != c.focused
		has := c.hasOverlay[d.ID]
		_, pending := c.retry[d.ID]

		switch {
		case target && (!has || pending):
			cmds = append(cmds, command{op: opCreate, id: d.ID, bounds: d.Bounds, opacity: s.opacity})
		case !target && (has || pending):
			cmds = append(cmds, command{op: opDestroy, id: d.ID})
		}
	}
	return cmds
}

// apply executes overlay commands outside the state lock. A failed op
// marks its display for retry on the next reconciliation pass without
// aborting the remaining commands.
func (c *Coordinator) apply(cmds []command) {
	for _, cmd := range cmds {
		var err error
		switch cmd.op {
		case opCreate:
			err = c.overlays.Create(cmd.id, cmd.bounds, cmd.opacity)
		case opSetOpacity:
			err = c.overlays.SetOpacity(cmd.id, cmd.opacity)
		case opDestroy:
			err = c.overlays.Destroy(cmd.id)
		}

		c.mu.Lock()
		if err != nil {
			c.retry[cmd.id] = struct{}{}
			if cmd.op == opCreate {
				c.createFailStreak++
				if c.createFailStreak >= createFailureLimit {
					c.exhaustOnce.Do(func() { close(c.exhausted) })
				}
			}
			c.mu.Unlock()
			c.logger.Warn("engine.overlay.op_failed", "display", cmd.id, "error", err)
			continue
		}
		delete(c.retry, cmd.id)
		switch cmd.op {
		case opCreate:
			c.createFailStreak = 0
			c.hasOverlay[cmd.id] = true
		case opDestroy:
			delete(c.hasOverlay, cmd.id)
		}
		c.mu.Unlock()
	}
}

// settingLocked returns the monitor setting for id, creating it with
// defaults (enabled, global opacity) the first time the display is seen.
// Settings for unplugged displays are retained and reattach when the
// same identity reappears.
func (c *Coordinator) settingLocked(id int) *monitorSetting {
	s, ok := c.settings[id]
	if !ok {
		s = &monitorSetting{enabled: true, opacity: c.globalOpacity}
		c.settings[id] = s
	}
	return s
}

func clampOpacity(v float64) float64 {
	switch {
	case v < 0.0:
		return 0.0
	case v > 1.0:
		return 1.0
	default:
		return v
	}
}
