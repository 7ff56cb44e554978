package engine

import "time"

// Push-channel event types. The broadcaster additionally emits
// initial_status, status_update, pong and error frames of its own.
const (
	EventEnabledChanged        = "enabled_changed"
	EventOpacityChanged        = "opacity_changed"
	EventMonitorOpacityChanged = "monitor_opacity_changed"
	EventMonitorEnabledChanged = "monitor_enabled_changed"
	EventFocusChanged          = "focus_changed"
	EventConfigChanged         = "config_changed"
)

// Event is one state transition, pushed to every subscribed observer.
type Event struct {
	Type      string   `json:"type"`
	Display   *int     `json:"display_id,omitempty"`
	Enabled   *bool    `json:"enabled,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Focused   *int     `json:"focused_display,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

func newEvent(eventType string) Event {
	return Event{Type: eventType, Timestamp: time.Now().UnixMilli()}
}

func enabledChangedEvent(enabled bool) Event {
	ev := newEvent(EventEnabledChanged)
	ev.Enabled = &enabled
	return ev
}

func opacityChangedEvent(opacity float64) Event {
	ev := newEvent(EventOpacityChanged)
	ev.Opacity = &opacity
	return ev
}

func monitorOpacityChangedEvent(displayID int, opacity float64) Event {
	ev := newEvent(EventMonitorOpacityChanged)
	ev.Display = &displayID
	ev.Opacity = &opacity
	return ev
}

func monitorEnabledChangedEvent(displayID int, enabled bool) Event {
	ev := newEvent(EventMonitorEnabledChanged)
	ev.Display = &displayID
	ev.Enabled = &enabled
	return ev
}

func focusChangedEvent(displayID int) Event {
	ev := newEvent(EventFocusChanged)
	ev.Focused = &displayID
	return ev
}

func configChangedEvent() Event {
	return newEvent(EventConfigChanged)
}
