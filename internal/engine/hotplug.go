package engine

// Rescan re-enumerates displays and reconciles the registry against the
// new set: overlays on removed displays are destroyed, new displays get
// default settings, and the cached primary height is refreshed. One
// aggregated config_changed event is emitted per changed set, not one
// per display.
//
// Enumeration failures are logged and treated as "no change" — a
// transient error must never look like every display disconnecting.
func (c *Coordinator) Rescan() {
	displays, err := c.enumerate()
	if err != nil {
		c.logger.Warn("engine.hotplug.enumerate_failed", "error", err)
		return
	}

	next := make(map[int]bool, len(displays))
	for _, d := range displays {
		next[d.ID] = true
	}

	c.mu.Lock()
	var removed []int
	for _, id := range c.registry.IDs() {
		if !next[id] {
			removed = append(removed, id)
		}
	}
	added := 0
	for _, d := range displays {
		if _, ok := c.registry.Get(d.ID); !ok {
			added++
			c.settingLocked(d.ID)
		}
	}

	if len(removed) == 0 && added == 0 {
		// Bounds may still have moved (resolution change, rearrange).
		c.registry.Replace(displays)
		c.mu.Unlock()
		return
	}

	var cmds []command
	for _, id := range removed {
		if c.hasOverlay[id] {
			cmds = append(cmds, command{op: opDestroy, id: id})
		}
		// Setting retained for possible reattachment; overlay state
		// and pending retries are gone with the display.
		delete(c.retry, id)
		if c.focused == id {
			// Force a full re-resolution on the next sample.
			c.focused = noDisplay
		}
	}

	c.registry.Replace(displays)
	if c.focused != noDisplay {
		// Dim any newly added display right away. When focus tracking
		// was reset above, the next sample runs the full pass instead;
		// reconciling here would briefly dim the display the user is
		// actually on.
		cmds = append(cmds, c.reconcileLocked()...)
	}
	c.mu.Unlock()

	c.apply(cmds)

	// A destroy for an unplugged display can fail (the window server
	// already tore it down); don't leave it pending forever.
	c.mu.Lock()
	for _, id := range removed {
		delete(c.retry, id)
		delete(c.hasOverlay, id)
	}
	c.mu.Unlock()

	c.logger.Info("engine.hotplug.config_changed", "added", added, "removed", len(removed), "displays", len(displays))
	c.publish(configChangedEvent())
}
