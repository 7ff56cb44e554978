// Package focus samples which application window is frontmost and where
// its origin sits. It only observes; all dimming decisions live in the
// overlay coordinator.
package focus

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Sample is one observation of the frontmost window. Known is false when
// the OS query failed (error, timeout, permission denial); the coordinator
// must treat an unknown sample as "no change", never as "nothing focused".
type Sample struct {
	App   string
	X     int
	Y     int
	Known bool
}

// SampleFunc is the OS focus primitive. Tests replace it.
var SampleFunc = sampleFocus

// Current queries the frontmost application name and window origin,
// bounded by timeout so a stuck OS call (e.g. a pending permission
// dialog) never stalls the sampling loop.
func Current(timeout time.Duration) Sample {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return SampleFunc(ctx)
}

// parseSample decodes the "AppName|x,y" format produced by the darwin
// probe script.
func parseSample(out string) Sample {
	app, coords, ok := strings.Cut(strings.TrimSpace(out), "|")
	if !ok {
		return Sample{}
	}

	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return Sample{}
	}

	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Sample{}
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Sample{}
	}

	return Sample{App: app, X: x, Y: y, Known: true}
}
