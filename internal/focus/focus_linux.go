//go:build linux

package focus

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

func sampleFocus(ctx context.Context) Sample {
	// Try xdotool (X11), then kdotool (Wayland/KDE).
	for _, tool := range []string{"xdotool", "kdotool"} {
		if s, ok := sampleWith(ctx, tool); ok {
			return s
		}
	}
	return Sample{}
}

func sampleWith(ctx context.Context, tool string) (Sample, bool) {
	out, err := exec.CommandContext(ctx, tool, "getactivewindow", "getwindowgeometry", "--shell").Output()
	if err != nil {
		return Sample{}, false
	}

	x, y, ok := parseGeometryShell(string(out))
	if !ok {
		return Sample{}, false
	}

	app := ""
	if nameOut, err := exec.CommandContext(ctx, tool, "getactivewindow", "getwindowname").Output(); err == nil {
		app = strings.TrimSpace(string(nameOut))
	}

	return Sample{App: app, X: x, Y: y, Known: true}, true
}

// parseGeometryShell reads the X= and Y= lines of
// `xdotool getwindowgeometry --shell` output.
func parseGeometryShell(out string) (int, int, bool) {
	var x, y int
	var haveX, haveY bool

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "X="); ok {
			if n, err := strconv.Atoi(v); err == nil {
				x, haveX = n, true
			}
		}
		if v, ok := strings.CutPrefix(line, "Y="); ok {
			if n, err := strconv.Atoi(v); err == nil {
				y, haveY = n, true
			}
		}
	}

	return x, y, haveX && haveY
}
