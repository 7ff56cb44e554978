//go:build darwin

package focus

import (
	"context"
	"os/exec"
)

// System Events reports the frontmost window position; a window-less
// frontmost app (menu bar agents) falls back to 0,0 on the primary.
const probeScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	try
		set frontWindow to first window of frontApp
		set {x, y} to position of frontWindow
		return appName & "|" & x & "," & y
	on error
		return appName & "|0,0"
	end try
end tell`

func sampleFocus(ctx context.Context) Sample {
	out, err := exec.CommandContext(ctx, "osascript", "-e", probeScript).Output()
	if err != nil {
		return Sample{}
	}
	return parseSample(string(out))
}
