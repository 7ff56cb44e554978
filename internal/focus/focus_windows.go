//go:build windows

package focus

import (
	"context"
	"syscall"
	"unsafe"
)

var (
	user32              = syscall.NewLazyDLL("user32.dll")
	getForegroundWindow = user32.NewProc("GetForegroundWindow")
	getWindowRect       = user32.NewProc("GetWindowRect")
	getWindowTextW      = user32.NewProc("GetWindowTextW")
)

type windowRect struct {
	Left, Top, Right, Bottom int32
}

func sampleFocus(_ context.Context) Sample {
	hwnd, _, _ := getForegroundWindow.Call()
	if hwnd == 0 {
		return Sample{}
	}

	var r windowRect
	ret, _, _ := getWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Sample{}
	}

	buf := make([]uint16, 256)
	n, _, _ := getWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))

	return Sample{
		App:   syscall.UTF16ToString(buf[:n]),
		X:     int(r.Left),
		Y:     int(r.Top),
		Known: true,
	}
}
