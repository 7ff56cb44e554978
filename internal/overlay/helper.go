package overlay

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/quickdim/quickdim/internal/display"
)

// HelperManager runs one helper process per dimmed display. The helper
// owns the native window; it receives geometry and initial opacity as
// flags and reads "opacity <value>" lines from stdin, so opacity changes
// never tear the window down. A leaked helper would permanently dim a
// display, which is why Close must run before the daemon exits.
type HelperManager struct {
	command string
	args    []string

	mu      sync.Mutex
	helpers map[int]*helperProc
}

type helperProc struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	done  chan struct{}
}

func NewHelperManager(command string, args []string) *HelperManager {
	return &HelperManager{
		command: command,
		args:    args,
		helpers: make(map[int]*helperProc),
	}
}

func (m *HelperManager) Create(displayID int, bounds display.Bounds, opacity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.helpers[displayID]; ok {
		if alive(h) {
			return writeOpacity(h, opacity)
		}
		delete(m.helpers, displayID)
	}

	args := append([]string(nil), m.args...)
	args = append(args,
		"--display", strconv.Itoa(displayID),
		"--x", strconv.Itoa(bounds.X),
		"--y", strconv.Itoa(bounds.Y),
		"--width", strconv.Itoa(bounds.Width),
		"--height", strconv.Itoa(bounds.Height),
		"--opacity", formatOpacity(opacity),
	)

	cmd := exec.Command(m.command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("overlay helper stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start overlay helper for display %d: %w", displayID, err)
	}

	h := &helperProc{cmd: cmd, stdin: stdin, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()

	m.helpers[displayID] = h
	return nil
}

func (m *HelperManager) SetOpacity(displayID int, opacity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.helpers[displayID]
	if !ok || !alive(h) {
		// No live overlay; the next reconciliation pass recreates it
		// with the right opacity.
		return nil
	}
	return writeOpacity(h, opacity)
}

func (m *HelperManager) Destroy(displayID int) error {
	m.mu.Lock()
	h, ok := m.helpers[displayID]
	if ok {
		delete(m.helpers, displayID)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return stop(h)
}

// Close destroys every active overlay. Called on daemon shutdown.
func (m *HelperManager) Close() error {
	m.mu.Lock()
	helpers := m.helpers
	m.helpers = make(map[int]*helperProc)
	m.mu.Unlock()

	var firstErr error
	for _, h := range helpers {
		if err := stop(h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func alive(h *helperProc) bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func writeOpacity(h *helperProc, opacity float64) error {
	if _, err := fmt.Fprintf(h.stdin, "opacity %s\n", formatOpacity(opacity)); err != nil {
		return fmt.Errorf("write opacity to overlay helper: %w", err)
	}
	return nil
}

func stop(h *helperProc) error {
	// Closing stdin asks the helper to exit; kill it if it lingers.
	_ = h.stdin.Close()

	select {
	case <-h.done:
		return nil
	case <-time.After(2 * time.Second):
	}

	if err := h.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill overlay helper: %w", err)
	}
	<-h.done
	return nil
}

func formatOpacity(opacity float64) string {
	return strconv.FormatFloat(opacity, 'f', 3, 64)
}
