package overlay

import (
	"fmt"
	"sync"

	"github.com/quickdim/quickdim/internal/display"
)

// Recorder is an in-memory Manager that records every call. It backs
// `quickdim serve --dry-run` and the engine tests, which assert on call
// counts (e.g. that opacity changes never destroy and recreate).
type Recorder struct {
	mu       sync.Mutex
	active   map[int]float64
	ops      []string
	creates  int
	destroys int
	setOps   int

	// FailNext, when set, makes the next mutating call return an error.
	FailNext bool
	// FailAll makes every mutating call fail until cleared.
	FailAll bool
}

func NewRecorder() *Recorder {
	return &Recorder{active: make(map[int]float64)}
}

func (r *Recorder) Create(displayID int, bounds display.Bounds, opacity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.maybeFail(); err != nil {
		return err
	}
	r.active[displayID] = opacity
	r.creates++
	r.ops = append(r.ops, fmt.Sprintf("create %d %.3f", displayID, opacity))
	return nil
}

func (r *Recorder) SetOpacity(displayID int, opacity float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.maybeFail(); err != nil {
		return err
	}
	if _, ok := r.active[displayID]; ok {
		r.active[displayID] = opacity
	}
	r.setOps++
	r.ops = append(r.ops, fmt.Sprintf("setopacity %d %.3f", displayID, opacity))
	return nil
}

func (r *Recorder) Destroy(displayID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.maybeFail(); err != nil {
		return err
	}
	delete(r.active, displayID)
	r.destroys++
	r.ops = append(r.ops, fmt.Sprintf("destroy %d", displayID))
	return nil
}

func (r *Recorder) maybeFail() error {
	if r.FailAll {
		return fmt.Errorf("overlay op failed (injected, persistent)")
	}
	if r.FailNext {
		r.FailNext = false
		return fmt.Errorf("overlay op failed (injected)")
	}
	return nil
}

// Active returns the displays that currently hold an overlay and their
// opacities.
func (r *Recorder) Active() map[int]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]float64, len(r.active))
	for id, op := range r.active {
		out[id] = op
	}
	return out
}

// Ops returns the recorded call log in order.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// Counts returns total create, set-opacity and destroy calls.
func (r *Recorder) Counts() (creates, setOps, destroys int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates, r.setOps, r.destroys
}
