package tasks

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PiyushChall/CogniSynapseRank/internal/types"
)

// Statuses returned by Poll when no stage event is pending.
const (
	StatusProcessing = "Processing"
	StatusNotFound   = "Task not found"
)

// Task is the full execution context of one submitted analysis: its
// identifier, the ordered progress queue written by its run, and the
// terminal outcome. Exactly one run writes to a Task; any number of
// pollers read from it.
type Task struct {
	ID      uuid.UUID
	Request *types.AnalysisRequest

	mu       sync.Mutex
	queue    []string
	terminal string
	results  *types.AnalysisResults
	doneAt   time.Time
}

func NewTask(req *types.AnalysisRequest) *Task {
	return &Task{
		ID:      uuid.New(),
		Request: req,
	}
}

// Push appends a progress event. Only the owning run calls this; it never
// blocks.
func (t *Task) Push(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, event)
}

// Finish pushes the terminal event and records it as the stable status
// every drained poll will see from now on. results is nil on failure.
func (t *Task) Finish(status string, results *types.AnalysisResults) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, status)
	t.terminal = status
	t.results = results
	t.doneAt = time.Now()
}

// Poll pops the oldest pending event. With nothing pending it reports the
// terminal status if the run finished, otherwise StatusProcessing. It
// never waits.
func (t *Task) Poll() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) > 0 {
		event := t.queue[0]
		t.queue = t.queue[1:]
		return event
	}
	if t.terminal != "" {
		return t.terminal
	}
	return StatusProcessing
}

// Done reports whether the run reached a terminal outcome.
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal != ""
}

// Results returns the completed bundle, or nil while the run is in
// flight or after a failure.
func (t *Task) Results() *types.AnalysisResults {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.results
}

func (t *Task) finishedBefore(cutoff time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal != "" && t.doneAt.Before(cutoff)
}
