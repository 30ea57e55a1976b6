package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PiyushChall/CogniSynapseRank/internal/logger"
)

// ErrTaskNotFound is returned by Lookup for identifiers the registry
// never issued or has already retired.
var ErrTaskNotFound = errors.New("task not found")

type RegistryConfig struct {
	// Retention controls how long finished tasks stay resolvable after
	// their terminal event. Zero keeps them for the life of the process.
	Retention time.Duration
}

// Registry maps task identifiers to their live tasks. It is the only
// state shared between runs and pollers.
type Registry struct {
	mu    sync.RWMutex
	log   *logger.Logger
	cfg   RegistryConfig
	tasks map[uuid.UUID]*Task
}

func NewRegistry(log *logger.Logger, cfg RegistryConfig) *Registry {
	return &Registry{
		log:   log.With("component", "TaskRegistry"),
		cfg:   cfg,
		tasks: make(map[uuid.UUID]*Task),
	}
}

func (r *Registry) Register(t *Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	r.log.Debug("task registered", "task_id", t.ID)
}

func (r *Registry) Lookup(id uuid.UUID) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// StartSweeper retires finished tasks older than the configured
// retention. With Retention == 0 it does nothing and entries accumulate
// for the life of the process.
func (r *Registry) StartSweeper(ctx context.Context) {
	if r.cfg.Retention <= 0 {
		return
	}
	interval := r.cfg.Retention
	if interval > 30*time.Second {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep(time.Now())
			}
		}
	}()
}

func (r *Registry) sweep(now time.Time) {
	cutoff := now.Add(-r.cfg.Retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tasks {
		if t.finishedBefore(cutoff) {
			delete(r.tasks, id)
			r.log.Debug("task retired", "task_id", id)
		}
	}
}
