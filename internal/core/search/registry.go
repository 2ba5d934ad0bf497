package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"contactuse/internal/logger"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrDuplicateJob      = errors.New("job already registered")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Registry is the in-memory owner of every job. It never evicts: jobs live
// until the process exits.
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	order     []string
	publisher Publisher
	log       *logger.Logger
}

type RegistryOption func(*Registry)

// WithPublisher forwards a snapshot of every committed write to p.
func WithPublisher(p Publisher) RegistryOption {
	return func(r *Registry) { r.publisher = p }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		jobs: make(map[string]*Job),
		log:  logger.New("JobRegistry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put inserts a new job. Ids are never reused, so an existing id is an error.
func (r *Registry) Put(ctx context.Context, job Job) error {
	r.mu.Lock()
	if _, ok := r.jobs[job.ID]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}
	stored := job.clone()
	r.jobs[job.ID] = &stored
	r.order = append(r.order, job.ID)
	snapshot := stored.clone()
	r.mu.Unlock()

	r.publish(ctx, snapshot)
	return nil
}

func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return j.clone(), nil
}

// List returns a snapshot of every job in insertion order.
func (r *Registry) List() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.jobs[id].clone())
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// update applies fn to the stored job under the write lock. fn must move the
// job forward along pending -> running -> completed|failed; anything else is
// rolled back and reported as ErrInvalidTransition.
func (r *Registry) update(ctx context.Context, id string, fn func(*Job)) (Job, error) {
	r.mu.Lock()
	j, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	next := j.clone()
	fn(&next)
	if next.Status != j.Status && !allowed(j.Status, next.Status) {
		from := j.Status
		r.mu.Unlock()
		return Job{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next.Status)
	}
	*j = next
	snapshot := next.clone()
	r.mu.Unlock()

	r.publish(ctx, snapshot)
	return snapshot, nil
}

func allowed(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

func (r *Registry) publish(ctx context.Context, job Job) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishJob(ctx, job); err != nil {
		r.log.With("job_id", job.ID).LogError("failed to publish job update", err)
	}
}
