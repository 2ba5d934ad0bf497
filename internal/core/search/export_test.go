package search

import "context"

// SetStatus moves a stored job to status through the guarded update path.
func (r *Registry) SetStatus(ctx context.Context, id string, status Status) (Job, error) {
	return r.update(ctx, id, func(j *Job) { j.Status = status })
}
