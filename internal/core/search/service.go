package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"contactuse/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service struct {
	registry *Registry
	agent    Agent
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for created_at/completed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(registry *Registry, agent Agent, opts ...Option) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &Service{
		registry: registry,
		agent:    agent,
		validate: v,
		log:      logger.New("SearchService"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the request against its struct tags.
func (s *Service) Validate(req SearchRequest) error {
	return s.validate.Struct(req)
}

// IsValidationError reports whether err came from request validation.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// ValidationDetail renders validation failures as "field: rule" pairs.
func ValidationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+fe.Tag())
	}
	return strings.Join(msgs, "; ")
}

// Submit records a pending job and starts working on it in the background.
// The returned snapshot is taken before the worker starts, so it is always
// pending. No handle to the worker is kept: it cannot be cancelled.
func (s *Service) Submit(ctx context.Context, req SearchRequest) (Job, error) {
	if err := s.Validate(req); err != nil {
		return Job{}, err
	}
	if req.FieldsToFind == nil {
		req.FieldsToFind = []string{}
	}

	job := Job{
		ID:        uuid.NewString(),
		Request:   req.clone(),
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	if err := s.registry.Put(ctx, job); err != nil {
		return Job{}, fmt.Errorf("register job: %w", err)
	}
	s.log.With("job_id", job.ID).LogInfof("search queued for %q", req.Keywords)

	snapshot := job.clone()
	go s.run(job.ID)
	return snapshot, nil
}

func (s *Service) List() []Job {
	return s.registry.List()
}

func (s *Service) Get(id string) (Job, error) {
	return s.registry.Get(id)
}

// run advances one job to a terminal state. It runs detached from any
// request context, with no deadline.
func (s *Service) run(id string) {
	ctx := context.Background()
	log := s.log.With("job_id", id)

	job, err := s.registry.update(ctx, id, func(j *Job) { j.Status = StatusRunning })
	if err != nil {
		log.LogError("failed to mark job running", err)
		return
	}

	result, err := s.execute(ctx, job.Request)
	finished := s.now()
	if err != nil {
		msg := err.Error()
		_, uerr := s.registry.update(ctx, id, func(j *Job) {
			j.Status = StatusFailed
			j.Error = &msg
			j.Result = nil
			j.CompletedAt = &finished
		})
		if uerr != nil {
			log.LogError("failed to record job failure", uerr)
			return
		}
		log.LogError("search failed", err)
		return
	}

	if _, err := s.registry.update(ctx, id, func(j *Job) {
		j.Status = StatusCompleted
		j.Result = result
		j.Error = nil
		j.CompletedAt = &finished
	}); err != nil {
		log.LogError("failed to record job result", err)
		return
	}
	log.LogSuccessf("search completed in %v", finished.Sub(job.CreatedAt))
}

// execute builds the task, hands it to the agent and parses the answer. A
// panic anywhere in that chain is reported as an ordinary error.
func (s *Service) execute(ctx context.Context, req SearchRequest) (result *ContactResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	task := BuildTask(req)
	raw, err := s.agent.Run(ctx, task)
	if err != nil {
		return nil, err
	}
	return ParseContact(raw), nil
}
