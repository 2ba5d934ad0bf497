package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv8 "github.com/go-redis/redis/v8"

	"contactuse/internal/core/search"
	"contactuse/internal/logger"
)

type Options struct {
	Addr     string
	Password string
}

// Service publishes job updates over redis pub/sub. Nothing is stored: a
// listener that subscribes late only sees later updates.
type Service struct {
	client *redisv8.Client
	log    *logger.Logger
}

func New(opts Options) (*Service, error) {
	c := redisv8.NewClient(&redisv8.Options{Addr: opts.Addr, Password: opts.Password})
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &Service{client: c, log: logger.New("Redis")}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(c *redisv8.Client) *Service {
	return &Service{client: c, log: logger.New("Redis")}
}

func (s *Service) Close() error { return s.client.Close() }

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.LogErrorf("Redis health check failed: %v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// JobEvent is the payload published on a job's channel.
type JobEvent struct {
	Type        string     `json:"type"`
	Job         search.Job `json:"job"`
	PublishedAt time.Time  `json:"published_at"`
}

// PublishJob sends the job snapshot on channel job:<id>.
func (s *Service) PublishJob(ctx context.Context, job search.Job) error {
	b, err := json.Marshal(JobEvent{Type: "updated", Job: job, PublishedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}
	if err := s.client.Publish(ctx, Channel(job.ID), b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Channel(job.ID), err)
	}
	return nil
}

func Channel(jobID string) string { return "job:" + jobID }
