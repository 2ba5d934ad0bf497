package search

import (
	"context"
	"time"
)

// SearchRequest is the caller's description of the contact to look for.
type SearchRequest struct {
	Keywords     string   `json:"keywords" validate:"required"`
	Organization *string  `json:"organization"`
	Location     *string  `json:"location"`
	Role         *string  `json:"role"`
	FieldsToFind []string `json:"fields_to_find"`
}

// ContactResult holds whatever the agent managed to find. A nil field means
// the value was not found.
type ContactResult struct {
	FullName           *string `json:"full_name"`
	City               *string `json:"city"`
	Company            *string `json:"company"`
	JobTitle           *string `json:"job_title"`
	Email              *string `json:"email"`
	CompanyPhoneNumber *string `json:"company_phone_number"`
	ContactFormURL     *string `json:"contact_form_url"`
	ProfileImageURL    *string `json:"profile_image_url"`
	CVURL              *string `json:"cv_url"`
	GithubProfileURL   *string `json:"github_profile_url"`
	TwitterProfileURL  *string `json:"twitter_profile_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one search from submission to its terminal state.
type Job struct {
	ID          string         `json:"id"`
	Request     SearchRequest  `json:"request"`
	Status      Status         `json:"status"`
	Result      *ContactResult `json:"result"`
	Error       *string        `json:"error"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at"`
}

// Agent drives a browser on behalf of a job. Given a natural-language task
// it returns the agent's free-form final answer.
type Agent interface {
	Run(ctx context.Context, task string) (string, error)
}

// Publisher receives a snapshot after every committed job write.
type Publisher interface {
	PublishJob(ctx context.Context, job Job) error
}

func (r SearchRequest) clone() SearchRequest {
	out := r
	out.Organization = cloneString(r.Organization)
	out.Location = cloneString(r.Location)
	out.Role = cloneString(r.Role)
	out.FieldsToFind = append([]string{}, r.FieldsToFind...)
	return out
}

func (c *ContactResult) clone() *ContactResult {
	if c == nil {
		return nil
	}
	return &ContactResult{
		FullName:           cloneString(c.FullName),
		City:               cloneString(c.City),
		Company:            cloneString(c.Company),
		JobTitle:           cloneString(c.JobTitle),
		Email:              cloneString(c.Email),
		CompanyPhoneNumber: cloneString(c.CompanyPhoneNumber),
		ContactFormURL:     cloneString(c.ContactFormURL),
		ProfileImageURL:    cloneString(c.ProfileImageURL),
		CVURL:              cloneString(c.CVURL),
		GithubProfileURL:   cloneString(c.GithubProfileURL),
		TwitterProfileURL:  cloneString(c.TwitterProfileURL),
		LinkedinProfileURL: cloneString(c.LinkedinProfileURL),
	}
}

func (j Job) clone() Job {
	out := j
	out.Request = j.Request.clone()
	out.Result = j.Result.clone()
	out.Error = cloneString(j.Error)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
