package model

import (
	"errors"
	"strings"
)

// JobListOptions filters and paginates job listings.
type JobListOptions struct {
	State    *JobState
	ShopName string
	Limit    int
	Offset   int
}

// CreateJobCommentRequest carries the fields for attaching a comment to a job.
type CreateJobCommentRequest struct {
	JobID      string
	Body       string
	AuthorName string
	AuthorRole ActorRole
}

// Validate validates the CreateJobCommentRequest fields.
func (r *CreateJobCommentRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job id is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("comment body is required")
	}
	return nil
}
