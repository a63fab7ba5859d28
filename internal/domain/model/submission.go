package model

import (
	"errors"
	"strings"
	"time"
)

// FormType is the logical kind of vendor mobile form, independent of the
// vendor's rotating numeric form identifiers.
type FormType string

const (
	// FormPickup is completed by the driver collecting a unit from a customer.
	FormPickup FormType = "pickup"
	// FormService is completed by the shop technician (includes the parts loop screen).
	FormService FormType = "service"
	// FormDelivery is completed by the driver returning a unit to a customer.
	FormDelivery FormType = "delivery"
)

// Valid returns true if the FormType is known.
func (t FormType) Valid() bool {
	return t == FormPickup || t == FormService || t == FormDelivery
}

// SubmissionSource identifies which transport delivered a completed-form event.
type SubmissionSource string

const (
	// SourceWebhook is the vendor's push notification. At-least-once delivery.
	SourceWebhook SubmissionSource = "webhook"
	// SourceManual is a user-triggered refresh from the UI.
	SourceManual SubmissionSource = "manual"
	// SourcePoll is the background polling loop.
	SourcePoll SubmissionSource = "poll"
)

// FieldResponse is one field answer inside a vendor form submission. Loop
// screen responses carry a GroupKey tying them to one repetition (one
// physical part).
type FieldResponse struct {
	EntryID  int    `json:"entryId"`
	Value    string `json:"value"`
	GroupKey string `json:"groupKey,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Submission is one completed instance of a vendor mobile form, normalized
// from any of the three delivery sources.
type Submission struct {
	FormID       string          `json:"formId"`
	SubmissionID string          `json:"submissionId"`
	SubmittedAt  *time.Time      `json:"submittedAt,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	Responses    []FieldResponse `json:"responses"`
}

// Validate checks the minimum shape the pipeline consumes.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.FormID) == "" {
		return errors.New("form id is required")
	}
	if strings.TrimSpace(s.SubmissionID) == "" {
		return errors.New("submission id is required")
	}
	if len(s.Responses) == 0 {
		return errors.New("responses are required")
	}
	return nil
}

// JobID scans the responses for a field whose label denotes the job and whose
// value matches the job identifier format. Returns "" when no response
// correlates to a job.
func (s *Submission) JobID() string {
	for i := range s.Responses {
		r := &s.Responses[i]
		if !strings.Contains(strings.ToLower(r.Label), "job") {
			continue
		}
		if id := JobIDPattern.FindString(r.Value); id != "" {
			return id
		}
	}
	// Some form revisions put the job id in an unlabeled barcode field; fall
	// back to scanning every value.
	for i := range s.Responses {
		if id := JobIDPattern.FindString(s.Responses[i].Value); id != "" {
			return id
		}
	}
	return ""
}

// ValueOf returns the first non-empty value for the given vendor field id,
// ignoring loop-screen grouping.
func (s *Submission) ValueOf(entryID int) string {
	for i := range s.Responses {
		if s.Responses[i].EntryID == entryID && s.Responses[i].Value != "" {
			return s.Responses[i].Value
		}
	}
	return ""
}
