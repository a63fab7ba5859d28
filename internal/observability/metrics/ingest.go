// Package metrics centralizes the metric names and tag shapes emitted by the
// ingestion pipeline and job lifecycle.
package metrics

import (
	"time"

	obserrors "github.com/ecs-refurb/shoptrack/internal/observability/errors"
	"github.com/ecs-refurb/shoptrack/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultDuplicate = "duplicate"
	ResultDiscarded = "discarded"
)

// SubmissionMetric captures details about one ingested submission for metric
// emission.
type SubmissionMetric struct {
	FormType string
	Source   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitSubmission emits standardised ingestion metrics. Duplicates and
// discards count under their own results so dashboards can separate vendor
// redelivery noise from real failures.
func EmitSubmission(sink statsd.Sink, in SubmissionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"form_type": in.FormType,
		"source":    in.Source,
		"result":    in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("submission.received", 1, tags)

	if in.Duration > 0 {
		sink.Timing("submission.duration", in.Duration, CloneTags(tags))
	}
}

// TransitionMetric captures details about one job state transition.
type TransitionMetric struct {
	From   string
	To     string
	Result string
	Err    error
}

// EmitTransition emits one counter per attempted job state transition.
func EmitTransition(sink statsd.Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"from":   in.From,
		"to":     in.To,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)
}

// EmitDispatch emits one counter per outbound vendor dispatch attempt.
func EmitDispatch(sink statsd.Sink, leg, result string, duration time.Duration) {
	if sink == nil {
		return
	}

	tags := map[string]string{"leg": leg, "result": result}
	sink.Count("dispatch.attempt", 1, tags)
	if duration > 0 {
		sink.Timing("dispatch.duration", duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty maps.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
