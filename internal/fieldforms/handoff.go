package fieldforms

import (
	"strings"
	"time"
)

// HandoffEstimate is a reconstructed handoff moment. GPS-derived times are
// unambiguous; estimates built from a technician's local wall clock carry a
// confidence flag because the timezone offset is inferred, not known.
type HandoffEstimate struct {
	Time time.Time
	// HighConfidence is true for GPS-derived times and for clock-derived
	// estimates that land on a plausible offset away from day boundaries.
	HighConfidence bool
}

// clock layouts the technician field has been observed to contain.
var handoffClockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "15.04"}

// EstimateHandoff reconstructs the handoff moment. A GPS stamp wins outright.
// Otherwise the technician's local clock entry is reconciled against the UTC
// reference (form completion time) by estimating the timezone offset from the
// hour-of-day delta, rounded to the nearest half hour. The estimate is
// inherently ambiguous near day boundaries and across DST shifts; such
// results are flagged low-confidence. Returns nil when nothing usable exists.
func EstimateHandoff(gpsRaw, clockRaw string, reference time.Time) *HandoffEstimate {
	if t := ExtractGPSTime(gpsRaw); t != nil {
		return &HandoffEstimate{Time: *t, HighConfidence: true}
	}

	clock, ok := parseHandoffClock(clockRaw)
	if !ok || reference.IsZero() {
		return nil
	}

	ref := reference.UTC()
	localMinutes := clock.Hour()*60 + clock.Minute()
	refMinutes := ref.Hour()*60 + ref.Minute()

	// Offset of UTC ahead of the technician's local zone, rounded to the
	// nearest 30 minutes to match real-world timezone offsets.
	delta := refMinutes - localMinutes
	offset := ((delta + 15) / 30) * 30

	// Normalize into [-12h, +14h]; anything that had to wrap around a day
	// boundary is ambiguous.
	wrapped := false
	for offset > 14*60 {
		offset -= 24 * 60
		wrapped = true
	}
	for offset < -12*60 {
		offset += 24 * 60
		wrapped = true
	}

	handoff := time.Date(
		ref.Year(), ref.Month(), ref.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC,
	).Add(time.Duration(offset) * time.Minute)

	// A handoff cannot postdate the completed form; a future result means
	// the clock entry referred to the previous day.
	if handoff.After(ref) {
		handoff = handoff.Add(-24 * time.Hour)
		wrapped = true
	}

	return &HandoffEstimate{Time: handoff, HighConfidence: !wrapped}
}

func parseHandoffClock(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range handoffClockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(v)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
