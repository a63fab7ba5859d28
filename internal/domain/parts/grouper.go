// Package parts reconstructs coherent per-part records from the vendor's
// flat loop-screen response arrays. The vendor changed the group-key encoding
// across form revisions, so grouping is a strategy selected by form version.
package parts

import (
	"strings"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

// Record is one reconstructed part from a submission's loop screen.
type Record struct {
	// SerialNumber keys the record within its job. Empty only when the
	// submission genuinely carried no serial for the part.
	SerialNumber string
	// PartName retained for the name-matching fallback.
	PartName string
	Fields   model.JobPartFields
	// NameOnly marks a record that can only be matched by part name, the
	// last-resort path, logged as a warning by the reconciler.
	NameOnly bool
}

// Grouper reconstructs part records from a flat response array.
type Grouper interface {
	Group(formID string, responses []model.FieldResponse) []Record
}

// ForVersion selects the grouping strategy for a form build. Service form
// revision 1 used part names as group keys (colliding for same-named parts)
// and needs positional slicing; later revisions key groups by serial number.
func ForVersion(v fieldforms.FormVersion, dict *fieldforms.Dictionary) Grouper {
	if v.Type == model.FormService && v.Revision <= 1 {
		return &PositionalGrouper{dict: dict}
	}
	return &SerialGrouper{dict: dict}
}

// SerialGrouper handles the current encoding: the loop group key is the
// part's serial number, unique within the submission.
type SerialGrouper struct {
	dict *fieldforms.Dictionary
}

// NewSerialGrouper builds a SerialGrouper over the given dictionary.
func NewSerialGrouper(dict *fieldforms.Dictionary) *SerialGrouper {
	return &SerialGrouper{dict: dict}
}

// Group accumulates grouped responses by their serial-number group key. The
// one ungrouped "title" response (the column defining the group) carries the
// serial as its value and seeds the record. Part-purpose responses with no
// group key at all fall back to name-keyed records.
func (g *SerialGrouper) Group(formID string, responses []model.FieldResponse) []Record {
	byKey := make(map[string]*Record)
	var order []string

	record := func(key string) *Record {
		if r, ok := byKey[key]; ok {
			return r
		}
		r := &Record{SerialNumber: key}
		byKey[key] = r
		order = append(order, key)
		return r
	}

	var loose []Record

	for i := range responses {
		resp := &responses[i]
		field, known := g.dict.Purpose(formID, resp.EntryID)

		key := strings.TrimSpace(resp.GroupKey)
		if key != "" {
			r := record(key)
			if !known || field == fieldforms.FieldSerialNumber {
				// The serial column repeats the group key; nothing to merge.
				continue
			}
			fieldforms.PartField(field, resp.Value, &r.Fields)
			if field == fieldforms.FieldPartName {
				r.PartName = resp.Value
			}
			continue
		}

		if !known {
			continue
		}

		if field == fieldforms.FieldSerialNumber {
			// Ungrouped title field: its value is the serial itself.
			if serial := strings.TrimSpace(resp.Value); serial != "" {
				record(serial)
			}
			continue
		}

		// A part attribute with no serial anywhere in reach: keep it as a
		// name-only record so the reconciler can fall back to name matching.
		var fields model.JobPartFields
		if fieldforms.PartField(field, resp.Value, &fields) {
			name := ""
			if field == fieldforms.FieldPartName {
				name = resp.Value
			}
			loose = append(loose, Record{PartName: name, Fields: fields, NameOnly: true})
		}
	}

	out := make([]Record, 0, len(order)+len(loose))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	out = append(out, mergeLoose(loose)...)
	return out
}

// mergeLoose folds name-only fragments that share a part name into one record.
func mergeLoose(loose []Record) []Record {
	if len(loose) == 0 {
		return nil
	}
	byName := make(map[string]*Record)
	var order []string
	var anonymous []Record
	for i := range loose {
		r := loose[i]
		if r.PartName == "" {
			anonymous = append(anonymous, r)
			continue
		}
		if existing, ok := byName[r.PartName]; ok {
			mergeFields(&existing.Fields, &r.Fields)
			continue
		}
		byName[r.PartName] = &r
		order = append(order, r.PartName)
	}
	out := make([]Record, 0, len(order)+len(anonymous))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return append(out, anonymous...)
}

func mergeFields(dst, src *model.JobPartFields) {
	tmp := model.JobPart{}
	dst.MergeInto(&tmp)
	src.MergeInto(&tmp)
	*dst = model.JobPartFields{
		PartName:         tmp.PartName,
		Process:          tmp.Process,
		FilterPartNumber: tmp.FilterPartNumber,
		PONumber:         tmp.PONumber,
		Mileage:          tmp.Mileage,
		VIN:              tmp.VIN,
		HasGasket:        tmp.HasGasket,
		HasClamps:        tmp.HasClamps,
		ECSPartNumber:    tmp.ECSPartNumber,
		PassFail:         tmp.PassFail,
		Repaired:         tmp.Repaired,
		FailureReason:    tmp.FailureReason,
		Repairs:          tmp.Repairs,
	}
}
