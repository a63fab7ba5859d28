package parts

import (
	"strings"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

// PositionalGrouper handles the superseded loop-screen encoding where the
// group key held the part *name*, so two same-named parts collided on one
// key. Each colliding group is split by positional slicing: every
// serial-bearing response anchors one part, and slice boundaries fall at the
// midpoint between adjacent anchors.
type PositionalGrouper struct {
	dict *fieldforms.Dictionary
}

// NewPositionalGrouper builds a PositionalGrouper over the given dictionary.
func NewPositionalGrouper(dict *fieldforms.Dictionary) *PositionalGrouper {
	return &PositionalGrouper{dict: dict}
}

// Group reconstructs part records from a name-keyed response array.
func (g *PositionalGrouper) Group(formID string, responses []model.FieldResponse) []Record {
	// Partition responses per group key, preserving array order; the
	// positional algorithm depends on it.
	byKey := make(map[string][]model.FieldResponse)
	var order []string
	for i := range responses {
		key := strings.TrimSpace(responses[i].GroupKey)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], responses[i])
	}

	var out []Record
	for _, key := range order {
		out = append(out, g.splitGroup(formID, key, byKey[key])...)
	}
	return out
}

// splitGroup splits one name-keyed group into per-serial records.
func (g *PositionalGrouper) splitGroup(
	formID, partName string,
	group []model.FieldResponse,
) []Record {
	// Anchor positions: responses whose purpose is the serial-number field.
	var anchors []int
	for i := range group {
		if field, ok := g.dict.Purpose(formID, group[i].EntryID); ok &&
			field == fieldforms.FieldSerialNumber {
			anchors = append(anchors, i)
		}
	}

	if len(anchors) == 0 {
		// No serial anywhere in the group: one name-only record.
		r := Record{PartName: partName, NameOnly: true}
		for i := range group {
			g.assign(formID, &group[i], &r)
		}
		return []Record{r}
	}

	if len(anchors) == 1 {
		r := Record{
			PartName:     partName,
			SerialNumber: strings.TrimSpace(group[anchors[0]].Value),
		}
		for i := range group {
			g.assign(formID, &group[i], &r)
		}
		return []Record{r}
	}

	// Multiple same-named parts collided on this key. Slice boundaries fall
	// at the midpoints between adjacent serial anchors so the group's field
	// count divides evenly across the occurrences.
	records := make([]Record, len(anchors))
	for k, pos := range anchors {
		records[k] = Record{
			PartName:     partName,
			SerialNumber: strings.TrimSpace(group[pos].Value),
		}
		start, end := sliceBounds(anchors, k, len(group))
		for i := start; i < end; i++ {
			g.assign(formID, &group[i], &records[k])
		}
	}
	return records
}

// sliceBounds returns the half-open response range belonging to anchor k.
func sliceBounds(anchors []int, k, total int) (int, int) {
	start := 0
	if k > 0 {
		start = (anchors[k-1] + anchors[k] + 1) / 2
	}
	end := total
	if k < len(anchors)-1 {
		end = (anchors[k] + anchors[k+1] + 1) / 2
	}
	return start, end
}

func (g *PositionalGrouper) assign(formID string, resp *model.FieldResponse, r *Record) {
	field, ok := g.dict.Purpose(formID, resp.EntryID)
	if !ok || field == fieldforms.FieldSerialNumber {
		return
	}
	fieldforms.PartField(field, resp.Value, &r.Fields)
	if field == fieldforms.FieldPartName && r.PartName == "" {
		r.PartName = resp.Value
	}
}
