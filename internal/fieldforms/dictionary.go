package fieldforms

import (
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
)

// Field is a logical field name, stable across vendor form rebuilds.
type Field string

const (
	// FieldJobID correlates a submission to a job.
	FieldJobID Field = "job_id"
	// FieldSerialNumber is the loop-screen title column; its value is the
	// part's serial number.
	FieldSerialNumber Field = "serial_number"
	// FieldPartName is the descriptive part name.
	FieldPartName Field = "part_name"
	// FieldProcess is the refurbishment process for the part.
	FieldProcess Field = "process"
	// FieldFilterPartNumber is the CSR-entered filter part number.
	FieldFilterPartNumber Field = "filter_part_number"
	// FieldPONumber is the customer purchase order number.
	FieldPONumber Field = "po_number"
	// FieldMileage is the vehicle mileage at service time.
	FieldMileage Field = "mileage"
	// FieldVIN is the vehicle identification number.
	FieldVIN Field = "vin"
	// FieldGasket records whether a gasket was included.
	FieldGasket Field = "gasket"
	// FieldClamps records whether clamps were included.
	FieldClamps Field = "clamps"
	// FieldECSPartNumber is the technician-assigned ECS part number.
	FieldECSPartNumber Field = "ecs_part_number"
	// FieldPassFail is the technician's pass/fail result.
	FieldPassFail Field = "pass_fail"
	// FieldRepaired records whether the part was repaired.
	FieldRepaired Field = "repaired"
	// FieldFailureReason is the technician's failure reason.
	FieldFailureReason Field = "failure_reason"
	// FieldRepairs is the technician's free-text repairs description.
	FieldRepairs Field = "repairs"
	// FieldItemCount is the driver-entered count of physical items.
	FieldItemCount Field = "item_count"
	// FieldDriverNotes is the driver's free-text note.
	FieldDriverNotes Field = "driver_notes"
	// FieldComments is the technician's additional comments.
	FieldComments Field = "comments"
	// FieldHandoffGPS is the GPS-stamped field recorded at physical handoff.
	FieldHandoffGPS Field = "handoff_gps"
	// FieldHandoffClock is the technician-entered local handoff time.
	FieldHandoffClock Field = "handoff_clock"
)

// versionFields maps vendor numeric field ids per form id. Entries exist only
// for the fields a build actually carries; resolution falls back through
// older builds of the same logical form.
var versionFields = map[string]map[Field]int{
	// Pickup form builds.
	"5201443": {
		FieldJobID:       101,
		FieldItemCount:   104,
		FieldDriverNotes: 109,
	},
	"5519208": {
		FieldJobID:       201,
		FieldItemCount:   206,
		FieldDriverNotes: 212,
		FieldHandoffGPS:  215,
	},
	// Service form builds.
	"5201467": {
		FieldJobID:         301,
		FieldSerialNumber:  310,
		FieldPartName:      311,
		FieldProcess:       312,
		FieldECSPartNumber: 320,
		FieldPassFail:      321,
		FieldRepaired:      322,
		FieldFailureReason: 323,
		FieldRepairs:       324,
		FieldComments:      330,
		FieldHandoffGPS:    340,
	},
	"5483930": {
		FieldJobID:            401,
		FieldSerialNumber:     410,
		FieldPartName:         411,
		FieldProcess:          412,
		FieldFilterPartNumber: 413,
		FieldPONumber:         414,
		FieldMileage:          415,
		FieldVIN:              416,
		FieldGasket:           417,
		FieldClamps:           418,
		FieldECSPartNumber:    420,
		FieldPassFail:         421,
		FieldRepaired:         422,
		FieldFailureReason:    423,
		FieldRepairs:          424,
		FieldComments:         430,
		FieldHandoffGPS:       440,
		FieldHandoffClock:     441,
	},
	// Revision 3 reuses the revision 2 ids except the relocated comments and
	// handoff fields; everything else resolves through the fallback chain.
	"5617772": {
		FieldComments:     530,
		FieldHandoffGPS:   540,
		FieldHandoffClock: 541,
	},
	// Delivery form builds.
	"5201471": {
		FieldJobID:       601,
		FieldDriverNotes: 608,
	},
	"5520916": {
		FieldJobID:       701,
		FieldDriverNotes: 709,
		FieldHandoffGPS:  712,
	},
}

// Dictionary resolves logical fields to vendor numeric field ids for a form
// version, falling back through earlier builds of the same logical form when
// the requested build lacks an entry. It is the single seam isolating the
// brittle vendor field-id mapping.
type Dictionary struct {
	registry *Registry
	fields   map[string]map[Field]int
}

// NewDictionary builds a Dictionary over the given registry using the known
// per-build field tables.
func NewDictionary(registry *Registry) *Dictionary {
	return &Dictionary{registry: registry, fields: versionFields}
}

// fallbackChain returns the form ids to consult for the given build: the
// build itself, then earlier revisions of the same logical form, newest first.
func (d *Dictionary) fallbackChain(formID string) []FormVersion {
	v, err := d.registry.Resolve(formID)
	if err != nil {
		return nil
	}
	chain := []FormVersion{v}
	for _, id := range d.registry.FormIDs(v.Type) {
		other, _ := d.registry.Resolve(id)
		if other.FormID != v.FormID && other.Revision < v.Revision {
			chain = append(chain, other)
		}
	}
	// Newest-first among the fallbacks.
	for i := 1; i < len(chain); i++ {
		for j := i; j > 1 && chain[j].Revision > chain[j-1].Revision; j-- {
			chain[j], chain[j-1] = chain[j-1], chain[j]
		}
	}
	return chain
}

// EntryID resolves a logical field to the vendor numeric id for the given
// form build. The second return is false when no build of the form ever
// carried the field.
func (d *Dictionary) EntryID(formID string, field Field) (int, bool) {
	for _, v := range d.fallbackChain(formID) {
		if table, ok := d.fields[v.FormID]; ok {
			if id, ok := table[field]; ok {
				return id, true
			}
		}
	}
	return 0, false
}

// Purpose resolves a vendor numeric field id back to its logical field, used
// when reconstructing part records from loop-screen responses.
func (d *Dictionary) Purpose(formID string, entryID int) (Field, bool) {
	for _, v := range d.fallbackChain(formID) {
		table, ok := d.fields[v.FormID]
		if !ok {
			continue
		}
		for field, id := range table {
			if id == entryID {
				return field, true
			}
		}
	}
	return "", false
}

// Value resolves a logical field and returns its first non-empty value in the
// submission, or "" when absent.
func (d *Dictionary) Value(sub *model.Submission, field Field) string {
	id, ok := d.EntryID(sub.FormID, field)
	if !ok {
		return ""
	}
	return sub.ValueOf(id)
}

// PartField maps a logical field to its slot in a JobPart field set. Returns
// false for fields that are not part attributes (job id, comments, GPS).
func PartField(field Field, value string, fields *model.JobPartFields) bool {
	switch field {
	case FieldPartName:
		fields.PartName = &value
	case FieldProcess:
		fields.Process = &value
	case FieldFilterPartNumber:
		fields.FilterPartNumber = &value
	case FieldPONumber:
		fields.PONumber = &value
	case FieldMileage:
		fields.Mileage = &value
	case FieldVIN:
		fields.VIN = &value
	case FieldGasket:
		b := parseFormBool(value)
		fields.HasGasket = &b
	case FieldClamps:
		b := parseFormBool(value)
		fields.HasClamps = &b
	case FieldECSPartNumber:
		fields.ECSPartNumber = &value
	case FieldPassFail:
		fields.PassFail = &value
	case FieldRepaired:
		b := parseFormBool(value)
		fields.Repaired = &b
	case FieldFailureReason:
		fields.FailureReason = &value
	case FieldRepairs:
		fields.Repairs = &value
	default:
		return false
	}
	return true
}

// parseFormBool interprets the vendor's checkbox/toggle serializations.
func parseFormBool(v string) bool {
	switch v {
	case "1", "true", "Yes", "yes", "YES", "checked", "on":
		return true
	default:
		return false
	}
}
