package model

import (
	"errors"
	"strings"
	"time"
)

// JobPart is one physical component associated with a job. The serial number
// is the authoritative unique identifier for the part within its job; at most
// one JobPart exists per (job_id, serial_number) pair.
//
// CSR-entered descriptive fields are set at entry time; technician result
// fields arrive later via form reconciliation. Both use pointers so that a
// field-level merge can distinguish "absent" from "cleared".
type JobPart struct {
	ID           string `json:"id"            db:"id"`
	JobID        string `json:"job_id"        db:"job_id"`
	SerialNumber string `json:"serial_number" db:"serial_number"`

	// CSR-entered descriptive fields.
	PartName         *string `json:"part_name,omitempty"          db:"part_name"`
	Process          *string `json:"process,omitempty"            db:"process"`
	FilterPartNumber *string `json:"filter_part_number,omitempty" db:"filter_part_number"`
	PONumber         *string `json:"po_number,omitempty"          db:"po_number"`
	Mileage          *string `json:"mileage,omitempty"            db:"mileage"`
	VIN              *string `json:"vin,omitempty"                db:"vin"`
	HasGasket        *bool   `json:"has_gasket,omitempty"         db:"has_gasket"`
	HasClamps        *bool   `json:"has_clamps,omitempty"         db:"has_clamps"`

	// Technician-entered result fields.
	ECSPartNumber *string `json:"ecs_part_number,omitempty" db:"ecs_part_number"`
	PassFail      *string `json:"pass_fail,omitempty"       db:"pass_fail"`
	Repaired      *bool   `json:"repaired,omitempty"        db:"repaired"`
	FailureReason *string `json:"failure_reason,omitempty"  db:"failure_reason"`
	Repairs       *string `json:"repairs,omitempty"         db:"repairs"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateJobPartRequest carries the fields for registering a part against a job.
type CreateJobPartRequest struct {
	JobID        string
	SerialNumber string
	Fields       JobPartFields
}

// Validate validates the CreateJobPartRequest fields.
func (r *CreateJobPartRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job id is required")
	}
	if strings.TrimSpace(r.SerialNumber) == "" {
		return errors.New("serial number is required")
	}
	return nil
}

// JobPartFields is the merge-able field set of a JobPart. A nil field means
// "no information" and never overwrites a stored value.
type JobPartFields struct {
	PartName         *string
	Process          *string
	FilterPartNumber *string
	PONumber         *string
	Mileage          *string
	VIN              *string
	HasGasket        *bool
	HasClamps        *bool
	ECSPartNumber    *string
	PassFail         *string
	Repaired         *bool
	FailureReason    *string
	Repairs          *string
}

// Empty reports whether no field carries a value.
func (f *JobPartFields) Empty() bool {
	return f.PartName == nil && f.Process == nil && f.FilterPartNumber == nil &&
		f.PONumber == nil && f.Mileage == nil && f.VIN == nil &&
		f.HasGasket == nil && f.HasClamps == nil && f.ECSPartNumber == nil &&
		f.PassFail == nil && f.Repaired == nil && f.FailureReason == nil &&
		f.Repairs == nil
}

// MergeInto applies every non-nil field onto the part. Stored values for
// absent fields are left untouched; this is what keeps a second reconciliation
// pass from dropping technician data the first pass recorded.
func (f *JobPartFields) MergeInto(p *JobPart) {
	if f.PartName != nil {
		p.PartName = f.PartName
	}
	if f.Process != nil {
		p.Process = f.Process
	}
	if f.FilterPartNumber != nil {
		p.FilterPartNumber = f.FilterPartNumber
	}
	if f.PONumber != nil {
		p.PONumber = f.PONumber
	}
	if f.Mileage != nil {
		p.Mileage = f.Mileage
	}
	if f.VIN != nil {
		p.VIN = f.VIN
	}
	if f.HasGasket != nil {
		p.HasGasket = f.HasGasket
	}
	if f.HasClamps != nil {
		p.HasClamps = f.HasClamps
	}
	if f.ECSPartNumber != nil {
		p.ECSPartNumber = f.ECSPartNumber
	}
	if f.PassFail != nil {
		p.PassFail = f.PassFail
	}
	if f.Repaired != nil {
		p.Repaired = f.Repaired
	}
	if f.FailureReason != nil {
		p.FailureReason = f.FailureReason
	}
	if f.Repairs != nil {
		p.Repairs = f.Repairs
	}
}
