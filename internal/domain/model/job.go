// Package model defines the core data types for the shoptrack service job
// system: jobs moving through the physical pickup → shop → delivery workflow,
// their parts, events, and the vendor form submissions that drive them.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// JobState represents where a job is in its physical workflow.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobState string

const (
	// StateQueuedForPickup indicates the job is waiting for a driver pickup.
	StateQueuedForPickup JobState = "queued_for_pickup"
	// StatePickedUp indicates a driver has collected the unit from the customer.
	StatePickedUp JobState = "picked_up"
	// StateAtShop indicates the unit has been checked in at the shop.
	StateAtShop JobState = "at_shop"
	// StateInService indicates a technician is actively servicing the unit.
	StateInService JobState = "in_service"
	// StateServiceComplete indicates shop work is finished.
	StateServiceComplete JobState = "service_complete"
	// StateReadyForPickup indicates the unit is staged for customer pickup at the shop.
	StateReadyForPickup JobState = "ready_for_pickup"
	// StatePickedUpFromShop indicates the customer collected the unit from the shop.
	StatePickedUpFromShop JobState = "picked_up_from_shop"
	// StateQueuedForDelivery indicates the unit is waiting for a delivery driver.
	StateQueuedForDelivery JobState = "queued_for_delivery"
	// StateDelivered indicates the unit is back with the customer. Terminal.
	StateDelivered JobState = "delivered"
	// StateCancelled indicates the job was cancelled. Terminal.
	StateCancelled JobState = "cancelled"
)

// StartMode records how a job entered the workflow.
type StartMode string

const (
	// StartModePickup means a driver collected the unit from the customer.
	StartModePickup StartMode = "driver_pickup"
	// StartModeDropOff means the customer brought the unit to the shop directly.
	StartModeDropOff StartMode = "direct_drop_off"
)

// CompletionMode records how a job left the shop.
type CompletionMode string

const (
	// CompletionModeDelivered means a driver returned the unit to the customer.
	CompletionModeDelivered CompletionMode = "delivered"
	// CompletionModeShopPickup means the customer collected the unit at the shop.
	CompletionModeShopPickup CompletionMode = "shop_pickup"
)

// allowedTransitions is the directed acyclic graph of legal state changes.
// Entry points are queued_for_pickup and at_shop; delivered and cancelled are
// terminal and reachable from every non-terminal state.
var allowedTransitions = map[JobState][]JobState{
	StateQueuedForPickup:   {StatePickedUp, StateCancelled},
	StatePickedUp:          {StateAtShop, StateCancelled},
	StateAtShop:            {StateInService, StateCancelled},
	StateInService:         {StateServiceComplete, StateCancelled},
	StateServiceComplete:   {StateReadyForPickup, StateQueuedForDelivery, StateDelivered, StateCancelled},
	StateReadyForPickup:    {StatePickedUpFromShop, StateCancelled},
	StatePickedUpFromShop:  {StateDelivered, StateCancelled},
	StateQueuedForDelivery: {StateDelivered, StateCancelled},
	StateDelivered:         {},
	StateCancelled:         {},
}

// UnmarshalText implements encoding.TextUnmarshaler for JobState.
func (s *JobState) UnmarshalText(text []byte) error {
	v := JobState(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid JobState: %q", string(text))
	}
	*s = v
	return nil
}

// Valid returns true if the JobState is a known state.
func (s JobState) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal returns true for states with no outgoing transitions.
func (s JobState) Terminal() bool {
	return s == StateDelivered || s == StateCancelled
}

// EntryPoint returns true for states a job may be created in.
func (s JobState) EntryPoint() bool {
	return s == StateQueuedForPickup || s == StateAtShop
}

// CompletionDefining returns true for states whose first entry fixes the
// job's completion mode and completion timestamp.
func (s JobState) CompletionDefining() bool {
	return s == StateDelivered || s == StateReadyForPickup
}

// AllowedNext returns the set of states legally reachable from s.
func (s JobState) AllowedNext() []JobState {
	next := allowedTransitions[s]
	out := make([]JobState, len(next))
	copy(out, next)
	return out
}

// AllowedNextNames returns AllowedNext as plain strings for error messages.
func (s JobState) AllowedNextNames() []string {
	next := allowedTransitions[s]
	out := make([]string, len(next))
	for i, st := range next {
		out[i] = string(st)
	}
	return out
}

// CanTransitionTo reports whether target is in the allowed-next set of s.
func (s JobState) CanTransitionTo(target JobState) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// JobIDPattern matches the external job identifier format generated at
// creation time (e.g. "SJ-7F3A9C21"). The ingestion pipeline uses it to
// correlate vendor form submissions back to jobs.
var JobIDPattern = regexp.MustCompile(`\bSJ-[0-9A-F]{8}\b`)

// NewJobID generates an external job identifier of the form SJ-XXXXXXXX.
func NewJobID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return "SJ-" + strings.ToUpper(hex.EncodeToString(buf))
}

// Job represents one physical unit of work with its workflow fields and
// derived per-state timestamps. Timestamps are nil until the state is first
// entered and are never overwritten once set.
type Job struct {
	ID           string   `json:"id"            db:"id"`
	State        JobState `json:"state"         db:"state"`
	CustomerName string   `json:"customer_name" db:"customer_name"`
	ShopName     string   `json:"shop_name"     db:"shop_name"`
	ContactName  string   `json:"contact_name,omitempty"  db:"contact_name"`
	ContactPhone string   `json:"contact_phone,omitempty" db:"contact_phone"`
	Instructions string   `json:"instructions,omitempty"  db:"instructions"`

	PickupAddress   string `json:"pickup_address,omitempty"   db:"pickup_address"`
	DeliveryAddress string `json:"delivery_address,omitempty" db:"delivery_address"`

	ItemCount      *int     `json:"item_count,omitempty"      db:"item_count"`
	TechnicianName *string  `json:"technician_name,omitempty" db:"technician_name"`
	DeliveryMethod *string  `json:"delivery_method,omitempty" db:"delivery_method"`
	OrderNumbers   []string `json:"order_numbers,omitempty"   db:"order_numbers"`
	CancelReason   *string  `json:"cancel_reason,omitempty"   db:"cancel_reason"`

	StartMode      *StartMode      `json:"start_mode,omitempty"      db:"start_mode"`
	StartedAt      *time.Time      `json:"started_at,omitempty"      db:"started_at"`
	CompletionMode *CompletionMode `json:"completion_mode,omitempty" db:"completion_mode"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"    db:"completed_at"`

	QueuedForPickupAt   *time.Time `json:"queued_for_pickup_at,omitempty"    db:"queued_for_pickup_at"`
	PickedUpAt          *time.Time `json:"picked_up_at,omitempty"            db:"picked_up_at"`
	AtShopAt            *time.Time `json:"at_shop_at,omitempty"              db:"at_shop_at"`
	InServiceAt         *time.Time `json:"in_service_at,omitempty"           db:"in_service_at"`
	ServiceCompleteAt   *time.Time `json:"service_complete_at,omitempty"     db:"service_complete_at"`
	ReadyForPickupAt    *time.Time `json:"ready_for_pickup_at,omitempty"     db:"ready_for_pickup_at"`
	PickedUpFromShopAt  *time.Time `json:"picked_up_from_shop_at,omitempty"  db:"picked_up_from_shop_at"`
	QueuedForDeliveryAt *time.Time `json:"queued_for_delivery_at,omitempty"  db:"queued_for_delivery_at"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"            db:"delivered_at"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"            db:"cancelled_at"`

	PickupDispatchID    *string `json:"pickup_dispatch_id,omitempty"    db:"pickup_dispatch_id"`
	PickupDriverEmail   *string `json:"pickup_driver_email,omitempty"   db:"pickup_driver_email"`
	DeliveryDispatchID  *string `json:"delivery_dispatch_id,omitempty"  db:"delivery_dispatch_id"`
	DeliveryDriverEmail *string `json:"delivery_driver_email,omitempty" db:"delivery_driver_email"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StateTimestamp returns the stamped timestamp for the given state, or nil if
// the job never entered it.
func (j *Job) StateTimestamp(state JobState) *time.Time {
	switch state {
	case StateQueuedForPickup:
		return j.QueuedForPickupAt
	case StatePickedUp:
		return j.PickedUpAt
	case StateAtShop:
		return j.AtShopAt
	case StateInService:
		return j.InServiceAt
	case StateServiceComplete:
		return j.ServiceCompleteAt
	case StateReadyForPickup:
		return j.ReadyForPickupAt
	case StatePickedUpFromShop:
		return j.PickedUpFromShopAt
	case StateQueuedForDelivery:
		return j.QueuedForDeliveryAt
	case StateDelivered:
		return j.DeliveredAt
	case StateCancelled:
		return j.CancelledAt
	default:
		return nil
	}
}

// CreateJobRequest represents a request to create a new job at one of the two
// workflow entry points.
type CreateJobRequest struct {
	CustomerName    string   `json:"customer_name"`
	ShopName        string   `json:"shop_name"`
	ContactName     string   `json:"contact_name,omitempty"`
	ContactPhone    string   `json:"contact_phone,omitempty"`
	Instructions    string   `json:"instructions,omitempty"`
	PickupAddress   string   `json:"pickup_address,omitempty"`
	DeliveryAddress string   `json:"delivery_address,omitempty"`
	InitialState    JobState `json:"initial_state"`
	// DriverEmail triggers an immediate pickup dispatch when the job is
	// created in queued_for_pickup.
	DriverEmail string `json:"driver_email,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return errors.New("customer name is required")
	}
	if strings.TrimSpace(r.ShopName) == "" {
		return errors.New("shop name is required")
	}
	if !r.InitialState.EntryPoint() {
		return fmt.Errorf(
			"initial state must be %s or %s", StateQueuedForPickup, StateAtShop,
		)
	}
	if r.InitialState == StateQueuedForPickup && strings.TrimSpace(r.PickupAddress) == "" {
		return errors.New("pickup address is required for driver pickup jobs")
	}
	return nil
}

// JobUpdate carries a partial update of a job's mutable fields. Nil fields
// are left untouched by the repository.
type JobUpdate struct {
	// ExpectedState, when set, makes the update conditional on the stored
	// state still matching, guarding against concurrent transitions.
	ExpectedState       *JobState
	State               *JobState
	ItemCount           *int
	TechnicianName      *string
	DeliveryMethod      *string
	OrderNumbers        []string
	CancelReason        *string
	StartMode           *StartMode
	StartedAt           *time.Time
	CompletionMode      *CompletionMode
	CompletedAt         *time.Time
	StateTimestamps     map[JobState]time.Time
	PickupDispatchID    *string
	PickupDriverEmail   *string
	DeliveryDispatchID  *string
	DeliveryDriverEmail *string
	CustomerName        *string
	ContactName         *string
	ContactPhone        *string
	Instructions        *string
	DeliveryAddress     *string
}

// EventType categorizes JobEvent rows.
type EventType string

const (
	// EventStateChange records a lifecycle transition.
	EventStateChange EventType = "state_change"
	// EventPickupDispatched records a successful outbound pickup assignment.
	EventPickupDispatched EventType = "pickup_dispatched"
	// EventDeliveryDispatched records a successful outbound delivery assignment.
	EventDeliveryDispatched EventType = "delivery_dispatched"
	// EventCreated records job creation.
	EventCreated EventType = "created"
	// EventNote records a manual annotation.
	EventNote EventType = "note"
)

// ActorRole identifies who caused a JobEvent.
type ActorRole string

const (
	// ActorSystem is the service itself (poller, webhook processing).
	ActorSystem ActorRole = "system"
	// ActorCSR is a customer service representative.
	ActorCSR ActorRole = "csr"
	// ActorDriver is a pickup/delivery driver.
	ActorDriver ActorRole = "driver"
	// ActorTechnician is a shop technician.
	ActorTechnician ActorRole = "technician"
)

// JobEvent is an immutable, append-only record of one lifecycle transition or
// annotation. Created exactly once per transition; never mutated or deleted.
type JobEvent struct {
	ID          string          `json:"id"          db:"id"`
	JobID       string          `json:"job_id"      db:"job_id"`
	Type        EventType       `json:"type"        db:"type"`
	Description string          `json:"description" db:"description"`
	ActorRole   ActorRole       `json:"actor_role"  db:"actor_role"`
	ActorID     *string         `json:"actor_id,omitempty" db:"actor_id"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time       `json:"created_at"  db:"created_at"`
}

// CreateJobEventRequest carries the fields for appending a JobEvent.
type CreateJobEventRequest struct {
	JobID       string
	Type        EventType
	Description string
	ActorRole   ActorRole
	ActorID     *string
	Metadata    json.RawMessage
	// OccurredAt backdates the event when reconciling a delayed vendor
	// submission; zero means "now".
	OccurredAt time.Time
}

// JobComment is a free-text note attached to a job, entered by a CSR in the
// UI or extracted from a driver/technician form submission.
type JobComment struct {
	ID         string    `json:"id"          db:"id"`
	JobID      string    `json:"job_id"      db:"job_id"`
	Body       string    `json:"body"        db:"body"`
	AuthorName string    `json:"author_name" db:"author_name"`
	AuthorRole ActorRole `json:"author_role" db:"author_role"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}
