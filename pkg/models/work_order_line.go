package models

import (
	"time"

	"github.com/google/uuid"
)

// LineStatus is the lifecycle state of a work-order line.
type LineStatus string

const (
	LineStatusAwaiting   LineStatus = "awaiting"
	LineStatusInProgress LineStatus = "in_progress"
	LineStatusOnHold     LineStatus = "on_hold"
	LineStatusPaused     LineStatus = "paused"
	LineStatusCompleted  LineStatus = "completed"
)

// WorkOrderLine is the persisted unit of billable work. Lines are never
// deleted; they only move between statuses.
type WorkOrderLine struct {
	ID             uuid.UUID  `db:"id"               json:"id"`
	TenantID       uuid.UUID  `db:"tenant_id"        json:"tenant_id"`
	WorkOrderID    uuid.UUID  `db:"work_order_id"    json:"work_order_id"`
	VehicleID      uuid.UUID  `db:"vehicle_id"       json:"vehicle_id"`
	BatchID        *uuid.UUID `db:"batch_id"         json:"batch_id,omitempty"`
	Position       int        `db:"position"         json:"position"`
	Complaint      string     `db:"complaint"        json:"complaint"`
	Cause          *string    `db:"cause"            json:"cause"`
	JobType        JobType    `db:"job_type"         json:"job_type"`
	LaborHours     float64    `db:"labor_hours"      json:"labor_hours"`
	Status         LineStatus `db:"status"           json:"status"`
	PunchedInAt    *time.Time `db:"punched_in_at"    json:"punched_in_at"`
	PunchedOutAt   *time.Time `db:"punched_out_at"   json:"punched_out_at"`
	HoldReason     *string    `db:"hold_reason"      json:"hold_reason"`
	AssignedTechID *uuid.UUID `db:"assigned_tech_id" json:"assigned_tech_id"`
	CreatedAt      time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"       json:"updated_at"`
}
