package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleType drives which inspection template and labor rule apply.
// An empty value is allowed and follows the heavy-duty path.
type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleTruck   VehicleType = "truck"
	VehicleBus     VehicleType = "bus"
	VehicleTrailer VehicleType = "trailer"
)

// ParseVehicleType trims and lower-cases s. Unknown values are kept so
// they follow the heavy-duty path.
func ParseVehicleType(s string) VehicleType {
	return VehicleType(strings.ToLower(strings.TrimSpace(s)))
}

// InspectionStatus is the finding recorded against one checklist item.
type InspectionStatus string

const (
	InspectionOK        InspectionStatus = "ok"
	InspectionFail      InspectionStatus = "fail"
	InspectionNA        InspectionStatus = "na"
	InspectionRecommend InspectionStatus = "recommend"
	InspectionUnmarked  InspectionStatus = "unmarked"
)

// Actionable reports whether the status warrants a quote line (and may carry photos).
func (s InspectionStatus) Actionable() bool {
	return s == InspectionFail || s == InspectionRecommend
}

const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// InspectionItem is one checklist entry within an inspection session.
// PhotoURLs may only be non-empty while Status is fail or recommend.
type InspectionItem struct {
	Name      string           `json:"name"`
	Status    InspectionStatus `json:"status"`
	Notes     *string          `json:"notes,omitempty"`
	PhotoURLs []string         `json:"photo_urls"`
	Value     *float64         `json:"value,omitempty"`
	Unit      string           `json:"unit,omitempty"`
}

// UnmarshalJSON accepts the item name under "name", "label" or "item",
// in that order of preference.
func (it *InspectionItem) UnmarshalJSON(data []byte) error {
	type plain InspectionItem
	var raw struct {
		plain
		Label string `json:"label"`
		Item  string `json:"item"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = InspectionItem(raw.plain)
	switch {
	case it.Name != "":
	case raw.Label != "":
		it.Name = raw.Label
	default:
		it.Name = raw.Item
	}
	return nil
}

// InspectionSection groups checklist items under a title.
type InspectionSection struct {
	Title string           `json:"title"`
	Items []InspectionItem `json:"items"`
}

// InspectionSession is a structured checklist walkthrough for one vehicle.
type InspectionSession struct {
	ID           uuid.UUID           `db:"id"            json:"id"`
	TenantID     uuid.UUID           `db:"tenant_id"     json:"tenant_id"`
	VehicleID    *uuid.UUID          `db:"vehicle_id"    json:"vehicle_id,omitempty"`
	WorkOrderID  *uuid.UUID          `db:"work_order_id" json:"work_order_id,omitempty"`
	VehicleType  VehicleType         `db:"vehicle_type"  json:"vehicle_type"`
	TemplateName string              `db:"template_name" json:"template_name"`
	Status       string              `db:"status"        json:"status"`
	Sections     []InspectionSection `db:"sections"      json:"sections"`
	CreatedAt    time.Time           `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"    json:"updated_at"`
}

// AxleInspection describes one axle's brake and tire measurement fields.
// It is generated from the vehicle type and not mutated afterwards.
type AxleInspection struct {
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}
