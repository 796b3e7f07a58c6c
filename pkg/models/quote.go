package models

import "github.com/google/uuid"

// Part is the part attached to a quote line. Price is filled by downstream pricing.
type Part struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// QuoteLineItem is a priced recommendation derived from one inspection finding.
type QuoteLineItem struct {
	ID          uuid.UUID        `json:"id"`
	Description string           `json:"description"`
	Status      InspectionStatus `json:"status"`
	Part        Part             `json:"part"`
	LaborHours  float64          `json:"labor_hours"`
	Price       float64          `json:"price"`
}
