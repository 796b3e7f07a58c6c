// Package labor derives default labor hours for a job and vehicle, with an
// optional AI-backed override.
package labor

import (
	"regexp"
	"strings"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

const (
	carHours          = 1.5
	carOilChangeHours = 2.0
	hoursPerAxle      = 1.0
)

// Compiled once at package init.
var (
	reAxleLabel  = regexp.MustCompile(`(?i)^\s*(steer\s+\d+|drive\s+\d+|tag|trailer\s+\d+)`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Input is the structural information the default estimate is computed from.
type Input struct {
	VehicleType models.VehicleType         `json:"vehicle_type"`
	Sections    []models.InspectionSection `json:"sections"`
}

// ComputeDefaultHours returns the structural labor estimate. It never fails:
// cars get a flat rate (higher when an "Oil Change" section is present) and
// every other vehicle type, including unknown or empty, is billed one hour
// per distinct axle with a floor of one axle.
func ComputeDefaultHours(in Input) float64 {
	if models.ParseVehicleType(string(in.VehicleType)) == models.VehicleCar {
		for _, s := range in.Sections {
			if strings.EqualFold(strings.TrimSpace(s.Title), "Oil Change") {
				return carOilChangeHours
			}
		}
		return carHours
	}

	axles := CountAxles(in.Sections)
	if axles < 1 {
		axles = 1
	}
	return float64(axles) * hoursPerAxle
}

// CountAxles returns the number of distinct axle labels found at the start of
// item names across all sections. Labels compare case-insensitively.
func CountAxles(sections []models.InspectionSection) int {
	seen := make(map[string]struct{})
	for _, s := range sections {
		for _, it := range s.Items {
			if label := AxleLabel(it.Name); label != "" {
				seen[label] = struct{}{}
			}
		}
	}
	return len(seen)
}

// AxleLabel returns the normalized (lower-case, single-spaced) axle label an
// item name starts with, or "" if it has none.
func AxleLabel(name string) string {
	m := reAxleLabel.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return reWhitespace.ReplaceAllString(strings.ToLower(m[1]), " ")
}
