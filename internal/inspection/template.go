// Package inspection builds checklist templates and applies findings to them.
package inspection

import (
	"fmt"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Measurement fields recorded for every axle on heavy vehicles.
var axleFields = []struct {
	name string
	unit string
}{
	{"Left Brake Lining", "mm"},
	{"Right Brake Lining", "mm"},
	{"Left Drum/Rotor", "mm"},
	{"Right Drum/Rotor", "mm"},
	{"Left Tread Depth", "32nds"},
	{"Right Tread Depth", "32nds"},
	{"Left Tire Pressure", "psi"},
	{"Right Tire Pressure", "psi"},
}

var axleLayouts = map[models.VehicleType][]string{
	models.VehicleTruck:   {"Steer 1", "Drive 1", "Drive 2"},
	models.VehicleBus:     {"Steer 1", "Drive 1", "Tag"},
	models.VehicleTrailer: {"Trailer 1", "Trailer 2"},
}

var carSections = []models.InspectionSection{
	section("Exterior", "Headlights", "Brake Lights", "Turn Signals", "Wiper Blades", "Horn"),
	section("Under Hood", "Coolant Level", "Brake Fluid", "Drive Belt", "Battery", "Air Filter"),
	section("Oil Change", "Engine Oil", "Oil Filter", "Drain Plug Gasket"),
	section("Brakes", "Front Pads", "Rear Pads", "Front Rotors", "Rear Rotors"),
	section("Tires", "Left Front Tire", "Right Front Tire", "Left Rear Tire", "Right Rear Tire"),
}

var heavySections = []models.InspectionSection{
	section("Cab", "Headlights", "Marker Lights", "Mirrors", "Wipers", "Horn", "Gauges"),
	section("Engine", "Oil Level", "Coolant Level", "Belts", "Air Compressor", "Fuel Leaks"),
	section("Air System", "Air Lines", "Glad Hands", "Governor Cut-Out", "Air Leak-Down"),
}

var trailerSections = []models.InspectionSection{
	section("Trailer", "Kingpin", "Landing Gear", "Lights", "Reflective Tape", "Doors"),
}

func section(title string, names ...string) models.InspectionSection {
	items := make([]models.InspectionItem, len(names))
	for i, n := range names {
		items[i] = models.InspectionItem{Name: n, Status: models.InspectionUnmarked, PhotoURLs: []string{}}
	}
	return models.InspectionSection{Title: title, Items: items}
}

// AxleLabels returns the axle labels for a vehicle type. Cars and unknown
// types have none.
func AxleLabels(vt models.VehicleType) []string {
	labels := axleLayouts[vt]
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// GenerateAxles returns the axle measurement templates for a vehicle type.
func GenerateAxles(vt models.VehicleType) []models.AxleInspection {
	labels := AxleLabels(vt)
	axles := make([]models.AxleInspection, 0, len(labels))
	for _, label := range labels {
		fields := make([]string, len(axleFields))
		for i, f := range axleFields {
			fields[i] = f.name
		}
		axles = append(axles, models.AxleInspection{Label: label, Fields: fields})
	}
	return axles
}

// AxleSections renders each axle as its own checklist section. Item names are
// prefixed with the axle label, e.g. "Steer 1 Left Brake Lining".
func AxleSections(vt models.VehicleType) []models.InspectionSection {
	axles := GenerateAxles(vt)
	sections := make([]models.InspectionSection, 0, len(axles))
	for _, axle := range axles {
		items := make([]models.InspectionItem, len(axleFields))
		for i, f := range axleFields {
			items[i] = models.InspectionItem{
				Name:      fmt.Sprintf("%s %s", axle.Label, f.name),
				Status:    models.InspectionUnmarked,
				PhotoURLs: []string{},
				Unit:      f.unit,
			}
		}
		sections = append(sections, models.InspectionSection{
			Title: axle.Label + " Axle",
			Items: items,
		})
	}
	return sections
}

// TemplateName returns the checklist template used for a vehicle type.
func TemplateName(vt models.VehicleType) string {
	switch vt {
	case models.VehicleCar:
		return "car-multipoint"
	case models.VehicleTrailer:
		return "trailer-annual"
	case models.VehicleTruck, models.VehicleBus:
		return string(vt) + "-annual"
	default:
		return "heavy-duty-generic"
	}
}

// Sections returns a fresh checklist for a vehicle type: the base sections
// followed by one section per axle.
func Sections(vt models.VehicleType) []models.InspectionSection {
	var base []models.InspectionSection
	switch vt {
	case models.VehicleCar:
		base = carSections
	case models.VehicleTrailer:
		base = trailerSections
	default:
		base = heavySections
	}

	out := make([]models.InspectionSection, 0, len(base)+len(axleLayouts[vt]))
	for _, s := range base {
		out = append(out, cloneSection(s))
	}
	return append(out, AxleSections(vt)...)
}

// FromCategories turns AI-generated checklist categories into sections.
// Categories without a title or items are dropped.
func FromCategories(categories []models.InspectionCategory) []models.InspectionSection {
	out := make([]models.InspectionSection, 0, len(categories))
	for _, c := range categories {
		if c.Title == "" || len(c.Items) == 0 {
			continue
		}
		out = append(out, section(c.Title, c.Items...))
	}
	return out
}

func cloneSection(s models.InspectionSection) models.InspectionSection {
	items := make([]models.InspectionItem, len(s.Items))
	for i, it := range s.Items {
		it.PhotoURLs = append([]string{}, it.PhotoURLs...)
		items[i] = it
	}
	return models.InspectionSection{Title: s.Title, Items: items}
}
