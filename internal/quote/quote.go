// Package quote turns inspection findings into quote line items.
package quote

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// DefaultLaborHours is used for a line when no estimate is available.
const DefaultLaborHours = 0.5

// Map produces one quote line per item marked fail or recommend, in input
// order. Items that are ok, na, or unmarked produce nothing. estimate, when
// non-nil, replaces the default labor hours on every line. Prices are left at
// zero for downstream pricing.
func Map(items []models.InspectionItem, estimate *float64) []models.QuoteLineItem {
	hours := DefaultLaborHours
	if estimate != nil && *estimate >= 0 {
		hours = *estimate
	}

	lines := make([]models.QuoteLineItem, 0, len(items))
	for _, it := range items {
		if !it.Status.Actionable() {
			continue
		}
		lines = append(lines, models.QuoteLineItem{
			ID:          uuid.New(),
			Description: describe(it),
			Status:      it.Status,
			Part:        models.Part{Name: it.Name},
			LaborHours:  hours,
		})
	}
	return lines
}

// MapSections flattens sections in order and maps their items.
func MapSections(sections []models.InspectionSection, estimate *float64) []models.QuoteLineItem {
	var items []models.InspectionItem
	for _, s := range sections {
		items = append(items, s.Items...)
	}
	return Map(items, estimate)
}

func describe(it models.InspectionItem) string {
	if it.Notes != nil {
		if n := strings.TrimSpace(*it.Notes); n != "" {
			return n
		}
	}
	return it.Name
}

// Totals summarizes a set of quote lines.
type Totals struct {
	Lines      int     `json:"lines"`
	Failed     int     `json:"failed"`
	Recommend  int     `json:"recommended"`
	LaborHours float64 `json:"labor_hours"`
	Price      float64 `json:"price"`
}

func Summarize(lines []models.QuoteLineItem) Totals {
	t := Totals{Lines: len(lines)}
	for _, l := range lines {
		switch l.Status {
		case models.InspectionFail:
			t.Failed++
		case models.InspectionRecommend:
			t.Recommend++
		}
		t.LaborHours += l.LaborHours
		t.Price += l.Price + l.Part.Price
	}
	return t
}

// JobType maps a quote line to the job type of the work it leads to: failed
// findings are inspection failures, recommendations are maintenance.
func JobType(l models.QuoteLineItem) models.JobType {
	if l.Status == models.InspectionFail {
		return models.JobTypeInspectionFail
	}
	return models.JobTypeMaintenance
}

// Jobs converts accepted quote lines into job inputs for the line writer.
func Jobs(lines []models.QuoteLineItem) []models.JobInput {
	jobs := make([]models.JobInput, 0, len(lines))
	for _, l := range lines {
		jobs = append(jobs, models.JobInput{Complaint: l.Description, JobType: JobType(l)})
	}
	return jobs
}
