package inspection

import (
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// ParseStatus validates a status string. An empty string is unmarked.
func ParseStatus(s string) (models.InspectionStatus, error) {
	st := models.InspectionStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "":
		return models.InspectionUnmarked, nil
	case models.InspectionOK, models.InspectionFail, models.InspectionNA,
		models.InspectionRecommend, models.InspectionUnmarked:
		return st, nil
	}
	return "", apperr.Validation("parse status", "status", "must be one of ok, fail, na, recommend, unmarked")
}

// SetStatus applies a finding to an item. Photos only survive on fail and
// recommend; any other status clears them.
func SetStatus(item *models.InspectionItem, status models.InspectionStatus) {
	item.Status = status
	if !status.Actionable() {
		item.PhotoURLs = []string{}
	}
}

// SetNotes replaces the notes on an item. Blank notes are stored as nil.
func SetNotes(item *models.InspectionItem, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		item.Notes = nil
		return
	}
	item.Notes = &notes
}

// AddPhoto attaches a photo URL to an item that is marked fail or recommend.
func AddPhoto(item *models.InspectionItem, url string) error {
	if strings.TrimSpace(url) == "" {
		return apperr.Validation("add photo", "photo_url", "is required")
	}
	if !item.Status.Actionable() {
		return apperr.Validation("add photo", "status", "photos require a fail or recommend status")
	}
	item.PhotoURLs = append(item.PhotoURLs, url)
	return nil
}

// ItemUpdate is a partial change to one checklist item, addressed by
// section and item index.
type ItemUpdate struct {
	Section  int      `json:"section"`
	Item     int      `json:"item"`
	Status   *string  `json:"status,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	PhotoURL string   `json:"photo_url,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// Apply applies an update to the session's sections in place. The update is
// validated fully before anything changes.
func Apply(sections []models.InspectionSection, u ItemUpdate) error {
	if u.Section < 0 || u.Section >= len(sections) {
		return apperr.Validation("apply update", "section", "out of range")
	}
	items := sections[u.Section].Items
	if u.Item < 0 || u.Item >= len(items) {
		return apperr.Validation("apply update", "item", "out of range")
	}

	item := items[u.Item]
	if u.Status != nil {
		st, err := ParseStatus(*u.Status)
		if err != nil {
			return err
		}
		SetStatus(&item, st)
	}
	if u.Notes != nil {
		SetNotes(&item, *u.Notes)
	}
	if u.Value != nil {
		v := *u.Value
		item.Value = &v
	}
	if u.PhotoURL != "" {
		if err := AddPhoto(&item, u.PhotoURL); err != nil {
			return err
		}
	}

	items[u.Item] = item
	return nil
}
