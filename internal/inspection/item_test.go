package inspection

import (
	"testing"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"ok", "fail", "na", "recommend", "unmarked", "FAIL"} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}

	st, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, models.InspectionUnmarked, st)

	_, err = ParseStatus("broken")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetStatus_ClearsPhotosWhenNotActionable(t *testing.T) {
	for _, st := range []models.InspectionStatus{
		models.InspectionOK, models.InspectionNA, models.InspectionUnmarked,
	} {
		item := models.InspectionItem{
			Name:      "Front Pads",
			Status:    models.InspectionFail,
			PhotoURLs: []string{"https://photos/1.jpg"},
		}
		SetStatus(&item, st)
		assert.Equal(t, st, item.Status)
		assert.Empty(t, item.PhotoURLs, "status %s should clear photos", st)
		assert.NotNil(t, item.PhotoURLs)
	}
}

func TestSetStatus_KeepsPhotosWhenActionable(t *testing.T) {
	item := models.InspectionItem{
		Status:    models.InspectionFail,
		PhotoURLs: []string{"https://photos/1.jpg"},
	}
	SetStatus(&item, models.InspectionRecommend)
	assert.Equal(t, []string{"https://photos/1.jpg"}, item.PhotoURLs)
}

func TestSetNotes(t *testing.T) {
	var item models.InspectionItem
	SetNotes(&item, "  pads worn ")
	require.NotNil(t, item.Notes)
	assert.Equal(t, "pads worn", *item.Notes)

	SetNotes(&item, "   ")
	assert.Nil(t, item.Notes)
}

func TestAddPhoto(t *testing.T) {
	item := models.InspectionItem{Status: models.InspectionOK}
	err := AddPhoto(&item, "https://photos/1.jpg")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	item.Status = models.InspectionFail
	require.NoError(t, AddPhoto(&item, "https://photos/1.jpg"))
	assert.Len(t, item.PhotoURLs, 1)

	assert.Error(t, AddPhoto(&item, ""))
}

func TestApply(t *testing.T) {
	sections := Sections(models.VehicleCar)
	value := 3.0

	err := Apply(sections, ItemUpdate{
		Section:  3,
		Item:     0,
		Status:   strPtr("fail"),
		Notes:    strPtr("pads worn"),
		PhotoURL: "https://photos/pads.jpg",
		Value:    &value,
	})
	require.NoError(t, err)

	item := sections[3].Items[0]
	assert.Equal(t, models.InspectionFail, item.Status)
	assert.Equal(t, "pads worn", *item.Notes)
	assert.Equal(t, []string{"https://photos/pads.jpg"}, item.PhotoURLs)
	assert.Equal(t, 3.0, *item.Value)
}

func TestApply_InvalidLeavesItemUntouched(t *testing.T) {
	sections := Sections(models.VehicleCar)

	err := Apply(sections, ItemUpdate{Section: 0, Item: 0, Status: strPtr("ok"), PhotoURL: "https://p/1.jpg"})
	require.Error(t, err)
	assert.Equal(t, models.InspectionUnmarked, sections[0].Items[0].Status)

	assert.Error(t, Apply(sections, ItemUpdate{Section: 99}))
	assert.Error(t, Apply(sections, ItemUpdate{Section: 0, Item: -1}))
	assert.Error(t, Apply(sections, ItemUpdate{Section: 0, Item: 0, Status: strPtr("bogus")}))
}
