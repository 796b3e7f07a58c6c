package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/export"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleLines() []models.QuoteLineItem {
	return []models.QuoteLineItem{
		{ID: uuid.New(), Description: "pads worn", Status: models.InspectionFail, Part: models.Part{Name: "Rear Pads"}, LaborHours: 1.5},
		{ID: uuid.New(), Description: "Brake Fluid", Status: models.InspectionRecommend, Part: models.Part{Name: "Brake Fluid"}, LaborHours: 0.5},
	}
}

func readBack(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteQuote_Layout(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	err := export.WriteQuote(&buf, "Inspection Quote", sampleLines(), generated)
	require.NoError(t, err)

	f := readBack(t, &buf)
	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue(export.SheetName, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Inspection Quote", get("A1"))
	assert.Equal(t, "Generated: 2026-05-04 10:30:00 UTC", get("A2"))
	assert.Equal(t, "Description", get("B4"))
	assert.Equal(t, "Labor Hours", get("F4"))

	assert.Equal(t, "1", get("A5"))
	assert.Equal(t, "pads worn", get("B5"))
	assert.Equal(t, "fail", get("C5"))
	assert.Equal(t, "Rear Pads", get("D5"))
	assert.Equal(t, "1.5", get("F5"))

	assert.Equal(t, "Brake Fluid", get("B6"))
	assert.Equal(t, "recommend", get("C6"))

	assert.Equal(t, "Total (1 failed, 1 recommended)", get("B7"))
	assert.Equal(t, "2", get("F7"))
	assert.Equal(t, "0", get("G7"))
}

func TestWriteQuote_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteQuote(&buf, "Empty", nil, time.Now()))

	f := readBack(t, &buf)
	v, err := f.GetCellValue(export.SheetName, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Total (0 failed, 0 recommended)", v)
}
