// Package export renders quotes as downloadable workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/kiranshivaraju/shopfloor/internal/quote"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Quote"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerRow = 4
	firstRow  = 5
)

var headers = []struct {
	label string
	width float64
}{
	{"#", 6},
	{"Description", 48},
	{"Status", 12},
	{"Part", 32},
	{"Part Price", 12},
	{"Labor Hours", 12},
	{"Price", 12},
}

// QuoteWorkbook lays out a quote: title, generation time, one row per line
// and a totals row.
func QuoteWorkbook(title string, lines []models.QuoteLineItem, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return nil, fmt.Errorf("data style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}

	set := func(col, row int, v any, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(SheetName, cell, cell, style)
		}
		return nil
	}

	if err := set(1, 1, title, titleStyle); err != nil {
		return nil, err
	}
	_ = f.SetRowHeight(SheetName, 1, 30)
	if err := set(1, 2, "Generated: "+generatedAt.UTC().Format("2006-01-02 15:04:05 MST"), 0); err != nil {
		return nil, err
	}

	for i, h := range headers {
		if err := set(i+1, headerRow, h.label, headerStyle); err != nil {
			return nil, err
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, h.width)
	}

	for i, l := range lines {
		row := firstRow + i
		values := []any{i + 1, l.Description, string(l.Status), l.Part.Name, l.Part.Price, l.LaborHours, l.Price}
		for c, v := range values {
			if err := set(c+1, row, v, dataStyle); err != nil {
				return nil, fmt.Errorf("write line %d: %w", i+1, err)
			}
		}
	}

	totals := quote.Summarize(lines)
	row := firstRow + len(lines)
	totalValues := []any{"", fmt.Sprintf("Total (%d failed, %d recommended)", totals.Failed, totals.Recommend), "", "", "", totals.LaborHours, totals.Price}
	for c, v := range totalValues {
		if err := set(c+1, row, v, totalStyle); err != nil {
			return nil, fmt.Errorf("write totals: %w", err)
		}
	}

	return f, nil
}

// WriteQuote encodes the quote workbook to w.
func WriteQuote(w io.Writer, title string, lines []models.QuoteLineItem, generatedAt time.Time) error {
	f, err := QuoteWorkbook(title, lines, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
