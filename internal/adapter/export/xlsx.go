package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/summary"
)

const (
	evolutionSheet = "Evolution"
	summarySheet   = "Summary"
)

// WriteWorkbook writes one XLSX workbook with an Evolution sheet (full result
// table) and a Summary sheet. Share and revenue cells are numeric so the
// workbook can be filtered and pivoted directly.
func WriteWorkbook(w io.Writer, table *domain.ResultTable, sum *summary.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", evolutionSheet)
	evolutionRows := make([][]any, 0, table.Len())
	for _, rec := range table.Records() {
		evolutionRows = append(evolutionRows, []any{
			rec.Year,
			string(rec.Manufacturer),
			string(rec.Region),
			string(rec.Segment),
			rec.MarketShare.InexactFloat64(),
			rec.Revenue.InexactFloat64(),
			string(rec.Strategy),
		})
	}
	if err := writeSheet(f, evolutionSheet, evolutionHeader, evolutionRows, 16); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summaryRows := make([][]any, 0, sum.Len())
	for _, row := range sum.Rows() {
		summaryRows = append(summaryRows, []any{
			string(row.Manufacturer),
			string(row.Region),
			row.FinalShare.InexactFloat64(),
			row.AvgGrowth.InexactFloat64(),
			string(row.DominantStrategy),
			row.FinalRevenue.InexactFloat64(),
		})
	}
	if err := writeSheet(f, summarySheet, summaryHeader, summaryRows, 22); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet fills a sheet with a header row plus data rows and sets a
// uniform column width
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, width float64) error {
	for i, title := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name header column: %w", err)
		}
		if err := f.SetCellValue(sheet, col+"1", title); err != nil {
			return fmt.Errorf("failed to write header cell %s1: %w", col, err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to name cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
