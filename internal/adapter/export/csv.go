package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/summary"
)

// Default file names used by the CLI when writing into an output directory
const (
	EvolutionCSVName = "market_share_evolution.csv"
	SummaryCSVName   = "market_share_summary.csv"
	WorkbookName     = "market_share_report.xlsx"
)

var evolutionHeader = []string{
	"year", "manufacturer", "region", "segment", "market_share", "revenue_millions", "strategy",
}

var summaryHeader = []string{
	"manufacturer", "region", "final_share", "avg_growth", "dominant_strategy", "final_revenue_millions",
}

// WriteEvolutionCSV writes the full result table as CSV, one row per record
// in table order. Decimal columns keep their exact string representation.
func WriteEvolutionCSV(w io.Writer, table *domain.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(evolutionHeader); err != nil {
		return fmt.Errorf("failed to write evolution header: %w", err)
	}
	for _, rec := range table.Records() {
		row := []string{
			strconv.Itoa(rec.Year),
			string(rec.Manufacturer),
			string(rec.Region),
			string(rec.Segment),
			rec.MarketShare.String(),
			rec.Revenue.String(),
			string(rec.Strategy),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write evolution row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the per-manufacturer-per-region summary as CSV
func WriteSummaryCSV(w io.Writer, table *summary.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, row := range table.Rows() {
		record := []string{
			string(row.Manufacturer),
			string(row.Region),
			row.FinalShare.String(),
			row.AvgGrowth.String(),
			string(row.DominantStrategy),
			row.FinalRevenue.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
