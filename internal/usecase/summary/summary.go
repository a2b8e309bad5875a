package summary

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
)

// Row represents the aggregated outcome for one manufacturer in one region.
// Shares and revenue are summed across the segments present in the table.
type Row struct {
	Manufacturer     domain.ManufacturerID
	Region           domain.RegionID
	FinalShare       decimal.Decimal // summed share in the final simulated year
	AvgGrowth        decimal.Decimal // (final - first) / number of transitions
	DominantStrategy domain.Strategy // most common strategy across final-year cells
	FinalRevenue     decimal.Decimal // summed revenue index in the final year
}

// Table holds summary rows ordered manufacturer-major, region-minor,
// following the result table's encounter order
type Table struct {
	rows []Row
}

// Rows returns the summary rows in order.
// Callers must treat the returned slice as read-only.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of summary rows
func (t *Table) Len() int {
	return len(t.rows)
}

// group accumulates one (manufacturer, region) pair
type group struct {
	firstShare   decimal.Decimal
	finalShare   decimal.Decimal
	finalRevenue decimal.Decimal
	strategies   map[domain.Strategy]int // final-year cell counts
}

type groupKey struct {
	manufacturer domain.ManufacturerID
	region       domain.RegionID
}

// Summarize condenses a simulation result table into one row per
// (manufacturer, region)
// Logic:
//  1. Within each year, sum shares across the segments of the pair
//  2. FinalShare and FinalRevenue come from the final simulated year
//  3. AvgGrowth is (final - first) / (last year - first year); zero for
//     single-year tables
//  4. DominantStrategy is the strategy held by the most final-year segment
//     cells; ties resolve to the most advanced strategy
func Summarize(table *domain.ResultTable) (*Table, error) {
	if table == nil || table.Len() == 0 {
		return nil, errors.New("result table is empty")
	}

	firstYear, lastYear := table.Years()

	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)

	for _, rec := range table.Records() {
		key := groupKey{manufacturer: rec.Manufacturer, region: rec.Region}
		g, ok := groups[key]
		if !ok {
			g = &group{
				firstShare:   decimal.Zero,
				finalShare:   decimal.Zero,
				finalRevenue: decimal.Zero,
				strategies:   make(map[domain.Strategy]int),
			}
			groups[key] = g
			order = append(order, key)
		}

		if rec.Year == firstYear {
			g.firstShare = g.firstShare.Add(rec.MarketShare)
		}
		if rec.Year == lastYear {
			g.finalShare = g.finalShare.Add(rec.MarketShare)
			g.finalRevenue = g.finalRevenue.Add(rec.Revenue)
			g.strategies[rec.Strategy]++
		}
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rows = append(rows, Row{
			Manufacturer:     key.manufacturer,
			Region:           key.region,
			FinalShare:       g.finalShare,
			AvgGrowth:        avgGrowth(g.firstShare, g.finalShare, lastYear-firstYear),
			DominantStrategy: dominantStrategy(g.strategies),
			FinalRevenue:     g.finalRevenue,
		})
	}

	return &Table{rows: rows}, nil
}

// avgGrowth returns the mean annual share change over the run
func avgGrowth(first, final decimal.Decimal, transitions int) decimal.Decimal {
	if transitions <= 0 {
		return decimal.Zero
	}
	return final.Sub(first).Div(decimal.NewFromInt(int64(transitions)))
}

// dominantStrategy picks the most frequent strategy; on equal counts the
// more advanced strategy wins
func dominantStrategy(counts map[domain.Strategy]int) domain.Strategy {
	ladder := []domain.Strategy{
		domain.StrategyExport,
		domain.StrategyLocalProduction,
		domain.StrategyJointVenture,
		domain.StrategyAcquisition,
	}

	best := domain.StrategyExport
	bestCount := 0
	for _, s := range ladder {
		if counts[s] > 0 && counts[s] >= bestCount {
			best = s
			bestCount = counts[s]
		}
	}
	return best
}
