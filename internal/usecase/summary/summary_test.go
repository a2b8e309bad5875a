package summary

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/simulation"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func record(year int, m domain.ManufacturerID, r domain.RegionID, s domain.SegmentID, share, revenue string, strategy domain.Strategy) domain.MarketShareRecord {
	return domain.MarketShareRecord{
		Year:         year,
		Manufacturer: m,
		Region:       r,
		Segment:      s,
		MarketShare:  dec(share),
		Revenue:      dec(revenue),
		Strategy:     strategy,
	}
}

func TestSummarize_AggregatesAcrossSegments(t *testing.T) {
	table := domain.NewResultTable([]domain.MarketShareRecord{
		record(2025, "ACME", "HOME", domain.SegmentEV, "0.1", "0.05", domain.StrategyExport),
		record(2025, "ACME", "HOME", domain.SegmentMassMarket, "0.2", "0.1", domain.StrategyExport),
		record(2026, "ACME", "HOME", domain.SegmentEV, "0.2", "0.12", domain.StrategyLocalProduction),
		record(2026, "ACME", "HOME", domain.SegmentMassMarket, "0.3", "0.2", domain.StrategyJointVenture),
	})

	result, err := Summarize(table)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	row := result.Rows()[0]
	assert.Equal(t, domain.ManufacturerID("ACME"), row.Manufacturer)
	assert.Equal(t, domain.RegionID("HOME"), row.Region)
	assert.True(t, row.FinalShare.Equal(dec("0.5")), "final share summed across segments, got %s", row.FinalShare)
	// (0.5 - 0.3) / 1 transition
	assert.True(t, row.AvgGrowth.Equal(dec("0.2")), "got %s", row.AvgGrowth)
	assert.True(t, row.FinalRevenue.Equal(dec("0.32")), "got %s", row.FinalRevenue)
	// one cell each: the tie resolves to the more advanced strategy
	assert.Equal(t, domain.StrategyJointVenture, row.DominantStrategy)
}

func TestSummarize_DominantStrategyByMajority(t *testing.T) {
	table := domain.NewResultTable([]domain.MarketShareRecord{
		record(2030, "ACME", "HOME", domain.SegmentEV, "0.1", "0", domain.StrategyExport),
		record(2030, "ACME", "HOME", domain.SegmentMassMarket, "0.1", "0", domain.StrategyExport),
		record(2030, "ACME", "HOME", domain.SegmentLuxury, "0.4", "0", domain.StrategyAcquisition),
	})

	result, err := Summarize(table)
	require.NoError(t, err)

	// two EXPORT cells outvote one ACQUISITION cell
	assert.Equal(t, domain.StrategyExport, result.Rows()[0].DominantStrategy)
}

func TestSummarize_SingleYearHasZeroGrowth(t *testing.T) {
	table := domain.NewResultTable([]domain.MarketShareRecord{
		record(2025, "ACME", "HOME", domain.SegmentEV, "0.15", "0.1", domain.StrategyExport),
	})

	result, err := Summarize(table)
	require.NoError(t, err)

	row := result.Rows()[0]
	assert.True(t, row.AvgGrowth.IsZero())
	assert.True(t, row.FinalShare.Equal(dec("0.15")))
}

func TestSummarize_RowOrderFollowsTableEncounterOrder(t *testing.T) {
	table := domain.NewResultTable([]domain.MarketShareRecord{
		record(2025, "ACME", "HOME", domain.SegmentEV, "0.1", "0", domain.StrategyExport),
		record(2025, "ACME", "ABROAD", domain.SegmentEV, "0.01", "0", domain.StrategyExport),
		record(2025, "ZETA", "HOME", domain.SegmentEV, "0.2", "0", domain.StrategyExport),
		record(2025, "ZETA", "ABROAD", domain.SegmentEV, "0.02", "0", domain.StrategyExport),
	})

	result, err := Summarize(table)
	require.NoError(t, err)
	require.Equal(t, 4, result.Len())

	rows := result.Rows()
	assert.Equal(t, domain.ManufacturerID("ACME"), rows[0].Manufacturer)
	assert.Equal(t, domain.RegionID("HOME"), rows[0].Region)
	assert.Equal(t, domain.RegionID("ABROAD"), rows[1].Region)
	assert.Equal(t, domain.ManufacturerID("ZETA"), rows[2].Manufacturer)
	assert.Equal(t, domain.RegionID("HOME"), rows[2].Region)
	assert.Equal(t, domain.RegionID("ABROAD"), rows[3].Region)
}

func TestSummarize_EmptyTable(t *testing.T) {
	_, err := Summarize(domain.NewResultTable(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "result table is empty")

	_, err = Summarize(nil)
	require.Error(t, err)
}

func TestSummarize_FullSimulation(t *testing.T) {
	reg := domain.DefaultRegistry()
	service := simulation.NewService(reg, nil)

	table, err := service.Run(context.Background(), simulation.RunOptions{
		StartYear: 2025,
		EndYear:   2030,
		Regions:   reg.RegionIDs(),
		Segments:  reg.SegmentIDs(),
	})
	require.NoError(t, err)

	result, err := Summarize(table)
	require.NoError(t, err)

	// one row per manufacturer per region
	require.Equal(t, 5*4, result.Len())

	// recompute BYD/CHINA from the raw records as a cross-check
	expected := decimal.Zero
	for _, rec := range table.Records() {
		if rec.Year == 2030 && rec.Manufacturer == domain.ManufacturerBYD && rec.Region == domain.RegionChina {
			expected = expected.Add(rec.MarketShare)
		}
	}

	byd := result.Rows()[0]
	assert.Equal(t, domain.ManufacturerBYD, byd.Manufacturer)
	assert.Equal(t, domain.RegionChina, byd.Region)
	assert.True(t, byd.FinalShare.Equal(expected), "expected %s, got %s", expected, byd.FinalShare)
	assert.False(t, byd.AvgGrowth.IsNegative(), "shares are non-decreasing, growth cannot be negative")
}
