package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/attractiveness"
	"github.com/autoforesight/expansionsim/internal/usecase/scenario"
	"github.com/autoforesight/expansionsim/internal/usecase/summary"
)

func printSummaryTable(sum *summary.Table) {
	fmt.Printf("%-14s %-18s %12s %11s %-18s %14s\n",
		"Manufacturer", "Region", "Final Share", "Avg Growth", "Strategy", "Revenue ($M)")
	fmt.Printf("%-14s %-18s %12s %11s %-18s %14s\n",
		"--------------", "------------------", "------------", "-----------", "------------------", "--------------")

	for _, row := range sum.Rows() {
		fmt.Printf("%-14s %-18s %12s %11s %-18s %14s\n",
			row.Manufacturer, row.Region,
			row.FinalShare.StringFixed(4), row.AvgGrowth.StringFixed(4),
			row.DominantStrategy, row.FinalRevenue.StringFixed(2))
	}
}

func printScenarioBundle(scenarios []scenario.Scenario) {
	fmt.Println("Scenario outlooks")
	for _, s := range scenarios {
		fmt.Printf("  %-12s %-42s probability %s\n", s.Type, s.Name, s.Probability.String())
	}
	fmt.Println()
}

func printParameterComparison(name string, comparisons []scenario.ParameterComparison) {
	fmt.Println(name)
	for _, c := range comparisons {
		fmt.Printf("  %-12s %s\n", c.Type, c.Value.String())
	}
	fmt.Println()
}

func printSensitivity(projections []scenario.SizeProjection) {
	if len(projections) == 0 {
		return
	}

	years := make([]int, 0, len(projections[0].Sizes))
	for year := range projections[0].Sizes {
		years = append(years, year)
	}
	sort.Ints(years)

	fmt.Println("Market size sensitivity")
	fmt.Printf("  %-12s", "Scenario")
	for _, year := range years {
		fmt.Printf(" %10d", year)
	}
	fmt.Println()
	for _, p := range projections {
		fmt.Printf("  %-12s", p.Type)
		for _, year := range years {
			fmt.Printf(" %10s", p.Sizes[year].StringFixed(2))
		}
		fmt.Println()
	}
}

func printRegistry(reg *domain.Registry) {
	fmt.Println("Regions")
	fmt.Printf("  %-18s %8s %8s %10s %14s %8s %10s\n",
		"ID", "Size", "Growth", "Openness", "Receptiveness", "EV Pen", "EV Growth")
	for _, r := range reg.Regions() {
		fmt.Printf("  %-18s %8s %8s %10s %14s %8s %10s\n",
			r.ID, r.MarketSize.String(), r.GrowthRate.String(), r.Openness.String(),
			r.Receptiveness.String(), r.EVPenetration.String(), r.EVGrowth.String())
	}
	fmt.Println()

	fmt.Println("Segments")
	fmt.Printf("  %-12s %12s %12s %8s\n", "ID", "Base Growth", "Price Mult", "Weight")
	for _, s := range reg.Segments() {
		fmt.Printf("  %-12s %12s %12s %8s\n",
			s.ID, s.BaseGrowth.String(), s.PriceMultiplier.String(), s.MarketWeight.String())
	}
	fmt.Println()

	fmt.Println("Manufacturers")
	fmt.Printf("  %-8s %6s %8s %-18s %s\n", "ID", "Tech", "EV Cap", "Strategy", "Presence")
	for _, m := range reg.Manufacturers() {
		fmt.Printf("  %-8s %6s %8s %-18s %s\n",
			m.ID, m.TechLeadership.String(), m.EVCapability.String(), m.InitialStrategy, formatPresence(m))
	}
	fmt.Println()
}

func formatPresence(m domain.Manufacturer) string {
	ids := make([]domain.RegionID, 0, len(m.Presence))
	for id := range m.Presence {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%s", id, m.Presence[id].String()))
	}
	return strings.Join(parts, " ")
}

func printAttractiveness(entries []attractiveness.Entry) {
	fmt.Println("Market attractiveness (best first)")
	fmt.Printf("  %-18s %-12s %10s\n", "Region", "Segment", "Score")
	for _, e := range entries {
		fmt.Printf("  %-18s %-12s %10s\n", e.Region, e.Segment, e.Score.StringFixed(4))
	}
}
