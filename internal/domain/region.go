package domain

import "github.com/shopspring/decimal"

// RegionID identifies a geographic market region
type RegionID string

const (
	RegionChina           RegionID = "CHINA"
	RegionEurope          RegionID = "EUROPE"
	RegionNorthAmerica    RegionID = "NORTH_AMERICA"
	RegionEmergingMarkets RegionID = "EMERGING_MARKETS"
)

// Region represents a geographic vehicle market and the structural parameters
// that drive expansion within it
type Region struct {
	ID            RegionID
	Name          string
	MarketSize    decimal.Decimal // relative size index, 1.0 = reference market
	GrowthRate    decimal.Decimal // annual growth of total vehicle demand
	Openness      decimal.Decimal // regulatory openness to foreign entrants, 0-1
	Receptiveness decimal.Decimal // consumer receptiveness to Chinese brands, 0-1
	EVPenetration decimal.Decimal // current EV share of new sales, 0-1
	EVGrowth      decimal.Decimal // annual growth of EV penetration
}

// Validate checks that the region definition is well formed
func (r *Region) Validate() error {
	if r.ID == "" {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "id is required"}
	}
	if r.Name == "" {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "name is required"}
	}
	if r.MarketSize.LessThanOrEqual(decimal.Zero) {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "market size must be positive"}
	}
	if r.GrowthRate.IsNegative() {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "growth rate cannot be negative"}
	}
	if !inUnitInterval(r.Openness) {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "openness must be between 0 and 1"}
	}
	if !inUnitInterval(r.Receptiveness) {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "receptiveness must be between 0 and 1"}
	}
	if !inUnitInterval(r.EVPenetration) {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "ev penetration must be between 0 and 1"}
	}
	if r.EVGrowth.IsNegative() {
		return &ConfigurationError{Entity: "region", ID: string(r.ID), Reason: "ev growth cannot be negative"}
	}
	return nil
}

var one = decimal.NewFromInt(1)

// inUnitInterval reports whether d lies in [0, 1]
func inUnitInterval(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(one)
}
