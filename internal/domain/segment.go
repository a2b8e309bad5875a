package domain

import "github.com/shopspring/decimal"

// SegmentID identifies a vehicle market segment
type SegmentID string

const (
	SegmentEV         SegmentID = "EV"
	SegmentMassMarket SegmentID = "MASS_MARKET"
	SegmentPremium    SegmentID = "PREMIUM"
	SegmentLuxury     SegmentID = "LUXURY"
)

// Segment represents a vehicle market segment and the parameters that shape
// share capture and revenue within it
type Segment struct {
	ID              SegmentID
	Name            string
	BaseGrowth      decimal.Decimal // baseline annual share-capture rate, 0-1
	PriceMultiplier decimal.Decimal // relative revenue per unit of share
	MarketWeight    decimal.Decimal // share of a region's demand; for EV derived from penetration instead
}

// Validate checks that the segment definition is well formed
func (s *Segment) Validate() error {
	if s.ID == "" {
		return &ConfigurationError{Entity: "segment", ID: string(s.ID), Reason: "id is required"}
	}
	if s.Name == "" {
		return &ConfigurationError{Entity: "segment", ID: string(s.ID), Reason: "name is required"}
	}
	if !inUnitInterval(s.BaseGrowth) {
		return &ConfigurationError{Entity: "segment", ID: string(s.ID), Reason: "base growth must be between 0 and 1"}
	}
	if s.PriceMultiplier.LessThanOrEqual(decimal.Zero) {
		return &ConfigurationError{Entity: "segment", ID: string(s.ID), Reason: "price multiplier must be positive"}
	}
	if !inUnitInterval(s.MarketWeight) {
		return &ConfigurationError{Entity: "segment", ID: string(s.ID), Reason: "market weight must be between 0 and 1"}
	}
	return nil
}
