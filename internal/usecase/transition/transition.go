package transition

import (
	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
)

var (
	one  = decimal.NewFromInt(1)
	half = decimal.RequireFromString("0.5")

	// strategy upgrade thresholds on the newly computed share
	thresholdLocalProduction = decimal.RequireFromString("0.05")
	thresholdJointVenture    = decimal.RequireFromString("0.15")
	thresholdAcquisition     = decimal.RequireFromString("0.3")

	// evPenetrationCap bounds the EV demand curve at 90% of a region's market
	evPenetrationCap = decimal.RequireFromString("0.9")
)

// TechnologyFactor returns the manufacturer's technology multiplier for a
// segment: 0.5 + EVCapability in the EV segment, 0.5 + TechLeadership
// elsewhere. With capability scores in [0,1] the factor lies in [0.5, 1.5].
func TechnologyFactor(manufacturer domain.Manufacturer, segment domain.SegmentID) decimal.Decimal {
	if segment == domain.SegmentEV {
		return half.Add(manufacturer.EVCapability)
	}
	return half.Add(manufacturer.TechLeadership)
}

// NextShare applies one year of saturating growth to the current share:
//
//	next = share + BaseGrowth x TechnologyFactor x Receptiveness x (1 - share)
//
// The increment shrinks as the share approaches 1, so shares never decrease
// and never leave [0,1]. The result is clamped as a guard against
// out-of-range inputs.
func NextShare(current decimal.Decimal, manufacturer domain.Manufacturer, region domain.Region, segment domain.Segment) decimal.Decimal {
	headroom := one.Sub(current)
	increment := segment.BaseGrowth.
		Mul(TechnologyFactor(manufacturer, segment.ID)).
		Mul(region.Receptiveness).
		Mul(headroom)
	return clampUnit(current.Add(increment))
}

// StrategyForShare maps a share level onto the entry-mode ladder:
// >= 0.30 ACQUISITION, >= 0.15 JOINT_VENTURE, >= 0.05 LOCAL_PRODUCTION,
// EXPORT otherwise.
func StrategyForShare(share decimal.Decimal) domain.Strategy {
	switch {
	case share.GreaterThanOrEqual(thresholdAcquisition):
		return domain.StrategyAcquisition
	case share.GreaterThanOrEqual(thresholdJointVenture):
		return domain.StrategyJointVenture
	case share.GreaterThanOrEqual(thresholdLocalProduction):
		return domain.StrategyLocalProduction
	default:
		return domain.StrategyExport
	}
}

// NextStrategy combines the current strategy with the one the new share
// justifies. Strategies only ever move forward along the ladder; a share that
// maps below the current strategy leaves it unchanged.
func NextStrategy(current domain.Strategy, newShare decimal.Decimal) domain.Strategy {
	return current.Advance(StrategyForShare(newShare))
}

// MarketSize returns the demand index of a region/segment for a given year.
// Regional demand compounds at the region's growth rate from the run's start
// year. The EV segment follows the regional penetration curve, capped at 90%;
// other segments take their fixed market weight.
func MarketSize(region domain.Region, segment domain.Segment, year, baseYear int) decimal.Decimal {
	years := year - baseYear
	size := region.MarketSize.Mul(compound(region.GrowthRate, years))

	if segment.ID == domain.SegmentEV {
		penetration := decimal.Min(
			region.EVPenetration.Mul(compound(region.EVGrowth, years)),
			evPenetrationCap,
		)
		return size.Mul(penetration)
	}
	return size.Mul(segment.MarketWeight)
}

// Revenue returns the revenue index for a share of a market:
// market size x share x segment price multiplier.
func Revenue(marketSize, share decimal.Decimal, segment domain.Segment) decimal.Decimal {
	return marketSize.Mul(share).Mul(segment.PriceMultiplier)
}

// compound returns (1+rate)^years by exact decimal multiplication
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	annual := one.Add(rate)
	factor := one
	for i := 0; i < years; i++ {
		factor = factor.Mul(annual)
	}
	return factor
}

// clampUnit forces d into [0,1]
func clampUnit(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
