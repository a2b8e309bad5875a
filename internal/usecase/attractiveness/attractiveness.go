package attractiveness

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
)

var (
	weightSize          = decimal.RequireFromString("0.3")
	weightGrowth        = decimal.RequireFromString("0.3")
	weightOpenness      = decimal.RequireFromString("0.2")
	weightReceptiveness = decimal.RequireFromString("0.2")

	// growth rates are small fractions; scale them onto the size index
	growthScale = decimal.NewFromInt(20)

	evPenetrationBoost = decimal.NewFromInt(2)
	evGrowthBoost      = decimal.NewFromInt(5)

	one = decimal.NewFromInt(1)
)

// Score rates how attractive a region is for entering a given segment,
// blending market size, demand growth, regulatory openness and brand
// receptiveness. The EV segment scales further with the region's
// electrification level and pace.
func Score(region domain.Region, segment domain.Segment) decimal.Decimal {
	score := region.MarketSize.Mul(weightSize).
		Add(region.GrowthRate.Mul(growthScale).Mul(weightGrowth)).
		Add(region.Openness.Mul(weightOpenness)).
		Add(region.Receptiveness.Mul(weightReceptiveness))

	if segment.ID == domain.SegmentEV {
		score = score.
			Mul(one.Add(region.EVPenetration.Mul(evPenetrationBoost))).
			Mul(one.Add(region.EVGrowth.Mul(evGrowthBoost)))
	}
	return score
}

// Entry pairs a market with its attractiveness score
type Entry struct {
	Region  domain.RegionID
	Segment domain.SegmentID
	Score   decimal.Decimal
}

// Rank scores every requested region/segment combination and returns them
// best-first. Empty region or segment lists mean the full registry. Equal
// scores keep their request order.
func Rank(reg *domain.Registry, regions []domain.RegionID, segments []domain.SegmentID) ([]Entry, error) {
	if len(regions) == 0 {
		regions = reg.RegionIDs()
	}
	if len(segments) == 0 {
		segments = reg.SegmentIDs()
	}

	entries := make([]Entry, 0, len(regions)*len(segments))
	for _, regionID := range regions {
		region, err := reg.Region(regionID)
		if err != nil {
			return nil, err
		}
		for _, segmentID := range segments {
			segment, err := reg.Segment(segmentID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{
				Region:  region.ID,
				Segment: segment.ID,
				Score:   Score(region, segment),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score.GreaterThan(entries[j].Score)
	})
	return entries, nil
}
