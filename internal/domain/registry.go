package domain

import "github.com/shopspring/decimal"

// Registry is the immutable catalogue of regions, segments and manufacturers
// a simulation draws its parameters from. Build one with NewRegistry or
// DefaultRegistry and share it freely; it is never mutated after construction
// and lookups hand out copies.
type Registry struct {
	regions       []Region
	segments      []Segment
	manufacturers []Manufacturer

	regionIndex       map[RegionID]int
	segmentIndex      map[SegmentID]int
	manufacturerIndex map[ManufacturerID]int
}

// RegistryConfig carries the entity definitions used to build a Registry.
// Declaration order is preserved and defines the iteration order of
// simulation output.
type RegistryConfig struct {
	Regions       []Region
	Segments      []Segment
	Manufacturers []Manufacturer
}

// NewRegistry validates the given entity definitions and builds a Registry.
// Duplicate identifiers, out-of-range parameters and presence entries that
// reference unknown regions are rejected with a ConfigurationError.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if len(cfg.Regions) == 0 {
		return nil, &ConfigurationError{Entity: "region", Reason: "at least one region is required"}
	}
	if len(cfg.Segments) == 0 {
		return nil, &ConfigurationError{Entity: "segment", Reason: "at least one segment is required"}
	}
	if len(cfg.Manufacturers) == 0 {
		return nil, &ConfigurationError{Entity: "manufacturer", Reason: "at least one manufacturer is required"}
	}

	reg := &Registry{
		regions:           make([]Region, 0, len(cfg.Regions)),
		segments:          make([]Segment, 0, len(cfg.Segments)),
		manufacturers:     make([]Manufacturer, 0, len(cfg.Manufacturers)),
		regionIndex:       make(map[RegionID]int, len(cfg.Regions)),
		segmentIndex:      make(map[SegmentID]int, len(cfg.Segments)),
		manufacturerIndex: make(map[ManufacturerID]int, len(cfg.Manufacturers)),
	}

	for _, region := range cfg.Regions {
		if err := region.Validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.regionIndex[region.ID]; exists {
			return nil, &ConfigurationError{Entity: "region", ID: string(region.ID), Reason: "duplicate id"}
		}
		reg.regionIndex[region.ID] = len(reg.regions)
		reg.regions = append(reg.regions, region)
	}

	for _, segment := range cfg.Segments {
		if err := segment.Validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.segmentIndex[segment.ID]; exists {
			return nil, &ConfigurationError{Entity: "segment", ID: string(segment.ID), Reason: "duplicate id"}
		}
		reg.segmentIndex[segment.ID] = len(reg.segments)
		reg.segments = append(reg.segments, segment)
	}

	for _, manufacturer := range cfg.Manufacturers {
		if err := manufacturer.Validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.manufacturerIndex[manufacturer.ID]; exists {
			return nil, &ConfigurationError{Entity: "manufacturer", ID: string(manufacturer.ID), Reason: "duplicate id"}
		}
		for region := range manufacturer.Presence {
			if _, known := reg.regionIndex[region]; !known {
				return nil, &ConfigurationError{
					Entity: "manufacturer",
					ID:     string(manufacturer.ID),
					Reason: "presence references unknown region " + string(region),
				}
			}
		}
		reg.manufacturerIndex[manufacturer.ID] = len(reg.manufacturers)
		reg.manufacturers = append(reg.manufacturers, manufacturer.clone())
	}

	return reg, nil
}

// Region returns the region definition for the given identifier
func (r *Registry) Region(id RegionID) (Region, error) {
	idx, ok := r.regionIndex[id]
	if !ok {
		return Region{}, &ConfigurationError{Entity: "region", ID: string(id)}
	}
	return r.regions[idx], nil
}

// Segment returns the segment definition for the given identifier
func (r *Registry) Segment(id SegmentID) (Segment, error) {
	idx, ok := r.segmentIndex[id]
	if !ok {
		return Segment{}, &ConfigurationError{Entity: "segment", ID: string(id)}
	}
	return r.segments[idx], nil
}

// Manufacturer returns the manufacturer definition for the given identifier
func (r *Registry) Manufacturer(id ManufacturerID) (Manufacturer, error) {
	idx, ok := r.manufacturerIndex[id]
	if !ok {
		return Manufacturer{}, &ConfigurationError{Entity: "manufacturer", ID: string(id)}
	}
	return r.manufacturers[idx].clone(), nil
}

// Regions returns all regions in declaration order
func (r *Registry) Regions() []Region {
	out := make([]Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// Segments returns all segments in declaration order
func (r *Registry) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// Manufacturers returns all manufacturers in declaration order
func (r *Registry) Manufacturers() []Manufacturer {
	out := make([]Manufacturer, 0, len(r.manufacturers))
	for _, m := range r.manufacturers {
		out = append(out, m.clone())
	}
	return out
}

// RegionIDs returns the region identifiers in declaration order
func (r *Registry) RegionIDs() []RegionID {
	out := make([]RegionID, 0, len(r.regions))
	for _, region := range r.regions {
		out = append(out, region.ID)
	}
	return out
}

// SegmentIDs returns the segment identifiers in declaration order
func (r *Registry) SegmentIDs() []SegmentID {
	out := make([]SegmentID, 0, len(r.segments))
	for _, segment := range r.segments {
		out = append(out, segment.ID)
	}
	return out
}

// ManufacturerIDs returns the manufacturer identifiers in declaration order
func (r *Registry) ManufacturerIDs() []ManufacturerID {
	out := make([]ManufacturerID, 0, len(r.manufacturers))
	for _, m := range r.manufacturers {
		out = append(out, m.ID)
	}
	return out
}

// d parses a decimal literal for the built-in entity tables
func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// DefaultRegistry returns the built-in entity catalogue: four regions, four
// segments and five manufacturers with illustrative expansion parameters.
// The values are synthetic planning assumptions, not market research.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(RegistryConfig{
		Regions: []Region{
			{
				ID:            RegionChina,
				Name:          "China",
				MarketSize:    d("1.5"),
				GrowthRate:    d("0.04"),
				Openness:      d("0.8"),
				Receptiveness: d("0.9"),
				EVPenetration: d("0.25"),
				EVGrowth:      d("0.2"),
			},
			{
				ID:            RegionEurope,
				Name:          "Europe",
				MarketSize:    d("1.1"),
				GrowthRate:    d("0.005"),
				Openness:      d("0.4"),
				Receptiveness: d("0.35"),
				EVPenetration: d("0.15"),
				EVGrowth:      d("0.18"),
			},
			{
				ID:            RegionNorthAmerica,
				Name:          "North America",
				MarketSize:    d("1.2"),
				GrowthRate:    d("0.01"),
				Openness:      d("0.3"),
				Receptiveness: d("0.3"),
				EVPenetration: d("0.08"),
				EVGrowth:      d("0.12"),
			},
			{
				ID:            RegionEmergingMarkets,
				Name:          "Emerging Markets",
				MarketSize:    d("0.8"),
				GrowthRate:    d("0.06"),
				Openness:      d("0.6"),
				Receptiveness: d("0.6"),
				EVPenetration: d("0.02"),
				EVGrowth:      d("0.25"),
			},
		},
		Segments: []Segment{
			{
				ID:              SegmentEV,
				Name:            "Electric Vehicles",
				BaseGrowth:      d("0.12"),
				PriceMultiplier: d("1.5"),
				MarketWeight:    decimal.Zero, // EV demand follows the regional penetration curve
			},
			{
				ID:              SegmentMassMarket,
				Name:            "Mass Market",
				BaseGrowth:      d("0.06"),
				PriceMultiplier: d("1.2"),
				MarketWeight:    d("0.4"),
			},
			{
				ID:              SegmentPremium,
				Name:            "Premium",
				BaseGrowth:      d("0.04"),
				PriceMultiplier: d("1.8"),
				MarketWeight:    d("0.18"),
			},
			{
				ID:              SegmentLuxury,
				Name:            "Luxury",
				BaseGrowth:      d("0.02"),
				PriceMultiplier: d("3"),
				MarketWeight:    d("0.06"),
			},
		},
		Manufacturers: []Manufacturer{
			{
				ID:              ManufacturerBYD,
				Name:            "BYD",
				TechLeadership:  d("0.7"),
				EVCapability:    d("0.9"),
				InitialStrategy: StrategyExport,
				Presence: map[RegionID]decimal.Decimal{
					RegionChina: d("0.15"),
				},
			},
			{
				ID:              ManufacturerGeely,
				Name:            "Geely",
				TechLeadership:  d("0.75"),
				EVCapability:    d("0.7"),
				InitialStrategy: StrategyExport,
				Presence: map[RegionID]decimal.Decimal{
					RegionChina:  d("0.12"),
					RegionEurope: d("0.02"),
				},
			},
			{
				ID:              ManufacturerNIO,
				Name:            "NIO",
				TechLeadership:  d("0.8"),
				EVCapability:    d("0.95"),
				InitialStrategy: StrategyExport,
				Presence: map[RegionID]decimal.Decimal{
					RegionChina:  d("0.05"),
					RegionEurope: d("0.01"),
				},
			},
			{
				ID:              ManufacturerXPeng,
				Name:            "XPeng",
				TechLeadership:  d("0.65"),
				EVCapability:    d("0.85"),
				InitialStrategy: StrategyExport,
				Presence: map[RegionID]decimal.Decimal{
					RegionChina:  d("0.04"),
					RegionEurope: d("0.005"),
				},
			},
			{
				ID:              ManufacturerSAIC,
				Name:            "SAIC",
				TechLeadership:  d("0.6"),
				EVCapability:    d("0.7"),
				InitialStrategy: StrategyJointVenture,
				Presence: map[RegionID]decimal.Decimal{
					RegionChina:           d("0.18"),
					RegionEmergingMarkets: d("0.03"),
				},
			},
		},
	})
	if err != nil {
		// the built-in tables are validated by tests; reaching this is a bug
		panic("domain: default registry is invalid: " + err.Error())
	}
	return reg
}
