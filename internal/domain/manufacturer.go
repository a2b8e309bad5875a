package domain

import "github.com/shopspring/decimal"

// ManufacturerID identifies a Chinese vehicle manufacturer
type ManufacturerID string

const (
	ManufacturerBYD   ManufacturerID = "BYD"
	ManufacturerGeely ManufacturerID = "GEELY"
	ManufacturerNIO   ManufacturerID = "NIO"
	ManufacturerXPeng ManufacturerID = "XPENG"
	ManufacturerSAIC  ManufacturerID = "SAIC"
)

// Manufacturer represents a vehicle manufacturer with its capability scores
// and initial footprint
type Manufacturer struct {
	ID              ManufacturerID
	Name            string
	TechLeadership  decimal.Decimal // general technology score, 0-1
	EVCapability    decimal.Decimal // electric-vehicle technology score, 0-1
	InitialStrategy Strategy
	Presence        map[RegionID]decimal.Decimal // seed market share per region; absent regions start at zero
}

// InitialShare returns the manufacturer's seed market share in a region.
// Regions without an established presence start at zero.
func (m *Manufacturer) InitialShare(region RegionID) decimal.Decimal {
	share, ok := m.Presence[region]
	if !ok {
		return decimal.Zero
	}
	return share
}

// Validate checks that the manufacturer definition is well formed
func (m *Manufacturer) Validate() error {
	if m.ID == "" {
		return &ConfigurationError{Entity: "manufacturer", ID: string(m.ID), Reason: "id is required"}
	}
	if m.Name == "" {
		return &ConfigurationError{Entity: "manufacturer", ID: string(m.ID), Reason: "name is required"}
	}
	if !inUnitInterval(m.TechLeadership) {
		return &ConfigurationError{Entity: "manufacturer", ID: string(m.ID), Reason: "tech leadership must be between 0 and 1"}
	}
	if !inUnitInterval(m.EVCapability) {
		return &ConfigurationError{Entity: "manufacturer", ID: string(m.ID), Reason: "ev capability must be between 0 and 1"}
	}
	if !m.InitialStrategy.Valid() {
		return &ConfigurationError{Entity: "manufacturer", ID: string(m.ID), Reason: "unknown initial strategy"}
	}
	for region, share := range m.Presence {
		if !inUnitInterval(share) {
			return &ConfigurationError{
				Entity: "manufacturer",
				ID:     string(m.ID),
				Reason: "presence share in " + string(region) + " must be between 0 and 1",
			}
		}
	}
	return nil
}

// clone returns a deep copy so registry lookups never hand out shared maps
func (m Manufacturer) clone() Manufacturer {
	presence := make(map[RegionID]decimal.Decimal, len(m.Presence))
	for region, share := range m.Presence {
		presence[region] = share
	}
	m.Presence = presence
	return m
}
