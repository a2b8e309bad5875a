package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/autoforesight/expansionsim/internal/domain"
)

// registryFile mirrors the YAML layout of a registry override file
type registryFile struct {
	Regions       []regionEntry       `yaml:"regions"`
	Segments      []segmentEntry      `yaml:"segments"`
	Manufacturers []manufacturerEntry `yaml:"manufacturers"`
}

type regionEntry struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	MarketSize    float64 `yaml:"market_size"`
	GrowthRate    float64 `yaml:"growth_rate"`
	Openness      float64 `yaml:"openness"`
	Receptiveness float64 `yaml:"receptiveness"`
	EVPenetration float64 `yaml:"ev_penetration"`
	EVGrowth      float64 `yaml:"ev_growth"`
}

type segmentEntry struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	BaseGrowth      float64 `yaml:"base_growth"`
	PriceMultiplier float64 `yaml:"price_multiplier"`
	MarketWeight    float64 `yaml:"market_weight"`
}

type manufacturerEntry struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name"`
	TechLeadership  float64            `yaml:"tech_leadership"`
	EVCapability    float64            `yaml:"ev_capability"`
	InitialStrategy string             `yaml:"initial_strategy"`
	Presence        map[string]float64 `yaml:"presence"`
}

// LoadRegistry reads a YAML registry definition and validates it into a
// domain.Registry. Malformed files and out-of-range parameters fail with the
// registry's usual ConfigurationError.
func LoadRegistry(path string) (*domain.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}

	cfg := domain.RegistryConfig{}

	for _, r := range file.Regions {
		cfg.Regions = append(cfg.Regions, domain.Region{
			ID:            domain.RegionID(r.ID),
			Name:          r.Name,
			MarketSize:    decimal.NewFromFloat(r.MarketSize),
			GrowthRate:    decimal.NewFromFloat(r.GrowthRate),
			Openness:      decimal.NewFromFloat(r.Openness),
			Receptiveness: decimal.NewFromFloat(r.Receptiveness),
			EVPenetration: decimal.NewFromFloat(r.EVPenetration),
			EVGrowth:      decimal.NewFromFloat(r.EVGrowth),
		})
	}

	for _, s := range file.Segments {
		cfg.Segments = append(cfg.Segments, domain.Segment{
			ID:              domain.SegmentID(s.ID),
			Name:            s.Name,
			BaseGrowth:      decimal.NewFromFloat(s.BaseGrowth),
			PriceMultiplier: decimal.NewFromFloat(s.PriceMultiplier),
			MarketWeight:    decimal.NewFromFloat(s.MarketWeight),
		})
	}

	for _, m := range file.Manufacturers {
		strategy, err := domain.ParseStrategy(m.InitialStrategy)
		if err != nil {
			return nil, fmt.Errorf("manufacturer %s: %w", m.ID, err)
		}

		presence := make(map[domain.RegionID]decimal.Decimal, len(m.Presence))
		for region, share := range m.Presence {
			presence[domain.RegionID(region)] = decimal.NewFromFloat(share)
		}

		cfg.Manufacturers = append(cfg.Manufacturers, domain.Manufacturer{
			ID:              domain.ManufacturerID(m.ID),
			Name:            m.Name,
			TechLeadership:  decimal.NewFromFloat(m.TechLeadership),
			EVCapability:    decimal.NewFromFloat(m.EVCapability),
			InitialStrategy: strategy,
			Presence:        presence,
		})
	}

	return domain.NewRegistry(cfg)
}
