package scenario

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
)

// Type identifies a scenario outlook
type Type string

const (
	TypeBase        Type = "BASE"
	TypeOptimistic  Type = "OPTIMISTIC"
	TypePessimistic Type = "PESSIMISTIC"
)

// ParseType normalizes a flag value like "base" or "OPTIMISTIC" into a Type
func ParseType(value string) (Type, error) {
	switch Type(strings.ToUpper(value)) {
	case TypeBase:
		return TypeBase, nil
	case TypeOptimistic:
		return TypeOptimistic, nil
	case TypePessimistic:
		return TypePessimistic, nil
	default:
		return "", fmt.Errorf("unknown scenario type %q", value)
	}
}

// Parameter defines a market driver with one value per outlook
type Parameter struct {
	Name        string
	Base        decimal.Decimal
	Optimistic  decimal.Decimal
	Pessimistic decimal.Decimal
	Unit        string
	Description string
}

// Scenario represents one market outlook over a time horizon
type Scenario struct {
	Name        string
	Type        Type
	Horizon     int             // years beyond the start year
	Probability decimal.Decimal // weight within a bundle, 0-1
	Parameters  map[string]Parameter
}

// parameter keys shared by every standard scenario
const (
	ParamEVAdoptionRate      = "ev_adoption_rate"
	ParamAutonomousTech      = "autonomous_tech_advancement"
	ParamVehicleDemandGrowth = "vehicle_demand_growth"
)

func defaultParameters() map[string]Parameter {
	return map[string]Parameter{
		ParamEVAdoptionRate: {
			Name:        "EV Adoption Rate",
			Base:        decimal.RequireFromString("0.25"),
			Optimistic:  decimal.RequireFromString("0.4"),
			Pessimistic: decimal.RequireFromString("0.15"),
			Unit:        "% of new car sales",
			Description: "Annual growth rate of EV adoption",
		},
		ParamAutonomousTech: {
			Name:        "Autonomous Tech Advancement",
			Base:        decimal.RequireFromString("0.3"),
			Optimistic:  decimal.RequireFromString("0.5"),
			Pessimistic: decimal.RequireFromString("0.1"),
			Unit:        "0-1 scale",
			Description: "Rate of advancement in autonomous technology",
		},
		ParamVehicleDemandGrowth: {
			Name:        "Vehicle Demand Growth",
			Base:        decimal.RequireFromString("0.05"),
			Optimistic:  decimal.RequireFromString("0.1"),
			Pessimistic: decimal.RequireFromString("-0.02"),
			Unit:        "% annual growth",
			Description: "Annual growth in global vehicle demand",
		},
	}
}

// New creates a scenario of the given outlook with the standard parameter
// set, a five-year horizon and full probability
func New(name string, typ Type) Scenario {
	return Scenario{
		Name:        name,
		Type:        typ,
		Horizon:     5,
		Probability: decimal.NewFromInt(1),
		Parameters:  defaultParameters(),
	}
}

// Bundle returns the standard three-scenario outlook set with the usual
// probability weights (0.6 base, 0.2 optimistic, 0.2 pessimistic)
func Bundle() []Scenario {
	base := New("Base Case - Gradual Evolution", TypeBase)
	base.Probability = decimal.RequireFromString("0.6")

	optimistic := New("Optimistic - Accelerated Transformation", TypeOptimistic)
	optimistic.Probability = decimal.RequireFromString("0.2")

	pessimistic := New("Pessimistic - Constrained Growth", TypePessimistic)
	pessimistic.Probability = decimal.RequireFromString("0.2")

	return []Scenario{base, optimistic, pessimistic}
}

// ForType returns the standard scenario with the given outlook
func ForType(typ Type) (Scenario, error) {
	for _, s := range Bundle() {
		if s.Type == typ {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario type %q", typ)
}

// Value returns the named parameter's value under this scenario's outlook
func (s Scenario) Value(name string) (decimal.Decimal, error) {
	param, ok := s.Parameters[name]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("unknown scenario parameter %q", name)
	}
	switch s.Type {
	case TypeOptimistic:
		return param.Optimistic, nil
	case TypePessimistic:
		return param.Pessimistic, nil
	default:
		return param.Base, nil
	}
}

// MarketSizes projects a base market size over the scenario's horizon,
// compounding at the scenario's vehicle demand growth. Keys are calendar
// years from startYear through startYear+Horizon.
func (s Scenario) MarketSizes(base decimal.Decimal, startYear int) (map[int]decimal.Decimal, error) {
	growth, err := s.Value(ParamVehicleDemandGrowth)
	if err != nil {
		return nil, err
	}

	annual := decimal.NewFromInt(1).Add(growth)
	sizes := make(map[int]decimal.Decimal, s.Horizon+1)
	size := base
	for year := startYear; year <= startYear+s.Horizon; year++ {
		sizes[year] = size
		size = size.Mul(annual)
	}
	return sizes, nil
}

// AdjustRegistry derives a registry whose growth parameters reflect this
// scenario's outlook: regional demand growth and EV penetration growth scale
// with the demand and EV-adoption drivers, and segment share-capture
// baselines scale with demand. All factors are positive, so the derived
// registry keeps shares monotonic; scaled baselines are capped at 1 to stay
// within the registry's valid range.
func (s Scenario) AdjustRegistry(reg *domain.Registry) (*domain.Registry, error) {
	evParam, ok := s.Parameters[ParamEVAdoptionRate]
	if !ok || evParam.Base.IsZero() {
		return nil, fmt.Errorf("scenario %q has no usable %s parameter", s.Name, ParamEVAdoptionRate)
	}
	evValue, err := s.Value(ParamEVAdoptionRate)
	if err != nil {
		return nil, err
	}
	evFactor := evValue.Div(evParam.Base)

	growthParam := s.Parameters[ParamVehicleDemandGrowth]
	growthValue, err := s.Value(ParamVehicleDemandGrowth)
	if err != nil {
		return nil, err
	}
	one := decimal.NewFromInt(1)
	demandFactor := one.Add(growthValue).Div(one.Add(growthParam.Base))

	cfg := domain.RegistryConfig{}
	for _, region := range reg.Regions() {
		region.GrowthRate = region.GrowthRate.Mul(demandFactor)
		region.EVGrowth = region.EVGrowth.Mul(evFactor)
		cfg.Regions = append(cfg.Regions, region)
	}
	for _, segment := range reg.Segments() {
		factor := demandFactor
		if segment.ID == domain.SegmentEV {
			factor = evFactor
		}
		segment.BaseGrowth = capUnit(segment.BaseGrowth.Mul(factor))
		cfg.Segments = append(cfg.Segments, segment)
	}
	cfg.Manufacturers = reg.Manufacturers()

	return domain.NewRegistry(cfg)
}

func capUnit(d decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if d.GreaterThan(one) {
		return one
	}
	return d
}
