package scenario

import "github.com/shopspring/decimal"

// ParameterComparison pairs a scenario with its value for one parameter
type ParameterComparison struct {
	Scenario string
	Type     Type
	Value    decimal.Decimal
}

// SizeProjection holds one scenario's market-size trajectory
type SizeProjection struct {
	Scenario string
	Type     Type
	Sizes    map[int]decimal.Decimal // calendar year -> projected size
}

// Analyzer compares scenarios within a bundle. Results follow the bundle's
// order so reports are reproducible.
type Analyzer struct {
	Scenarios []Scenario
}

// NewAnalyzer creates an Analyzer over the given scenarios
func NewAnalyzer(scenarios []Scenario) *Analyzer {
	return &Analyzer{Scenarios: scenarios}
}

// CompareParameter returns the named parameter's value under every scenario
func (a *Analyzer) CompareParameter(name string) ([]ParameterComparison, error) {
	out := make([]ParameterComparison, 0, len(a.Scenarios))
	for _, s := range a.Scenarios {
		value, err := s.Value(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ParameterComparison{Scenario: s.Name, Type: s.Type, Value: value})
	}
	return out, nil
}

// Sensitivity projects a base market size under every scenario
func (a *Analyzer) Sensitivity(base decimal.Decimal, startYear int) ([]SizeProjection, error) {
	out := make([]SizeProjection, 0, len(a.Scenarios))
	for _, s := range a.Scenarios {
		sizes, err := s.MarketSizes(base, startYear)
		if err != nil {
			return nil, err
		}
		out = append(out, SizeProjection{Scenario: s.Name, Type: s.Type, Sizes: sizes})
	}
	return out, nil
}
