package domain

// Strategy represents the market-entry mode a manufacturer uses in a given
// region/segment
type Strategy string

const (
	StrategyExport          Strategy = "EXPORT"
	StrategyLocalProduction Strategy = "LOCAL_PRODUCTION"
	StrategyJointVenture    Strategy = "JOINT_VENTURE"
	StrategyAcquisition     Strategy = "ACQUISITION"
)

// strategyRanks fixes the progression EXPORT -> LOCAL_PRODUCTION ->
// JOINT_VENTURE -> ACQUISITION. Transitions only ever move forward.
var strategyRanks = map[Strategy]int{
	StrategyExport:          0,
	StrategyLocalProduction: 1,
	StrategyJointVenture:    2,
	StrategyAcquisition:     3,
}

// Valid reports whether the strategy is one of the known variants
func (s Strategy) Valid() bool {
	_, ok := strategyRanks[s]
	return ok
}

// Rank returns the position of the strategy in the fixed progression
// (EXPORT = 0). Unknown strategies rank below EXPORT.
func (s Strategy) Rank() int {
	rank, ok := strategyRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// Advance returns the later of the two strategies in the progression.
// Downgrades are not modeled, so combining the current strategy with a
// threshold-derived one via Advance keeps the progression monotonic.
func (s Strategy) Advance(other Strategy) Strategy {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// ParseStrategy converts a string into a Strategy
// Returns a ConfigurationError if the value is not a known variant
func ParseStrategy(value string) (Strategy, error) {
	s := Strategy(value)
	if !s.Valid() {
		return "", &ConfigurationError{Entity: "strategy", ID: value}
	}
	return s, nil
}
