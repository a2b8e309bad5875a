package domain

import "github.com/shopspring/decimal"

// MarketShareRecord is one simulated observation: the market share, revenue
// index and active strategy of a manufacturer in a region/segment for a
// single year
type MarketShareRecord struct {
	Year         int
	Manufacturer ManufacturerID
	Region       RegionID
	Segment      SegmentID
	MarketShare  decimal.Decimal // fraction of the region/segment market, 0-1
	Revenue      decimal.Decimal // market size x share x segment price multiplier
	Strategy     Strategy
}

// ResultTable is the ordered output of a simulation run. Records are stored
// year-outermost, then manufacturer, region, segment, and the table is not
// modified once the driver returns it.
type ResultTable struct {
	records []MarketShareRecord
}

// NewResultTable wraps the given records, taking ownership of the slice
func NewResultTable(records []MarketShareRecord) *ResultTable {
	return &ResultTable{records: records}
}

// Len returns the number of records in the table
func (t *ResultTable) Len() int {
	return len(t.records)
}

// Records returns the underlying records in insertion order.
// Callers must treat the returned slice as read-only.
func (t *ResultTable) Records() []MarketShareRecord {
	return t.records
}

// Years returns the first and last simulated year. Both are zero for an
// empty table.
func (t *ResultTable) Years() (first, last int) {
	if len(t.records) == 0 {
		return 0, 0
	}
	return t.records[0].Year, t.records[len(t.records)-1].Year
}
