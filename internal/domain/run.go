package domain

import (
	"time"

	"github.com/google/uuid"
)

// SimulationRun captures the metadata of an archived simulation run
type SimulationRun struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	StartYear     int
	EndYear       int
	Regions       []RegionID
	Segments      []SegmentID
	Manufacturers []ManufacturerID
	RecordCount   int
}

// Years returns the number of simulated years, inclusive of both bounds
func (r *SimulationRun) Years() int {
	return r.EndYear - r.StartYear + 1
}
