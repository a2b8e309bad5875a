package domain

import (
	"context"

	"github.com/google/uuid"
)

// RunRepository defines the interface for simulation run persistence
type RunRepository interface {
	// Save persists a run and its full result table atomically
	Save(ctx context.Context, run *SimulationRun, table *ResultTable) error

	// Get retrieves a run and its result table by ID
	// Returns ErrRunNotFound when no run matches
	Get(ctx context.Context, id uuid.UUID) (*SimulationRun, *ResultTable, error)

	// List retrieves run metadata ordered most recent first
	// limit caps the number of rows; limit <= 0 means no cap
	List(ctx context.Context, limit int) ([]*SimulationRun, error)

	// Latest retrieves the metadata of the most recently created run
	// Returns ErrRunNotFound when the archive is empty
	Latest(ctx context.Context) (*SimulationRun, error)
}
