package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
)

// runRepository implements domain.RunRepository
type runRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) domain.RunRepository {
	return &runRepository{db: db}
}

// Save persists the run metadata and every record in one database transaction
func (r *runRepository) Save(ctx context.Context, run *domain.SimulationRun, table *domain.ResultTable) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertRunQuery := `
		INSERT INTO runs (id, created_at_ms, start_year, end_year, regions, segments, manufacturers, record_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = dbTx.ExecContext(ctx, insertRunQuery,
		run.ID.String(),
		run.CreatedAt.UnixMilli(),
		run.StartYear,
		run.EndYear,
		joinList(run.Regions),
		joinList(run.Segments),
		joinList(run.Manufacturers),
		run.RecordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insertRecordQuery := `
		INSERT INTO run_records (run_id, ordinal, year, manufacturer, region, segment, market_share, revenue, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := dbTx.PrepareContext(ctx, insertRecordQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for ordinal, rec := range table.Records() {
		_, err = stmt.ExecContext(ctx,
			run.ID.String(),
			ordinal,
			rec.Year,
			string(rec.Manufacturer),
			string(rec.Region),
			string(rec.Segment),
			rec.MarketShare.String(),
			rec.Revenue.String(),
			string(rec.Strategy),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %d: %w", ordinal, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Get retrieves a run and its result table by ID
func (r *runRepository) Get(ctx context.Context, id uuid.UUID) (*domain.SimulationRun, *domain.ResultTable, error) {
	query := `
		SELECT id, created_at_ms, start_year, end_year, regions, segments, manufacturers, record_count
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("run %s: %w", id, domain.ErrRunNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}

	recordsQuery := `
		SELECT year, manufacturer, region, segment, market_share, revenue, strategy
		FROM run_records
		WHERE run_id = ?
		ORDER BY ordinal
	`

	rows, err := r.db.QueryContext(ctx, recordsQuery, id.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.MarketShareRecord, 0, run.RecordCount)
	for rows.Next() {
		var rec domain.MarketShareRecord
		var shareStr, revenueStr string

		err := rows.Scan(
			&rec.Year,
			&rec.Manufacturer,
			&rec.Region,
			&rec.Segment,
			&shareStr,
			&revenueStr,
			&rec.Strategy,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan run record: %w", err)
		}

		if rec.MarketShare, err = decimal.NewFromString(shareStr); err != nil {
			return nil, nil, fmt.Errorf("failed to parse market_share: %w", err)
		}
		if rec.Revenue, err = decimal.NewFromString(revenueStr); err != nil {
			return nil, nil, fmt.Errorf("failed to parse revenue: %w", err)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate run records: %w", err)
	}

	return run, domain.NewResultTable(records), nil
}

// List retrieves run metadata ordered most recent first
func (r *runRepository) List(ctx context.Context, limit int) ([]*domain.SimulationRun, error) {
	query := `
		SELECT id, created_at_ms, start_year, end_year, regions, segments, manufacturers, record_count
		FROM runs
		ORDER BY created_at_ms DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.SimulationRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// Latest retrieves the metadata of the most recently created run
func (r *runRepository) Latest(ctx context.Context) (*domain.SimulationRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrRunNotFound
	}
	return runs[0], nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.SimulationRun, error) {
	var run domain.SimulationRun
	var idStr, regions, segments, manufacturers string
	var createdAtMs int64

	err := row.Scan(
		&idStr,
		&createdAtMs,
		&run.StartYear,
		&run.EndYear,
		&regions,
		&segments,
		&manufacturers,
		&run.RecordCount,
	)
	if err != nil {
		return nil, err
	}

	if run.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse run id: %w", err)
	}
	run.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	run.Regions = splitList[domain.RegionID](regions)
	run.Segments = splitList[domain.SegmentID](segments)
	run.Manufacturers = splitList[domain.ManufacturerID](manufacturers)

	return &run, nil
}

// joinList renders typed identifier slices as comma-separated text
func joinList[T ~string](items []T) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, string(item))
	}
	return strings.Join(parts, ",")
}

// splitList parses comma-separated text back into typed identifiers
func splitList[T ~string](value string) []T {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]T, 0, len(parts))
	for _, part := range parts {
		out = append(out, T(part))
	}
	return out
}
