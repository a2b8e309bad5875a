package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/simulation"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func simulatedRun(t *testing.T, createdAt time.Time) (*domain.SimulationRun, *domain.ResultTable) {
	t.Helper()
	reg := domain.DefaultRegistry()
	service := simulation.NewService(reg, nil)

	table, err := service.Run(context.Background(), simulation.RunOptions{
		StartYear: 2025,
		EndYear:   2027,
		Regions:   reg.RegionIDs(),
		Segments:  reg.SegmentIDs(),
	})
	require.NoError(t, err)

	run := &domain.SimulationRun{
		ID:            uuid.New(),
		CreatedAt:     createdAt,
		StartYear:     2025,
		EndYear:       2027,
		Regions:       reg.RegionIDs(),
		Segments:      reg.SegmentIDs(),
		Manufacturers: reg.ManufacturerIDs(),
		RecordCount:   table.Len(),
	}
	return run, table
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t))

	createdAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	run, table := simulatedRun(t, createdAt)

	require.NoError(t, repo.Save(ctx, run, table))

	gotRun, gotTable, err := repo.Get(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, gotRun.ID)
	assert.Equal(t, createdAt, gotRun.CreatedAt)
	assert.Equal(t, run.StartYear, gotRun.StartYear)
	assert.Equal(t, run.EndYear, gotRun.EndYear)
	assert.Equal(t, run.Regions, gotRun.Regions)
	assert.Equal(t, run.Segments, gotRun.Segments)
	assert.Equal(t, run.Manufacturers, gotRun.Manufacturers)
	assert.Equal(t, run.RecordCount, gotRun.RecordCount)

	require.Equal(t, table.Len(), gotTable.Len())
	want := table.Records()
	got := gotTable.Records()
	for i := range want {
		require.Equal(t, want[i].Year, got[i].Year, "record %d", i)
		require.Equal(t, want[i].Manufacturer, got[i].Manufacturer, "record %d", i)
		require.Equal(t, want[i].Region, got[i].Region, "record %d", i)
		require.Equal(t, want[i].Segment, got[i].Segment, "record %d", i)
		require.Equal(t, want[i].Strategy, got[i].Strategy, "record %d", i)
		require.True(t, want[i].MarketShare.Equal(got[i].MarketShare),
			"record %d share: stored %s, loaded %s", i, want[i].MarketShare, got[i].MarketShare)
		require.True(t, want[i].Revenue.Equal(got[i].Revenue), "record %d revenue", i)
	}
}

func TestRunRepository_GetUnknown(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))

	_, _, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t))

	older, olderTable := simulatedRun(t, time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))
	newer, newerTable := simulatedRun(t, time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Save(ctx, older, olderTable))
	require.NoError(t, repo.Save(ctx, newer, newerTable))

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)
}

func TestRunRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository(openTestDB(t))

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	run, table := simulatedRun(t, time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, run, table))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
}
