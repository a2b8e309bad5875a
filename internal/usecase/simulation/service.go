package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/transition"
)

// RunOptions represents the input for a simulation run
type RunOptions struct {
	StartYear     int
	EndYear       int
	Regions       []domain.RegionID
	Segments      []domain.SegmentID
	Manufacturers []domain.ManufacturerID // empty means every manufacturer in the registry
}

// Service drives the year-by-year expansion simulation
type Service struct {
	Registry *domain.Registry
	RunRepo  domain.RunRepository // optional; only RunAndArchive needs it
}

// NewService creates a new simulation Service instance.
// runRepo may be nil when archiving is not needed.
func NewService(registry *domain.Registry, runRepo domain.RunRepository) *Service {
	return &Service{
		Registry: registry,
		RunRepo:  runRepo,
	}
}

// runPlan is a fully resolved, validated request
type runPlan struct {
	startYear     int
	endYear       int
	regions       []domain.Region
	segments      []domain.Segment
	manufacturers []domain.Manufacturer
}

// cellState tracks one (manufacturer, region, segment) triple between years
type cellState struct {
	share    decimal.Decimal
	strategy domain.Strategy
}

// Run simulates market-share evolution over the requested year range
// Logic:
//  1. Validate the request and resolve every identifier against the registry
//  2. Seed the start year from each manufacturer's regional presence and
//     initial strategy
//  3. For every later year, apply the transition rules to the prior year's
//     state of each triple
//  4. Emit one record per (year, manufacturer, region, segment), year-major,
//     in the resolved entity order
//
// The run is deterministic: identical inputs produce identical tables.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*domain.ResultTable, error) {
	_, table, err := s.run(ctx, opts)
	return table, err
}

// RunAndArchive runs the simulation and persists the result table through
// the configured repository, returning the archived run's metadata.
func (s *Service) RunAndArchive(ctx context.Context, opts RunOptions) (*domain.SimulationRun, *domain.ResultTable, error) {
	if s.RunRepo == nil {
		return nil, nil, errors.New("run repository not configured")
	}

	plan, table, err := s.run(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	run := &domain.SimulationRun{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		StartYear:     plan.startYear,
		EndYear:       plan.endYear,
		Regions:       regionIDs(plan.regions),
		Segments:      segmentIDs(plan.segments),
		Manufacturers: manufacturerIDs(plan.manufacturers),
		RecordCount:   table.Len(),
	}

	if err := s.RunRepo.Save(ctx, run, table); err != nil {
		return nil, nil, fmt.Errorf("failed to archive simulation run: %w", err)
	}

	return run, table, nil
}

func (s *Service) run(ctx context.Context, opts RunOptions) (*runPlan, *domain.ResultTable, error) {
	plan, err := s.resolve(opts)
	if err != nil {
		return nil, nil, err
	}

	years := plan.endYear - plan.startYear + 1
	records := make([]domain.MarketShareRecord, 0,
		years*len(plan.manufacturers)*len(plan.regions)*len(plan.segments))

	// state cube indexed by position in the resolved entity slices
	state := make([][][]cellState, len(plan.manufacturers))
	for mi := range state {
		state[mi] = make([][]cellState, len(plan.regions))
		for ri := range state[mi] {
			state[mi][ri] = make([]cellState, len(plan.segments))
		}
	}

	for year := plan.startYear; year <= plan.endYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		for mi, manufacturer := range plan.manufacturers {
			for ri, region := range plan.regions {
				for si, segment := range plan.segments {
					var cell cellState
					if year == plan.startYear {
						// seed from the manufacturer's established footprint
						cell = cellState{
							share:    manufacturer.InitialShare(region.ID),
							strategy: manufacturer.InitialStrategy,
						}
					} else {
						prev := state[mi][ri][si]
						share := transition.NextShare(prev.share, manufacturer, region, segment)
						cell = cellState{
							share:    share,
							strategy: transition.NextStrategy(prev.strategy, share),
						}
					}
					state[mi][ri][si] = cell

					size := transition.MarketSize(region, segment, year, plan.startYear)
					records = append(records, domain.MarketShareRecord{
						Year:         year,
						Manufacturer: manufacturer.ID,
						Region:       region.ID,
						Segment:      segment.ID,
						MarketShare:  cell.share,
						Revenue:      transition.Revenue(size, cell.share, segment),
						Strategy:     cell.strategy,
					})
				}
			}
		}
	}

	return plan, domain.NewResultTable(records), nil
}

// resolve validates the request before any simulation work happens.
// Unknown identifiers surface as a ValidationError wrapping the registry's
// ConfigurationError.
func (s *Service) resolve(opts RunOptions) (*runPlan, error) {
	if opts.StartYear > opts.EndYear {
		return nil, &domain.ValidationError{
			Field:  "start_year",
			Reason: fmt.Sprintf("start year %d is after end year %d", opts.StartYear, opts.EndYear),
		}
	}
	if len(opts.Regions) == 0 {
		return nil, &domain.ValidationError{Field: "regions", Reason: "at least one region is required"}
	}
	if len(opts.Segments) == 0 {
		return nil, &domain.ValidationError{Field: "segments", Reason: "at least one segment is required"}
	}

	plan := &runPlan{
		startYear: opts.StartYear,
		endYear:   opts.EndYear,
		regions:   make([]domain.Region, 0, len(opts.Regions)),
		segments:  make([]domain.Segment, 0, len(opts.Segments)),
	}

	seenRegions := make(map[domain.RegionID]bool, len(opts.Regions))
	for _, id := range opts.Regions {
		if seenRegions[id] {
			return nil, &domain.ValidationError{Field: "regions", Reason: fmt.Sprintf("duplicate region %s", id)}
		}
		seenRegions[id] = true
		region, err := s.Registry.Region(id)
		if err != nil {
			return nil, &domain.ValidationError{Field: "regions", Reason: "unknown identifier", Err: err}
		}
		plan.regions = append(plan.regions, region)
	}

	seenSegments := make(map[domain.SegmentID]bool, len(opts.Segments))
	for _, id := range opts.Segments {
		if seenSegments[id] {
			return nil, &domain.ValidationError{Field: "segments", Reason: fmt.Sprintf("duplicate segment %s", id)}
		}
		seenSegments[id] = true
		segment, err := s.Registry.Segment(id)
		if err != nil {
			return nil, &domain.ValidationError{Field: "segments", Reason: "unknown identifier", Err: err}
		}
		plan.segments = append(plan.segments, segment)
	}

	if len(opts.Manufacturers) == 0 {
		plan.manufacturers = s.Registry.Manufacturers()
		return plan, nil
	}

	plan.manufacturers = make([]domain.Manufacturer, 0, len(opts.Manufacturers))
	seenManufacturers := make(map[domain.ManufacturerID]bool, len(opts.Manufacturers))
	for _, id := range opts.Manufacturers {
		if seenManufacturers[id] {
			return nil, &domain.ValidationError{Field: "manufacturers", Reason: fmt.Sprintf("duplicate manufacturer %s", id)}
		}
		seenManufacturers[id] = true
		manufacturer, err := s.Registry.Manufacturer(id)
		if err != nil {
			return nil, &domain.ValidationError{Field: "manufacturers", Reason: "unknown identifier", Err: err}
		}
		plan.manufacturers = append(plan.manufacturers, manufacturer)
	}

	return plan, nil
}

func regionIDs(regions []domain.Region) []domain.RegionID {
	out := make([]domain.RegionID, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.ID)
	}
	return out
}

func segmentIDs(segments []domain.Segment) []domain.SegmentID {
	out := make([]domain.SegmentID, 0, len(segments))
	for _, s := range segments {
		out = append(out, s.ID)
	}
	return out
}

func manufacturerIDs(manufacturers []domain.Manufacturer) []domain.ManufacturerID {
	out := make([]domain.ManufacturerID, 0, len(manufacturers))
	for _, m := range manufacturers {
		out = append(out, m.ID)
	}
	return out
}
