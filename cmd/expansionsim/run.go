package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/autoforesight/expansionsim/internal/adapter/export"
	"github.com/autoforesight/expansionsim/internal/adapter/httpapi"
	"github.com/autoforesight/expansionsim/internal/adapter/repository/sqlite"
	"github.com/autoforesight/expansionsim/internal/config"
	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/attractiveness"
	"github.com/autoforesight/expansionsim/internal/usecase/scenario"
	"github.com/autoforesight/expansionsim/internal/usecase/simulation"
	"github.com/autoforesight/expansionsim/internal/usecase/summary"
)

type runFlags struct {
	startYear     int
	endYear       int
	regions       []string
	segments      []string
	manufacturers []string
	scenario      string
	registryPath  string
	outDir        string
	format        string
	archive       bool
}

// loadRegistry resolves the market registry from a YAML file or the built-in
// defaults, then applies the named scenario outlook if one was given.
func loadRegistry(path, scenarioName string) (*domain.Registry, error) {
	reg := domain.DefaultRegistry()
	if path != "" {
		loaded, err := config.LoadRegistry(path)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}

	if scenarioName != "" {
		typ, err := scenario.ParseType(scenarioName)
		if err != nil {
			return nil, err
		}
		sc, err := scenario.ForType(typ)
		if err != nil {
			return nil, err
		}
		reg, err = sc.AdjustRegistry(reg)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func runSimulation(ctx context.Context, opts runFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reg, err := loadRegistry(opts.registryPath, opts.scenario)
	if err != nil {
		return err
	}

	var repo domain.RunRepository
	if opts.archive {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer db.Close()
		repo = sqlite.NewRunRepository(db)
	}

	regions := toRegionIDs(opts.regions)
	if len(regions) == 0 {
		regions = reg.RegionIDs()
	}
	segments := toSegmentIDs(opts.segments)
	if len(segments) == 0 {
		segments = reg.SegmentIDs()
	}

	svc := simulation.NewService(reg, repo)
	runOpts := simulation.RunOptions{
		StartYear:     opts.startYear,
		EndYear:       opts.endYear,
		Regions:       regions,
		Segments:      segments,
		Manufacturers: toManufacturerIDs(opts.manufacturers),
	}

	var table *domain.ResultTable
	if opts.archive {
		run, archived, err := svc.RunAndArchive(ctx, runOpts)
		if err != nil {
			return err
		}
		table = archived
		fmt.Printf("archived run %s\n\n", run.ID)
	} else {
		table, err = svc.Run(ctx, runOpts)
		if err != nil {
			return err
		}
	}

	sum, err := summary.Summarize(table)
	if err != nil {
		return err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	written, err := writeOutputs(outDir, opts.format, table, sum)
	if err != nil {
		return err
	}

	printSummaryTable(sum)
	fmt.Println()
	for _, path := range written {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func writeOutputs(outDir, format string, table *domain.ResultTable, sum *summary.Table) ([]string, error) {
	if format != "csv" && format != "xlsx" && format != "both" {
		return nil, fmt.Errorf("unknown output format %q (want csv, xlsx or both)", format)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	writeFile := func(name string, write func(w io.Writer) error) error {
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if format == "csv" || format == "both" {
		if err := writeFile(export.EvolutionCSVName, func(w io.Writer) error {
			return export.WriteEvolutionCSV(w, table)
		}); err != nil {
			return nil, err
		}
		if err := writeFile(export.SummaryCSVName, func(w io.Writer) error {
			return export.WriteSummaryCSV(w, sum)
		}); err != nil {
			return nil, err
		}
	}
	if format == "xlsx" || format == "both" {
		if err := writeFile(export.WorkbookName, func(w io.Writer) error {
			return export.WriteWorkbook(w, table, sum)
		}); err != nil {
			return nil, err
		}
	}

	return written, nil
}

func runSummarize(ctx context.Context, runID string, latest bool, outPath string) error {
	if runID == "" && !latest {
		return fmt.Errorf("pass --run <id> or --latest")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open results database: %w", err)
	}
	defer db.Close()
	repo := sqlite.NewRunRepository(db)

	var id uuid.UUID
	if latest {
		run, err := repo.Latest(ctx)
		if err != nil {
			return err
		}
		id = run.ID
	} else {
		id, err = uuid.Parse(runID)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", runID, err)
		}
	}

	run, table, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	sum, err := summary.Summarize(table)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d-%d, %d records\n\n", run.ID, run.StartYear, run.EndYear, run.RecordCount)
	printSummaryTable(sum)

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		if err := export.WriteSummaryCSV(f, sum); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outPath)
	}
	return nil
}

func runScenarios(baseSize float64, startYear int) error {
	bundle := scenario.Bundle()
	analyzer := scenario.NewAnalyzer(bundle)

	printScenarioBundle(bundle)

	params := []string{
		scenario.ParamEVAdoptionRate,
		scenario.ParamAutonomousTech,
		scenario.ParamVehicleDemandGrowth,
	}
	for _, name := range params {
		comparisons, err := analyzer.CompareParameter(name)
		if err != nil {
			return err
		}
		printParameterComparison(name, comparisons)
	}

	projections, err := analyzer.Sensitivity(decimal.NewFromFloat(baseSize), startYear)
	if err != nil {
		return err
	}
	printSensitivity(projections)
	return nil
}

func runRegistry(registryPath, scenarioName string) error {
	reg, err := loadRegistry(registryPath, scenarioName)
	if err != nil {
		return err
	}

	printRegistry(reg)

	ranking, err := attractiveness.Rank(reg, nil, nil)
	if err != nil {
		return err
	}
	printAttractiveness(ranking)
	return nil
}

func runServe(port int, registryPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	reg, err := loadRegistry(registryPath, "")
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open results database: %w", err)
	}
	defer db.Close()

	addr := cfg.ListenAddr
	if port > 0 {
		addr = fmt.Sprintf(":%d", port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(reg, sqlite.NewRunRepository(db), logger, cfg.APIToken)
	return srv.Run(ctx, addr)
}

func toRegionIDs(values []string) []domain.RegionID {
	out := make([]domain.RegionID, 0, len(values))
	for _, v := range values {
		out = append(out, domain.RegionID(strings.ToUpper(v)))
	}
	return out
}

func toSegmentIDs(values []string) []domain.SegmentID {
	out := make([]domain.SegmentID, 0, len(values))
	for _, v := range values {
		out = append(out, domain.SegmentID(strings.ToUpper(v)))
	}
	return out
}

func toManufacturerIDs(values []string) []domain.ManufacturerID {
	out := make([]domain.ManufacturerID, 0, len(values))
	for _, v := range values {
		out = append(out, domain.ManufacturerID(v))
	}
	return out
}
