package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/autoforesight/expansionsim/internal/adapter/export"
	"github.com/autoforesight/expansionsim/internal/domain"
	"github.com/autoforesight/expansionsim/internal/usecase/scenario"
	"github.com/autoforesight/expansionsim/internal/usecase/simulation"
	"github.com/autoforesight/expansionsim/internal/usecase/summary"
)

const defaultListLimit = 50

type simulateRequest struct {
	StartYear     int                     `json:"start_year"`
	EndYear       int                     `json:"end_year"`
	Regions       []domain.RegionID       `json:"regions"`
	Segments      []domain.SegmentID      `json:"segments"`
	Manufacturers []domain.ManufacturerID `json:"manufacturers,omitempty"`
	Scenario      string                  `json:"scenario,omitempty"`
}

type runResponse struct {
	ID            string                  `json:"id"`
	CreatedAt     time.Time               `json:"created_at"`
	StartYear     int                     `json:"start_year"`
	EndYear       int                     `json:"end_year"`
	Regions       []domain.RegionID       `json:"regions"`
	Segments      []domain.SegmentID      `json:"segments"`
	Manufacturers []domain.ManufacturerID `json:"manufacturers"`
	RecordCount   int                     `json:"record_count"`
}

type recordResponse struct {
	Year         int                   `json:"year"`
	Manufacturer domain.ManufacturerID `json:"manufacturer"`
	Region       domain.RegionID       `json:"region"`
	Segment      domain.SegmentID      `json:"segment"`
	MarketShare  string                `json:"market_share"`
	Revenue      string                `json:"revenue_millions"`
	Strategy     domain.Strategy       `json:"strategy"`
}

type runDetailResponse struct {
	runResponse
	Records []recordResponse `json:"records"`
}

type summaryRowResponse struct {
	Manufacturer     domain.ManufacturerID `json:"manufacturer"`
	Region           domain.RegionID       `json:"region"`
	FinalShare       string                `json:"final_share"`
	AvgGrowth        string                `json:"avg_growth"`
	DominantStrategy domain.Strategy       `json:"dominant_strategy"`
	FinalRevenue     string                `json:"final_revenue_millions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	registry := s.Registry
	if req.Scenario != "" {
		typ, err := scenario.ParseType(req.Scenario)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sc, err := scenario.ForType(typ)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		registry, err = sc.AdjustRegistry(s.Registry)
		if err != nil {
			s.mapError(w, err)
			return
		}
	}

	svc := simulation.NewService(registry, s.Runs)
	run, _, err := svc.RunAndArchive(r.Context(), simulation.RunOptions{
		StartYear:     req.StartYear,
		EndYear:       req.EndYear,
		Regions:       req.Regions,
		Segments:      req.Segments,
		Manufacturers: req.Manufacturers,
	})
	if err != nil {
		s.mapError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRunResponse(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := s.Runs.List(r.Context(), limit)
	if err != nil {
		s.mapError(w, err)
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, table, err := s.Runs.Get(r.Context(), id)
	if err != nil {
		s.mapError(w, err)
		return
	}

	detail := runDetailResponse{
		runResponse: toRunResponse(run),
		Records:     make([]recordResponse, 0, table.Len()),
	}
	for _, rec := range table.Records() {
		detail.Records = append(detail.Records, recordResponse{
			Year:         rec.Year,
			Manufacturer: rec.Manufacturer,
			Region:       rec.Region,
			Segment:      rec.Segment,
			MarketShare:  rec.MarketShare.String(),
			Revenue:      rec.Revenue.String(),
			Strategy:     rec.Strategy,
		})
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	_, table, err := s.Runs.Get(r.Context(), id)
	if err != nil {
		s.mapError(w, err)
		return
	}

	sum, err := summary.Summarize(table)
	if err != nil {
		s.mapError(w, err)
		return
	}

	out := make([]summaryRowResponse, 0, sum.Len())
	for _, row := range sum.Rows() {
		out = append(out, summaryRowResponse{
			Manufacturer:     row.Manufacturer,
			Region:           row.Region,
			FinalShare:       row.FinalShare.String(),
			AvgGrowth:        row.AvgGrowth.String(),
			DominantStrategy: row.DominantStrategy,
			FinalRevenue:     row.FinalRevenue.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEvolutionCSV(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	_, table, err := s.Runs.Get(r.Context(), id)
	if err != nil {
		s.mapError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.EvolutionCSVName+`"`)
	if err := export.WriteEvolutionCSV(w, table); err != nil {
		s.Logger.Error("csv export failed", "run_id", id, "err", err)
	}
}

func toRunResponse(run *domain.SimulationRun) runResponse {
	return runResponse{
		ID:            run.ID.String(),
		CreatedAt:     run.CreatedAt,
		StartYear:     run.StartYear,
		EndYear:       run.EndYear,
		Regions:       run.Regions,
		Segments:      run.Segments,
		Manufacturers: run.Manufacturers,
		RecordCount:   run.RecordCount,
	}
}
