package main

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/analysis"
	"github.com/bharatstats/amenities-cli/internal/geo"
	"github.com/bharatstats/amenities-cli/internal/metrics"
	"github.com/bharatstats/amenities-cli/internal/model"
)

// apiServer serves derived tables over the scored dataset. The dataset is
// never mutated after startup; every handler derives its view per request.
type apiServer struct {
	data          model.Dataset
	shapes        []geo.RegionShape
	threshold     float64
	topN          int
	householdSize float64
	unitCosts     map[string]float64
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// deriveStatus maps analysis errors to HTTP codes: an undefined derivation
// (too little data) is the client's 422, anything else a 500.
func deriveStatus(err error) int {
	if errors.Is(err, analysis.ErrInsufficientData) || errors.Is(err, metrics.ErrEmptyDataset) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, ok := s.data.LatestPeriod()
	if !ok {
		writeErr(w, http.StatusUnprocessableEntity, "empty dataset")
		return
	}
	cols := append([]string{model.ColBNIScore}, model.IndicatorColumns()...)
	writeJSON(w, http.StatusOK, struct {
		Period  int                       `json:"period"`
		Periods []int                     `json:"periods"`
		Stats   map[string]analysis.Stats `json:"stats"`
		Regions []string                  `json:"regions"`
	}{
		Period:  period,
		Periods: s.data.Periods(),
		Stats:   analysis.Describe(s.data, cols),
		Regions: s.data.Regions(),
	})
}

func (s *apiServer) handlePriority(w http.ResponseWriter, r *http.Request) {
	threshold := s.threshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			writeErr(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = v
	}

	areas, err := analysis.Priority(s.data, threshold)
	if err != nil {
		writeErr(w, deriveStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Threshold float64                 `json:"threshold"`
		Count     int                     `json:"count"`
		Areas     []analysis.PriorityArea `json:"areas"`
	}{threshold, len(areas), areas})
}

func (s *apiServer) handleGap(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = model.ColBNIScore
	}

	report, err := analysis.Gap(s.data, analysis.DefaultGapMetrics(), metric)
	if err != nil {
		writeErr(w, deriveStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) handleTrend(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = model.ColBNIScore
	}
	top := s.topN
	if raw := r.URL.Query().Get("top"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid top")
			return
		}
		top = v
	}

	trend, err := analysis.TrendFor(s.data, metric)
	if err != nil {
		writeErr(w, deriveStatus(err), err.Error())
		return
	}
	fastest, err := analysis.FastestImproving(s.data, metric, top)
	if err != nil {
		writeErr(w, deriveStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Trend   analysis.Trend          `json:"trend"`
		Fastest []analysis.RegionChange `json:"fastest_improving"`
	}{trend, fastest})
}

func (s *apiServer) handleDeprivation(w http.ResponseWriter, r *http.Request) {
	totals, rows, err := metrics.Deprivation(s.data, s.householdSize)
	if err != nil {
		writeErr(w, deriveStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Totals metrics.Totals      `json:"totals"`
		Budget metrics.Budget      `json:"budget"`
		Rows   []metrics.RowCounts `json:"rows"`
	}{totals, metrics.EstimateBudget(totals, s.unitCosts), rows})
}

func (s *apiServer) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric := q.Get("metric")
	if metric == "" {
		metric = model.ColBNIScore
	}
	n := s.topN
	if raw := q.Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid n")
			return
		}
		n = v
	}
	ascending := q.Get("order") == "asc"

	period, ok := s.data.LatestPeriod()
	if !ok {
		writeErr(w, http.StatusUnprocessableEntity, "empty dataset")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Metric  string                 `json:"metric"`
		Period  int                    `json:"period"`
		Regions []analysis.RegionScore `json:"regions"`
	}{metric, period, analysis.TopRegions(s.data, metric, period, n, ascending)})
}

func (s *apiServer) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analysis.Correlate(s.data, nil))
}

// regionGeo joins the latest mean of a metric onto each region's shape.
type regionGeo struct {
	geo.RegionShape
	Mean *float64 `json:"mean"`
}

func (s *apiServer) handleRegionsGeo(w http.ResponseWriter, r *http.Request) {
	if len(s.shapes) == 0 {
		writeErr(w, http.StatusNotFound, "no shapefile loaded")
		return
	}
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = model.ColBNIScore
	}

	period, _ := s.data.LatestPeriod()
	means := map[string]float64{}
	for _, rs := range analysis.TopRegions(s.data, metric, period, 0, false) {
		means[rs.Region] = rs.Mean
	}

	out := make([]regionGeo, len(s.shapes))
	for i, shape := range s.shapes {
		out[i] = regionGeo{RegionShape: shape}
		if m, ok := means[shape.Region]; ok {
			v := m
			out[i].Mean = &v
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Metric string      `json:"metric"`
		Period int         `json:"period"`
		Shapes []regionGeo `json:"shapes"`
	}{metric, period, out})
}
