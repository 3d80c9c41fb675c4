package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/taxfile/taxfile/internal/calculation"
	"github.com/taxfile/taxfile/internal/domain"
)

// Handler serves tax computations over HTTP. One handler holds the
// configuration for a single tax year plus the optional EITC provider; the
// calculators themselves are stateless, so the handler is safe for
// concurrent requests.
type Handler struct {
	Config domain.TaxYearConfig
	EITC   calculation.EITCCalculator
	Log    *zap.Logger
}

// NewHandler creates a handler for one tax year's configuration.
func NewHandler(cfg domain.TaxYearConfig, eitc calculation.EITCCalculator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Config: cfg, EITC: eitc, Log: log}
}

// ComputeBoth runs federal and NJ computations for the posted return.
func (h *Handler) ComputeBoth(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, true, true)
}

// ComputeFederal runs only the federal computation.
func (h *Handler) ComputeFederal(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, true, false)
}

// ComputeState runs only the NJ computation.
func (h *Handler) ComputeState(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, false, true)
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request, federal, state bool) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	profile, err := req.Taxpayer.ToDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w2s := make([]domain.WageStatement, 0, len(req.W2s))
	for _, dto := range req.W2s {
		w2s = append(w2s, dto.ToDomain())
	}

	resp := ComputeResponse{TaxYear: h.Config.Year}
	if federal {
		fc := calculation.NewFederalCalculator(h.Config)
		fc.EITC = h.EITC
		resp.Federal = fc.Compute(profile, w2s)
	}
	if state {
		sc := calculation.NewStateCalculator(h.Config)
		sc.EITC = h.EITC
		resp.State = sc.Compute(profile, w2s)
	}

	h.Log.Info("return computed",
		zap.Int("tax_year", h.Config.Year),
		zap.String("filing_status", profile.Status.Key()),
		zap.Int("w2_count", len(w2s)),
		zap.Bool("federal", federal),
		zap.Bool("state", state),
	)
	writeJSON(w, http.StatusOK, resp)
}

// GetConfig returns the tax-year configuration the server is running with.
// Only the loaded year is served; other years are 404.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	if year != h.Config.Year {
		writeError(w, http.StatusNotFound, "no configuration loaded for that year")
		return
	}
	writeJSON(w, http.StatusOK, h.Config)
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
