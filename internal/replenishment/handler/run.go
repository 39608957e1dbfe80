package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/domain"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/service"
	"github.com/Ridadata/procurement-pipeline/pkg/httputil"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
)

// RunHandler handles pipeline run endpoints
type RunHandler struct {
	service *service.ReplenishmentService
	logger  *logger.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(svc *service.ReplenishmentService, log *logger.Logger) *RunHandler {
	return &RunHandler{
		service: svc,
		logger:  log,
	}
}

// Routes mounts the run endpoints
func (h *RunHandler) Routes(r chi.Router) {
	r.Post("/runs", h.Trigger)
	r.Get("/runs", h.List)
	r.Get("/runs/{id}", h.Get)
	r.Get("/runs/{id}/anomalies", h.Anomalies)
	r.Get("/runs/{id}/order-lines", h.OrderLines)
}

// TriggerRunRequest is the request body for triggering a run
type TriggerRunRequest struct {
	BusinessDate string `json:"business_date" validate:"required,businessdate"`
}

// RunResponse is the run record with its per-supplier summaries
type RunResponse struct {
	Run       *domain.Run              `json:"run"`
	Summaries []domain.SupplierSummary `json:"summaries"`
}

// Trigger executes a pipeline run for a business date
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req TriggerRunRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	outcome, err := h.service.Run(r.Context(), req.BusinessDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, outcome)
}

// List lists recent runs
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, runs)
}

// Get gets a run by ID
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, summaries, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, RunResponse{Run: run, Summaries: summaries})
}

// Anomalies lists a run's anomalies
func (h *RunHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	anomalies, err := h.service.GetAnomalies(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, anomalies)
}

// OrderLines lists a run's published order lines
func (h *RunHandler) OrderLines(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lines, err := h.service.GetOrderLines(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, lines)
}
