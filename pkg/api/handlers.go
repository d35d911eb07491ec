package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/core/allocator"
	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// allocationRequest is the body of both feasibility and schedule requests. Omitted
// policy fields keep their defaults.
type allocationRequest struct {
	Scheme  string              `json:"scheme"`
	Workers int                 `json:"workers"`
	Slots   []config.SlotConfig `json:"slots"`
	Policy  allocator.Policy    `json:"policy"`
}

type violationResponse struct {
	Kind             allocator.ViolationKind `json:"kind"`
	Slots            []string                `json:"slots"`
	Neighborhood     []string                `json:"neighborhood"`
	Demand           int                     `json:"demand"`
	RequiredCapacity int                     `json:"requiredCapacity"`
	Capacity         int                     `json:"capacity"`
	Deficit          int                     `json:"deficit"`
	Message          string                  `json:"message"`
}

type planResponse struct {
	Scheme          string             `json:"scheme"`
	Workers         int                `json:"workers"`
	Labels          []string           `json:"labels"`
	Feasible        bool               `json:"feasible"`
	MinRequired     int                `json:"minRequired"`
	MaxPlaceable    int                `json:"maxPlaceable"`
	OriginalTargets []int              `json:"originalTargets"`
	Targets         []int              `json:"targets"`
	Max             []int              `json:"max"`
	Redistributed   bool               `json:"redistributed"`
	Advisory        string             `json:"advisory,omitempty"`
	Violation       *violationResponse `json:"violation,omitempty"`
}

type assignmentResponse struct {
	Worker    int      `json:"worker"`
	Slots     []string `json:"slots"`
	Kind      string   `json:"kind"`
	Method    string   `json:"method,omitempty"`
	Preferred bool     `json:"preferred"`
}

type scheduleResponse struct {
	RunID            string               `json:"runId"`
	Plan             planResponse         `json:"plan"`
	Occupancy        []int                `json:"occupancy"`
	Shortfall        int                  `json:"shortfall"`
	Unscheduled      int                  `json:"unscheduled"`
	PreferredCount   int                  `json:"preferredCount"`
	ExtraCount       int                  `json:"extraCount"`
	ValidationErrors []string             `json:"validationErrors,omitempty"`
	Success          bool                 `json:"success"`
	Assignments      []assignmentResponse `json:"assignments"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeRequest parses and validates the body into a configuration
func decodeRequest(w http.ResponseWriter, r *http.Request) (*config.Config, bool) {
	req := allocationRequest{Policy: allocator.DefaultPolicy()}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}

	cfg := &config.Config{
		Scheme:  req.Scheme,
		Workers: req.Workers,
		Slots:   req.Slots,
		Policy:  req.Policy,
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return cfg, true
}

func toViolationResponse(v *allocator.Violation, labels []string) *violationResponse {
	if v == nil {
		return nil
	}
	pick := func(ids []allocator.SlotID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = labels[id]
		}
		return out
	}
	return &violationResponse{
		Kind:             v.Kind,
		Slots:            pick(v.Slots),
		Neighborhood:     pick(v.Neighborhood),
		Demand:           v.Demand,
		RequiredCapacity: v.RequiredCapacity,
		Capacity:         v.Capacity,
		Deficit:          v.Deficit,
		Message:          v.Describe(labels),
	}
}

func toPlanResponse(scheme string, workers int, labels []string, plan *allocator.AllocationPlan) planResponse {
	return planResponse{
		Scheme:          scheme,
		Workers:         workers,
		Labels:          labels,
		Feasible:        plan.Feasibility.Feasible,
		MinRequired:     plan.MinRequired,
		MaxPlaceable:    plan.MaxPlaceable,
		OriginalTargets: plan.OriginalTargets,
		Targets:         plan.Targets,
		Max:             plan.Max,
		Redistributed:   plan.Redistributed,
		Advisory:        plan.Advisory,
		Violation:       toViolationResponse(plan.Feasibility.Violation, labels),
	}
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	type schemeResponse struct {
		Name            string   `json:"name"`
		Kind            string   `json:"kind"`
		ShiftsPerWorker int      `json:"shiftsPerWorker,omitempty"`
		Labels          []string `json:"labels"`
		Patterns        int      `json:"patterns"`
	}

	var out []schemeResponse
	for _, name := range allocator.SchemeNames() {
		scheme, err := allocator.SchemeByName(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, schemeResponse{
			Name:            scheme.Name,
			Kind:            scheme.Kind.String(),
			ShiftsPerWorker: scheme.ShiftsPerWorker,
			Labels:          scheme.Graph.AllLabels(),
			Patterns:        len(scheme.Graph.AllPatterns()),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := services.CheckFeasibility(cfg, s.logger)
	if err != nil {
		s.writeAllocationError(w, cfg.Scheme, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(result.Scheme, result.Workers, result.Labels, result.Plan))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	cfg, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := services.AllocateShifts(r.Context(), nil, cfg, s.logger, services.AllocateOptions{DryRun: true})
	if err != nil {
		s.writeAllocationError(w, cfg.Scheme, err)
		return
	}

	outcome := result.Outcome
	resp := scheduleResponse{
		RunID:          result.Run.ID,
		Plan:           toPlanResponse(cfg.Scheme, cfg.Workers, result.Run.Labels, outcome.Plan),
		Occupancy:      outcome.Occupancy,
		Shortfall:      outcome.Shortfall,
		Unscheduled:    outcome.Unscheduled,
		PreferredCount: outcome.PreferredCount,
		ExtraCount:     outcome.ExtraCount,
		Success:        outcome.Success,
		Assignments:    make([]assignmentResponse, len(result.Assignments)),
	}
	for i, a := range result.Assignments {
		resp.Assignments[i] = assignmentResponse{
			Worker:    a.Worker,
			Slots:     a.Slots,
			Kind:      a.Kind,
			Method:    a.Method,
			Preferred: a.Preferred,
		}
	}
	for _, verr := range outcome.ValidationErrors {
		resp.ValidationErrors = append(resp.ValidationErrors, verr.CriterionName+": "+verr.Description)
	}

	recorded := resultSuccess
	if !outcome.Success {
		recorded = resultShortfall
	}
	s.metrics.recordAllocation(cfg.Scheme, recorded, len(outcome.Assignments), outcome.Unscheduled)

	writeJSON(w, http.StatusOK, resp)
}

// writeAllocationError maps engine errors to status codes: infeasible targets and
// excess workers are 422, malformed input is 400
func (s *Server) writeAllocationError(w http.ResponseWriter, scheme string, err error) {
	var infeasible *allocator.InfeasibleError
	switch {
	case errors.As(err, &infeasible):
		s.metrics.recordAllocation(scheme, resultInfeasible, 0, 0)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, allocator.ErrTooManyWorkers):
		s.metrics.recordAllocation(scheme, resultRejected, 0, 0)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, allocator.ErrInvalidInput):
		s.metrics.recordAllocation(scheme, resultRejected, 0, 0)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Allocation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
