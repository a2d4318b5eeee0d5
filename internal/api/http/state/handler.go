package state

import (
	"errors"
	"net/http"

	apimodel "raikou/internal/api/http/utils"
	"raikou/internal/core/orchestrator"
	"raikou/internal/core/reconciler"
)

func NewRequestHandler(orch orchestrator.OrchestratorHandler) *RequestHandler {
	return &RequestHandler{orchestratorHandler: orch}
}

type RequestHandler struct {
	orchestratorHandler orchestrator.OrchestratorHandler
}

// GetLease returns the persisted lease state.
func (h *RequestHandler) GetLease(w http.ResponseWriter, r *http.Request) {
	st, err := h.orchestratorHandler.Lease()
	if err != nil {
		apimodel.RespondFail(w, http.StatusInternalServerError, "get lease failed: "+err.Error(), nil)
		return
	}

	// encode response
	apimodel.RespondSuccess(w, http.StatusOK, "lease state", st)
}

// TriggerPass runs a full reconciliation pass from the desired-state
// document on disk.
func (h *RequestHandler) TriggerPass(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestratorHandler.RunPassFromFile(); err != nil {
		if errors.Is(err, reconciler.ErrBreakerTripped) {
			apimodel.RespondFail(w, http.StatusConflict, err.Error(), nil)
			return
		}
		apimodel.RespondFail(w, http.StatusInternalServerError, "pass failed: "+err.Error(), nil)
		return
	}

	// encode response
	apimodel.RespondSuccess(w, http.StatusOK, "pass completed", nil)
}
