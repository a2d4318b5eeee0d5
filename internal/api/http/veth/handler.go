package veth

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

// AddVethPair establishes a VLAN translation pair on a bridge.
func (h *RequestHandler) AddVethPair(w http.ResponseWriter, r *http.Request) {
	// decode request
	var req AddVethPairRequest
	if err := apimodel.DecodeRequestBody(r, &req); err != nil {
		apimodel.RespondFail(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}

	// service
	if err := h.orchestratorHandler.AddVethPair(
		reconciler.VlanTranslationSpec{
			On:     req.On,
			Map:    req.Map,
			PairId: req.PairId,
		},
	); err != nil {
		if errors.Is(err, orchestrator.ErrValidation) {
			apimodel.RespondFail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		if errors.Is(err, reconciler.ErrVlanTranslationConflict) {
			apimodel.RespondFail(w, http.StatusConflict, err.Error(), nil)
			return
		}
		apimodel.RespondFail(w, http.StatusInternalServerError, "add veth pair failed: "+err.Error(), nil)
		return
	}

	// encode response
	apimodel.RespondSuccess(w, http.StatusOK, "veth pair for "+req.Map+" reconciled", req)
}
