package bridge

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

// AddBridge reconciles a single bridge declared in the request body.
func (h *RequestHandler) AddBridge(w http.ResponseWriter, r *http.Request) {
	// decode request
	var req AddBridgeRequest
	if err := apimodel.DecodeRequestBody(r, &req); err != nil {
		apimodel.RespondFail(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}

	spec := reconciler.BridgeSpec{
		IpRange:    req.IpRange,
		Ip6Range:   req.Ip6Range,
		IpAddress:  req.IpAddress,
		Ip6Address: req.Ip6Address,
	}
	for _, parent := range req.Parents {
		spec.Parents = append(spec.Parents, reconciler.ParentSpec{
			Iface:  parent.Iface,
			Trunk:  parent.Trunk,
			Native: parent.Native,
		})
	}

	// service
	if err := h.orchestratorHandler.AddBridge(req.Name, spec); err != nil {
		if errors.Is(err, orchestrator.ErrValidation) {
			apimodel.RespondFail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		apimodel.RespondFail(w, http.StatusInternalServerError, "add bridge failed: "+err.Error(), nil)
		return
	}

	// encode response
	apimodel.RespondSuccess(w, http.StatusOK, "bridge "+req.Name+" reconciled", AddBridgeResponse{Name: req.Name})
}
