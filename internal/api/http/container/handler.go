package container

import (
	"errors"
	"net/http"

	apimodel "raikou/internal/api/http/utils"
	"raikou/internal/core/orchestrator"
	"raikou/internal/core/reconciler"

	"github.com/go-chi/chi/v5"
)

func NewRequestHandler(orch orchestrator.OrchestratorHandler) *RequestHandler {
	return &RequestHandler{orchestratorHandler: orch}
}

type RequestHandler struct {
	orchestratorHandler orchestrator.OrchestratorHandler
}

// AddInterface reconciles one interface of the named container.
func (h *RequestHandler) AddInterface(w http.ResponseWriter, r *http.Request) {
	container := chi.URLParam(r, "container")
	if container == "" {
		apimodel.RespondFail(w, http.StatusBadRequest, "missing container name", nil)
		return
	}

	// decode request
	var req AddInterfaceRequest
	if err := apimodel.DecodeRequestBody(r, &req); err != nil {
		apimodel.RespondFail(w, http.StatusBadRequest, "invalid json: "+err.Error(), nil)
		return
	}

	// service
	if err := h.orchestratorHandler.AddContainerInterface(
		container,
		reconciler.ContainerInterfaceSpec{
			Iface:      req.Iface,
			Bridge:     req.Bridge,
			Vlan:       req.Vlan,
			Trunk:      req.Trunk,
			IpAddress:  req.IpAddress,
			Ip6Address: req.Ip6Address,
			Gateway:    req.Gateway,
			Gateway6:   req.Gateway6,
			MacAddress: req.MacAddress,
		},
	); err != nil {
		if errors.Is(err, orchestrator.ErrValidation) {
			apimodel.RespondFail(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		apimodel.RespondFail(w, http.StatusInternalServerError, "add interface failed: "+err.Error(), nil)
		return
	}

	// encode response
	apimodel.RespondSuccess(w, http.StatusOK, "interface "+req.Iface+" reconciled", AddInterfaceResponse{
		Container: container,
		Iface:     req.Iface,
	})
}
