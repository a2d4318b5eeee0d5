package http

import (
	"os"

	"raikou/internal/api/http/bridge"
	"raikou/internal/api/http/container"
	"raikou/internal/api/http/events"
	"raikou/internal/api/http/logger"
	"raikou/internal/api/http/state"
	"raikou/internal/api/http/veth"
	"raikou/internal/core/orchestrator"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

func NewApiRouter(orch orchestrator.OrchestratorHandler) *chi.Mux {
	r := chi.NewRouter()

	bridgeHandler := bridge.NewRequestHandler(orch)
	containerHandler := container.NewRequestHandler(orch)
	vethHandler := veth.NewRequestHandler(orch)
	stateHandler := state.NewRequestHandler(orch)
	eventsHandler := events.NewRequestHandler(orch)

	// middleware
	r.Use(middleware.RequestID)
	r.Use(logger.LoggerMiddleware(logger.JsonLineLogger{Out: os.Stdout}))
	r.Use(middleware.Recoverer)

	// == v1 ==
	// == topology ==
	r.Post("/v1/bridges", bridgeHandler.AddBridge)                             // reconcile one bridge
	r.Post("/v1/containers/{container}/interfaces", containerHandler.AddInterface) // reconcile one container interface
	r.Post("/v1/veth-pairs", vethHandler.AddVethPair)                          // reconcile one vlan translation pair

	// == passes ==
	r.Post("/v1/passes", stateHandler.TriggerPass)      // full pass from the document on disk
	r.Get("/v1/passes/events", eventsHandler.ServeHTTP) // websocket pass event stream

	// == state ==
	r.Get("/v1/lease", stateHandler.GetLease)

	return r
}
