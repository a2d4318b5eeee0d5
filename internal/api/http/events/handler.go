package events

import (
	"net/http"
	"time"

	"raikou/internal/core/orchestrator"

	"github.com/gorilla/websocket"
)

func NewRequestHandler(orch orchestrator.OrchestratorHandler) *Handler {
	return &Handler{
		orchestratorHandler: orch,
		Upgrader:            websocket.Upgrader{},
	}
}

type Handler struct {
	orchestratorHandler orchestrator.OrchestratorHandler
	Upgrader            websocket.Upgrader
}

// ServeHTTP handles GET /v1/passes/events (WebSocket). Every pass event
// is streamed to the client as one JSON text message until the client
// goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := h.Upgrader
	if up.CheckOrigin == nil {
		up.CheckOrigin = func(r *http.Request) bool { return true }
	}

	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	events, cancel := h.orchestratorHandler.Subscribe()
	defer cancel()

	// drain client frames so pings and close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed"),
				time.Now().Add(1*time.Second),
			)
			return
		}
	}
}
