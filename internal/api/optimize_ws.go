package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"routeopt/internal/model"
	"routeopt/internal/solver"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// wsMessage frames everything sent on the optimize stream.
type wsMessage struct {
	Type     string                 `json:"type"` // progress | result | error
	Progress *solver.Snapshot       `json:"progress,omitempty"`
	Result   *model.RoutingResponse `json:"result,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// OptimizeWSHandler handles GET /v1/optimize/ws. The client sends one
// RoutingRequest as a JSON text message; the server streams a progress
// frame per improvement pass and closes after the final result frame.
// Long-running searches stay observable this way instead of stalling a
// plain POST.
func (s *Server) OptimizeWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var req model.RoutingRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}
	if err := validateTransport(req); err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}

	// Progress frames are throttled so tight improvement passes do not
	// flood the socket.
	last := time.Time{}
	progress := func(snap solver.Snapshot) {
		if time.Since(last) < 100*time.Millisecond {
			return
		}
		last = time.Now()
		_ = conn.WriteJSON(wsMessage{Type: "progress", Progress: &snap})
	}

	resp, err := s.optimize(r, req, progress)
	if err != nil {
		var inv *solver.InvalidInputError
		if errors.As(err, &inv) {
			_ = conn.WriteJSON(wsMessage{Type: "error", Error: inv.Error()})
			return
		}
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(wsMessage{Type: "result", Result: &resp})
}
