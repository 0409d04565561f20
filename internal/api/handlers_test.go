package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"routeopt/internal/cache"
	"routeopt/internal/config"
	"routeopt/internal/model"
)

func newTestServer() *Server {
	return &Server{Cfg: config.Default(), Cache: cache.NewMemory()}
}

func optimizeBody() map[string]any {
	return map[string]any{
		"pickup": map[string]any{
			"address": "Pickup Hub", "zipcode": "400001",
			"lat": 18.9356, "lng": 72.8376,
			"start_time": "09:00", "end_time": "18:00",
		},
		"settings": map[string]any{
			"return_to_origin":      false,
			"time_per_stop_minutes": 10,
			"vehicle_speed_kmph":    40,
			"time_budget_ms":        500,
		},
		"deliveries": []map[string]any{
			{
				"address": "Fort", "zipcode": "400002",
				"lat": 18.9447, "lng": 72.8235, "priority": 1,
				"time_window": map[string]string{"start": "10:00", "end": "13:00"},
			},
		},
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return rr
}

func TestOptimizeHandler(t *testing.T) {
	s := newTestServer()
	rr := postJSON(t, s.OptimizeHandler, "/v1/optimize", optimizeBody())
	if rr.Code != http.StatusOK {
		t.Fatalf("optimize: got %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.RoutingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsFeasible {
		t.Fatalf("expected feasible route, got %+v", resp)
	}
	if len(resp.Route) != 2 {
		t.Fatalf("expected pickup + 1 delivery, got %d stops", len(resp.Route))
	}
	if resp.Route[1].ArrivalTime != "10:00" {
		t.Fatalf("expected wait until window open, got arrival %s", resp.Route[1].ArrivalTime)
	}
	if len(resp.SkippedDeliveries) != 0 {
		t.Fatalf("unexpected skips: %+v", resp.SkippedDeliveries)
	}
}

func TestOptimizeHandlerInvalidInput(t *testing.T) {
	s := newTestServer()

	body := optimizeBody()
	body["deliveries"].([]map[string]any)[0]["priority"] = 9
	rr := postJSON(t, s.OptimizeHandler, "/v1/optimize", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad priority: got %d", rr.Code)
	}
	var p Problem
	if err := json.Unmarshal(rr.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if p.Status != http.StatusBadRequest || !strings.Contains(p.Detail, "priority") {
		t.Fatalf("unexpected problem body: %+v", p)
	}

	body = optimizeBody()
	body["deliveries"] = []map[string]any{}
	if rr := postJSON(t, s.OptimizeHandler, "/v1/optimize", body); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty deliveries: got %d", rr.Code)
	}

	body = optimizeBody()
	body["settings"].(map[string]any)["time_budget_ms"] = maxBudgetMs + 1
	if rr := postJSON(t, s.OptimizeHandler, "/v1/optimize", body); rr.Code != http.StatusBadRequest {
		t.Fatalf("oversized budget: got %d", rr.Code)
	}
}

func TestOptimizeHandlerMalformedJSON(t *testing.T) {
	s := newTestServer()
	rr := httptest.NewRecorder()
	s.OptimizeHandler(rr, httptest.NewRequest(http.MethodPost, "/v1/optimize", strings.NewReader("{nope")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed json: got %d", rr.Code)
	}
}

func TestOptimizeHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer()
	rr := httptest.NewRecorder()
	s.OptimizeHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/optimize", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestOptimizeHandlerInfeasibleIsOK(t *testing.T) {
	s := newTestServer()
	body := optimizeBody()
	body["settings"].(map[string]any)["vehicle_speed_kmph"] = 0
	rr := postJSON(t, s.OptimizeHandler, "/v1/optimize", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("infeasible should be 200, got %d", rr.Code)
	}
	var resp model.RoutingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IsFeasible || len(resp.Route) != 0 {
		t.Fatalf("expected infeasible empty route, got %+v", resp)
	}
	if len(resp.SkippedDeliveries) != 1 || resp.SkippedDeliveries[0].Reason != "infeasible_route" {
		t.Fatalf("unexpected skips: %+v", resp.SkippedDeliveries)
	}
}

func TestMatrixHandler(t *testing.T) {
	s := newTestServer()
	body := map[string]any{
		"points": []map[string]float64{
			{"lat": 18.9356, "lng": 72.8376},
			{"lat": 18.9447, "lng": 72.8235},
		},
		"speed_kmh": 40,
	}
	rr := postJSON(t, s.MatrixHandler, "/v1/distance-matrix", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("matrix: got %d, body %s", rr.Code, rr.Body.String())
	}
	var resp model.DistanceMatrixResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Distances) != 2 || len(resp.Times) != 2 {
		t.Fatalf("expected 2x2 matrices, got %+v", resp)
	}
	if resp.Distances[0][1] <= 0 || resp.Distances[0][1] != resp.Distances[1][0] {
		t.Fatalf("bad distances: %+v", resp.Distances)
	}

	// Second call hits the cache and must return the same payload.
	rr = postJSON(t, s.MatrixHandler, "/v1/distance-matrix", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("cached matrix: got %d", rr.Code)
	}

	if rr := postJSON(t, s.MatrixHandler, "/v1/distance-matrix", map[string]any{"points": []map[string]float64{}}); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty points: got %d", rr.Code)
	}
	if rr := postJSON(t, s.MatrixHandler, "/v1/distance-matrix", map[string]any{
		"points": []map[string]float64{{"lat": 95, "lng": 0}},
	}); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad coords: got %d", rr.Code)
	}
}

func TestSolverConfigHandler(t *testing.T) {
	s := newTestServer()
	rr := httptest.NewRecorder()
	s.SolverConfigHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/solver/config", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["routing"]; !ok {
		t.Fatalf("missing routing section: %s", rr.Body.String())
	}
	if _, ok := body["priority"]; !ok {
		t.Fatalf("missing priority section: %s", rr.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	s := newTestServer()
	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("ready: got %d", rr.Code)
	}
}

func TestWithAuth(t *testing.T) {
	s := newTestServer()
	s.authToken = "sekret"
	h := s.WithAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/solver/config", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/solver/config", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: got %d", rr.Code)
	}

	req.Header.Set("Authorization", "Bearer sekret")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: got %d", rr.Code)
	}
}

func TestWithRateLimit(t *testing.T) {
	h := WithRateLimit(1, 1, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/optimize", nil)
	req.RemoteAddr = "10.0.0.1:55555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", rr.Code)
	}

	// A different client has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/v1/optimize", nil)
	other.RemoteAddr = "10.0.0.2:55555"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client: got %d", rr.Code)
	}
}

func TestWithObservabilitySetsRequestID(t *testing.T) {
	h := WithObservability(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("expected caller id echoed, got %q", got)
	}
}

func TestOptimizeWS(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(http.HandlerFunc(s.OptimizeWSHandler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/optimize/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(optimizeBody()); err != nil {
		t.Fatalf("send request: %v", err)
	}
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		switch msg.Type {
		case "progress":
			continue
		case "result":
			if msg.Result == nil || !msg.Result.IsFeasible {
				t.Fatalf("unexpected result frame: %+v", msg)
			}
			return
		default:
			t.Fatalf("unexpected frame: %+v", msg)
		}
	}
}

func TestOptimizeWSBudgetCapApplies(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(http.HandlerFunc(s.OptimizeWSHandler))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	body := optimizeBody()
	body["settings"].(map[string]any)["time_budget_ms"] = 100 * maxBudgetMs
	if err := conn.WriteJSON(body); err != nil {
		t.Fatalf("send request: %v", err)
	}
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Error, "time_budget_ms") {
		t.Fatalf("oversized budget must be rejected like the POST path, got %+v", msg)
	}
}

func TestOptimizeWSInvalidRequest(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(http.HandlerFunc(s.OptimizeWSHandler))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"pickup": map[string]any{}, "deliveries": []any{}}); err != nil {
		t.Fatalf("send request: %v", err)
	}
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != "error" || msg.Error == "" {
		t.Fatalf("expected error frame, got %+v", msg)
	}
}
