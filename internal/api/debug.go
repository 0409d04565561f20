package api

import (
	"net/http"
	"os"
	"time"

	"routeopt/internal/buildinfo"
)

// DebugJSON dumps build info and the effective environment wiring. It is
// served behind auth; secrets are reported as presence flags only.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"env": map[string]any{
			"PORT":             os.Getenv("PORT"),
			"CONFIG_PATH":      os.Getenv("CONFIG_PATH"),
			"HAS_API_TOKEN":    s.authToken != "",
			"HAS_REDIS_URL":    os.Getenv("REDIS_URL") != "",
			"HAS_DATABASE_URL": os.Getenv("DATABASE_URL") != "",
		},
		"config": map[string]any{
			"routing":  s.Cfg.Routing,
			"priority": s.Cfg.Priority,
		},
	})
}
