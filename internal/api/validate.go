package api

import (
	"fmt"

	"routeopt/internal/model"
)

// maxBudgetMs caps a caller-supplied search budget; the configured default
// applies when the field is zero.
const maxBudgetMs = 120_000

// validateTransport checks request fields that belong to the API surface
// rather than the optimization model. Everything model-level (coordinates,
// time strings, tiers) is validated once, by the problem encoder.
func validateTransport(req model.RoutingRequest) error {
	if req.Settings.TimeBudgetMs < 0 {
		return fmt.Errorf("settings.time_budget_ms must be >= 0")
	}
	if req.Settings.TimeBudgetMs > maxBudgetMs {
		return fmt.Errorf("settings.time_budget_ms must be <= %d", maxBudgetMs)
	}
	return nil
}
