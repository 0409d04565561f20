// Package cache stores computed distance/time matrices keyed by the point
// set and speed that produced them. Matrices are derived data: the cache
// never holds routes or request history.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"routeopt/internal/model"
)

// Matrices is the cached payload.
type Matrices struct {
	Distances [][]float64 `json:"distances"`
	Times     [][]float64 `json:"times"`
}

// MatrixCache is implemented by the memory, Redis, and Postgres tiers.
// Get returns (nil, nil) on a miss.
type MatrixCache interface {
	Get(ctx context.Context, key string) (*Matrices, error)
	Put(ctx context.Context, key string, m *Matrices) error
}

// Key derives a stable cache key from the ordered point set and speed.
// Coordinates are rounded to ~0.1m so float noise does not defeat the
// cache.
func Key(points []model.LatLng, speedKmh float64) string {
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%.6f,%.6f;", p.Lat, p.Lng)
	}
	fmt.Fprintf(&b, "@%.3f", speedKmh)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
