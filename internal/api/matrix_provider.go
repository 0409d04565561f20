package api

import (
	"context"

	"routeopt/internal/cache"
	"routeopt/internal/geo"
	"routeopt/internal/model"
	"routeopt/internal/solver"
)

// cachedMatrices adapts the cache tier to the solver's MatrixProvider
// contract for one request. Cache errors degrade to a recompute; matrices
// with infinite travel times (speed <= 0) are never cached because they do
// not survive a JSON round trip.
type cachedMatrices struct {
	ctx   context.Context
	cache cache.MatrixCache
}

func (s *Server) matrixProvider(ctx context.Context) solver.MatrixProvider {
	return &cachedMatrices{ctx: ctx, cache: s.Cache}
}

func (c *cachedMatrices) Matrices(points []geo.Point, speedKmh float64) ([][]float64, [][]float64, error) {
	if speedKmh <= 0 || c.cache == nil {
		dist, tmin := geo.BuildMatrices(points, speedKmh)
		return dist, tmin, nil
	}
	key := cache.Key(toLatLng(points), speedKmh)
	if m, err := c.cache.Get(c.ctx, key); err == nil && m != nil {
		return m.Distances, m.Times, nil
	}
	dist, tmin := geo.BuildMatrices(points, speedKmh)
	_ = c.cache.Put(c.ctx, key, &cache.Matrices{Distances: dist, Times: tmin})
	return dist, tmin, nil
}

func toLatLng(points []geo.Point) []model.LatLng {
	out := make([]model.LatLng, len(points))
	for i, p := range points {
		out[i] = model.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}
