package api

import (
	"os"
	"strings"

	"routeopt/internal/cache"
	"routeopt/internal/config"
)

// Server holds the request handlers and their dependencies.
type Server struct {
	Cfg   config.Config
	Cache cache.MatrixCache

	// authToken, when non-empty, is required as a bearer token on /v1
	// endpoints.
	authToken string
}

// NewServer wires the matrix cache tier from the environment: Redis when
// REDIS_URL is set, Postgres when DATABASE_URL is set, in-memory otherwise.
func NewServer(cfg config.Config) (*Server, error) {
	var mc cache.MatrixCache
	switch {
	case os.Getenv("REDIS_URL") != "":
		rc, err := cache.NewRedis(os.Getenv("REDIS_URL"))
		if err != nil {
			return nil, err
		}
		mc = rc
	case os.Getenv("DATABASE_URL") != "":
		pc, err := cache.NewPostgres(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, err
		}
		mc = pc
	default:
		mc = cache.NewMemory()
	}
	return &Server{
		Cfg:       cfg,
		Cache:     mc,
		authToken: strings.TrimSpace(os.Getenv("API_TOKEN")),
	}, nil
}
