package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roomwire/roomwire/internal/config"
	"github.com/roomwire/roomwire/internal/handler/user"
	"github.com/roomwire/roomwire/internal/handler/ws"
	middlewarePkg "github.com/roomwire/roomwire/internal/middleware"
	"github.com/roomwire/roomwire/internal/service/relay"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(users user.Creator, relaySvc *relay.Service, wsCfg config.WSConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	userHandler := user.New(users)
	wsHandler := ws.New(relaySvc, wsCfg)

	r.Route("/api", func(api chi.Router) {
		userHandler.RegisterRoutes(api)
	})

	wsHandler.RegisterRoutes(r)

	return r
}
