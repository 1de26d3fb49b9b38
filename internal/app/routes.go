package app

import (
	"github.com/gin-gonic/gin"
	"github.com/notewise/core/internal/middleware"
	"github.com/notewise/core/internal/modules/ai"
	"github.com/notewise/core/internal/modules/health"
	"github.com/notewise/core/internal/modules/note"
	"github.com/notewise/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// The gateway is built once per process and injected; nothing else holds
	// provider state.
	gateway := ai.NewGateway(a.cfg.AI, a.cache, a.logger)
	noteSvc := note.NewService(a.db, gateway)

	api := r.Group("/api")
	api.Use(middleware.ResolveUser())

	health.RegisterRoutes(api, a.db)
	note.NewHandler(noteSvc).RegisterRoutes(api)
	ai.NewHandler(gateway, noteSvc).RegisterRoutes(api)
}
