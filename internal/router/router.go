package router

import (
	"net/http"
	"time"

	"lireddit/internal/handlers"
	"lireddit/internal/middleware"
	"lireddit/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the routes need.
type Deps struct {
	GraphQL    *handlers.GraphQLHandler
	Health     *handlers.HealthHandler
	Metrics    http.Handler
	Users      *services.UserService
	LoaderWait time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", d.Health.Check)        // db and kv liveness
	r.GET("/metrics", gin.WrapH(d.Metrics)) // Prometheus

	api := r.Group("/graphql")
	api.Use(middleware.RequestScope(d.Users, d.LoaderWait))
	{
		api.POST("", d.GraphQL.Serve)     // queries and mutations
		api.GET("", d.GraphQL.Playground) // playground page, when enabled
	}
}
