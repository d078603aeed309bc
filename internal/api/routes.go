package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/naikprasad87/transport-facility/internal/api/handlers"
	"github.com/naikprasad87/transport-facility/internal/api/middleware"
	"github.com/naikprasad87/transport-facility/internal/api/stream"
)

// RouterOptions holds the optional pieces of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	MetricsPath    string
	MetricsHandler http.Handler // nil disables the metrics route
	Logger         zerolog.Logger
}

type Router struct {
	rideHandler *handlers.RideHandler
	hub         *stream.Hub
	opts        RouterOptions
}

func NewRouter(rideHandler *handlers.RideHandler, hub *stream.Hub, opts RouterOptions) *Router {
	return &Router{
		rideHandler: rideHandler,
		hub:         hub,
		opts:        opts,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.RequestLogger(r.opts.Logger))
	engine.Use(middleware.CORS(r.opts.AllowedOrigins))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if r.opts.MetricsHandler != nil {
		path := r.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(r.opts.MetricsHandler))
	}

	rides := engine.Group("/rides")
	rides.Use(middleware.EmployeeIdentity())
	{
		rides.GET("", r.rideHandler.ListRides)
		rides.GET("/search", r.rideHandler.SearchRides)
		rides.GET("/conflict", r.rideHandler.VehicleConflict)
		rides.GET("/:id", r.rideHandler.GetRide)
		rides.POST("", r.rideHandler.AddRide)
		rides.POST("/:id/book", r.rideHandler.BookRide)
		rides.DELETE("", r.rideHandler.ClearRides)
	}

	if r.hub != nil {
		engine.GET("/ws/rides", r.hub.ServeWS)
	}
}
