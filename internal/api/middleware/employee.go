// Package middleware provides HTTP middleware for the Gin router.
//
// Go Learning Note — Middleware Pattern (Gin):
// In Gin, middleware is any gin.HandlerFunc. Each one runs, optionally calls
// c.Next() to pass control down the chain, and can call c.Abort() to stop it.
// Here middleware identifies the calling employee and logs every request.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

const (
	// EmployeeIDHeader lets clients name the acting employee once instead of
	// repeating it in every request body.
	EmployeeIDHeader = "X-Employee-ID"

	EmployeeIDKey = "employee_id"
)

// EmployeeIdentity copies the X-Employee-ID header, normalized, into the
// request context. Ids are not verified; a missing header is not an error.
func EmployeeIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := entities.NormalizeEmployeeID(c.GetHeader(EmployeeIDHeader)); id != "" {
			c.Set(EmployeeIDKey, id)
		}
		c.Next()
	}
}

// GetEmployeeID returns the id stored by EmployeeIdentity, or "".
//
// Go Learning Note — Type Assertion:
// c.Get() returns (any, bool). The two-value form `id, ok := v.(string)`
// yields ok=false instead of panicking when the value is missing or of
// another type, which matters here because the header is optional.
func GetEmployeeID(c *gin.Context) string {
	v, exists := c.Get(EmployeeIDKey)
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}

// RequestLogger logs one line per request with zerolog.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("employee", GetEmployeeID(c)).
			Msg("request")
	}
}

// CORS allows the browser front end on origins to call the API.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, EmployeeIDHeader)
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}
