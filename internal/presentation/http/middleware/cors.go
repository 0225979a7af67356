package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/config"
)

// exposedHeaders are the response headers browser clients read: the PDF
// filename, idempotent replays and rate limit state.
var exposedHeaders = []string{
	"Content-Length",
	"Content-Type",
	"Content-Disposition",
	"X-Request-ID",
	"X-Idempotency-Replayed",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"Retry-After",
}

// CORSMiddleware allows the configured origins to call the API. Document
// creation always accepts an Idempotency-Key header.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	headers := slices.Clone(cfg.AllowedHeaders)
	if !slices.Contains(headers, "Idempotency-Key") {
		headers = append(headers, "Idempotency-Key")
	}

	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     headers,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
