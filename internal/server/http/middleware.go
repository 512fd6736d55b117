package http

import (
	"net/http"
	"strings"
	"time"

	"cassandra/internal/logging"
	"cassandra/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const logIDHeader = "X-Log-Id"

// LogIDMiddleware tags every request with a log id, taken from the incoming
// X-Log-Id header when present, and echoes it on the response.
func LogIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logID := strings.TrimSpace(c.GetHeader(logIDHeader))
		if logID == "" {
			logID = uuid.NewString()
		}
		c.Header(logIDHeader, logID)
		c.Request = c.Request.WithContext(observability.ContextWithLogID(c.Request.Context(), logID))
		c.Next()
	}
}

// ObservabilityMiddleware wraps each request in a span and logs its latency.
func ObservabilityMiddleware(tracer *observability.TracerProvider, latencyLogger logging.Logger) gin.HandlerFunc {
	latencyLogger = logging.OrNop(latencyLogger)
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := tracer.StartSpan(c.Request.Context(), observability.SpanHTTP,
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetAttributes(attribute.Bool("error", true))
		}
		logging.FromContext(ctx, latencyLogger).Info(
			"route=%s method=%s status=%d latency_ms=%.2f bytes=%d",
			route,
			c.Request.Method,
			status,
			float64(time.Since(start).Microseconds())/1000.0,
			c.Writer.Size(),
		)
	}
}

// CORSMiddleware allows the configured origins; "*" or an empty list allows all.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", logIDHeader}
	cfg.ExposeHeaders = []string{logIDHeader, "Content-Disposition"}
	cfg.AllowWebSockets = true

	if origins := normalizeOrigins(allowedOrigins); len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// normalizeOrigins trims the configured list. A nil result means every
// origin is allowed.
func normalizeOrigins(allowed []string) []string {
	origins := make([]string, 0, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return nil
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return nil
	}
	return origins
}

// originChecker accepts websocket upgrades from the same origins CORS allows.
// Requests without an Origin header come from non-browser clients and pass.
func originChecker(allowed []string) func(*http.Request) bool {
	origins := normalizeOrigins(allowed)
	if origins == nil {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range origins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		return false
	}
}
