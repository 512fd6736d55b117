package http

import (
	"cassandra/internal/logging"
	"cassandra/internal/observability"
	"cassandra/internal/server/app"

	"github.com/gin-gonic/gin"
)

// RouterDeps are the collaborators the router wires into handlers.
type RouterDeps struct {
	Service        *app.DeckService
	Images         ImageSearch
	Health         *app.HealthCheckerImpl
	Metrics        *observability.MetricsCollector
	Tracer         *observability.TracerProvider
	AllowedOrigins []string
	RateLimit      RateLimitConfig
	Logger         logging.Logger
	Debug          bool
}

// NewRouter creates the gin engine with every endpoint.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Debug && gin.Mode() != gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("router")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LogIDMiddleware())
	engine.Use(ObservabilityMiddleware(deps.Tracer, logging.NewComponentLogger("http")))
	engine.Use(CORSMiddleware(deps.AllowedOrigins))

	api := NewAPIHandler(deps.Service, deps.Images, deps.Health, logger)
	stream := NewPreviewStreamHandler(deps.Service, deps.AllowedOrigins, logger)

	engine.GET("/ping", api.HandlePing)
	engine.GET("/healthz", api.HandleHealth)
	engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	group := engine.Group("/api")
	{
		group.GET("/templates", api.HandleTemplates)
		group.GET("/template-colors", api.HandleTemplateColors)
		group.GET("/pexels/thank-you-images", api.HandleThankYouImages)
	}
	// Routes that call the model share one budget per client.
	limited := group.Group("", RateLimitMiddleware(deps.RateLimit))
	{
		limited.POST("/generate-topics", api.HandleGenerateTopics)
		limited.POST("/generate-preview", api.HandleGeneratePreview)
		limited.POST("/refine-slide", api.HandleRefineSlide)
		limited.POST("/generate-ppt", api.HandleGeneratePPT)
		limited.GET("/ws/preview", stream.Handle)
	}
	return engine
}
