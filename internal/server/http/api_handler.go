package http

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cassandra/internal/deck"
	"cassandra/internal/domain/slide"
	"cassandra/internal/imagesearch"
	"cassandra/internal/logging"
	"cassandra/internal/server/app"

	"github.com/gin-gonic/gin"
)

const maxThankYouImages = 100

// ImageSearch is the part of the Pexels client the API exposes.
type ImageSearch interface {
	Enabled() bool
	Backgrounds(ctx context.Context, color, query string, count int) ([]imagesearch.Photo, error)
	ThankYouImages(ctx context.Context, maxResults int) ([]imagesearch.Photo, error)
}

// APIHandler serves the deck and image endpoints.
type APIHandler struct {
	service   *app.DeckService
	images    ImageSearch
	health    *app.HealthCheckerImpl
	logger    logging.Logger
	startedAt time.Time
}

func NewAPIHandler(service *app.DeckService, images ImageSearch, health *app.HealthCheckerImpl, logger logging.Logger) *APIHandler {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("api")
	}
	if health == nil {
		health = app.NewHealthChecker()
	}
	return &APIHandler{
		service:   service,
		images:    images,
		health:    health,
		logger:    logger,
		startedAt: time.Now(),
	}
}

func (h *APIHandler) HandlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "I'm alive!"})
}

func (h *APIHandler) HandleHealth(c *gin.Context) {
	components := h.health.CheckAll(c.Request.Context())
	status := http.StatusOK
	state := "ok"
	if !app.Ready(components) {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}
	c.JSON(status, gin.H{
		"status":     state,
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"components": components,
	})
}

func (h *APIHandler) HandleTemplates(c *gin.Context) {
	color := c.DefaultQuery("color", "pink")
	query := c.DefaultQuery("query", "abstract background")
	count, err := strconv.Atoi(c.DefaultQuery("count", "12"))
	if err != nil || count <= 0 {
		count = 12
	}

	templates := []imagesearch.Photo{}
	if h.images != nil && h.images.Enabled() {
		photos, err := h.images.Backgrounds(c.Request.Context(), color, query, count)
		if err != nil {
			logging.FromContext(c.Request.Context(), h.logger).Warn("background search failed: %v", err)
		} else {
			templates = photos
		}
	} else {
		h.logger.Warn("background search requested but PEXELS_API_KEY is not set")
	}
	writeJSON(c, http.StatusOK, gin.H{"color": color, "count": len(templates), "templates": templates})
}

func (h *APIHandler) HandleTemplateColors(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"colors": imagesearch.Colors()})
}

func (h *APIHandler) HandleThankYouImages(c *gin.Context) {
	images := []imagesearch.Photo{}
	if h.images != nil && h.images.Enabled() {
		photos, err := h.images.ThankYouImages(c.Request.Context(), maxThankYouImages)
		if err != nil {
			logging.FromContext(c.Request.Context(), h.logger).Warn("thank-you search failed: %v", err)
		} else {
			images = photos
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"count": len(images), "images": images})
}

type topicsRequest struct {
	Topic     string `json:"topic"`
	NumSlides *int   `json:"num_slides"`
}

func (h *APIHandler) HandleGenerateTopics(c *gin.Context) {
	var req topicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, h.logger, "Invalid request body")
		return
	}
	titles, err := h.service.PlanTopics(c.Request.Context(), req.Topic, app.SlideCount(req.NumSlides))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"topic": strings.TrimSpace(req.Topic), "slides": titles})
}

type previewRequest struct {
	Topic       string   `json:"topic"`
	NumSlides   *int     `json:"num_slides"`
	ContentMode string   `json:"content_mode"`
	UserTitles  []string `json:"user_titles"`
}

func (r previewRequest) toApp() app.PreviewRequest {
	return app.PreviewRequest{
		Topic:      r.Topic,
		NumSlides:  app.SlideCount(r.NumSlides),
		Mode:       slide.ParseMode(r.ContentMode),
		UserTitles: r.UserTitles,
	}
}

func (h *APIHandler) HandleGeneratePreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, h.logger, "Invalid request body")
		return
	}
	result, err := h.service.Preview(c.Request.Context(), req.toApp(), nil)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"topic":        result.Topic,
		"slides":       result.Slides,
		"ai_generated": result.AIGenerated,
	})
}

type refineRequest struct {
	Topic          string `json:"topic"`
	SlideTitle     string `json:"slide_title"`
	CurrentContent string `json:"current_content"`
	Style          string `json:"style"`
	BulletSymbol   string `json:"bullet_symbol"`
}

func (h *APIHandler) HandleRefineSlide(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, h.logger, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" || strings.TrimSpace(req.SlideTitle) == "" {
		writeBadRequest(c, h.logger, "Topic and slide title are required")
		return
	}
	result, err := h.service.Refine(c.Request.Context(), app.RefineRequest{
		Topic:   req.Topic,
		Title:   req.SlideTitle,
		Current: req.CurrentContent,
		Style:   req.Style,
		Glyph:   req.BulletSymbol,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"content": result.Content, "style": result.Style})
}

type generateRequest struct {
	Topic            string                `json:"topic"`
	Slides           []app.SlideInput      `json:"slides"`
	TemplateURL      string                `json:"templateUrl"`
	ThankYouImageURL string                `json:"thankYouImageUrl"`
	BulletSymbol     string                `json:"bulletSymbol"`
	Sections         map[string]slide.Spec `json:"sections"`
}

// HandleGeneratePPT builds the deck, streams it as an attachment and removes
// the file afterwards.
func (h *APIHandler) HandleGeneratePPT(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, h.logger, "Invalid request body: "+err.Error())
		return
	}
	generated, err := h.service.Generate(c.Request.Context(), app.GenerateRequest{
		Topic:           req.Topic,
		Slides:          req.Slides,
		BackgroundURL:   req.TemplateURL,
		ClosingImageURL: req.ThankYouImageURL,
		BulletGlyph:     req.BulletSymbol,
		Sections:        req.Sections,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer func() {
		if err := os.Remove(generated.Path); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("remove %s: %v", generated.Path, err)
		}
	}()

	c.Header("Content-Type", deck.MediaType)
	c.FileAttachment(generated.Path, generated.Name)
}
