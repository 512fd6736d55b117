package http

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"cassandra/internal/logging"
	"cassandra/internal/server/app"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsRequestTimeout = 10 * time.Second
	wsWriteTimeout   = 10 * time.Second
)

// previewEvent is one frame of the preview stream.
type previewEvent struct {
	Type        string            `json:"type"`
	Index       int               `json:"index"`
	Total       int               `json:"total,omitempty"`
	Slide       *app.PreviewSlide `json:"slide,omitempty"`
	Topic       string            `json:"topic,omitempty"`
	AIGenerated *bool             `json:"ai_generated,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// PreviewStreamHandler runs a preview over a websocket and sends each slide
// as soon as it is synthesized.
type PreviewStreamHandler struct {
	service  *app.DeckService
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewPreviewStreamHandler accepts upgrades only from allowedOrigins, with the
// same "*" and empty-list rules as CORSMiddleware.
func NewPreviewStreamHandler(service *app.DeckService, allowedOrigins []string, logger logging.Logger) *PreviewStreamHandler {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("preview-ws")
	}
	return &PreviewStreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func (h *PreviewStreamHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	logger := logging.FromContext(ctx, h.logger)

	var writeMu sync.Mutex
	send := func(ev previewEvent) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(ev)
	}

	_ = conn.SetReadDeadline(time.Now().Add(wsRequestTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		logger.Warn("read preview request: %v", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	var req previewRequest
	if err := json.Unmarshal(data, &req); err != nil {
		_ = send(previewEvent{Type: "error", Error: "Invalid request body"})
		return
	}

	// a closed socket cancels the pipeline
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	var streamed atomic.Int32
	result, err := h.service.Preview(ctx, req.toApp(), func(index, total int, ps app.PreviewSlide) {
		streamed.Add(1)
		if err := send(previewEvent{Type: "slide", Index: index, Total: total, Slide: &ps}); err != nil {
			logger.Debug("send slide %d: %v", index, err)
			cancel()
		}
	})
	if err != nil {
		msg := err.Error()
		if ctx.Err() == nil {
			msg = app.ValidationMessage(err)
		}
		_ = send(previewEvent{Type: "error", Error: msg})
		return
	}
	aiGenerated := result.AIGenerated
	if !aiGenerated {
		// slides already streamed are superseded by the default deck
		if streamed.Load() > 0 {
			if err := send(previewEvent{Type: "reset", Total: len(result.Slides)}); err != nil {
				return
			}
		}
		for i := range result.Slides {
			ps := result.Slides[i]
			if err := send(previewEvent{Type: "slide", Index: i, Total: len(result.Slides), Slide: &ps}); err != nil {
				return
			}
		}
	}
	_ = send(previewEvent{Type: "done", Topic: result.Topic, Total: len(result.Slides), AIGenerated: &aiGenerated})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}
