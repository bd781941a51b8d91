// internal/interfaces/http/handlers/search.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/search"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/middleware"
)

const (
	heartbeatInterval = 15 * time.Second
	socketWriteWait   = 10 * time.Second
	socketReadLimit   = 4096
)

// SearchInputRequest is one keystroke's worth of search text. Empty text
// is allowed and reloads the whole catalog.
type SearchInputRequest struct {
	Text *string `json:"text" binding:"required"`
}

// StreamTracker counts open result streams
type StreamTracker interface {
	StreamOpened()
	StreamClosed()
}

// SearchHandler handles search-as-you-type endpoints
type SearchHandler struct {
	hub      *search.Hub
	streams  StreamTracker
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewSearchHandler creates a new search handler. allowedOrigins limits
// which pages may open a search socket; "*" allows any.
func NewSearchHandler(hub *search.Hub, streams StreamTracker, allowedOrigins []string, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		hub:     hub,
		streams: streams,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// Input handles POST /search/input
func (h *SearchHandler) Input(c *gin.Context) {
	var req SearchInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	visitorID := middleware.GetVisitorID(c)
	if err := h.hub.Input(visitorID, *req.Text); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Search scheduled",
		"data": gin.H{
			"state": h.hub.State(visitorID).String(),
		},
	})
}

// Latest handles GET /search/latest
func (h *SearchHandler) Latest(c *gin.Context) {
	result, ok := h.hub.Latest(middleware.GetVisitorID(c))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Latest search results",
		"data":    result,
	})
}

// Events handles GET /search/events, a Server-Sent-Events stream of the
// visitor's results. The latest result, if any, is sent first.
func (h *SearchHandler) Events(c *gin.Context) {
	visitorID := middleware.GetVisitorID(c)
	results, cancel := h.hub.Subscribe(visitorID)
	defer cancel()

	defer h.trackStream()()

	c.Header("Content-Type", "text/event-stream")
	c.Header("X-Accel-Buffering", "no")

	if latest, ok := h.hub.Latest(visitorID); ok {
		c.SSEvent("results", latest)
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case r, ok := <-results:
			if !ok {
				return false
			}
			c.SSEvent("results", r)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Socket handles GET /search/ws. The client sends {"text": "..."} frames
// and receives result frames.
func (h *SearchHandler) Socket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the request
		h.logger.WithError(err).Debug("Search socket upgrade failed")
		return
	}
	defer conn.Close()

	visitorID := middleware.GetVisitorID(c)
	results, cancel := h.hub.Subscribe(visitorID)
	defer cancel()

	defer h.trackStream()()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(socketReadLimit)
		for {
			var msg struct {
				Text string `json:"text"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if err := h.hub.Input(visitorID, msg.Text); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case r, ok := <-results:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(socketWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteJSON(r); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					h.logger.WithError(err).Debug("Search socket write failed")
				}
				return
			}
		case <-done:
			return
		}
	}
}

// trackStream marks a stream open and returns the function that closes it
func (h *SearchHandler) trackStream() func() {
	if h.streams == nil {
		return func() {}
	}
	h.streams.StreamOpened()
	return h.streams.StreamClosed
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if u.Host == r.Host {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}
