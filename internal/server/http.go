// internal/server/http.go
package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventcast/live-session-service/internal/apperrors"
	"github.com/eventcast/live-session-service/internal/config"
	"github.com/eventcast/live-session-service/internal/service"
)

type Handler struct {
	liveService *service.LiveService
}

func NewHandler(liveService *service.LiveService) *Handler {
	return &Handler{
		liveService: liveService,
	}
}

// NewRouter wires the polling surface, the write surface and the
// operator-only admin group.
func NewRouter(cfg *config.Config, liveService *service.LiveService) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(LoggingMiddleware())

	h := NewHandler(liveService)

	api := router.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/events/:id/live-status", h.LiveStatus)
		api.POST("/events/:id/stream/start", h.StartStream)
		api.POST("/events/:id/stream/end", h.EndStream)
		api.POST("/platform/webhook", h.PlatformWebhook)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(OperatorAuthMiddleware(cfg.OperatorSecret))
	{
		admin.POST("/events/:id/live-mode", h.ToggleLiveMode)
	}

	return router
}

type toggleLiveModeRequest struct {
	Enabled *bool `json:"enabled"`
}

type startStreamRequest struct {
	GuestID string `json:"guest_id"`
}

type platformWebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *Handler) ToggleLiveMode(c *gin.Context) {
	var req toggleLiveModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled must be a boolean"})
		return
	}
	if req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}

	enabled, err := h.liveService.SetLiveMode(c.Request.Context(), c.Param("id"), *req.Enabled)
	if err != nil {
		writeError(c, err)
		return
	}

	message := "Live mode disabled"
	if enabled {
		message = "Live mode enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"live_mode_enabled": enabled,
		"message":           message,
	})
}

func (h *Handler) StartStream(c *gin.Context) {
	var req startStreamRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	creds, err := h.liveService.StartStream(c.Request.Context(), c.Param("id"), req.GuestID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stream":  creds,
	})
}

func (h *Handler) EndStream(c *gin.Context) {
	if err := h.liveService.EndStream(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stream ended successfully",
	})
}

func (h *Handler) LiveStatus(c *gin.Context) {
	status := h.liveService.GetStatus(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, status)
}

func (h *Handler) PlatformWebhook(c *gin.Context) {
	var req platformWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	if err := h.liveService.HandlePlatformEvent(c.Request.Context(), req.Type, req.Data.ID); err != nil {
		log.Printf("❌ Error handling platform event %s: %v", req.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func writeError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		log.Printf("❌ Request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
