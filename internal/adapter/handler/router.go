package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexdong/TranscribeMe/internal/adapter/dto/common"
	"github.com/alexdong/TranscribeMe/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	webhookHandler    *TwilioWebhookHandler
	transcriptHandler *TranscriptHandler
	adminHandler      *AdminHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *TwilioWebhookHandler, transcriptHandler *TranscriptHandler, adminHandler *AdminHandler) *Router {
	return &Router{
		cfg:               cfg,
		webhookHandler:    webhookHandler,
		transcriptHandler: transcriptHandler,
		adminHandler:      adminHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/", rt.serviceInfo)
	e.GET("/health", rt.healthCheck)

	rt.setupWebhookRoutes(e)
	rt.setupTranscriptRoutes(e)

	// API v1 group
	v1 := e.Group("/v1")
	rt.setupAdminRoutes(v1)
}

// setupWebhookRoutes configures the Twilio callback routes. They live at the
// root because the TwiML emitted for accepted calls points Twilio at these
// exact paths.
func (rt *Router) setupWebhookRoutes(e *echo.Echo) {
	webhookGroup := e.Group("/webhook")

	if rt.webhookHandler != nil {
		webhookGroup.POST("/voice", rt.webhookHandler.HandleVoice)
		webhookGroup.POST("/recording", rt.webhookHandler.HandleRecording)
		webhookGroup.POST("/recording-status", rt.webhookHandler.HandleRecordingStatus)
	} else {
		// Placeholder routes when handler is not initialized
		webhookGroup.POST("/voice", rt.notImplemented)
		webhookGroup.POST("/recording", rt.notImplemented)
		webhookGroup.POST("/recording-status", rt.notImplemented)
	}
}

// setupTranscriptRoutes configures the public transcript page
func (rt *Router) setupTranscriptRoutes(e *echo.Echo) {
	if rt.transcriptHandler != nil {
		e.GET("/transcript/:token", rt.transcriptHandler.View)
	} else {
		e.GET("/transcript/:token", rt.notImplemented)
	}
}

// setupAdminRoutes configures operational endpoints
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	adminGroup := g.Group("/admin")

	if rt.adminHandler != nil {
		adminGroup.GET("/calls", rt.adminHandler.ListCalls)
	} else {
		adminGroup.GET("/calls", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// serviceInfo identifies the service on the root endpoint
// @Summary      Service information
// @Tags         Service
// @Produce      json
// @Success      200  {object}  common.ServiceInfoResponse
// @Router       / [get]
func (rt *Router) serviceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, common.ServiceInfoResponse{
		Service:     "TranscribeMe",
		Version:     "0.1.0",
		Description: "Phone-based transcription service",
		PhoneNumber: rt.cfg.Twilio.PhoneNumber,
	})
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         Service
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: rt.cfg.Server.Environment,
	})
}
