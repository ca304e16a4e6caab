// Package server exposes an Invoker over HTTP. The invoke contract follows
// the original serverless handler: one JSON message in, one JSON message out,
// with the agent constructed once and shared by every request.
package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/observability"
)

// Server routes invoke and metrics requests to a shared Invoker/interceptor
// pair.
type Server struct {
	invoker agent.Invoker
	metrics *observability.MetricsInterceptor
	logger  *slog.Logger
}

// New wires the handler around an already-instrumented invoker. The metrics
// interceptor is passed separately so the summary endpoint can read it no
// matter where it sits in the middleware chain.
func New(invoker agent.Invoker, metrics *observability.MetricsInterceptor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{invoker: invoker, metrics: metrics, logger: logger}
}

// Routes registers the HTTP endpoints on the echo instance.
func (s *Server) Routes(e *echo.Echo) {
	e.POST("/invoke", s.handleInvoke)
	e.GET("/metrics", s.handleMetrics)
	e.GET("/healthz", s.handleHealth)
}

// NewEcho builds an echo instance with the standard middleware stack and the
// server's routes registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	s.Routes(e)
	return e
}

type invokeRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type invokeResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	ToolCalls int    `json:"tool_calls"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInvoke(c echo.Context) error {
	var req invokeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "no message provided"})
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp, err := s.invoker.Invoke(c.Request().Context(), agent.Request{
		SessionID: sessionID,
		Message:   req.Message,
	})
	if err != nil {
		s.logger.Error("invoke failed", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	return c.JSON(http.StatusOK, invokeResponse{
		Message:   resp.Content,
		SessionID: sessionID,
		ToolCalls: len(resp.ToolCalls),
	})
}

func (s *Server) handleMetrics(c echo.Context) error {
	if s.metrics == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "metrics not enabled"})
	}
	return c.JSON(http.StatusOK, s.metrics.Summary())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
