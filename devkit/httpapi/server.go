// Package httpapi is a read-only HTTP introspection endpoint for the
// engine: the running layer composition, live parameter values, and
// whether a layer undo is available. It never mutates engine state — editing
// happens through the GUI the core doesn't implement (spec §6 Non-goals).
// Route registration and error-handling shape follow the teacher's
// server/api.go (echo.New, RequestLoggerWithConfig, Recover, a single JSON
// error handler).
package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"auroraengine/history"
	"auroraengine/layer"
	"auroraengine/param"
)

// Server exposes GET /state and GET /history over HTTP for devkit tooling
// (a browser extension, a CLI inspector) to poll; it holds no write paths.
type Server struct {
	runtime *layer.Runtime
	params  *param.Store
	hist    *history.Service
	echo    *echo.Echo
}

// New constructs a Server and registers its routes.
func New(runtime *layer.Runtime, params *param.Store, hist *history.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[devkit] %s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = jsonErrorHandler

	s := &Server{runtime: runtime, params: params, hist: hist, echo: e}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/state", s.handleState)
	s.echo.GET("/history", s.handleHistory)
}

// Run starts the HTTP server on addr and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) {
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Printf("[devkit] server error: %v", err)
		}
	}()
	<-ctx.Done()
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutCtx); err != nil {
		log.Printf("[devkit] shutdown: %v", err)
	}
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Layers int    `json:"layers"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Layers: len(s.runtime.Layers)})
}

// LayerState is one layer's introspectable state.
type LayerState struct {
	LayerID       string  `json:"layerId"`
	ComponentKind string  `json:"componentKind"`
	Visible       bool    `json:"visible"`
	Broken        bool    `json:"broken"`
	Opacity       float64 `json:"opacity"`
}

// StateResponse is the payload for GET /state.
type StateResponse struct {
	Layers     []LayerState   `json:"layers"`
	LiveValues map[string]any `json:"liveValues"`
}

func (s *Server) handleState(c echo.Context) error {
	layers := make([]LayerState, len(s.runtime.Layers))
	for i, l := range s.runtime.Layers {
		layers[i] = LayerState{
			LayerID:       l.LayerID,
			ComponentKind: l.ComponentKind,
			Visible:       l.Settings.Visible,
			Broken:        l.Broken,
			Opacity:       l.Settings.Opacity,
		}
	}

	live := make(map[string]any)
	for id, v := range s.params.LiveValues() {
		live[string(id)] = v
	}

	return c.JSON(http.StatusOK, StateResponse{Layers: layers, LiveValues: live})
}

// HistoryResponse is the payload for GET /history: only whether a layer
// undo is available, never stack depth, network history or snapshot
// contents.
type HistoryResponse struct {
	CanUndoLayers bool `json:"canUndoLayers"`
}

func (s *Server) handleHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, HistoryResponse{CanUndoLayers: s.hist.CanUndoLayers()})
}

// jsonErrorHandler ensures every error response has a consistent
// {"error": "message"} body, following the teacher's server/api.go.
func jsonErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
