package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/runtime"
	"github.com/mohammad-safakhou/deckhand/mcp"
)

// MCPHandler answers single JSON-RPC messages.
type MCPHandler interface {
	HandleMessage(ctx context.Context, msg []byte) (json.RawMessage, bool)
	Tools() []mcp.ToolDesc
}

// Options wire the HTTP surface.
type Options struct {
	Secret   []byte
	MCP      MCPHandler
	Metrics  *runtime.Metrics
	Sessions func() int
	Logger   *zap.Logger
}

// New builds the echo instance: /healthz and /metrics are open, /mcp and
// /api require a bearer token with the tools scope.
func New(opts Options) (*echo.Echo, error) {
	if len(opts.Secret) == 0 {
		return nil, runtime.ErrNoSecret
	}
	if opts.MCP == nil {
		return nil, errors.New("server: mcp handler required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Info("request failed", zap.Int("status", code), zap.String("method", req.Method),
			zap.String("path", req.URL.Path), zap.String("remote", c.RealIP()), zap.Error(err))
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	th := &ToolsHandler{MCP: opts.MCP, Log: log}
	th.Register(e.Group("/mcp"), e.Group("/api/tools"), opts.Secret)

	oh := NewOpsHandler(opts.MCP, opts.Sessions)
	api := e.Group("/api/ops")
	api.Use(runtime.EchoAuthMiddleware(opts.Secret))
	oh.Register(api)
	return e, nil
}

// Run serves e on addr until ctx is cancelled, then drains in-flight
// requests.
func Run(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
