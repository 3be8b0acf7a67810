package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/runtime"
)

// maxBody bounds a single JSON-RPC message, matching the stdio limit.
const maxBody = 1 << 20

// ToolsHandler exposes the MCP endpoint and the tool catalogue.
type ToolsHandler struct {
	MCP MCPHandler
	Log *zap.Logger
}

func (h *ToolsHandler) Register(rpc, catalogue *echo.Group, secret []byte) {
	for _, g := range []*echo.Group{rpc, catalogue} {
		g.Use(runtime.EchoAuthMiddleware(secret), runtime.RequireScopes(runtime.ScopeTools))
	}
	rpc.POST("", h.call)
	catalogue.GET("", h.list)
}

func (h *ToolsHandler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.MCP.Tools())
}

// call forwards one JSON-RPC message. Notifications get 202 with no body.
func (h *ToolsHandler) call(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "message too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	resp, ok := h.MCP.HandleMessage(ctx, body)
	if h.Log != nil {
		sub, _ := runtime.SubjectFromContext(ctx)
		h.Log.Debug("mcp message", zap.String("subject", sub),
			zap.Int("bytes", len(body)), zap.Bool("notification", !ok))
	}
	if !ok {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSONBlob(http.StatusOK, resp)
}
