package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// OpsHandler exposes operational endpoints.
type OpsHandler struct {
	mcp      MCPHandler
	sessions func() int
}

func NewOpsHandler(h MCPHandler, sessions func() int) *OpsHandler {
	return &OpsHandler{mcp: h, sessions: sessions}
}

// Register mounts ops endpoints under the provided group. It expects authentication to be applied by caller.
func (h *OpsHandler) Register(g *echo.Group) {
	g.GET("/status", h.status)
}

type statusResponse struct {
	OpenSessions int `json:"open_sessions"`
	Tools        int `json:"tools"`
}

func (h *OpsHandler) status(c echo.Context) error {
	out := statusResponse{Tools: len(h.mcp.Tools())}
	if h.sessions != nil {
		out.OpenSessions = h.sessions()
	}
	return c.JSON(http.StatusOK, out)
}
