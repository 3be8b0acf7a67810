package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mohammad-safakhou/deckhand/internal/runtime"
	"github.com/mohammad-safakhou/deckhand/mcp"
)

var secret = []byte("test-secret")

type fakeMCP struct {
	got []string
}

func (f *fakeMCP) HandleMessage(_ context.Context, msg []byte) (json.RawMessage, bool) {
	f.got = append(f.got, string(msg))
	if strings.Contains(string(msg), "notifications/") {
		return nil, false
	}
	return json.RawMessage(`{"jsonrpc":"2.0","id":1,"result":{}}`), true
}

func (f *fakeMCP) Tools() []mcp.ToolDesc {
	return []mcp.ToolDesc{{Name: "get_slides"}, {Name: "add_slide"}}
}

func newTestServer(t *testing.T) (*echo.Echo, *fakeMCP) {
	t.Helper()
	f := &fakeMCP{}
	e, err := New(Options{
		Secret:   secret,
		MCP:      f,
		Metrics:  runtime.NewMetrics(),
		Sessions: func() int { return 3 },
	})
	require.NoError(t, err)
	return e, f
}

func token(t *testing.T, scopes ...string) string {
	t.Helper()
	tok, err := runtime.SignJWT("agent-1", secret, time.Minute, scopes...)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Options{MCP: &fakeMCP{}})
	assert.ErrorIs(t, err, runtime.ErrNoSecret)

	_, err = New(Options{Secret: secret})
	assert.Error(t, err)
}

func TestOpenEndpoints(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deckhand_sessions_open")
}

func TestMCPEndpoint(t *testing.T) {
	e, f := newTestServer(t)
	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`

	tests := []struct {
		name   string
		auth   string
		body   string
		status int
	}{
		{"no token", "", msg, http.StatusUnauthorized},
		{"missing scope", token(t), msg, http.StatusForbidden},
		{"request", token(t, runtime.ScopeTools), msg, http.StatusOK},
		{"notification", token(t, runtime.ScopeTools), `{"jsonrpc":"2.0","method":"notifications/initialized"}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/mcp", tt.auth, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
	require.Len(t, f.got, 2)
	assert.Equal(t, msg, f.got[0])

	rec := do(e, http.MethodPost, "/mcp", "", msg)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing token", body["error"])
}

func TestToolCatalogueAndStatus(t *testing.T) {
	e, _ := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/tools", token(t, runtime.ScopeTools), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tools []mcp.ToolDesc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	assert.Len(t, tools, 2)

	rec = do(e, http.MethodGet, "/api/ops/status", token(t), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"open_sessions":3,"tools":2}`, rec.Body.String())
}

func TestMessageTooLarge(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(e, http.MethodPost, "/mcp", token(t, runtime.ScopeTools), strings.Repeat("x", maxBody+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMCPMessagesLogSubject(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := New(Options{Secret: secret, MCP: &fakeMCP{}, Logger: zap.New(core)})
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/mcp", token(t, runtime.ScopeTools), `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("mcp message").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "agent-1", fields["subject"])
	assert.Equal(t, false, fields["notification"])
}
