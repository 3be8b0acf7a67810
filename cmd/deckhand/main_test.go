package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/runtime"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deckhand.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestPlan(t *testing.T) {
	cfg := writeConfig(t, `{"export": {"default_width": 1280}}`)
	tests := []struct {
		args []string
		want map[string]int
	}{
		{nil, map[string]int{"width": 1280, "height": 720}},
		{[]string{"--height", "300"}, map[string]int{"width": 533, "height": 300}},
		{[]string{"--slide-width", "720", "--width", "1000"}, map[string]int{"width": 1000, "height": 750}},
	}
	for _, tt := range tests {
		out, err := execute(t, append([]string{"plan", "-c", cfg}, tt.args...)...)
		require.NoError(t, err)
		var got map[string]int
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, tt.want, got, tt.args)
	}

	_, err := execute(t, "plan", "-c", cfg, "--width=-5")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	cfg := writeConfig(t, `{"server": {"jwt_secret": "s3cret"}}`)
	out, err := execute(t, "token", "-c", cfg, "--subject", "ci")
	require.NoError(t, err)

	sub, scopes, err := runtime.ParseJWT(strings.TrimSpace(out), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "ci", sub)
	assert.Equal(t, []string{runtime.ScopeTools}, scopes)

	_, err = execute(t, "token", "-c", writeConfig(t, `{}`))
	assert.ErrorIs(t, err, runtime.ErrNoSecret)
}

func TestTools(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)
	var tools []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tools))
	assert.Len(t, tools, 27)
}
