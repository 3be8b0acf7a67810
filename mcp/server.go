// Package mcp exposes the deck operations as MCP tools over JSON-RPC 2.0.
//
// Every tool call is queued to a Dispatcher, which owns the host
// connection. The stdio transport serves one client per process; the
// HTTP transport hands single messages to HandleMessage.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/deck"
	rt "github.com/mohammad-safakhou/deckhand/internal/runtime"
)

// maxMessage bounds a single newline-delimited message.
const maxMessage = 1 << 20

// Options configure a Server.
type Options struct {
	Name        string
	Version     string
	CallTimeout time.Duration
	Logger      *zap.Logger
	Metrics     *rt.Metrics
}

// Server holds shared deps (the only "state").
type Server struct {
	svc     *deck.Service
	disp    *Dispatcher
	log     *zap.Logger
	metrics *rt.Metrics
	info    serverInfo
	timeout time.Duration

	// cached tool descriptors
	tools  []ToolDesc
	byName map[string]*ToolDesc
}

// NewServer wires dependencies once. disp must be started by the caller.
func NewServer(svc *deck.Service, disp *Dispatcher, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Name == "" {
		opts.Name = "deckhand"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 2 * time.Minute
	}
	srv := &Server{
		svc:     svc,
		disp:    disp,
		log:     opts.Logger.Named("mcp"),
		metrics: opts.Metrics,
		info:    serverInfo{Name: opts.Name, Version: opts.Version},
		timeout: opts.CallTimeout,
	}
	srv.initTools()
	return srv
}

// Tools returns the advertised tool list.
func (srv *Server) Tools() []ToolDesc { return srv.tools }

// session tracks the initialize handshake of one stdio client.
type session struct {
	initialized bool
}

// Run serves newline-delimited JSON-RPC from in to out until in reaches
// EOF or ctx is cancelled. Messages are handled one at a time.
func (srv *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessage)
		for scanner.Scan() {
			line := bytes.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	encoder := json.NewEncoder(out)
	sess := &session{}
	srv.log.Info("stdio transport ready")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
				default:
				}
				return nil
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			resp := srv.handle(ctx, sess, line)
			if resp == nil {
				continue
			}
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// HandleMessage serves one JSON-RPC message received over HTTP. HTTP
// callers are authenticated by token, so no initialize handshake is
// required. ok is false for notifications.
func (srv *Server) HandleMessage(ctx context.Context, msg []byte) (json.RawMessage, bool) {
	resp := srv.handle(ctx, &session{initialized: true}, msg)
	if resp == nil {
		return nil, false
	}
	body, err := json.Marshal(resp)
	if err != nil {
		srv.log.Error("encode response", zap.Error(err))
		body, _ = json.Marshal(errorResponse(resp.ID, codeInternalError, "encode response: "+err.Error()))
	}
	return body, true
}

// handle returns nil when no response is due.
func (srv *Server) handle(ctx context.Context, sess *session, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(json.RawMessage("null"), codeParseError, "parse error: "+err.Error())
	}
	if req.isNotification() {
		srv.log.Debug("notification", zap.String("method", req.Method))
		return nil
	}
	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, codeInvalidRequest, "jsonrpc must be \"2.0\"")
	}

	switch req.Method {
	case "initialize":
		return srv.handleInitialize(sess, &req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		if !sess.initialized {
			return notInitialized(req.ID)
		}
		return resultResponse(req.ID, toolsListResult{Tools: srv.tools})
	case "tools/call":
		if !sess.initialized {
			return notInitialized(req.ID)
		}
		return srv.handleToolsCall(ctx, &req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (srv *Server) handleInitialize(sess *session, req *request) *response {
	if len(req.Params) == 0 {
		return errorResponse(req.ID, codeInvalidParams, "params required for initialize")
	}
	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}
	sess.initialized = true
	srv.log.Info("client initialized",
		zap.String("client", params.ClientInfo.Name),
		zap.String("client_version", params.ClientInfo.Version),
		zap.String("protocol", params.ProtocolVersion))
	return resultResponse(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    serverCapabilities{Tools: &toolCapability{}},
		ServerInfo:      srv.info,
	})
}

func (srv *Server) handleToolsCall(ctx context.Context, req *request) *response {
	if len(req.Params) == 0 {
		return errorResponse(req.ID, codeInvalidParams, "params required for tools/call")
	}
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}
	t, ok := srv.byName[params.Name]
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}
	args, err := decodeArgs(params.Arguments)
	if err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid arguments: "+err.Error())
	}

	start := time.Now()
	val, err := srv.disp.Do(ctx, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.Background(), srv.timeout)
		defer cancel()
		return srv.callTool(callCtx, t.Name, args)
	})
	took := time.Since(start)
	err = deck.WithOp(t.Name, err)

	outcome := rt.OutcomeOK
	if err != nil {
		outcome = deck.KindOf(err).String()
		srv.log.Warn("tool failed", zap.String("tool", t.Name), zap.String("category", outcome),
			zap.Duration("took", took), zap.Error(err))
	} else {
		srv.log.Debug("tool ok", zap.String("tool", t.Name), zap.Duration("took", took))
	}
	srv.metrics.ObserveCall(t.Name, outcome, took)

	return resultResponse(req.ID, buildToolResult(val, err))
}

// decodeArgs keeps numbers as json.Number so identifiers like 3.5 are
// rejected instead of truncated.
func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return args, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	return args, nil
}

// buildToolResult renders a handler's value as JSON text. Object results
// are also returned as structuredContent.
func buildToolResult(val any, runErr error) toolsCallResult {
	if runErr != nil {
		kind := deck.KindOf(runErr)
		return toolsCallResult{
			Content:   []contentBlock{{Type: "text", Text: runErr.Error()}},
			IsError:   true,
			ErrorInfo: &errorInfo{Category: kind.String(), Retryable: kind == deck.KindHostFault},
		}
	}
	body, err := json.Marshal(val)
	if err != nil {
		return toolsCallResult{
			Content:   []contentBlock{{Type: "text", Text: "encode result: " + err.Error()}},
			IsError:   true,
			ErrorInfo: &errorInfo{Category: deck.KindHostFault.String()},
		}
	}
	out := toolsCallResult{Content: []contentBlock{{Type: "text", Text: string(body)}}}
	if len(body) > 0 && body[0] == '{' {
		out.StructuredContent = json.RawMessage(body)
	}
	return out
}

func notInitialized(id json.RawMessage) *response {
	return errorResponse(id, codeInvalidRequest, "server not initialized (call initialize first)")
}

func resultResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}
