package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Server routes MCP requests to registered tools and resources.
type Server struct {
	name    string
	version string
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	tools     map[string]*Tool
	toolOrder []string
	resources map[string]*Resource
	resOrder  []string
}

// NewServer builds an empty server. Register tools and resources before
// calling Serve.
func NewServer(name, version string, logger zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		name:      name,
		version:   version,
		log:       logger,
		ctx:       ctx,
		cancel:    cancel,
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
	}
}

// RegisterTool adds a tool. Registering the same name again replaces the
// tool but keeps its position in tools/list.
func (s *Server) RegisterTool(t *Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[t.Name]; !exists {
		s.toolOrder = append(s.toolOrder, t.Name)
	}
	s.tools[t.Name] = t
}

// RegisterResource adds a resource, keyed and listed by URI.
func (s *Server) RegisterResource(r *Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resources[r.URI]; !exists {
		s.resOrder = append(s.resOrder, r.URI)
	}
	s.resources[r.URI] = r
}

// Shutdown stops the serve loop. The exit notification calls this;
// owners may also call it directly, more than once if they like.
func (s *Server) Shutdown() {
	s.cancel()
}

// Serve reads messages until the stream ends or Shutdown is called.
// Each message is handled on its own goroutine so a slow tool cannot
// stall the read loop.
func (s *Server) Serve(tr *StdioTransport) error {
	s.log.Info().Str("server", s.name).Str("version", s.version).Msg("mcp server listening on stdio")

	type readResult struct {
		msg *Message
		err error
	}
	msgCh := make(chan readResult)

	go func() {
		for {
			msg, err := tr.ReadMessage()
			select {
			case msgCh <- readResult{msg, err}:
				if err != nil && !errors.Is(err, errBadFrame) {
					return
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("mcp server stopping")
			tr.Close()
			return nil
		case result := <-msgCh:
			if result.err != nil {
				if errors.Is(result.err, errBadFrame) {
					s.log.Warn().Err(result.err).Msg("dropping unreadable frame")
					continue
				}
				if errors.Is(result.err, io.EOF) {
					s.log.Info().Msg("mcp server stopping on eof")
					return nil
				}
				s.log.Error().Err(result.err).Msg("stdin read failed")
				return result.err
			}
			go s.handleMessage(tr, result.msg)
		}
	}
}

func (s *Server) handleMessage(tr *StdioTransport, msg *Message) {
	switch msg.Method {
	case "initialize":
		s.handleInitialize(tr, msg)
	case "notifications/initialized":
		// Client acknowledgment, nothing to send.
	case "ping", "shutdown":
		s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: json.RawMessage(`{}`)})
	case "exit":
		s.Shutdown()
	case "tools/list":
		s.handleToolsList(tr, msg)
	case "tools/call":
		s.handleToolCall(tr, msg)
	case "resources/list":
		s.handleResourcesList(tr, msg)
	case "resources/read":
		s.handleResourceRead(tr, msg)
	default:
		if msg.ID == nil {
			s.log.Debug().Str("method", msg.Method).Msg("ignoring unknown notification")
			return
		}
		s.writeError(tr, msg.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
	}
}

func (s *Server) handleInitialize(tr *StdioTransport, msg *Message) {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.log.Warn().Err(err).Msg("initialize params unreadable, using defaults")
		}
	}

	version := params.ProtocolVersion
	switch version {
	case protocolVersionCurrent:
	case protocolVersionPrevious:
		s.log.Warn().Str("protocol", version).Msg("client speaks the previous protocol version")
	case "":
		version = protocolVersionCurrent
	default:
		s.writeError(tr, msg.ID, ErrCodeInvalidRequest, fmt.Sprintf(
			"unsupported protocol version: %s; supported versions are %s, %s",
			version, protocolVersionPrevious, protocolVersionCurrent))
		return
	}

	client := params.ClientInfo.Name
	if client == "" {
		client = "unknown"
	}
	s.log.Info().Str("client", client).Str("protocol", version).Msg("client connected")

	result, _ := json.Marshal(map[string]interface{}{
		"protocolVersion": version,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{"subscribe": false, "listChanged": false},
		},
		"serverInfo": map[string]interface{}{"name": s.name, "version": s.version},
	})
	s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: result})
}

func (s *Server) handleToolsList(tr *StdioTransport, msg *Message) {
	s.mu.RLock()
	tools := make([]map[string]interface{}, 0, len(s.toolOrder))
	for _, name := range s.toolOrder {
		tool := s.tools[name]
		tools = append(tools, map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		})
	}
	s.mu.RUnlock()

	result, err := json.Marshal(map[string]interface{}{"tools": tools})
	if err != nil {
		s.writeError(tr, msg.ID, ErrCodeInternalError, "failed to marshal tools list")
		return
	}
	s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: result})
}

func (s *Server) handleToolCall(tr *StdioTransport, msg *Message) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.writeError(tr, msg.ID, ErrCodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
		return
	}

	s.mu.RLock()
	tool, ok := s.tools[params.Name]
	s.mu.RUnlock()
	if !ok {
		s.writeError(tr, msg.ID, ErrCodeMethodNotFound, fmt.Sprintf("Tool not found: %s", params.Name))
		return
	}

	result, err := tool.Handler(&ToolCall{Name: params.Name, Arguments: params.Arguments})
	if err != nil {
		code := ErrCodeInternalError
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			code = rpcErr.Code
		}
		s.writeError(tr, msg.ID, code, err.Error())
		return
	}

	payload := map[string]interface{}{"content": result.Content}
	if result.IsError {
		payload["is_error"] = true
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.writeError(tr, msg.ID, ErrCodeInternalError, "failed to marshal tool result")
		return
	}
	s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: data})
}

func (s *Server) handleResourcesList(tr *StdioTransport, msg *Message) {
	s.mu.RLock()
	resources := make([]map[string]interface{}, 0, len(s.resOrder))
	for _, uri := range s.resOrder {
		r := s.resources[uri]
		resources = append(resources, map[string]interface{}{
			"uri":         r.URI,
			"name":        r.Name,
			"description": r.Description,
			"mimeType":    r.MimeType,
		})
	}
	s.mu.RUnlock()

	result, err := json.Marshal(map[string]interface{}{"resources": resources})
	if err != nil {
		s.writeError(tr, msg.ID, ErrCodeInternalError, "failed to marshal resources list")
		return
	}
	s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: result})
}

func (s *Server) handleResourceRead(tr *StdioTransport, msg *Message) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.writeError(tr, msg.ID, ErrCodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
		return
	}

	s.mu.RLock()
	res, ok := s.resources[params.URI]
	s.mu.RUnlock()
	if !ok {
		s.writeError(tr, msg.ID, ErrCodeInvalidParams, fmt.Sprintf("unknown resource: %s", params.URI))
		return
	}

	text, err := res.Read()
	if err != nil {
		s.writeError(tr, msg.ID, ErrCodeInternalError, err.Error())
		return
	}

	result, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"uri": res.URI, "mimeType": res.MimeType, "text": text},
		},
	})
	if err != nil {
		s.writeError(tr, msg.ID, ErrCodeInternalError, "failed to marshal resource contents")
		return
	}
	s.write(tr, &Message{JSONRPC: "2.0", ID: msg.ID, Result: result})
}

func (s *Server) write(tr *StdioTransport, msg *Message) {
	if err := tr.WriteMessage(msg); err != nil {
		s.log.Error().Err(err).Msg("response write failed")
	}
}

func (s *Server) writeError(tr *StdioTransport, id json.RawMessage, code int, message string) {
	s.write(tr, &Message{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ErrorObj{Code: code, Message: message},
	})
}
