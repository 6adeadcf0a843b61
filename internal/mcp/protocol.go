// Package mcp implements a minimal Model Context Protocol server over
// newline-delimited JSON-RPC 2.0 on stdio.
//
// The server is generic: callers register tools and resources, the
// server handles framing, lifecycle methods, and dispatch. Handlers run
// on their own goroutines and must be safe for concurrent use.
package mcp

import (
	"encoding/json"
	"fmt"
)

// Supported protocol versions.
const (
	// protocolVersionCurrent is the current MCP specification version.
	protocolVersionCurrent = "2025-11-25"
	// protocolVersionPrevious is the previous MCP specification version,
	// still accepted from older clients.
	protocolVersionPrevious = "2024-11-05"
)

// JSON-RPC 2.0 error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// Message is a single JSON-RPC 2.0 frame. Requests, responses, and
// notifications share the shape; unused fields stay empty.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObj       `json:"error,omitempty"`
}

// ErrorObj is the error member of a JSON-RPC response.
type ErrorObj struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RPCError carries a JSON-RPC error code chosen by a tool handler.
// Handlers return it when a failure maps to a specific protocol code;
// any other error becomes an internal error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string { return e.Message }

// Errorf builds an RPCError with a formatted message.
func Errorf(code int, format string, args ...interface{}) *RPCError {
	return &RPCError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Tool is a callable MCP tool with its input schema and metadata.
type Tool struct {
	Handler     func(*ToolCall) (*ToolResult, error)
	InputSchema map[string]interface{}
	Name        string
	Description string
}

// ToolCall is an incoming tool invocation: the tool name plus the raw
// JSON arguments for the handler to parse.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the payload a tool hands back: one or more content
// items and an optional soft-error flag.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"is_error,omitempty"`
}

// Content is one item in a tool result.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// TextResult wraps a plain string as a single-content tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: "text", Text: text}}}
}

// Resource is a readable MCP resource. Read is called on every
// resources/read request and must be safe for concurrent use.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Read        func() (string, error)
}

// InitializeParams is the params object of an initialize request.
type InitializeParams struct {
	Capabilities    interface{} `json:"capabilities"`
	ClientInfo      ClientInfo  `json:"clientInfo"`
	ProtocolVersion string      `json:"protocolVersion"`
}

// ClientInfo identifies the connecting client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
