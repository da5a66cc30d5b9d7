package tools

import (
	"encoding/json"
	"time"

	"support-agent/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// JSON-RPC 2.0 error codes used by the dispatch endpoint.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolError      = 1
)

// protocolVersion is the dispatch protocol revision reported to clients.
const protocolVersion = "2024-11-05"

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// callParams are the parameters of a tools/call request.
type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Handler serves the JSON-RPC tool dispatch endpoint.
type Handler struct {
	registry *Registry
}

// NewHandler creates a new dispatch Handler over a registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Dispatch godoc
// @Summary Tool dispatch endpoint
// @Description JSON-RPC 2.0 endpoint implementing initialize, tools/list and tools/call
// @Tags tools
// @Accept json
// @Produce json
// @Success 200 {object} Response
// @Router /rpc [post]
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	var req Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.JSON(errorResponse(nil, codeParseError, "Parse error", err.Error()))
	}

	switch req.Method {
	case "initialize":
		return c.JSON(h.handleInitialize(req))
	case "tools/list":
		return c.JSON(h.handleToolsList(req))
	case "tools/call":
		return c.JSON(h.handleToolsCall(c, req))
	default:
		return c.JSON(errorResponse(req.ID, codeMethodNotFound, "Method not found", map[string]any{
			"method": req.Method,
		}))
	}
}

func (h *Handler) handleInitialize(req Request) Response {
	return resultResponse(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"serverInfo": map[string]any{
			"name":    "support-agent",
			"version": "1.0.0",
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
	})
}

func (h *Handler) handleToolsList(req Request) Response {
	list := make([]map[string]any, 0, len(h.registry.List()))
	for _, t := range h.registry.List() {
		list = append(list, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	return resultResponse(req.ID, map[string]any{"tools": list})
}

func (h *Handler) handleToolsCall(c *fiber.Ctx, req Request) Response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	tool := h.registry.Find(params.Name)
	if tool == nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", map[string]any{
			"reason": "unknown tool",
			"name":   params.Name,
		})
	}

	start := time.Now()
	result, err := tool.Call(c.Context(), params.Arguments)
	if err != nil {
		logger.Get().Warn("Tool call failed",
			zap.String("tool", params.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return errorResponse(req.ID, codeToolError, "Tool execution error", err.Error())
	}

	logger.Get().Info("Tool call",
		zap.String("tool", params.Name),
		zap.Duration("duration", time.Since(start)),
	)

	return resultResponse(req.ID, result)
}

func resultResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data any) Response {
	return Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message, Data: data}}
}
