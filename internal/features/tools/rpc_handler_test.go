package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() Tool {
	return Tool{
		Name:        "echo",
		Description: "Echoes its input back",
		InputSchema: objectSchema(map[string]any{
			"text": stringProp("Text to echo"),
		}, "text"),
		Call: func(_ context.Context, args json.RawMessage) (any, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, err
			}
			if in.Text == "fail" {
				return nil, errors.New("asked to fail")
			}
			return map[string]any{"echo": in.Text}, nil
		},
	}
}

func newTestApp() *fiber.App {
	h := NewHandler(NewRegistry([]Tool{echoTool()}))

	app := fiber.New()
	app.Post("/rpc", h.Dispatch)
	return app
}

func rpcCall(t *testing.T, app *fiber.App, body string) Response {
	t.Helper()

	req := httptest.NewRequest("POST", "/rpc", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestDispatch_Initialize(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "support-agent", serverInfo["name"])
}

func TestDispatch_ToolsList(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]any)
	list := result["tools"].([]any)
	require.Len(t, list, 1)

	entry := list[0].(map[string]any)
	assert.Equal(t, "echo", entry["name"])
	assert.NotEmpty(t, entry["description"])
	assert.NotNil(t, entry["inputSchema"])
}

func TestDispatch_ToolsCall(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hello"}}}`)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]any)
	assert.Equal(t, "hello", result["echo"])
}

func TestDispatch_UnknownMethod(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":4,"method":"resources/list"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestDispatch_UnknownTool(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}

func TestDispatch_ToolError(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"echo","arguments":{"text":"fail"}}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 1, resp.Error.Code)
	assert.Equal(t, "Tool execution error", resp.Error.Message)
}

func TestDispatch_ParseError(t *testing.T) {
	app := newTestApp()

	resp := rpcCall(t, app, `{not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32700, resp.Error.Code)
}

func TestRegistry_Find(t *testing.T) {
	r := NewRegistry([]Tool{echoTool()})

	assert.NotNil(t, r.Find("echo"))
	assert.Nil(t, r.Find("missing"))
}
