package server

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrDivisionByZero is reported by the divide tool.
var ErrDivisionByZero = errors.New("Division by zero is not allowed")

type IntPair struct {
	A int `json:"a" jsonschema:"first operand"`
	B int `json:"b" jsonschema:"second operand"`
}

type IntResult struct {
	Result int `json:"result"`
}

type FloatPair struct {
	A float64 `json:"a" jsonschema:"dividend"`
	B float64 `json:"b" jsonschema:"divisor"`
}

type FloatResult struct {
	Result float64 `json:"result"`
}

// NewMathServer builds the arithmetic demo server.
func NewMathServer() *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{Name: MathServerName, Version: Version}, nil)

	mcp.AddTool(s, &mcp.Tool{Name: "add_two", Description: "Add two numbers"},
		func(_ context.Context, _ *mcp.CallToolRequest, in IntPair) (*mcp.CallToolResult, IntResult, error) {
			return nil, IntResult{Result: in.A + in.B}, nil
		})

	mcp.AddTool(s, &mcp.Tool{Name: "subtract_two", Description: "Subtract b from a"},
		func(_ context.Context, _ *mcp.CallToolRequest, in IntPair) (*mcp.CallToolResult, IntResult, error) {
			return nil, IntResult{Result: in.A - in.B}, nil
		})

	mcp.AddTool(s, &mcp.Tool{Name: "multiply", Description: "Multiply two numbers"},
		func(_ context.Context, _ *mcp.CallToolRequest, in IntPair) (*mcp.CallToolResult, IntResult, error) {
			return nil, IntResult{Result: in.A * in.B}, nil
		})

	mcp.AddTool(s, &mcp.Tool{Name: "divide", Description: "Divide a by b"},
		func(_ context.Context, _ *mcp.CallToolRequest, in FloatPair) (*mcp.CallToolResult, FloatResult, error) {
			if in.B == 0 {
				return nil, FloatResult{}, ErrDivisionByZero
			}
			return nil, FloatResult{Result: in.A / in.B}, nil
		})

	return s
}
