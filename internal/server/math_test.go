package server

import (
	"strings"
	"testing"
)

func TestMathServer_Tools(t *testing.T) {
	cs := connect(t, NewMathServer())

	names := toolNames(t, cs)
	for _, want := range []string{"add_two", "subtract_two", "multiply", "divide"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}

	tests := []struct {
		tool string
		a, b int
		want int
	}{
		{"add_two", 2, 3, 5},
		{"add_two", -4, 4, 0},
		{"subtract_two", 10, 3, 7},
		{"subtract_two", 3, 10, -7},
		{"multiply", 6, 7, 42},
		{"multiply", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			var out IntResult
			decodeResult(t, callTool(t, cs, tt.tool, map[string]any{"a": tt.a, "b": tt.b}), &out)
			if out.Result != tt.want {
				t.Errorf("%s(%d, %d) = %d, want %d", tt.tool, tt.a, tt.b, out.Result, tt.want)
			}
		})
	}
}

func TestMathServer_Divide(t *testing.T) {
	cs := connect(t, NewMathServer())

	var out FloatResult
	decodeResult(t, callTool(t, cs, "divide", map[string]any{"a": 7.0, "b": 2.0}), &out)
	if out.Result != 3.5 {
		t.Errorf("divide(7, 2) = %v, want 3.5", out.Result)
	}

	res := callTool(t, cs, "divide", map[string]any{"a": 1.0, "b": 0.0})
	if !res.IsError {
		t.Fatal("divide by zero should be a tool error")
	}
	if !strings.Contains(resultText(res), "Division by zero is not allowed") {
		t.Errorf("error text = %q", resultText(res))
	}
}
