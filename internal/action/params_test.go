package action_test

import (
	"encoding/json"
	"testing"

	"github.com/mj1618/desktop-scenarios/internal/action"
)

func TestStringParam(t *testing.T) {
	p := map[string]any{"s": "x", "n": float64(3), "nil": nil}
	if got := action.StringParam(p, "s", "d"); got != "x" {
		t.Errorf("s = %q", got)
	}
	if got := action.StringParam(p, "n", "d"); got != "3" {
		t.Errorf("n = %q", got)
	}
	if got := action.StringParam(p, "nil", "d"); got != "d" {
		t.Errorf("nil = %q", got)
	}
	if got := action.StringParam(p, "missing", "d"); got != "d" {
		t.Errorf("missing = %q", got)
	}
}

func TestFloatParam(t *testing.T) {
	p := map[string]any{"f": 1.5, "s": " 2.25 ", "j": json.Number("4"), "bad": "soon"}
	tests := []struct {
		key  string
		want float64
	}{
		{"f", 1.5}, {"s", 2.25}, {"j", 4}, {"missing", 9},
	}
	for _, tt := range tests {
		got, err := action.FloatParam(p, tt.key, 9)
		if err != nil || got != tt.want {
			t.Errorf("FloatParam(%q) = %v, %v; want %v", tt.key, got, err, tt.want)
		}
	}
	if _, err := action.FloatParam(p, "bad", 0); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestIntAndBoolParam(t *testing.T) {
	p := map[string]any{"i": float64(7), "s": "8", "b": true, "bs": "false", "junk": []any{}}
	if got := action.IntParam(p, "i", 0); got != 7 {
		t.Errorf("i = %d", got)
	}
	if got := action.IntParam(p, "s", 0); got != 8 {
		t.Errorf("s = %d", got)
	}
	if got := action.IntParam(p, "junk", 5); got != 5 {
		t.Errorf("junk = %d", got)
	}
	if !action.BoolParam(p, "b", false) {
		t.Error("b should be true")
	}
	if action.BoolParam(p, "bs", true) {
		t.Error("bs should be false")
	}
	if !action.BoolParam(p, "missing", true) {
		t.Error("missing should use default")
	}
}

func TestPointParam(t *testing.T) {
	x, y, err := action.PointParam(map[string]any{"c": map[string]any{"x": float64(3), "y": "4"}}, "c")
	if err != nil || x != 3 || y != 4 {
		t.Errorf("PointParam = %d,%d,%v", x, y, err)
	}
	if _, _, err := action.PointParam(map[string]any{"c": map[string]any{"x": 1}}, "c"); err == nil {
		t.Error("expected error for missing y")
	}
	if _, _, err := action.PointParam(map[string]any{}, "c"); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestPairParam(t *testing.T) {
	x, y, err := action.PairParam(map[string]any{"p": []any{float64(1), float64(2)}}, "p", 0, 0)
	if err != nil || x != 1 || y != 2 {
		t.Errorf("PairParam = %d,%d,%v", x, y, err)
	}
	x, y, err = action.PairParam(map[string]any{}, "p", 5, 6)
	if err != nil || x != 5 || y != 6 {
		t.Errorf("default PairParam = %d,%d,%v", x, y, err)
	}
	if _, _, err := action.PairParam(map[string]any{"p": []any{1}}, "p", 0, 0); err == nil {
		t.Error("expected error for one element array")
	}
}
