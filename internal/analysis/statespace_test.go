package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/bondsim/internal/config"
	"github.com/san-kum/bondsim/internal/derive"
)

func stateSpace(t *testing.T, preset string) (*Symbolic, *StateSpace) {
	t.Helper()
	cfg := config.GetPreset(preset)
	g, err := cfg.Graph()
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	d, err := derive.Run(context.Background(), g, derive.Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	sym, err := Extract(d.System, d.Report)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	ss, err := sym.Eval(cfg.Params)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return sym, ss
}

func TestExtract_Inertia(t *testing.T) {
	sym, ss := stateSpace(t, "inertia")

	if len(sym.States) != 1 || sym.States[0] != "p_2" {
		t.Fatalf("unexpected states %v", sym.States)
	}
	if len(sym.Inputs) != 1 || sym.Inputs[0] != "SE" {
		t.Fatalf("unexpected inputs %v", sym.Inputs)
	}
	if !sym.A[0][0].IsZero() {
		t.Errorf("expected A = 0, got %s", sym.A[0][0])
	}
	if ss.B.At(0, 0) != 1 {
		t.Errorf("expected B = 1, got %f", ss.B.At(0, 0))
	}
}

func TestEval_Fig54(t *testing.T) {
	_, ss := stateSpace(t, "fig5_4")

	// states q_2, p_5 with C=0.5, R=2, I=1
	want := [][]float64{{0, -1}, {2, -2}}
	for i := range want {
		for j := range want[i] {
			if got := ss.A.At(i, j); math.Abs(got-want[i][j]) > 1e-12 {
				t.Errorf("A[%d,%d] = %f, want %f", i, j, got, want[i][j])
			}
		}
	}
	if ss.B.At(0, 0) != 1 || ss.B.At(1, 0) != 0 {
		t.Errorf("unexpected B column: %f, %f", ss.B.At(0, 0), ss.B.At(1, 0))
	}
}

func TestStable(t *testing.T) {
	tests := []struct {
		preset string
		stable bool
	}{
		{"fig5_4", true},
		{"inertia", false},
		{"ex02", true},
	}

	for _, tt := range tests {
		_, ss := stateSpace(t, tt.preset)
		got, err := ss.Stable()
		if err != nil {
			t.Fatalf("%s: %v", tt.preset, err)
		}
		if got != tt.stable {
			t.Errorf("%s: expected stable=%v, got %v", tt.preset, tt.stable, got)
		}
	}
}

func TestModes_Fig54(t *testing.T) {
	_, ss := stateSpace(t, "fig5_4")
	modes, err := ss.Modes()
	if err != nil {
		t.Fatal(err)
	}
	if len(modes) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(modes))
	}
	for _, m := range modes {
		if math.Abs(real(m.Value)+1) > 1e-9 || math.Abs(math.Abs(imag(m.Value))-1) > 1e-9 {
			t.Errorf("expected -1±1i, got %v", m.Value)
		}
		if math.Abs(m.NaturalFreq-math.Sqrt2) > 1e-9 {
			t.Errorf("expected natural frequency sqrt(2), got %f", m.NaturalFreq)
		}
		if math.Abs(m.DampingRatio-1/math.Sqrt2) > 1e-9 {
			t.Errorf("expected damping 1/sqrt(2), got %f", m.DampingRatio)
		}
	}
}

func TestEval_MissingParameter(t *testing.T) {
	sym, _ := stateSpace(t, "fig5_4")
	if _, err := sym.Eval(map[string]float64{"SF": 1}); err == nil {
		t.Error("expected error for missing parameters")
	}
}

func TestExtract_NoStates(t *testing.T) {
	g, err := config.GetPreset("conflict").Graph()
	if err != nil {
		t.Fatal(err)
	}
	d, err := derive.Run(context.Background(), g, derive.Options{})
	if err == nil {
		t.Fatal("expected conflict to fail")
	}
	if d.System != nil {
		t.Fatal("no system should be generated after a structural error")
	}

	cfg := config.DefaultConfig()
	cfg.Bonds = []config.BondConfig{{Number: 1, From: "SE", To: "R"}}
	g, err = cfg.Graph()
	if err != nil {
		t.Fatal(err)
	}
	d, err = derive.Run(context.Background(), g, derive.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Extract(d.System, d.Report); !errors.Is(err, ErrNoStates) {
		t.Errorf("expected ErrNoStates, got %v", err)
	}
}
