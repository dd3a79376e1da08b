package equations

import (
	"errors"
	"testing"

	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/causality"
	"github.com/san-kum/bondsim/internal/config"
)

func assigned(t *testing.T, preset string) *bond.Graph {
	t.Helper()
	g, err := config.GetPreset(preset).Graph()
	if err != nil {
		t.Fatalf("preset %s: %v", preset, err)
	}
	if _, err := causality.Assign(g); err != nil {
		t.Fatalf("assign %s: %v", preset, err)
	}
	return g
}

func generate(t *testing.T, preset string) *System {
	t.Helper()
	sys, err := Generate(NewContext(), assigned(t, preset))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return sys
}

func texts(sys *System) map[string]bool {
	out := make(map[string]bool, len(sys.Equations))
	for _, eq := range sys.Equations {
		out[eq.String()] = true
	}
	return out
}

func TestGenerateFlowSourceCircuit(t *testing.T) {
	sys := generate(t, "fig5_4")

	want := []string{
		"e_1 = e_2",
		"e_3 = e_2",
		"f_2 = f_1 - f_3",
		"f_3 = f_5",
		"f_4 = f_5",
		"e_5 = e_3 - e_4",
		"e_2 = q_2/C",
		"qdot_2 = f_2",
		"f_5 = p_5/I",
		"pdot_5 = e_5",
		"e_4 = R*f_4",
		"f_1 = SF",
	}
	got := texts(sys)
	if len(sys.Equations) != len(want) {
		t.Errorf("expected %d equations, got %d", len(want), len(sys.Equations))
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("missing equation %q", w)
		}
	}

	if len(sys.Unknowns) != len(sys.Equations) {
		t.Errorf("%d unknowns for %d equations", len(sys.Unknowns), len(sys.Equations))
	}
	if d := sys.Derivatives(); len(d) != 2 || d[0] != "qdot_2" || d[1] != "pdot_5" {
		t.Errorf("derivatives = %v", d)
	}
	if s := sys.StateNames(); s[0] != "q_2" || s[1] != "p_5" {
		t.Errorf("states = %v", s)
	}
	if len(sys.Parameters) != 3 || sys.Parameters[0] != "C" || sys.Parameters[2] != "R" {
		t.Errorf("parameters = %v", sys.Parameters)
	}
	if len(sys.Inputs) != 1 || sys.Inputs[0] != "SF" {
		t.Errorf("inputs = %v", sys.Inputs)
	}
}

func TestGenerateEquationOrigins(t *testing.T) {
	sys := generate(t, "fig5_4")
	for _, eq := range sys.Equations {
		if eq.String() != "f_2 = f_1 - f_3" {
			continue
		}
		if eq.Node != "0" {
			t.Errorf("balance attributed to %s", eq.Node)
		}
		if len(eq.Bonds) != 3 {
			t.Errorf("balance should cite all three bonds, got %v", eq.Bonds)
		}
		return
	}
	t.Fatal("0-junction balance not found")
}

func TestGenerateTwoPorts(t *testing.T) {
	tests := []struct {
		preset string
		want   []string
	}{
		{"ex03", []string{"e_11 = TF*e_10", "f_10 = TF*f_11"}},
		{"dc_motor", []string{"e_5 = GY*f_4", "e_4 = GY*f_5"}},
		{"ex02", []string{"f_6 = e_6/R_6", "e_3 = R_3*f_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			got := texts(generate(t, tt.preset))
			for _, w := range tt.want {
				if !got[w] {
					t.Errorf("missing equation %q", w)
				}
			}
		})
	}
}

func TestGenerateRequiresCausality(t *testing.T) {
	g, err := config.GetPreset("fig5_4").Graph()
	if err != nil {
		t.Fatal(err)
	}
	_, err = Generate(NewContext(), g)
	if !errors.Is(err, ErrCausalityRequired) {
		t.Errorf("expected ErrCausalityRequired, got %v", err)
	}
}

func TestGenerateRejectsBadJunction(t *testing.T) {
	g, err := bond.NewGraph([]*bond.Bond{
		bond.New(1, "SE_a", "0", true),
		bond.New(2, "SE_b", "0", true),
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range g.Bonds() {
		b.Causality = bond.SourceEffort
	}

	_, err = Generate(NewContext(), g)
	var me *bond.ModelingError
	if !errors.As(err, &me) || me.Node != "0" {
		t.Errorf("expected modeling error at 0, got %v", err)
	}
}

func TestContextInterning(t *testing.T) {
	ctx := NewContext()
	ctx.Effort(3)
	ctx.Effort(3)
	ctx.Parameter("R")
	ctx.Input("R")

	if ctx.Len() != 2 {
		t.Errorf("expected 2 symbols, got %d", ctx.Len())
	}
	s, ok := ctx.Lookup("R")
	if !ok || s.Role != RoleParameter {
		t.Errorf("first role should win, got %+v", s)
	}
	if e, _ := ctx.Lookup("e_3"); e.Bond != 3 || e.Role != RoleEffort {
		t.Errorf("unexpected effort symbol %+v", e)
	}

	ctx.Momentum(5, "I")
	ctx.MomentumRate(5, "I")
	if !RoleMomentumRate.Unknown() || RoleMomentum.Unknown() {
		t.Error("rates are unknowns, states are not")
	}
	if names := ctx.Names(RoleMomentum, RoleMomentumRate); len(names) != 2 || names[0] != "p_5" {
		t.Errorf("names = %v", names)
	}
	if all := ctx.Symbols(); len(all) != 4 || all[0].Name != "e_3" {
		t.Errorf("symbols out of registration order: %v", all)
	}
}
