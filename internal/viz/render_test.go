package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bondsim/internal/analysis"
	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/config"
	"github.com/san-kum/bondsim/internal/derive"
)

func TestLink(t *testing.T) {
	tests := []struct {
		power bool
		c     bond.Causality
		want  string
	}{
		{true, bond.SourceEffort, "──────⇀|"},
		{true, bond.DestEffort, "|──────⇀"},
		{false, bond.SourceEffort, "↽──────|"},
		{true, bond.Undetermined, " ──────⇀ "},
	}

	for _, tt := range tests {
		b := bond.New(1, "SE", "1", tt.power)
		b.Causality = tt.c
		if got := Link(b); got != tt.want {
			t.Errorf("power=%v %s: got %q, want %q", tt.power, tt.c, got, tt.want)
		}
	}
}

func derivation(t *testing.T, preset string) *derive.Derivation {
	t.Helper()
	g, err := config.GetPreset(preset).Graph()
	if err != nil {
		t.Fatal(err)
	}
	d, err := derive.Run(context.Background(), g, derive.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRenderReport(t *testing.T) {
	d := derivation(t, "fig5_4")
	out := RenderReport(d, false)
	for _, want := range []string{"qdot_2 = SF - p_5/I", "pdot_5 = q_2/C - R*p_5/I"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "f_1 =") {
		t.Error("auxiliary solutions shown without all")
	}
	if !strings.Contains(RenderReport(d, true), "f_1 = SF") {
		t.Error("auxiliary solutions missing with all")
	}
}

func TestRenderBonds(t *testing.T) {
	d := derivation(t, "fig5_4")
	out := RenderBonds(d.Graph)
	if got := strings.Count(out, "\n"); got != 5 {
		t.Errorf("expected 5 lines, got %d", got)
	}
	if strings.Contains(out, bond.Undetermined.String()) {
		t.Error("assigned graph rendered with undetermined bonds")
	}
}

func TestRenderSummary(t *testing.T) {
	d := derivation(t, "fig5_4")
	out := RenderSummary(d.Causality)
	if !strings.Contains(out, "storage 4") || !strings.Contains(out, "forced 1") {
		t.Errorf("unexpected summary: %s", out)
	}
	if strings.Contains(out, "default") {
		t.Error("fig5_4 needs no default causality")
	}
}

func TestPlotResponse(t *testing.T) {
	points := []analysis.Point{{Freq: 0.1, DB: 0}, {Freq: 1, DB: -3}, {Freq: 10, DB: -20}}
	out := PlotResponse(points, "test", 30, 5)
	if !strings.Contains(out, "test") {
		t.Errorf("caption missing:\n%s", out)
	}
	if PlotResponse(nil, "x", 30, 5) != "" {
		t.Error("expected empty plot for no points")
	}
}

func TestRenderPartial(t *testing.T) {
	g, err := bond.NewGraph([]*bond.Bond{
		bond.New(1, "SE_a", "0", true),
		bond.New(2, "SE_b", "0", true),
		bond.New(3, "0", "X_load", true),
	})
	if err != nil {
		t.Fatal(err)
	}
	d, err := derive.Run(context.Background(), g, derive.Options{})
	if err == nil {
		t.Fatal("expected two effort sources on one 0-junction to fail")
	}

	out := RenderPartial(d.Graph, d.Causality)
	for _, want := range []string{"SE_a", "SE_b", "unknown-kind", "X_load"} {
		if !strings.Contains(out, want) {
			t.Errorf("partial output missing %q:\n%s", want, out)
		}
	}

	clean := derivation(t, "inertia")
	if out := RenderPartial(clean.Graph, clean.Causality); strings.Contains(out, "diagnostics") {
		t.Errorf("expected no diagnostics section:\n%s", out)
	}
}

func TestViewerNavigation(t *testing.T) {
	m := *newViewer("fig5_4", derivation(t, "fig5_4"))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(model)
	if m.active != 1 {
		t.Errorf("expected section 1, got %d", m.active)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(model)
	if m.active != len(m.sections)-1 {
		t.Errorf("expected wrap to last section, got %d", m.active)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	if m.offset != 0 {
		t.Errorf("offset should not go negative, got %d", m.offset)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("expected quit command")
	}

	if !strings.Contains(m.View(), "FIG5_4") {
		t.Error("view missing title")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeCyberpunk.Name)

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Errorf("expected ocean, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to default")
	}
	if nextTheme(Themes[len(Themes)-1].Name).Name != Themes[0].Name {
		t.Error("theme cycle should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
