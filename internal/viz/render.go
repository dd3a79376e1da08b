package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/bondsim/internal/analysis"
	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/causality"
	"github.com/san-kum/bondsim/internal/derive"
)

// Link draws a bond with its half-arrow on the end power flows to and the
// causal stroke on the end that receives effort.
func Link(b *bond.Bond) string {
	body := "──────"
	if b.PowerToDest {
		body += "⇀"
	} else {
		body = "↽" + body
	}
	switch b.Causality {
	case bond.SourceEffort:
		return body + "|"
	case bond.DestEffort:
		return "|" + body
	}
	return " " + body + " "
}

func RenderBonds(g *bond.Graph) string {
	var sb strings.Builder
	for _, b := range g.Bonds() {
		c := b.Causality.String()
		style := valueStyle()
		if !b.Determined() {
			style = statusStyle(CurrentTheme.Warning)
		}
		sb.WriteString(fmt.Sprintf("%s %s %s %s  %s\n",
			labelStyle().Render(fmt.Sprintf("%3d", b.Number)),
			valueStyle().Render(fmt.Sprintf("%-8s", b.Source.Name)),
			accentStyle().Render(Link(b)),
			valueStyle().Render(fmt.Sprintf("%-8s", b.Dest.Name)),
			style.Render(c)))
	}
	return sb.String()
}

func RenderDiagnostics(res *causality.Result) string {
	if res == nil || len(res.Diagnostics) == 0 {
		return subtleStyle().Render("no diagnostics") + "\n"
	}
	var sb strings.Builder
	for _, d := range res.Diagnostics {
		color := CurrentTheme.Warning
		if d.Kind == causality.Incomplete || d.Kind == causality.UnknownKind {
			color = CurrentTheme.Error
		}
		sb.WriteString(statusStyle(color).Render("! ") + d.String() + "\n")
	}
	return sb.String()
}

// RenderPartial shows how far assignment got before it stopped: the bond
// table and any diagnostics gathered on the way.
func RenderPartial(g *bond.Graph, res *causality.Result) string {
	var sb strings.Builder
	sb.WriteString(RenderBonds(g))
	if res != nil && len(res.Diagnostics) > 0 {
		sb.WriteString(RenderDiagnostics(res))
	}
	return sb.String()
}

// RenderEquations lists every generated equation with its node.
func RenderEquations(d *derive.Derivation) string {
	if d.System == nil {
		return ""
	}
	var sb strings.Builder
	for _, eq := range d.System.Equations {
		sb.WriteString(labelStyle().Render(fmt.Sprintf("%-8s", eq.Node)) + " " + eq.String() + "\n")
	}
	return sb.String()
}

// RenderReport shows the state equations and, with all set, the solved
// efforts and flows.
func RenderReport(d *derive.Derivation, all bool) string {
	if d.Report == nil {
		return ""
	}
	var sb strings.Builder
	for _, s := range d.Report.States {
		mark := statusStyle(CurrentTheme.Success).Render("✓")
		if !s.Resolved {
			mark = statusStyle(CurrentTheme.Error).Render("✗")
		}
		sb.WriteString(mark + " " + valueStyle().Render(s.Text) + "\n")
	}
	if all && len(d.Report.Auxiliary) > 0 {
		sb.WriteString("\n")
		for _, a := range d.Report.Auxiliary {
			sb.WriteString("  " + labelStyle().Render(a.Text) + "\n")
		}
	}
	return sb.String()
}

// RenderSummary prints the per-pass counts of a causality run.
func RenderSummary(res *causality.Result) string {
	passes := []causality.Pass{
		causality.PassPreset,
		causality.PassForced,
		causality.PassStorage,
		causality.PassDissipative,
		causality.PassFallback,
	}
	var parts []string
	for _, p := range passes {
		parts = append(parts, labelStyle().Render(p.String()+" ")+valueStyle().Render(fmt.Sprint(res.Assigned[p])))
	}
	if res.UsedDefaults() {
		parts = append(parts, statusStyle(CurrentTheme.Warning).Render("default causality used"))
	}
	return strings.Join(parts, "  ") + "\n"
}

func RenderModes(modes []analysis.Mode) string {
	var sb strings.Builder
	for _, m := range modes {
		style := statusStyle(CurrentTheme.Success)
		if real(m.Value) >= 0 {
			style = statusStyle(CurrentTheme.Error)
		}
		sb.WriteString(fmt.Sprintf("%s  %s %s  %s %s\n",
			style.Render(fmt.Sprintf("%10.4f %+10.4fi", real(m.Value), imag(m.Value))),
			labelStyle().Render("ωn"),
			valueStyle().Render(fmt.Sprintf("%9.4f", m.NaturalFreq)),
			labelStyle().Render("ζ"),
			valueStyle().Render(fmt.Sprintf("%7.4f", m.DampingRatio))))
	}
	return sb.String()
}
