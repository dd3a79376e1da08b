package causality

import "fmt"

// Pass identifies the stage of the assignment that fixed a bond.
type Pass int

const (
	PassPreset Pass = iota
	PassForced
	PassStorage
	PassDissipative
	PassFallback
)

func (p Pass) String() string {
	switch p {
	case PassPreset:
		return "preset"
	case PassForced:
		return "forced"
	case PassStorage:
		return "storage"
	case PassDissipative:
		return "dissipative"
	case PassFallback:
		return "fallback"
	default:
		return fmt.Sprintf("pass(%d)", int(p))
	}
}

type DiagnosticKind int

const (
	// DefaultAssignment marks a bond fixed by the arbitrary fallback pass.
	DefaultAssignment DiagnosticKind = iota
	// DerivativeCausality marks a storage element that could not get its
	// preferred integral causality.
	DerivativeCausality
	// Incomplete marks a bond left undetermined after every pass ran.
	Incomplete
	// UnknownKind marks a node whose name prefix matches no element type.
	UnknownKind
)

func (k DiagnosticKind) String() string {
	switch k {
	case DefaultAssignment:
		return "default-assignment"
	case DerivativeCausality:
		return "derivative-causality"
	case Incomplete:
		return "incomplete"
	case UnknownKind:
		return "unknown-kind"
	default:
		return "diagnostic"
	}
}

// Diagnostic is a non-fatal finding. Structural errors are returned as
// errors instead.
type Diagnostic struct {
	Kind    DiagnosticKind
	Bond    int
	Node    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Bond > 0 {
		return fmt.Sprintf("%s: bond %d (%s): %s", d.Kind, d.Bond, d.Node, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Node, d.Message)
}

type Result struct {
	// Assigned counts bonds fixed during each pass, propagation included.
	Assigned    map[Pass]int
	Diagnostics []Diagnostic
}

func newResult() *Result {
	return &Result{Assigned: make(map[Pass]int)}
}

// Total is the number of bonds whose causality changed during the run.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Assigned {
		n += c
	}
	return n
}

// Of filters diagnostics by kind.
func (r *Result) Of(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (r *Result) UsedDefaults() bool { return len(r.Of(DefaultAssignment)) > 0 }

func (r *Result) Complete() bool { return len(r.Of(Incomplete)) == 0 }
