package bond

import "fmt"

// Causality records which endpoint of a bond computes effort. The other
// endpoint computes flow.
type Causality int

const (
	Undetermined Causality = iota
	SourceEffort
	DestEffort
)

func (c Causality) String() string {
	switch c {
	case SourceEffort:
		return "source_effort"
	case DestEffort:
		return "dest_effort"
	default:
		return "undetermined"
	}
}

// ParseCausality accepts the String form. The empty string is Undetermined.
func ParseCausality(s string) (Causality, error) {
	switch s {
	case "", "undetermined":
		return Undetermined, nil
	case "source_effort":
		return SourceEffort, nil
	case "dest_effort":
		return DestEffort, nil
	}
	return Undetermined, fmt.Errorf("unknown causality %q", s)
}

// Bond is a numbered power connection between two nodes. Topology is fixed at
// construction; only the causality mark changes.
type Bond struct {
	Number      int
	Source      Endpoint
	Dest        Endpoint
	PowerToDest bool
	Causality   Causality
}

func New(number int, source, dest string, powerToDest bool) *Bond {
	return &Bond{
		Number:      number,
		Source:      NewEndpoint(source),
		Dest:        NewEndpoint(dest),
		PowerToDest: powerToDest,
	}
}

func (b *Bond) Determined() bool { return b.Causality != Undetermined }

// Touches reports whether node is one of the bond's endpoints.
func (b *Bond) Touches(node string) bool {
	return b.Source.Name == node || b.Dest.Name == node
}

// Other returns the endpoint opposite node.
func (b *Bond) Other(node string) Endpoint {
	if b.Source.Name == node {
		return b.Dest
	}
	return b.Source
}

// At returns the endpoint named node.
func (b *Bond) At(node string) Endpoint {
	if b.Source.Name == node {
		return b.Source
	}
	return b.Dest
}

// EffortAt reports whether node computes effort on this bond.
func (b *Bond) EffortAt(node string) bool {
	switch b.Causality {
	case SourceEffort:
		return b.Source.Name == node
	case DestEffort:
		return b.Dest.Name == node
	}
	return false
}

// FlowAt reports whether node computes flow on this bond.
func (b *Bond) FlowAt(node string) bool {
	return b.Determined() && b.Touches(node) && !b.EffortAt(node)
}

// EffortCausality returns the causality value that makes node the effort side.
func (b *Bond) EffortCausality(node string) Causality {
	if b.Source.Name == node {
		return SourceEffort
	}
	return DestEffort
}

// FlowCausality returns the causality value that makes node the flow side.
func (b *Bond) FlowCausality(node string) Causality {
	if b.Source.Name == node {
		return DestEffort
	}
	return SourceEffort
}

// PowerInto reports whether positive power flows into node along the bond.
func (b *Bond) PowerInto(node string) bool {
	if b.Dest.Name == node {
		return b.PowerToDest
	}
	return !b.PowerToDest
}

// SetCausality fixes the causality mark. Setting the value already held is a
// no-op; replacing a different determined value fails.
func (b *Bond) SetCausality(c Causality) error {
	if c == Undetermined {
		return fmt.Errorf("bond %d: %w: cannot set undetermined", b.Number, ErrInvalidBond)
	}
	if b.Causality == c {
		return nil
	}
	if b.Determined() {
		return fmt.Errorf("bond %d is %s: %w", b.Number, b.Causality, ErrCausalityConflict)
	}
	b.Causality = c
	return nil
}

// ClearCausality resets the mark to Undetermined.
func (b *Bond) ClearCausality() { b.Causality = Undetermined }

func (b *Bond) Clone() *Bond {
	c := *b
	return &c
}

func (b *Bond) String() string {
	return fmt.Sprintf("%2d: %-10s -> %-10s [power_to_dest=%t] [%s]",
		b.Number, b.Source.Name, b.Dest.Name, b.PowerToDest, b.Causality)
}
