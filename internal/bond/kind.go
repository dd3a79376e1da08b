package bond

import "strings"

// Kind is the closed set of node types a bond endpoint can attach to.
type Kind int

const (
	KindUnknown Kind = iota
	KindSE
	KindSF
	KindR
	KindI
	KindC
	KindTF
	KindGY
	KindZero
	KindOne
)

var kindPrefixes = map[string]Kind{
	"SE": KindSE,
	"SF": KindSF,
	"R":  KindR,
	"I":  KindI,
	"C":  KindC,
	"TF": KindTF,
	"GY": KindGY,
	"0":  KindZero,
	"1":  KindOne,
}

// ParseKind derives the node kind from the text before the first '_' of a
// node name. A name without '_' is its own prefix ("SE", "0", "C").
func ParseKind(name string) Kind {
	prefix, _, _ := strings.Cut(name, "_")
	if k, ok := kindPrefixes[prefix]; ok {
		return k
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindSE:
		return "SE"
	case KindSF:
		return "SF"
	case KindR:
		return "R"
	case KindI:
		return "I"
	case KindC:
		return "C"
	case KindTF:
		return "TF"
	case KindGY:
		return "GY"
	case KindZero:
		return "0"
	case KindOne:
		return "1"
	default:
		return "?"
	}
}

func (k Kind) IsSource() bool   { return k == KindSE || k == KindSF }
func (k Kind) IsStorage() bool  { return k == KindI || k == KindC }
func (k Kind) IsJunction() bool { return k == KindZero || k == KindOne }
func (k Kind) IsTwoPort() bool  { return k == KindTF || k == KindGY }

// IsOnePort reports whether the kind is an element that attaches to exactly
// one bond.
func (k Kind) IsOnePort() bool {
	return k.IsSource() || k.IsStorage() || k == KindR
}

// Constrained reports whether the kind relates the causality of several
// bonds and therefore takes part in propagation.
func (k Kind) Constrained() bool { return k.IsJunction() || k.IsTwoPort() }

// Endpoint is a named node with its kind resolved once at construction.
type Endpoint struct {
	Name string
	Kind Kind
}

func NewEndpoint(name string) Endpoint {
	return Endpoint{Name: name, Kind: ParseKind(name)}
}

func (e Endpoint) String() string { return e.Name }
