package bond

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain errors for bond graph operations.
var (
	// ErrStructural indicates an over- or under-constrained model: a junction
	// or two-port whose bonds cannot all be satisfied.
	ErrStructural = errors.New("bondgraph: structural modeling error")

	// ErrInvalidBond indicates a bond with a bad number or endpoints.
	ErrInvalidBond = errors.New("bondgraph: invalid bond")

	// ErrDuplicateBond indicates two bonds sharing a number.
	ErrDuplicateBond = errors.New("bondgraph: duplicate bond number")

	// ErrCausalityConflict indicates an attempt to overwrite a determined causality.
	ErrCausalityConflict = errors.New("bondgraph: causality already determined")

	// ErrUnknownNode indicates a lookup of a node that no bond touches.
	ErrUnknownNode = errors.New("bondgraph: unknown node")
)

// ModelingError wraps ErrStructural with the offending node and bonds.
type ModelingError struct {
	Node   string
	Bonds  []int
	Reason string
}

func (e *ModelingError) Error() string {
	nums := make([]string, len(e.Bonds))
	for i, n := range e.Bonds {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("node %s (bonds %s): %s", e.Node, strings.Join(nums, ", "), e.Reason)
}

func (e *ModelingError) Unwrap() error {
	return ErrStructural
}
