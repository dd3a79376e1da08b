package equations

import "errors"

// ErrCausalityRequired indicates a graph with undetermined bonds.
var ErrCausalityRequired = errors.New("equations: every bond needs a causality")
