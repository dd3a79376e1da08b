package derive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/causality"
	"github.com/san-kum/bondsim/internal/equations"
	"github.com/san-kum/bondsim/internal/solver"
)

type Options struct {
	Causality causality.Options
	Solver    solver.Solver
	Logger    *slog.Logger
}

// Derivation is everything produced for one graph.
type Derivation struct {
	Graph     *bond.Graph
	Causality *causality.Result
	Context   *equations.Context
	System    *equations.System
	Report    *solver.Report
}

// Run assigns causality on a copy of g, generates its equations and solves
// them for the state derivatives. g itself is left untouched. ctx is checked
// between stages.
func Run(ctx context.Context, g *bond.Graph, opts Options) (*Derivation, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Causality.Logger == nil {
		opts.Causality.Logger = log
	}

	d := &Derivation{Graph: g.Clone()}

	res, err := causality.New(opts.Causality).Assign(d.Graph)
	d.Causality = res
	if err != nil {
		return d, fmt.Errorf("assign causality: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return d, err
	}

	d.Context = equations.NewContext()
	d.System, err = equations.Generate(d.Context, d.Graph)
	if err != nil {
		return d, fmt.Errorf("generate equations: %w", err)
	}
	log.Debug("equations generated",
		slog.Int("equations", len(d.System.Equations)),
		slog.Int("unknowns", len(d.System.Unknowns)),
		slog.Int("states", len(d.System.States)))
	if err := ctx.Err(); err != nil {
		return d, err
	}

	d.Report, err = solver.Resolve(d.System, opts.Solver)
	if err != nil {
		return d, err
	}
	for _, s := range d.Report.Unresolved() {
		log.Warn("state derivative not found", slog.String("derivative", s.Derivative))
	}
	return d, nil
}

// Batch derives independent graphs concurrently. Each graph gets its own
// symbol context. Results are in input order; the first error is returned.
func Batch(ctx context.Context, graphs []*bond.Graph, opts Options) ([]*Derivation, error) {
	results := make([]*Derivation, len(graphs))
	errs := make([]error, len(graphs))

	var wg sync.WaitGroup
	for i, g := range graphs {
		wg.Add(1)
		go func(idx int, g *bond.Graph) {
			defer wg.Done()
			results[idx], errs[idx] = Run(ctx, g, opts)
		}(i, g)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("graph %d: %w", i, err)
		}
	}
	return results, nil
}
