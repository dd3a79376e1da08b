package causality

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/bondsim/internal/bond"
)

type Options struct {
	// DisableFallback skips the arbitrary pass so that uncovered bonds are
	// reported as Incomplete instead of being given a default.
	DisableFallback bool
	Logger          *slog.Logger
}

type Engine struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{opts: opts, log: log}
}

// Assign runs the engine with default options.
func Assign(g *bond.Graph) (*Result, error) {
	return New(Options{}).Assign(g)
}

// Assign fixes the causality of every bond in g in place. Bonds that are
// already determined are kept and propagated first. A structural modeling
// error aborts the run and leaves g partially assigned.
func (e *Engine) Assign(g *bond.Graph) (*Result, error) {
	r := &run{
		g:      g,
		log:    e.log,
		res:    newResult(),
		queued: make(map[string]bool),
	}

	r.noteUnknownKinds()

	steps := []struct {
		pass Pass
		fn   func() error
	}{
		{PassPreset, r.presetPass},
		{PassForced, r.forcedPass},
		{PassStorage, r.storagePass},
		{PassDissipative, r.dissipativePass},
	}
	if !e.opts.DisableFallback {
		steps = append(steps, struct {
			pass Pass
			fn   func() error
		}{PassFallback, r.fallbackPass})
	}

	for _, s := range steps {
		r.pass = s.pass
		if err := s.fn(); err != nil {
			e.log.Error("causality assignment aborted",
				slog.String("pass", s.pass.String()),
				slog.String("error", err.Error()))
			return r.res, err
		}
		e.log.Debug("causality pass done",
			slog.String("pass", s.pass.String()),
			slog.Int("assigned", r.res.Assigned[s.pass]))
	}

	for _, b := range g.Undetermined() {
		r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
			Kind:    Incomplete,
			Bond:    b.Number,
			Node:    b.Source.Name + "->" + b.Dest.Name,
			Message: "no rule determined this bond",
		})
		e.log.Warn("bond left undetermined", slog.Int("bond", b.Number))
	}

	if err := r.verify(); err != nil {
		return r.res, err
	}
	r.noteDerivativeCausality()
	return r.res, nil
}

type run struct {
	g      *bond.Graph
	log    *slog.Logger
	res    *Result
	pass   Pass
	queue  []string
	queued map[string]bool
}

func (r *run) set(b *bond.Bond, c bond.Causality) error {
	if b.Causality == c {
		return nil
	}
	if err := b.SetCausality(c); err != nil {
		return err
	}
	r.res.Assigned[r.pass]++
	r.log.Debug("causality set",
		slog.Int("bond", b.Number),
		slog.String("causality", c.String()),
		slog.String("pass", r.pass.String()))
	r.enqueue(b.Source)
	r.enqueue(b.Dest)
	return nil
}

func (r *run) enqueue(ep bond.Endpoint) {
	if !ep.Kind.Constrained() || r.queued[ep.Name] {
		return
	}
	r.queued[ep.Name] = true
	r.queue = append(r.queue, ep.Name)
}

// drain visits queued junctions and two-ports until no bond changes.
func (r *run) drain() error {
	for len(r.queue) > 0 {
		name := r.queue[0]
		r.queue = r.queue[1:]
		r.queued[name] = false

		node, err := r.g.Node(name)
		if err != nil {
			return err
		}
		switch {
		case node.Kind.IsJunction():
			err = r.visitJunction(node)
		case node.Kind.IsTwoPort():
			err = r.visitTwoPort(node)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// seed assigns one bond and propagates to a fixed point before returning.
func (r *run) seed(b *bond.Bond, c bond.Causality) error {
	if err := r.set(b, c); err != nil {
		return err
	}
	return r.drain()
}

func (r *run) presetPass() error {
	for _, b := range r.g.Bonds() {
		if b.Determined() {
			r.enqueue(b.Source)
			r.enqueue(b.Dest)
		}
	}
	return r.drain()
}

// forcedPass marks every source bond before propagating, so two sources
// fighting over one junction are reported at that junction.
func (r *run) forcedPass() error {
	for _, b := range r.g.Bonds() {
		for _, ep := range []bond.Endpoint{b.Source, b.Dest} {
			var want bond.Causality
			switch ep.Kind {
			case bond.KindSE:
				want = b.EffortCausality(ep.Name)
			case bond.KindSF:
				want = b.FlowCausality(ep.Name)
			default:
				continue
			}
			if b.Determined() && b.Causality != want {
				return &bond.ModelingError{
					Node:   ep.Name,
					Bonds:  []int{b.Number},
					Reason: fmt.Sprintf("source requires %s but bond is %s", want, b.Causality),
				}
			}
			if err := r.set(b, want); err != nil {
				return err
			}
		}
	}
	return r.drain()
}

// storagePass gives I elements flow-out and C elements effort-out causality
// where propagation has not already decided.
func (r *run) storagePass() error {
	for _, b := range r.g.Bonds() {
		if b.Determined() {
			continue
		}
		for _, ep := range []bond.Endpoint{b.Source, b.Dest} {
			want, ok := preferred(b, ep)
			if !ok {
				continue
			}
			if err := r.seed(b, want); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (r *run) dissipativePass() error {
	for _, b := range r.g.Bonds() {
		if b.Determined() {
			continue
		}
		if b.Source.Kind != bond.KindR && b.Dest.Kind != bond.KindR {
			continue
		}
		if err := r.seed(b, bond.SourceEffort); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) fallbackPass() error {
	for _, b := range r.g.Bonds() {
		if b.Determined() {
			continue
		}
		r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
			Kind:    DefaultAssignment,
			Bond:    b.Number,
			Node:    b.Source.Name + "->" + b.Dest.Name,
			Message: "no rule applied, defaulted to " + bond.SourceEffort.String(),
		})
		r.log.Warn("default causality used",
			slog.Int("bond", b.Number),
			slog.String("causality", bond.SourceEffort.String()))
		if err := r.seed(b, bond.SourceEffort); err != nil {
			return err
		}
	}
	return nil
}

func preferred(b *bond.Bond, ep bond.Endpoint) (bond.Causality, bool) {
	switch ep.Kind {
	case bond.KindI:
		return b.FlowCausality(ep.Name), true
	case bond.KindC:
		return b.EffortCausality(ep.Name), true
	}
	return bond.Undetermined, false
}

func (r *run) noteUnknownKinds() {
	for _, n := range r.g.Nodes() {
		if n.Kind != bond.KindUnknown {
			continue
		}
		r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
			Kind:    UnknownKind,
			Node:    n.Name,
			Message: "name prefix matches no element or junction type",
		})
		r.log.Warn("unknown node kind", slog.String("node", n.Name))
	}
}

func (r *run) noteDerivativeCausality() {
	for _, b := range r.g.Bonds() {
		for _, ep := range []bond.Endpoint{b.Source, b.Dest} {
			want, ok := preferred(b, ep)
			if !ok || !b.Determined() || b.Causality == want {
				continue
			}
			r.res.Diagnostics = append(r.res.Diagnostics, Diagnostic{
				Kind:    DerivativeCausality,
				Bond:    b.Number,
				Node:    ep.Name,
				Message: "storage element is in derivative causality",
			})
		}
	}
}

// verify re-checks every constrained node once all passes have run.
func (r *run) verify() error {
	for _, n := range r.g.Nodes() {
		var err error
		switch {
		case n.Kind.IsJunction():
			err = r.checkJunction(n)
		case n.Kind.IsTwoPort():
			err = r.checkTwoPort(n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
