package causality

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/config"
)

const (
	se = bond.SourceEffort
	de = bond.DestEffort
)

func presetGraph(name string) *bond.Graph {
	cfg := config.GetPreset(name)
	gomega.Expect(cfg).NotTo(gomega.BeNil(), "preset %s", name)
	g, err := cfg.Graph()
	gomega.Expect(err).To(gomega.Succeed())
	return g
}

func mustGraph(bonds ...*bond.Bond) *bond.Graph {
	g, err := bond.NewGraph(bonds)
	gomega.Expect(err).To(gomega.Succeed())
	return g
}

// strongCount counts the bonds on which a junction supplies its shared
// variable.
func strongCount(g *bond.Graph, node bond.Endpoint) int {
	n := 0
	for _, b := range g.Incident(node.Name) {
		if isStrong(node, b) {
			n++
		}
	}
	return n
}

func expectIntegral(res *Result) {
	gomega.Expect(res.Of(DerivativeCausality)).To(gomega.BeEmpty())
	gomega.Expect(res.UsedDefaults()).To(gomega.BeFalse())
	gomega.Expect(res.Complete()).To(gomega.BeTrue())
}

var _ = ginkgo.Describe("Assign", func() {
	ginkgo.It("propagates a lone effort source into an inertance", func() {
		g := presetGraph("inertia")
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		gomega.Expect(g.Causalities()).To(gomega.Equal(map[int]bond.Causality{1: se, 2: se}))
		gomega.Expect(res.Assigned[PassForced]).To(gomega.Equal(2))
		gomega.Expect(res.Total()).To(gomega.Equal(2))
		expectIntegral(res)
	})

	ginkgo.It("gives the flow-source circuit integral causality", func() {
		g := presetGraph("fig5_4")
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		gomega.Expect(g.Causalities()).To(gomega.Equal(map[int]bond.Causality{
			1: de, 2: se, 3: se, 4: de, 5: se,
		}))
		gomega.Expect(res.Assigned[PassForced]).To(gomega.Equal(1))
		gomega.Expect(res.Assigned[PassStorage]).To(gomega.Equal(4))
		expectIntegral(res)
	})

	ginkgo.It("passes effort through a transformer on one side only", func() {
		g := presetGraph("ex03")
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		gomega.Expect(g.Causalities()).To(gomega.Equal(map[int]bond.Causality{
			1: se, 2: se, 3: de, 4: de, 5: se, 6: de,
			7: de, 8: se, 9: de, 10: se, 11: se,
		}))
		tf, err := g.Node("TF")
		gomega.Expect(err).To(gomega.Succeed())
		b10, _ := g.Bond(10)
		b11, _ := g.Bond(11)
		gomega.Expect(twoPortConsistent(tf, b10, b11)).To(gomega.BeTrue())
		expectIntegral(res)
	})

	ginkgo.It("crosses effort through a gyrator", func() {
		g := presetGraph("dc_motor")
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		gomega.Expect(g.Causalities()).To(gomega.Equal(map[int]bond.Causality{
			1: se, 2: de, 3: se, 4: de, 5: se, 6: se, 7: de,
		}))
		b4, _ := g.Bond(4)
		b5, _ := g.Bond(5)
		gomega.Expect(b4.EffortAt("GY")).To(gomega.BeTrue())
		gomega.Expect(b5.EffortAt("GY")).To(gomega.BeTrue())
		expectIntegral(res)
	})

	ginkgo.DescribeTable("leaves every junction with one strong bond",
		func(name string) {
			g := presetGraph(name)
			res, err := Assign(g)
			gomega.Expect(err).To(gomega.Succeed())
			gomega.Expect(g.Complete()).To(gomega.BeTrue())
			for _, n := range g.Nodes() {
				if n.Kind.IsJunction() {
					gomega.Expect(strongCount(g, n)).To(gomega.Equal(1), "junction %s", n.Name)
				}
			}
			expectIntegral(res)
		},
		ginkgo.Entry("fig5_5", "fig5_5"),
		ginkgo.Entry("fig5_6", "fig5_6"),
		ginkgo.Entry("ex02", "ex02"),
		ginkgo.Entry("quarter_car", "quarter_car"),
	)

	ginkgo.It("reports two effort sources fighting over a 0-junction", func() {
		g := presetGraph("conflict")
		_, err := Assign(g)
		gomega.Expect(errors.Is(err, bond.ErrStructural)).To(gomega.BeTrue())

		var me *bond.ModelingError
		gomega.Expect(errors.As(err, &me)).To(gomega.BeTrue())
		gomega.Expect(me.Node).To(gomega.Equal("0"))
		gomega.Expect(me.Bonds).To(gomega.Equal([]int{1, 2}))
	})

	ginkgo.It("rejects a preset that contradicts a source", func() {
		b := bond.New(1, "SE", "1", true)
		b.Causality = de
		g := mustGraph(b, bond.New(2, "1", "I", true))

		_, err := Assign(g)
		var me *bond.ModelingError
		gomega.Expect(errors.As(err, &me)).To(gomega.BeTrue())
		gomega.Expect(me.Node).To(gomega.Equal("SE"))
	})

	ginkgo.DescribeTable("rejects sources that break a coupling",
		func(bonds []*bond.Bond, node, reason string) {
			_, err := Assign(mustGraph(bonds...))
			gomega.Expect(errors.Is(err, bond.ErrStructural)).To(gomega.BeTrue())

			var me *bond.ModelingError
			gomega.Expect(errors.As(err, &me)).To(gomega.BeTrue())
			gomega.Expect(me.Node).To(gomega.Equal(node))
			gomega.Expect(me.Bonds).To(gomega.Equal([]int{1, 2}))
			gomega.Expect(me.Reason).To(gomega.Equal(reason))
		},
		ginkgo.Entry("transformer between two effort sources",
			[]*bond.Bond{bond.New(1, "SE_a", "TF", true), bond.New(2, "TF", "SE_b", true)},
			"TF", "transformer must compute effort on exactly one bond"),
		ginkgo.Entry("gyrator between an effort and a flow source",
			[]*bond.Bond{bond.New(1, "SE", "GY", true), bond.New(2, "GY", "SF", true)},
			"GY", "gyrator must compute the same variable on both bonds"),
		ginkgo.Entry("0-junction fed only by flow sources",
			[]*bond.Bond{bond.New(1, "SF_a", "0", true), bond.New(2, "SF_b", "0", true)},
			"0", "no strong bond"),
	)

	ginkgo.It("keeps consistent presets and counts nothing new", func() {
		g := presetGraph("fig5_4")
		_, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())
		before := g.Causalities()

		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(g.Causalities()).To(gomega.Equal(before))
		gomega.Expect(res.Total()).To(gomega.BeZero())
	})

	ginkgo.It("flags storage forced into derivative causality", func() {
		g := mustGraph(
			bond.New(1, "SE", "1", true),
			bond.New(2, "1", "I_a", true),
			bond.New(3, "1", "I_b", true),
		)
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		diags := res.Of(DerivativeCausality)
		gomega.Expect(diags).To(gomega.HaveLen(1))
		gomega.Expect(diags[0].Bond).To(gomega.Equal(3))
		gomega.Expect(diags[0].Node).To(gomega.Equal("I_b"))
	})

	ginkgo.It("notes names with no known prefix", func() {
		g := mustGraph(
			bond.New(1, "SE", "1", true),
			bond.New(2, "1", "I", true),
			bond.New(3, "1", "X_load", true),
		)
		res, err := Assign(g)
		gomega.Expect(err).To(gomega.Succeed())

		diags := res.Of(UnknownKind)
		gomega.Expect(diags).To(gomega.HaveLen(1))
		gomega.Expect(diags[0].Node).To(gomega.Equal("X_load"))
		gomega.Expect(g.Complete()).To(gomega.BeTrue())
	})

	ginkgo.Context("when no rule reaches a bond", func() {
		loop := func() *bond.Graph {
			return mustGraph(
				bond.New(1, "0_a", "1_a", true),
				bond.New(2, "1_a", "0_a", true),
			)
		}

		ginkgo.It("defaults it and says so", func() {
			g := loop()
			res, err := Assign(g)
			gomega.Expect(err).To(gomega.Succeed())

			gomega.Expect(g.Causalities()).To(gomega.Equal(map[int]bond.Causality{1: se, 2: se}))
			gomega.Expect(res.UsedDefaults()).To(gomega.BeTrue())
			gomega.Expect(res.Of(DefaultAssignment)).To(gomega.HaveLen(1))
			gomega.Expect(res.Assigned[PassFallback]).To(gomega.Equal(2))
		})

		ginkgo.It("reports it incomplete with the fallback disabled", func() {
			g := loop()
			res, err := New(Options{DisableFallback: true}).Assign(g)
			gomega.Expect(err).To(gomega.Succeed())

			gomega.Expect(res.Complete()).To(gomega.BeFalse())
			gomega.Expect(res.Of(Incomplete)).To(gomega.HaveLen(2))
			gomega.Expect(g.Undetermined()).To(gomega.HaveLen(2))
		})
	})
})

var _ = ginkgo.Describe("Diagnostic", func() {
	ginkgo.It("formats bond and node findings", func() {
		d := Diagnostic{Kind: DefaultAssignment, Bond: 4, Node: "0->1", Message: "defaulted"}
		gomega.Expect(d.String()).To(gomega.Equal("default-assignment: bond 4 (0->1): defaulted"))

		d = Diagnostic{Kind: UnknownKind, Node: "X", Message: "unknown"}
		gomega.Expect(d.String()).To(gomega.Equal("unknown-kind: X: unknown"))
	})

	ginkgo.It("names every pass", func() {
		gomega.Expect(PassStorage.String()).To(gomega.Equal("storage"))
		gomega.Expect(Pass(9).String()).To(gomega.Equal("pass(9)"))
	})
})
