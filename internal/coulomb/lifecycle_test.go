package coulomb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coulombsim/internal/coulomb"
	"github.com/san-kum/coulombsim/internal/dynamo"
	"github.com/san-kum/coulombsim/internal/space"
)

var _ = Describe("Engine", func() {
	var (
		engine *coulomb.Engine
		events []string
	)

	BeforeEach(func() {
		events = nil
		tr, err := space.New(space.UnitReferences(), space.Mode2D)
		Expect(err).NotTo(HaveOccurred())

		engine = coulomb.New(tr, coulomb.WithMaxCharges(2), coulomb.WithHooks(coulomb.Hooks{
			ChargeAdded:      func(*coulomb.Charge) { events = append(events, "added") },
			ChargeRemoved:    func(*coulomb.Charge) { events = append(events, "removed") },
			MaxReached:       func() { events = append(events, "max") },
			BelowMax:         func() { events = append(events, "below") },
			CapacityExceeded: func(*coulomb.Charge) { events = append(events, "exceeded") },
			ModeChanged:      func(m space.Mode) { events = append(events, "mode:"+m.String()) },
		}))
	})

	Context("filling to capacity", func() {
		It("reports the limit before the add that reached it", func() {
			Expect(engine.Add(coulomb.NewCharge(dynamo.Vec3{0, 0, 0}, 1, false))).To(Succeed())
			Expect(engine.Add(coulomb.NewCharge(dynamo.Vec3{3, 0, 0}, -1, false))).To(Succeed())
			Expect(events).To(Equal([]string{"added", "max", "added"}))
		})

		It("rejects the next charge without changing anything", func() {
			Expect(engine.Add(coulomb.NewCharge(dynamo.Vec3{0, 0, 0}, 1, false))).To(Succeed())
			Expect(engine.Add(coulomb.NewCharge(dynamo.Vec3{3, 0, 0}, -1, false))).To(Succeed())

			err := engine.Add(coulomb.NewCharge(dynamo.Vec3{6, 0, 0}, 1, false))
			Expect(err).To(MatchError(dynamo.ErrCapacityExceeded))
			Expect(engine.Len()).To(Equal(2))
			Expect(events).To(HaveLen(4))
			Expect(events[3]).To(Equal("exceeded"))
		})
	})

	Context("dropping below capacity", func() {
		It("reports the edge before the removal", func() {
			a := coulomb.NewCharge(dynamo.Vec3{0, 0, 0}, 1, false)
			Expect(engine.Add(a)).To(Succeed())
			Expect(engine.Add(coulomb.NewCharge(dynamo.Vec3{3, 0, 0}, -1, false))).To(Succeed())
			events = nil

			Expect(engine.Remove(a.ID)).To(BeTrue())
			Expect(events).To(Equal([]string{"below", "removed"}))
		})
	})

	Context("while running", func() {
		var a, b *coulomb.Charge

		BeforeEach(func() {
			a = coulomb.NewCharge(dynamo.Vec3{0, 0, 0}, 1, false)
			b = coulomb.NewCharge(dynamo.Vec3{4, 0, 0}, -1, false)
			Expect(engine.Add(a)).To(Succeed())
			Expect(engine.Add(b)).To(Succeed())
			engine.SetRunning(true)
		})

		It("moves opposite charges toward each other on every tick", func() {
			updates, stepped := engine.Tick(0.1)
			Expect(stepped).To(BeTrue())
			Expect(updates).To(HaveLen(2))
			Expect(a.Position[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(b.Position[0]).To(BeNumerically("~", 3.9, 1e-12))
		})

		It("freezes every position once paused", func() {
			engine.SetRunning(false)
			_, stepped := engine.Tick(0.1)
			Expect(stepped).To(BeFalse())
			Expect(a.Position).To(Equal(dynamo.Vec3{0, 0, 0}))
		})

		It("stops and clears every charge on a mode switch", func() {
			events = nil
			Expect(engine.SetMode(space.Mode3D)).To(Succeed())
			Expect(engine.Running()).To(BeFalse())
			Expect(engine.Len()).To(BeZero())
			Expect(engine.Transform().Mode()).To(Equal(space.Mode3D))
			Expect(events).To(Equal([]string{"mode:3d", "below", "removed", "removed"}))
		})
	})
})
