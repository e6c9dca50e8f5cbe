package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

var _ = Describe("System", func() {
	var (
		opts   sim.Options
		anchor *dynamo.Body
		earth  *dynamo.Body
		system *sim.System
	)

	BeforeEach(func() {
		var err error
		opts = sim.DefaultOptions()
		opts.Gravity = physics.Gravity{G: 1, MinSeparation: 1e-3}

		anchor, err = dynamo.NewBody("sun", dynamo.Vector2{X: 300, Y: 300}, dynamo.Vector2{}, 1000, 15)
		Expect(err).NotTo(HaveOccurred())
		anchor.AutoOrbit = false

		earth, err = dynamo.NewBody("earth", dynamo.Vector2{X: 300, Y: 310}, dynamo.Vector2{}, 1, 5)
		Expect(err).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		var err error
		integ := integrators.NewLeapfrog(opts.Gravity, physics.Clockwise)
		system, err = sim.New(anchor, []*dynamo.Body{earth}, integ, opts)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("on the first tick", func() {
		It("settles the orbiter onto a clockwise orbit", func() {
			Expect(system.Tick(0.01)).To(Succeed())
			Expect(earth.Phase).To(Equal(dynamo.PhaseRunning))
			Expect(earth.Velocity.X).To(BeNumerically("~", 10, 1e-9))
			Expect(earth.Velocity.Y).To(BeZero())
		})
	})

	Context("over a full period", func() {
		It("keeps the orbiter near its starting radius", func() {
			period := physics.OrbitalPeriod(opts.Gravity, earth, anchor)
			steps := int(period / 0.001)
			for i := 0; i < steps; i++ {
				Expect(system.Tick(0.001)).To(Succeed())
			}
			r := math.Hypot(earth.Position.X-300, earth.Position.Y-300)
			Expect(r).To(BeNumerically("~", 10, 1e-3))
		})
	})

	Context("with a fixed anchor", func() {
		It("never moves the anchor", func() {
			for i := 0; i < 50; i++ {
				Expect(system.Tick(0.01)).To(Succeed())
			}
			Expect(anchor.Position).To(Equal(dynamo.Vector2{X: 300, Y: 300}))
		})
	})

	Context("with a mobile anchor", func() {
		BeforeEach(func() {
			opts.AnchorMode = sim.AnchorMobile
			earth.Mass = 100
		})

		It("moves the anchor toward the orbiter", func() {
			Expect(system.Tick(0.01)).To(Succeed())
			Expect(anchor.Position.Y).To(BeNumerically(">", 300))
		})
	})

	Context("when real time is fed in", func() {
		BeforeEach(func() {
			opts.Timestep = sim.Timestep{Mode: sim.TimestepFixed, Step: 0.25, MaxSubsteps: 8}
		})

		It("spends it in whole steps", func() {
			n, err := system.Advance(1.125)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(4))
			Expect(system.Accumulator()).To(Equal(0.125))
		})

		It("rejects negative elapsed time", func() {
			_, err := system.Advance(-0.5)
			Expect(err).To(MatchError(dynamo.ErrInvalidTimestep))
		})
	})

	It("reports the anchor first in frames", func() {
		f := system.Frame()
		Expect(f.Bodies).To(HaveLen(2))
		Expect(f.Bodies[0].Name).To(Equal("sun"))
		Expect(f.Bodies[1].Name).To(Equal("earth"))
	})
})
