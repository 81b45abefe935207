package integrators_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/integrators"
	"github.com/san-kum/fixstep/internal/physics"
)

var _ = Describe("Fixed-step integration", func() {
	integrate := func(f dynamo.Field, dt, tmax float64, p dynamo.Params, s integrators.Scheme) dynamo.Trajectory {
		traj, err := integrators.Integrate(f, physics.DefaultState, 0, dt, tmax, p, s)
		Expect(err).ToNot(HaveOccurred())
		return traj
	}

	Context("with the reference Lorenz parameterization", func() {
		for _, scheme := range integrators.Schemes() {
			scheme := scheme

			It("emits 3501 states starting at the initial state for "+scheme.String(), func() {
				traj := integrate(physics.Lorenz, 0.02, 70, physics.ReferenceParams, scheme)

				Expect(traj.Len()).To(Equal(3501))
				Expect(traj[0]).To(Equal(physics.DefaultState))
			})

			It("is deterministic for "+scheme.String(), func() {
				a := integrate(physics.Lorenz, 0.02, 70, physics.ReferenceParams, scheme)
				b := integrate(physics.Lorenz, 0.02, 70, physics.ReferenceParams, scheme)

				Expect(a).To(Equal(b))
			})
		}

		It("stays bounded on the attractor for RK4", func() {
			traj := integrate(physics.Lorenz, 0.02, 70, physics.ReferenceParams, integrators.RK4)

			Expect(traj.FirstInvalid()).To(Equal(-1))
			for _, s := range traj {
				Expect(s.Norm()).To(BeNumerically("<", 100))
			}
		})

		It("matches the reference RK4 state at t=1", func() {
			traj := integrate(physics.Lorenz, 0.001, 1, physics.ReferenceParams, integrators.RK4)

			Expect(traj.Len()).To(Equal(1001))
			Expect(traj.Final()).To(Equal(dynamo.State{-10.208521867955355, -10.327831077145804, 26.565714218952262}))
		})

		DescribeTable("reproduces the reference run exactly",
			func(scheme integrators.Scheme, atOne, final dynamo.State) {
				traj := integrate(physics.Lorenz, 0.02, 70, physics.ReferenceParams, scheme)

				Expect(traj[50]).To(Equal(atOne))
				Expect(traj.Final()).To(Equal(final))
			},
			Entry("forward", integrators.Forward,
				dynamo.State{5.601556303576315, 7.279837178989538, 19.175958754164284},
				dynamo.State{5.870619002478404, 10.113411067081703, 26.68725802704537}),
			Entry("midpoint", integrators.Midpoint,
				dynamo.State{-10.0665896949751, -10.001023861542556, 26.61310500099149},
				dynamo.State{-3.4010866227474748, -5.124885249383352, 16.5181395012131}),
			Entry("rk4", integrators.RK4,
				dynamo.State{-10.209440728591256, -10.329870071253357, 26.565549818899278},
				dynamo.State{1.1115305756824456, 2.9531937077750294, 19.917146385833647}),
		)
	})

	Context("at a small step on a short horizon", func() {
		It("agrees between midpoint and RK4 at dt=0.001", func() {
			mid := integrate(physics.Lorenz, 0.001, 1, physics.ReferenceParams, integrators.Midpoint)
			rk4 := integrate(physics.Lorenz, 0.001, 1, physics.ReferenceParams, integrators.RK4)

			Expect(mid.Len()).To(Equal(rk4.Len()))
			for i := range rk4 {
				Expect(mid[i].Sub(rk4[i]).Norm()).To(BeNumerically("<", 1e-2))
			}
		})

		It("agrees between all schemes at dt=0.0001 relative to the state scale", func() {
			ref := integrate(physics.Lorenz, 0.0001, 1, physics.ReferenceParams, integrators.RK4)

			for _, scheme := range []integrators.Scheme{integrators.Forward, integrators.Midpoint} {
				traj := integrate(physics.Lorenz, 0.0001, 1, physics.ReferenceParams, scheme)
				Expect(traj.Len()).To(Equal(ref.Len()))

				for i := range ref {
					scale := math.Max(1, ref[i].Norm())
					Expect(traj[i].Sub(ref[i]).Norm() / scale).To(BeNumerically("<", 1e-2), "scheme %s at step %d", scheme, i)
				}
			}
		})
	})

	Context("with the zero field", func() {
		for _, scheme := range integrators.Schemes() {
			scheme := scheme

			It("repeats the initial state for "+scheme.String(), func() {
				traj := integrate(physics.Zero, 0.02, 1, physics.ReferenceParams, scheme)

				Expect(traj.Len()).To(BeNumerically(">", 1))
				for _, s := range traj {
					Expect(s).To(Equal(physics.DefaultState))
				}
			})
		}
	})

	DescribeTable("order of accuracy on dx/dt = -x",
		func(scheme integrators.Scheme, lo, hi float64) {
			x0 := dynamo.State{1, 0, 0}
			errAt := func(dt float64) float64 {
				traj, err := integrators.Integrate(physics.Decay, x0, 0, dt, 1, physics.DecayParams, scheme)
				Expect(err).ToNot(HaveOccurred())
				exact := physics.DecayExact(x0, 0, 1, physics.DecayParams)
				return math.Abs(traj.Final()[0] - exact[0])
			}

			e1, e2, e3 := errAt(0.125), errAt(0.0625), errAt(0.03125)

			Expect(e1 / e2).To(BeNumerically(">", lo))
			Expect(e1 / e2).To(BeNumerically("<", hi))
			Expect(e2 / e3).To(BeNumerically(">", lo))
			Expect(e2 / e3).To(BeNumerically("<", hi))
		},
		Entry("forward", integrators.Forward, 1.8, 2.2),
		Entry("midpoint", integrators.Midpoint, 3.6, 4.4),
		Entry("rk4", integrators.RK4, 14.0, 18.0),
	)

	It("evaluates the field once per stage per step", func() {
		for _, scheme := range integrators.Schemes() {
			calls := 0
			counting := func(t float64, x dynamo.State, p dynamo.Params) dynamo.State {
				calls++
				return physics.Lorenz(t, x, p)
			}

			traj, err := integrators.Integrate(counting, physics.DefaultState, 0, 0.02, 70, physics.ReferenceParams, scheme)
			Expect(err).ToNot(HaveOccurred())
			Expect(calls).To(Equal((traj.Len() - 1) * scheme.Evaluations()))
		}
	})
})
