package gravity

// GravitySolver computes gravitational forces for the current
// configuration of bodies and accumulates them into each body's force
// accumulator. Implementations must not reset accumulators themselves
// — the integrator does that once per substep before calling
// ComputeForces.
type GravitySolver interface {
	// ComputeForces accumulates gravitational force into bodies[i].force
	// for every non-nil body in bodies.
	ComputeForces(bodies []*Body) error
}
