package gravity

import "math"

const twoPi = 2 * math.Pi

// integrateSubstep advances every body by one substep of length h, given
// that the solver has already written this substep's forces into each
// body's accumulator. The update order is normative (matches the
// spec's half-kick ordering exactly) because it determines
// bit-reproducibility of tests: position first (using the velocity
// from the previous substep and this substep's acceleration for the
// quadratic term), then velocity, then rotation.
func integrateSubstep(bodies []*Body, h float64) {
	for _, b := range bodies {
		ah := b.force.Mul(h / b.mass) // a*h = F/m * h
		b.position = b.position.Add(b.velocity.Mul(h)).Add(ah.Mul(h / 2))
		b.velocity = b.velocity.Add(ah)
		b.rotationAngle = math.Mod(b.rotationAngle+b.angularVelocity*h, twoPi)
		if b.rotationAngle < 0 {
			b.rotationAngle += twoPi
		}
	}
}

func resetForces(bodies []*Body) {
	for _, b := range bodies {
		b.force = Vector3{}
	}
}
