package main

import (
	"math"
	"math/rand"

	"github.com/orrery-sim/gravity"
)

const (
	coreMass     = 5e12
	meanBodyMass = 50e3
	bodyRadius   = 2
)

// rotationAxis is the orbital plane's normal. Scatter along this axis
// is compressed relative to scatter across it, producing a disk rather
// than a sphere of bodies.
var rotationAxis = gravity.Vector3{0, 1, 0}

// buildClusterScene seeds a Universe with one massive core at the
// origin and n bodies normally scattered around it, each given
// circular orbital velocity around the core. Grounded on the
// distribution the teacher's makebodies uses for its demo galaxy:
// rand.NormFloat64 scatter shaped per axis by the orbital axis's
// absolute components, plus a cross-product orbital velocity.
func buildClusterScene(u *gravity.Universe, n int, seed int64) ([]*gravity.Body, error) {
	rng := rand.New(rand.NewSource(seed))

	core, err := u.AddBody(gravity.BodyDescriptor{
		Kind:   gravity.Star,
		Mass:   coreMass,
		Radius: bodyRadius * 50,
	})
	if err != nil {
		return nil, err
	}
	ptrs := make([]*gravity.Body, 0, n+1)
	ptrs = append(ptrs, core)

	axisWeight := gravity.AbsComponents(rotationAxis)
	spread := gravity.Vector3{
		1000*(1-axisWeight[0]) + 100*axisWeight[0],
		1000*(1-axisWeight[1]) + 100*axisWeight[1],
		1000*(1-axisWeight[2]) + 100*axisWeight[2],
	}

	for i := 0; i < n; i++ {
		mass := math.Abs(rng.NormFloat64()*500 + meanBodyMass)
		pos := gravity.Vector3{
			rng.NormFloat64() * spread[0],
			rng.NormFloat64() * spread[1],
			rng.NormFloat64() * spread[2],
		}

		d := pos.Len()
		if d == 0 {
			d = 1
		}
		radial := pos.Mul(1 / d)
		tangent := radial.Cross(rotationAxis)
		if tangent.Len() == 0 {
			tangent = gravity.Vector3{1, 0, 0}
		} else {
			tangent = tangent.Mul(1 / tangent.Len())
		}

		speed := math.Sqrt(gravity.G * core.Mass() / d)
		vel := tangent.Mul(speed)

		b, err := u.AddBody(gravity.BodyDescriptor{
			Kind:     gravity.Planet,
			Mass:     mass,
			Radius:   bodyRadius,
			Position: pos,
			Velocity: vel,
		})
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, b)
	}
	return ptrs, nil
}
