package gravity

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// S1: two equal-mass bodies at rest, one step of DirectSolver.
func TestDirectSolverTwoBodyFall(t *testing.T) {
	u := NewUniverse(2)
	a, err := u.AddBody(BodyDescriptor{Mass: 1e12, Radius: 1, Position: Vector3{1000, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := u.AddBody(BodyDescriptor{Mass: 1e12, Radius: 1, Position: Vector3{-1000, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	u.SetSolver(NewDirectSolver())

	if err := u.Step(1.0, 1); err != nil {
		t.Fatal(err)
	}

	const wantAccel = 1.6685750e-5
	const tol = 1e-9

	// a (at +1000) accelerates in -x.
	if !approxEqual(a.Velocity().X(), -wantAccel, tol) {
		t.Errorf("a.Velocity().X() = %g, want %g", a.Velocity().X(), -wantAccel)
	}
	if !approxEqual(b.Velocity().X(), wantAccel, tol) {
		t.Errorf("b.Velocity().X() = %g, want %g", b.Velocity().X(), wantAccel)
	}

	const wantDisp = 8.343e-6
	if !approxEqual(a.Position().X(), 1000-wantDisp, 1e-8) {
		t.Errorf("a.Position().X() = %g, want ~%g", a.Position().X(), 1000-wantDisp)
	}
	if !approxEqual(b.Position().X(), -1000+wantDisp, 1e-8) {
		t.Errorf("b.Position().X() = %g, want ~%g", b.Position().X(), -1000+wantDisp)
	}
}

// S2: Earth-Moon one step.
func TestDirectSolverEarthMoonOneStep(t *testing.T) {
	u := NewUniverse(2)
	_, err := u.AddBody(BodyDescriptor{Mass: 5.972e24, Radius: 6.371e6, Position: Vector3{0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	moon, err := u.AddBody(BodyDescriptor{
		Mass:     7.34767309e22,
		Radius:   1.7374e6,
		Position: Vector3{3.844e8, 0, 0},
		Velocity: Vector3{0, 0, 1022},
	})
	if err != nil {
		t.Fatal(err)
	}
	u.SetSolver(NewDirectSolver())

	if err := u.Step(60, 1); err != nil {
		t.Fatal(err)
	}

	wantVx := -1.620e-1
	if !approxEqual(moon.Velocity().X(), wantVx, 5e-3) {
		t.Errorf("moon.Velocity().X() = %g, want ~%g", moon.Velocity().X(), wantVx)
	}
	// z velocity should be essentially unchanged (no z-component of
	// gravitational force between two bodies on the x axis).
	if !approxEqual(moon.Velocity().Z(), 1022, 1e-6) {
		t.Errorf("moon.Velocity().Z() = %g, want ~1022", moon.Velocity().Z())
	}
}

func TestDirectSolverMomentumConservation(t *testing.T) {
	u := NewUniverse(5)
	descs := []BodyDescriptor{
		{Mass: 3e10, Radius: 1, Position: Vector3{100, 0, 0}, Velocity: Vector3{0, 1, 0}},
		{Mass: 5e10, Radius: 1, Position: Vector3{-200, 50, 0}, Velocity: Vector3{0, -2, 1}},
		{Mass: 2e10, Radius: 1, Position: Vector3{0, -150, 80}, Velocity: Vector3{1, 0, -1}},
		{Mass: 7e10, Radius: 1, Position: Vector3{300, 300, -100}, Velocity: Vector3{-1, 1, 0}},
	}
	bodies := make([]*Body, 0, len(descs))
	for _, d := range descs {
		b, err := u.AddBody(d)
		if err != nil {
			t.Fatal(err)
		}
		bodies = append(bodies, b)
	}
	u.SetSolver(NewDirectSolver())

	before := totalMomentum(bodies)
	if err := u.Step(1.0, 1); err != nil {
		t.Fatal(err)
	}
	after := totalMomentum(bodies)

	tol := 1e-6 * before.Len()
	if tol == 0 {
		tol = 1e-9
	}
	if before.Sub(after).Len() > tol {
		t.Errorf("momentum not conserved: before=%v after=%v", before, after)
	}
}

func totalMomentum(bodies []*Body) Vector3 {
	var p Vector3
	for _, b := range bodies {
		p = p.Add(b.Velocity().Mul(b.Mass()))
	}
	return p
}
