package gravity

import (
	"fmt"
	"iter"

	"github.com/orrery-sim/gravity/internal/workerpool"
)

// LightSourceToken identifies a point light source the renderer has
// been told about. It carries no meaning inside the core; it's
// handed back to MoveLightPointSource to update a previously added
// light's position.
type LightSourceToken uint32

// RenderBody is the read-only view the renderer-facing iterator
// yields: exactly the fields a renderer needs to draw a body (no
// velocity, no force accumulator).
type RenderBody struct {
	Position      Vector3
	Radius        float64
	RotationAngle float64
	ColorToken    uint32
	TextureToken  uint32
}

// Universe owns the body collection and the currently installed
// gravity solver. Its body storage is pre-reserved to capacity at
// construction and never reallocated afterward, so *Body values
// returned by AddBody and node back-references held by a
// BarnesHutSolver both remain valid for the simulation's lifetime.
type Universe struct {
	bodies []Body   // pre-reserved, pointer-stable storage
	ptrs   []*Body  // parallel slice of pointers into bodies, for solver calls

	solver GravitySolver
	pool   *workerpool.Pool

	lights      map[LightSourceToken]Vector3
	nextLightID LightSourceToken
}

// Option configures a Universe at construction time.
type Option func(*Universe)

// WithThreadHint overrides the worker pool's size; a non-positive
// value (or omitting this option) falls back to the host's logical
// CPU count.
func WithThreadHint(n int) Option {
	return func(u *Universe) {
		u.pool = workerpool.NewSized(n)
	}
}

// NewUniverse returns a Universe with storage pre-reserved for up to
// capacity bodies and a DirectSolver installed by default.
func NewUniverse(capacity int, opts ...Option) *Universe {
	u := &Universe{
		bodies: make([]Body, 0, capacity),
		ptrs:   make([]*Body, 0, capacity),
		solver: NewDirectSolver(),
		lights: make(map[LightSourceToken]Vector3),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.pool == nil {
		u.pool = workerpool.New()
	}
	return u
}

// Pool returns the worker pool this universe was constructed with, for
// callers building a DirectParallelSolver or BarnesHutParallelSolver
// that should share its sizing.
func (u *Universe) Pool() *workerpool.Pool { return u.pool }

// AddBody appends a new body to the universe and returns a stable
// pointer to it. It fails with ErrCapacityExceeded if the universe's
// pre-reserved storage is full, and with ErrInvalidArgument if mass or
// radius is non-positive.
func (u *Universe) AddBody(d BodyDescriptor) (*Body, error) {
	if len(u.bodies) == cap(u.bodies) {
		return nil, fmt.Errorf("gravity: AddBody: %d/%d bodies: %w", len(u.bodies), cap(u.bodies), ErrCapacityExceeded)
	}
	if d.Mass <= 0 {
		return nil, fmt.Errorf("gravity: AddBody: mass must be positive, got %g: %w", d.Mass, ErrInvalidArgument)
	}
	if d.Radius <= 0 {
		return nil, fmt.Errorf("gravity: AddBody: radius must be positive, got %g: %w", d.Radius, ErrInvalidArgument)
	}

	u.bodies = append(u.bodies, *newBody(d))
	b := &u.bodies[len(u.bodies)-1]
	u.ptrs = append(u.ptrs, b)
	return b, nil
}

// Len returns the number of bodies currently in the universe.
func (u *Universe) Len() int { return len(u.bodies) }

// SetSolver installs s as the active gravity solver. s is responsible
// for its own consistency with the universe's current bodies (e.g. a
// BarnesHutSolver must have been built from the same body set).
func (u *Universe) SetSolver(s GravitySolver) { u.solver = s }

// Solver returns the currently installed gravity solver.
func (u *Universe) Solver() GravitySolver { return u.solver }

// Step advances simulation time by dt seconds, split into substeps
// equal substeps of h = dt/substeps. Each substep zeroes force
// accumulators, invokes the active solver, then integrates every body.
// With a Barnes-Hut solver installed, Step then reconciles the octree
// with the bodies' final positions, so a body that left the tree's
// volume during the step is already free-floating when Step returns.
func (u *Universe) Step(dt float64, substeps int) error {
	if substeps < 1 {
		return fmt.Errorf("gravity: Step: substeps must be >= 1, got %d: %w", substeps, ErrInvalidArgument)
	}
	h := dt / float64(substeps)
	for i := 0; i < substeps; i++ {
		resetForces(u.ptrs)
		if err := u.solver.ComputeForces(u.ptrs); err != nil {
			return fmt.Errorf("gravity: Step: %w", err)
		}
		integrateSubstep(u.ptrs, h)
	}
	// Re-seat bodies the last substep moved out of their octree leaf, so
	// the tree matches the bodies' positions when Step returns.
	switch s := u.solver.(type) {
	case *BarnesHutSolver:
		s.checkBodyMovement(u.ptrs)
	case *BarnesHutParallelSolver:
		s.bh.checkBodyMovement(u.ptrs)
	}
	return nil
}

// Bodies returns a read-only iterator over every body's render-facing
// view (position, radius, rotation, style tokens). The renderer's own
// frustum culling can filter on Position/Radius itself; the core does
// not perform culling.
func (u *Universe) Bodies() iter.Seq[RenderBody] {
	return func(yield func(RenderBody) bool) {
		for i := range u.bodies {
			b := &u.bodies[i]
			rb := RenderBody{
				Position:      b.position,
				Radius:        b.radius,
				RotationAngle: b.rotationAngle,
				ColorToken:    b.colorToken,
				TextureToken:  b.textureToken,
			}
			if !yield(rb) {
				return
			}
		}
	}
}

// Stars returns a read-only iterator over every body tagged as a
// Star, for a renderer that wants to treat stars as light emitters.
func (u *Universe) Stars() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		for i := range u.bodies {
			if u.bodies[i].kind == Star {
				if !yield(&u.bodies[i]) {
					return
				}
			}
		}
	}
}

// AddLightPointSource registers a point light at pos and returns a
// token a renderer uses to move it later. The core does not interpret
// or render lights; it only stores the position last given for each
// token. Lights do not follow bodies: a light meant to sit on a Body
// must be moved with MoveLightPointSource.
func (u *Universe) AddLightPointSource(pos Vector3) LightSourceToken {
	token := u.nextLightID
	u.nextLightID++
	u.lights[token] = pos
	return token
}

// MoveLightPointSource updates a previously registered light's
// position.
func (u *Universe) MoveLightPointSource(token LightSourceToken, pos Vector3) {
	u.lights[token] = pos
}

// LightPosition returns the current position of a registered light
// and whether it exists.
func (u *Universe) LightPosition(token LightSourceToken) (Vector3, bool) {
	p, ok := u.lights[token]
	return p, ok
}
