package gravity

import "fmt"

// BodyKind tags a body for rendering purposes only; it has no effect
// on gravity.
type BodyKind uint8

const (
	Planet BodyKind = iota
	Star
	Satellite
)

func (k BodyKind) String() string {
	switch k {
	case Star:
		return "Star"
	case Satellite:
		return "Satellite"
	default:
		return "Planet"
	}
}

// noTreeHandle marks a body as outside of any Barnes-Hut octree, or
// indicates a solver that doesn't maintain one.
const noTreeHandle = -1

// BodyDescriptor carries the parameters for a new body; see
// Universe.AddBody.
type BodyDescriptor struct {
	Kind     BodyKind
	Mass     float64 // kg
	Radius   float64 // m; rendering only, no effect on gravity
	Position Vector3
	Velocity Vector3

	// ColorToken and TextureToken are opaque tokens forwarded to the
	// renderer unexamined.
	ColorToken   uint32
	TextureToken uint32
}

// Body is a point mass. Bodies live in a Universe's pre-reserved
// storage and are never reallocated once added, so *Body values
// handed out by AddBody remain valid for the life of the simulation.
type Body struct {
	mass   float64
	radius float64

	position Vector3
	velocity Vector3

	// force is the per-substep accumulator. It is valid only between
	// a reset (start of each integration substep) and the following
	// integration step.
	force Vector3

	angularVelocity float64
	rotationAngle   float64

	kind BodyKind

	colorToken   uint32
	textureToken uint32

	// treeHandle is the Barnes-Hut solver's back-reference to this
	// body's current external node, or noTreeHandle if the body is
	// free-floating (outside the octree volume) or the active solver
	// doesn't use a tree at all.
	treeHandle int32
}

func newBody(d BodyDescriptor) *Body {
	return &Body{
		mass:         d.Mass,
		radius:       d.Radius,
		position:     d.Position,
		velocity:     d.Velocity,
		kind:         d.Kind,
		colorToken:   d.ColorToken,
		textureToken: d.TextureToken,
		treeHandle:   noTreeHandle,
	}
}

// Position returns the body's current position.
func (b *Body) Position() Vector3 { return b.position }

// Velocity returns the body's current velocity.
func (b *Body) Velocity() Vector3 { return b.velocity }

// Mass returns the body's mass.
func (b *Body) Mass() float64 { return b.mass }

// Radius returns the body's radius, used only by the renderer.
func (b *Body) Radius() float64 { return b.radius }

// Kind returns the body's render-facing type tag.
func (b *Body) Kind() BodyKind { return b.kind }

// AngularVelocity returns the body's spin rate in radians/second.
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// RotationAngle returns the body's current rotation angle in
// [0, 2*pi) radians. The rotation axis is a renderer concern; the
// core tracks only the scalar angle.
func (b *Body) RotationAngle() float64 { return b.rotationAngle }

// ColorToken returns the opaque color token passed through to the
// renderer.
func (b *Body) ColorToken() uint32 { return b.colorToken }

// TextureToken returns the opaque texture token passed through to the
// renderer.
func (b *Body) TextureToken() uint32 { return b.textureToken }

// SetVelocity overrides the body's velocity directly, bypassing the
// integrator. Useful for scripted maneuvers in a host application.
func (b *Body) SetVelocity(v Vector3) { b.velocity = v }

// SetAngularVelocity sets the body's spin rate in radians/second.
func (b *Body) SetAngularVelocity(omega float64) { b.angularVelocity = omega }

// SetColorToken sets the opaque color token forwarded to the
// renderer.
func (b *Body) SetColorToken(token uint32) { b.colorToken = token }

// SetTextureToken sets the opaque texture token forwarded to the
// renderer.
func (b *Body) SetTextureToken(token uint32) { b.textureToken = token }

// isFreeFloating reports whether the body currently has no tree
// presence (either it left the octree's volume, or the active solver
// doesn't maintain one at all).
func (b *Body) isFreeFloating() bool { return b.treeHandle == noTreeHandle }

func (b *Body) String() string {
	return fmt.Sprintf("%s{mass: %.4g, pos: %v, vel: %v}", b.kind, b.mass, b.position, b.velocity)
}
