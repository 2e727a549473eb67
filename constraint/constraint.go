package constraint

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Compliance presets, in units/N. Zero is perfectly rigid.
const (
	CONCRETE_COMPLIANCE = 0.04e-9
	WOOD_COMPLIANCE     = 0.16e-9
	LEATHER_COMPLIANCE  = 14e-8
	TENDON_COMPLIANCE   = 0.2e-7
	RUBBER_COMPLIANCE   = 1e-6
	MUSCLE_COMPLIANCE   = 0.2e-3
	FAT_COMPLIANCE      = 1e-3
)

// Constraint is a rule between two endpoints, solved by relaxation.
type Constraint interface {
	// Solve moves the endpoints toward satisfying the rule.
	Solve(dt float64)
	// Error returns the absolute violation of the rule.
	Error() float64
	// Endpoints returns both ends of the constraint.
	Endpoints() (a, b *Constrained)
}

// References reports whether c is attached to body.
func References(c Constraint, body *actor.RigidBody) bool {
	a, b := c.Endpoints()
	return body != nil && (a.Body == body || b.Body == body)
}

// Constrained is one end of a constraint: a point attached to a body at a
// body-space Offset, or the fixed world point Offset when Body is nil.
type Constrained struct {
	Body   *actor.RigidBody
	Offset mgl64.Vec2
	// IsStatic pins the endpoint: it absorbs no correction.
	IsStatic bool
}

// Attached returns an endpoint on body at the body-space offset.
func Attached(body *actor.RigidBody, offset mgl64.Vec2) Constrained {
	return Constrained{Body: body, Offset: offset}
}

// Fixed returns an endpoint nailed to a world point.
func Fixed(point mgl64.Vec2) Constrained {
	return Constrained{Offset: point, IsStatic: true}
}

// Anchor returns the endpoint in world space.
func (c *Constrained) Anchor() mgl64.Vec2 {
	if c.Body == nil {
		return c.Offset
	}
	return c.Body.Transform.Apply(c.Offset)
}

func (c *Constrained) movable() bool {
	return c.Body != nil && !c.IsStatic && !c.Body.IsStatic() && c.Body.Simulated
}

// weight returns the generalized inverse mass of the endpoint along n.
func (c *Constrained) weight(n mgl64.Vec2) float64 {
	if !c.movable() {
		return 0
	}
	rn := geometry.Cross(c.arm(), n)
	return c.Body.InverseMass() + c.Body.InverseInertia()*rn*rn
}

func (c *Constrained) arm() mgl64.Vec2 {
	return c.Anchor().Sub(c.Body.Transform.Position)
}

// correct moves the endpoint by the positional impulse p.
func (c *Constrained) correct(p mgl64.Vec2) {
	if !c.movable() {
		return
	}
	body := c.Body
	arm := c.arm()
	body.Transform.Position = body.Transform.Position.Add(p.Mul(body.InverseMass()))
	if invI := body.InverseInertia(); invI > 0 {
		body.Transform.Angle = geometry.WrapAngle(body.Transform.Angle + geometry.Cross(arm, p)*invI)
	}
}

// push changes the endpoint velocity by the impulse p.
func (c *Constrained) push(p mgl64.Vec2) {
	if !c.movable() {
		return
	}
	applyImpulse(c.Body, c.arm(), p)
}

func (c *Constrained) velocity() mgl64.Vec2 {
	if c.Body == nil {
		return mgl64.Vec2{}
	}
	return c.Body.Velocity.Linear.Add(geometry.CrossScalar(c.Body.Velocity.Angular, c.arm()))
}

// solveDistance drives the anchors of a and b to the given distance with an
// XPBD positional step, then removes their relative velocity along the axis.
func solveDistance(a, b *Constrained, distance, compliance, dt float64) {
	delta := b.Anchor().Sub(a.Anchor())
	length := delta.Len()
	n := geometry.Direction(delta)

	wA := a.weight(n)
	wB := b.weight(n)
	w := wA + wB
	if w <= geometry.Epsilon {
		return
	}

	alphaTilde := 0.0
	if dt > 0 {
		alphaTilde = compliance / (dt * dt)
	}
	lambda := -(length - distance) / (w + alphaTilde)
	p := n.Mul(lambda)
	a.correct(p.Mul(-1))
	b.correct(p)

	// the axis may have turned during the correction
	n = geometry.Direction(b.Anchor().Sub(a.Anchor()))
	w = a.weight(n) + b.weight(n)
	if w <= geometry.Epsilon {
		return
	}
	relative := b.velocity().Sub(a.velocity()).Dot(n)
	impulse := n.Mul(-relative / w)
	a.push(impulse.Mul(-1))
	b.push(impulse)
}

// ComputeRestitution keeps the bouncier of the two materials.
func ComputeRestitution(matA, matB actor.Material) float64 {
	return math.Max(matA.Restitution, matB.Restitution)
}

// ComputeFriction multiplies both coefficients, so a frictionless surface
// stays frictionless.
func ComputeFriction(matA, matB actor.Material) float64 {
	return matA.Friction * matB.Friction
}

func applyImpulse(rb *actor.RigidBody, arm, impulse mgl64.Vec2) {
	if rb.IsStatic() {
		return
	}
	rb.Velocity.Linear = rb.Velocity.Linear.Add(impulse.Mul(rb.InverseMass()))
	rb.Velocity.Angular += geometry.Cross(arm, impulse) * rb.InverseInertia()
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Linear.Len() < velocityThreshold {
		rb.Velocity.Linear = mgl64.Vec2{0, 0}
	}
	if math.Abs(rb.Velocity.Angular) < velocityThreshold {
		rb.Velocity.Angular = 0
	}
}
