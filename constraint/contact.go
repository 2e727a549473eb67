package constraint

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// RestitutionThreshold is the approach speed below which contacts do not
	// bounce, so resting bodies settle instead of jittering.
	RestitutionThreshold = 1e-3

	// Slop is the overlap left in place by SolvePosition. Resting shapes stay
	// slightly interpenetrated so their contact is found again next substep.
	Slop      = 0.005
	// Baumgarte is the fraction of the overlap beyond Slop removed per pass.
	Baumgarte = 0.8

	// maxCondition bounds the condition number of the two-point block.
	maxCondition = 1000.0
)

type contactPoint struct {
	rA, rB         mgl64.Vec2
	normalMass     float64
	tangentMass    float64
	targetVelocity float64

	normalImpulse  float64
	tangentImpulse float64
}

// Contact resolves one collision between two bodies.
type Contact struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Normal mgl64.Vec2 // from A toward B
	Depth  float64
	Points []mgl64.Vec2

	points      []contactPoint
	restitution float64
	friction    float64

	// two-point block: k is the normal effective mass matrix, invK its
	// inverse. block is false when the points are solved one by one.
	block bool
	k     mgl64.Mat2
	invK  mgl64.Mat2
}

// Resolve separates the bodies, then runs iterations velocity passes.
func (c *Contact) Resolve(iterations int) {
	c.SolvePosition()
	c.Prepare()
	for range max(iterations, 1) {
		c.SolveVelocity()
	}
	c.Settle()
}

// SolvePosition removes Baumgarte of the overlap beyond Slop along the
// normal, each body moving in proportion to its inverse mass.
func (c *Contact) SolvePosition() {
	depth := c.Depth - Slop
	if depth <= 0 {
		return
	}
	invMassA := c.BodyA.InverseMass()
	invMassB := c.BodyB.InverseMass()
	total := invMassA + invMassB
	if total <= 0 {
		return
	}

	correction := c.Normal.Mul(Baumgarte * depth / total)
	if invMassA > 0 {
		c.BodyA.Transform.Position = c.BodyA.Transform.Position.Sub(correction.Mul(invMassA))
	}
	if invMassB > 0 {
		c.BodyB.Transform.Position = c.BodyB.Transform.Position.Add(correction.Mul(invMassB))
	}
}

// Prepare computes the effective masses and the restitution targets from the
// current velocities. It must run before SolveVelocity.
func (c *Contact) Prepare() {
	bodyA, bodyB := c.BodyA, c.BodyB
	invMassA, invMassB := bodyA.InverseMass(), bodyB.InverseMass()
	invIA, invIB := bodyA.InverseInertia(), bodyB.InverseInertia()

	c.restitution = ComputeRestitution(bodyA.Material, bodyB.Material)
	c.friction = ComputeFriction(bodyA.Material, bodyB.Material)
	tangent := geometry.Perp(c.Normal)

	c.points = c.points[:0]
	for _, p := range c.Points {
		cp := contactPoint{
			rA: p.Sub(bodyA.Transform.Position),
			rB: p.Sub(bodyB.Transform.Position),
		}

		rnA := geometry.Cross(cp.rA, c.Normal)
		rnB := geometry.Cross(cp.rB, c.Normal)
		kNormal := invMassA + invMassB + invIA*rnA*rnA + invIB*rnB*rnB
		if kNormal > 0 {
			cp.normalMass = 1.0 / kNormal
		}

		rtA := geometry.Cross(cp.rA, tangent)
		rtB := geometry.Cross(cp.rB, tangent)
		kTangent := invMassA + invMassB + invIA*rtA*rtA + invIB*rtB*rtB
		if kTangent > 0 {
			cp.tangentMass = 1.0 / kTangent
		}

		// pre-solve approach speed, negative when closing in
		vn := c.relativeVelocity(cp).Dot(c.Normal)
		if vn < -RestitutionThreshold {
			cp.targetVelocity = -c.restitution * vn
		}

		c.points = append(c.points, cp)
	}

	c.block = false
	if len(c.points) != 2 {
		return
	}
	cp1, cp2 := c.points[0], c.points[1]
	rn1A, rn1B := geometry.Cross(cp1.rA, c.Normal), geometry.Cross(cp1.rB, c.Normal)
	rn2A, rn2B := geometry.Cross(cp2.rA, c.Normal), geometry.Cross(cp2.rB, c.Normal)

	k11 := invMassA + invMassB + invIA*rn1A*rn1A + invIB*rn1B*rn1B
	k22 := invMassA + invMassB + invIA*rn2A*rn2A + invIB*rn2B*rn2B
	k12 := invMassA + invMassB + invIA*rn1A*rn2A + invIB*rn1B*rn2B

	// an ill-conditioned block (both points on one line through the centers,
	// or a body that cannot rotate) falls back to the sequential solve
	if k11*k11 < maxCondition*(k11*k22-k12*k12) {
		c.block = true
		c.k = mgl64.Mat2{k11, k12, k12, k22}
		c.invK = c.k.Inv()
	}
}

// SolveVelocity runs one sequential-impulse pass. Friction is solved first,
// clamped to the Coulomb cone of the accumulated normal impulse; the normal
// impulses are accumulated and kept non-negative.
func (c *Contact) SolveVelocity() {
	tangent := geometry.Perp(c.Normal)

	// ========== TANGENTIAL IMPULSE (friction) ==========
	if c.friction > 0 {
		for i := range c.points {
			cp := &c.points[i]
			if cp.tangentMass == 0 {
				continue
			}
			vt := c.relativeVelocity(*cp).Dot(tangent)
			lambda := -cp.tangentMass * vt
			maxFriction := c.friction * cp.normalImpulse
			accumulated := math.Max(-maxFriction, math.Min(cp.tangentImpulse+lambda, maxFriction))
			lambda = accumulated - cp.tangentImpulse
			cp.tangentImpulse = accumulated
			c.apply(*cp, tangent.Mul(lambda))
		}
	}

	// ========== NORMAL IMPULSE ==========
	if c.block {
		c.solveBlock()
		return
	}
	for i := range c.points {
		cp := &c.points[i]
		if cp.normalMass == 0 {
			continue
		}
		vn := c.relativeVelocity(*cp).Dot(c.Normal)
		lambda := cp.normalMass * (cp.targetVelocity - vn)
		accumulated := math.Max(cp.normalImpulse+lambda, 0)
		lambda = accumulated - cp.normalImpulse
		cp.normalImpulse = accumulated
		c.apply(*cp, c.Normal.Mul(lambda))
	}
}

// solveBlock solves both normal impulses at once as a two-variable linear
// complementarity problem, enumerating the four cases: both points pushing,
// only the first, only the second, none.
func (c *Contact) solveBlock() {
	cp1, cp2 := &c.points[0], &c.points[1]

	a := mgl64.Vec2{cp1.normalImpulse, cp2.normalImpulse}
	vn1 := c.relativeVelocity(*cp1).Dot(c.Normal)
	vn2 := c.relativeVelocity(*cp2).Dot(c.Normal)
	b := mgl64.Vec2{vn1 - cp1.targetVelocity, vn2 - cp2.targetVelocity}
	b = b.Sub(c.k.Mul2x1(a))

	k11, k12, k22 := c.k.At(0, 0), c.k.At(0, 1), c.k.At(1, 1)

	// both points active: vn = 0
	if x := c.invK.Mul2x1(b).Mul(-1); x.X() >= 0 && x.Y() >= 0 {
		c.applyBlock(a, x)
		return
	}
	// first point only
	if x1 := -b.X() / k11; x1 >= 0 && k12*x1+b.Y() >= 0 {
		c.applyBlock(a, mgl64.Vec2{x1, 0})
		return
	}
	// second point only
	if x2 := -b.Y() / k22; x2 >= 0 && k12*x2+b.X() >= 0 {
		c.applyBlock(a, mgl64.Vec2{0, x2})
		return
	}
	// separating at both points
	if b.X() >= 0 && b.Y() >= 0 {
		c.applyBlock(a, mgl64.Vec2{})
	}
}

// applyBlock moves the accumulated normal impulses from a to x.
func (c *Contact) applyBlock(a, x mgl64.Vec2) {
	d := x.Sub(a)
	c.apply(c.points[0], c.Normal.Mul(d.X()))
	c.apply(c.points[1], c.Normal.Mul(d.Y()))
	c.points[0].normalImpulse = x.X()
	c.points[1].normalImpulse = x.Y()
}

// Settle zeroes the residual velocities of both bodies.
func (c *Contact) Settle() {
	clampSmallVelocities(c.BodyA)
	clampSmallVelocities(c.BodyB)
}

// Height returns how far down the gravity axis the contact lies.
func (c *Contact) Height(gravity mgl64.Vec2) float64 {
	return geometry.Average(c.Points).Dot(gravity)
}

func (c *Contact) relativeVelocity(cp contactPoint) mgl64.Vec2 {
	vA := c.BodyA.Velocity.Linear.Add(geometry.CrossScalar(c.BodyA.Velocity.Angular, cp.rA))
	vB := c.BodyB.Velocity.Linear.Add(geometry.CrossScalar(c.BodyB.Velocity.Angular, cp.rB))
	return vB.Sub(vA)
}

// apply pushes B along impulse and A the opposite way.
func (c *Contact) apply(cp contactPoint, impulse mgl64.Vec2) {
	applyImpulse(c.BodyA, cp.rA, impulse.Mul(-1))
	applyImpulse(c.BodyB, cp.rB, impulse)
}

// NormalImpulse returns the total normal impulse applied at each point.
func (c *Contact) NormalImpulse() float64 {
	var total float64
	for _, cp := range c.points {
		total += cp.normalImpulse
	}
	return total
}
