package constraint

import "math"

// LengthConstraint keeps two anchors at RestLength from each other, like a
// rigid rod. A positive Compliance softens it into a spring.
type LengthConstraint struct {
	A, B       Constrained
	RestLength float64
	Compliance float64
}

// NewLengthConstraint uses the current anchor distance as the rest length.
func NewLengthConstraint(a, b Constrained) *LengthConstraint {
	return &LengthConstraint{
		A:          a,
		B:          b,
		RestLength: b.Anchor().Sub(a.Anchor()).Len(),
	}
}

func (c *LengthConstraint) Solve(dt float64) {
	solveDistance(&c.A, &c.B, c.RestLength, c.Compliance, dt)
}

func (c *LengthConstraint) Error() float64 {
	return math.Abs(c.Length() - c.RestLength)
}

// Length returns the current anchor distance.
func (c *LengthConstraint) Length() float64 {
	return c.B.Anchor().Sub(c.A.Anchor()).Len()
}

func (c *LengthConstraint) Endpoints() (*Constrained, *Constrained) {
	return &c.A, &c.B
}

// PositionConstraint pins two anchors together.
type PositionConstraint struct {
	A, B       Constrained
	Compliance float64
}

func NewPositionConstraint(a, b Constrained) *PositionConstraint {
	return &PositionConstraint{A: a, B: b}
}

func (c *PositionConstraint) Solve(dt float64) {
	solveDistance(&c.A, &c.B, 0, c.Compliance, dt)
}

func (c *PositionConstraint) Error() float64 {
	return c.B.Anchor().Sub(c.A.Anchor()).Len()
}

func (c *PositionConstraint) Endpoints() (*Constrained, *Constrained) {
	return &c.A, &c.B
}
