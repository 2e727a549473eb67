// Package sat implements narrow-phase collision detection between convex 2D
// shapes using the Separating Axis Theorem.
//
// Two convex shapes are disjoint if and only if there exists an axis on which
// their projections do not overlap. For polygons it is enough to test the edge
// normals of both shapes; a circle adds the axis from the nearest polygon
// vertex to its center. The axis of minimum penetration gives the contact
// normal and depth, and contact points are built by clipping (see clip.go).
//
// Conventions:
//   - Manifold.Normal always points from the first shape toward the second.
//   - Manifold.Depth is strictly positive for a reported collision.
//   - Touching shapes (zero overlap) do not collide.
//
// References:
//   - Ericson: "Real-Time Collision Detection" (2004), chapter 5
//   - Catto: "Contact Manifolds", GDC 2007
package sat

import (
	"github.com/akmonengine/quill/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Manifold describes how two shapes overlap.
type Manifold struct {
	// Normal is the unit contact normal, from shape A toward shape B.
	Normal mgl64.Vec2
	// Depth is the penetration along Normal.
	Depth float64
	// Points holds one or two contact points in world space.
	Points []mgl64.Vec2
}

// Flip returns the manifold seen from the other shape.
func (m Manifold) Flip() Manifold {
	return Manifold{Normal: m.Normal.Mul(-1), Depth: m.Depth, Points: m.Points}
}

// Collide tests two shapes for overlap and returns the contact manifold.
//
// Only Circle and Polygon shapes collide; Lines and degenerate shapes
// (zero radius, fewer than three vertices) always return false. Polygons must
// be convex: the result for a concave polygon is undefined, split it with
// Polygon.ConvexPieces first.
func Collide(a, b geometry.Shape) (Manifold, bool) {
	if a == nil || b == nil || a.Degenerate() || b.Degenerate() {
		return Manifold{}, false
	}

	switch sa := a.(type) {
	case geometry.Circle:
		switch sb := b.(type) {
		case geometry.Circle:
			return circleCircle(sa, sb)
		case geometry.Polygon:
			return circlePolygon(sa, sb)
		}
	case geometry.Polygon:
		switch sb := b.(type) {
		case geometry.Circle:
			m, ok := circlePolygon(sb, sa)
			if !ok {
				return Manifold{}, false
			}
			return m.Flip(), true
		case geometry.Polygon:
			return polygonPolygon(sa, sb)
		}
	}

	return Manifold{}, false
}
