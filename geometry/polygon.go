package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a closed polygon whose vertices are stored clockwise on screen
// (positive shoelace area) with consecutive duplicates removed. Polygons with
// fewer than three distinct vertices are degenerate.
//
// Build polygons with NewPolygon; the zero value is an empty, degenerate
// polygon.
type Polygon struct {
	vertices []mgl64.Vec2
	normals  []mgl64.Vec2
	area     float64
	centroid mgl64.Vec2
}

// NewPolygon normalizes the winding and removes repeated vertices. An empty or
// collapsed vertex list yields a degenerate polygon rather than an error.
func NewPolygon(vertices ...mgl64.Vec2) Polygon {
	verts := make([]mgl64.Vec2, 0, len(vertices))
	for _, v := range vertices {
		if len(verts) > 0 && v.Sub(verts[len(verts)-1]).LenSqr() < Epsilon*Epsilon {
			continue
		}
		verts = append(verts, v)
	}
	for len(verts) > 1 && verts[0].Sub(verts[len(verts)-1]).LenSqr() < Epsilon*Epsilon {
		verts = verts[:len(verts)-1]
	}

	if signedArea(verts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	return buildPolygon(verts)
}

// buildPolygon caches the derived data of already normalized vertices.
func buildPolygon(verts []mgl64.Vec2) Polygon {
	p := Polygon{vertices: verts}
	if len(verts) < 3 {
		if len(verts) > 0 {
			sum := mgl64.Vec2{}
			for _, v := range verts {
				sum = sum.Add(v)
			}
			p.centroid = sum.Mul(1.0 / float64(len(verts)))
		}
		return p
	}

	p.area = signedArea(verts)
	if p.area < Epsilon {
		p.area = 0
	}

	// centroid of the polygon, weighted by the triangles fanned from the origin
	var cx, cy float64
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		cross := Cross(a, b)
		cx += (a.X() + b.X()) * cross
		cy += (a.Y() + b.Y()) * cross
	}
	if p.area > 0 {
		p.centroid = mgl64.Vec2{cx, cy}.Mul(1.0 / (6 * p.area))
	} else {
		sum := mgl64.Vec2{}
		for _, v := range verts {
			sum = sum.Add(v)
		}
		p.centroid = sum.Mul(1.0 / float64(len(verts)))
	}

	p.normals = make([]mgl64.Vec2, 0, len(verts))
	for i, a := range verts {
		edge := verts[(i+1)%len(verts)].Sub(a)
		// outward normal for positive winding
		p.normals = append(p.normals, Direction(mgl64.Vec2{edge.Y(), -edge.X()}))
	}

	return p
}

// NewRect returns the axis-aligned rectangle whose top-left corner is (x, y).
func NewRect(x, y, width, height float64) Polygon {
	return NewPolygon(
		mgl64.Vec2{x, y},
		mgl64.Vec2{x + width, y},
		mgl64.Vec2{x + width, y + height},
		mgl64.Vec2{x, y + height},
	)
}

// NewBox returns a width × height rectangle centered on the origin.
func NewBox(width, height float64) Polygon {
	return NewRect(-width/2, -height/2, width, height)
}

// NewRegularPolygon returns a regular polygon with the given circumradius.
func NewRegularPolygon(center mgl64.Vec2, radius float64, sides int) Polygon {
	if sides < 3 {
		return Polygon{}
	}
	verts := make([]mgl64.Vec2, sides)
	for i := range verts {
		angle := 2 * math.Pi * float64(i) / float64(sides)
		verts[i] = center.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(radius))
	}
	return NewPolygon(verts...)
}

func signedArea(verts []mgl64.Vec2) float64 {
	var sum float64
	for i, a := range verts {
		sum += Cross(a, verts[(i+1)%len(verts)])
	}
	return sum / 2
}

// Vertices returns the normalized vertices. The slice is shared and must not
// be modified.
func (p Polygon) Vertices() []mgl64.Vec2 {
	return p.vertices
}

// Normals returns the outward unit normal of each edge; normal i belongs to
// the edge from vertex i to vertex i+1.
func (p Polygon) Normals() []mgl64.Vec2 {
	return p.normals
}

// Edge returns the i-th edge as a Line.
func (p Polygon) Edge(i int) Line {
	n := len(p.vertices)
	return Line{A: p.vertices[i%n], B: p.vertices[(i+1)%n]}
}

func (p Polygon) Middle() mgl64.Vec2 {
	return p.centroid
}

func (p Polygon) Area() float64 {
	return p.area
}

func (p Polygon) Degenerate() bool {
	return len(p.vertices) < 3 || p.area == 0
}

func (p Polygon) BoundingBox() AABB {
	if len(p.vertices) == 0 {
		return AABB{Min: p.centroid, Max: p.centroid}
	}
	box := EmptyAABB()
	for _, v := range p.vertices {
		box = box.Include(v)
	}
	return box
}

func (p Polygon) ClosestPoint(point mgl64.Vec2) mgl64.Vec2 {
	switch len(p.vertices) {
	case 0:
		return p.centroid
	case 1:
		return p.vertices[0]
	}

	best := p.vertices[0]
	bestDist := math.Inf(1)
	for i := range p.vertices {
		edge := p.Edge(i)
		candidate := closestOnSegment(point, edge.A, edge.B)
		if d := candidate.Sub(point).LenSqr(); d < bestDist {
			bestDist = d
			best = candidate
		}
	}
	return best
}

// ContainsPoint uses the crossing rule, so it stays correct for concave
// polygons as well.
func (p Polygon) ContainsPoint(point mgl64.Vec2) bool {
	if p.Degenerate() {
		return false
	}
	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[i], p.vertices[j]
		if (a.Y() > point.Y()) != (b.Y() > point.Y()) {
			x := a.X() + safeDiv((point.Y()-a.Y())*(b.X()-a.X()), b.Y()-a.Y())
			if point.X() < x {
				inside = !inside
			}
		}
	}
	return inside
}

func (p Polygon) RayCast(origin, direction mgl64.Vec2) float64 {
	dir, ok := SafeNormalize(direction)
	if !ok || len(p.vertices) < 2 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for i := range p.vertices {
		edge := p.Edge(i)
		if t := raySegment(origin, dir, edge.A, edge.B); t < best {
			best = t
		}
	}
	return best
}

func (p Polygon) Project(axis mgl64.Vec2) Range {
	r := EmptyRange()
	for _, v := range p.vertices {
		r.Include(v.Dot(axis))
	}
	return r
}

// Support returns the index of the vertex furthest along direction.
func (p Polygon) Support(direction mgl64.Vec2) int {
	best := 0
	bestDot := math.Inf(-1)
	for i, v := range p.vertices {
		if d := v.Dot(direction); d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

func (p Polygon) Transform(position mgl64.Vec2, angle float64) Shape {
	verts := make([]mgl64.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		verts[i] = Rotate(v, angle).Add(position)
	}
	// rotation preserves winding, so the cached data can be rebuilt directly
	return buildPolygon(verts)
}

// IsConvex reports whether every turn along the outline bends the same way.
func (p Polygon) IsConvex() bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}
	for i := range n {
		a, b, c := p.vertices[i], p.vertices[(i+1)%n], p.vertices[(i+2)%n]
		if Cross(b.Sub(a), c.Sub(b)) < -Epsilon {
			return false
		}
	}
	return true
}
