package geometry

import "github.com/go-gl/mathgl/mgl64"

// ConvexPieces splits the polygon into convex pieces that together cover it.
// A convex polygon is returned unchanged; a concave one is triangulated by ear
// clipping and adjacent triangles are merged back while the union stays
// convex. Degenerate polygons yield no pieces.
func (p Polygon) ConvexPieces() []Polygon {
	if p.Degenerate() {
		return nil
	}
	if p.IsConvex() {
		return []Polygon{p}
	}

	triangles := earClip(p.vertices)
	pieces := make([][]mgl64.Vec2, 0, len(triangles))
	for _, t := range triangles {
		pieces = append(pieces, t[:])
	}
	pieces = mergeConvex(pieces)

	result := make([]Polygon, 0, len(pieces))
	for _, piece := range pieces {
		poly := NewPolygon(piece...)
		if !poly.Degenerate() {
			result = append(result, poly)
		}
	}
	return result
}

func earClip(vertices []mgl64.Vec2) [][3]mgl64.Vec2 {
	remaining := make([]mgl64.Vec2, len(vertices))
	copy(remaining, vertices)

	var triangles [][3]mgl64.Vec2
	for len(remaining) > 3 {
		n := len(remaining)
		clipped := false
		for i := range n {
			a, b, c := remaining[(i+n-1)%n], remaining[i], remaining[(i+1)%n]
			turn := Cross(b.Sub(a), c.Sub(b))
			if turn > -Epsilon && turn < Epsilon {
				// collinear vertex, drop it without emitting a triangle
				remaining = append(remaining[:i], remaining[i+1:]...)
				clipped = true
				break
			}
			if turn < 0 || !isEar(remaining, i, a, b, c) {
				continue
			}
			triangles = append(triangles, [3]mgl64.Vec2{a, b, c})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// self-intersecting outline; emit what is left as a fan
			for i := 1; i+1 < len(remaining); i++ {
				triangles = append(triangles, [3]mgl64.Vec2{remaining[0], remaining[i], remaining[i+1]})
			}
			return triangles
		}
	}
	if len(remaining) == 3 {
		triangles = append(triangles, [3]mgl64.Vec2{remaining[0], remaining[1], remaining[2]})
	}
	return triangles
}

func isEar(vertices []mgl64.Vec2, index int, a, b, c mgl64.Vec2) bool {
	n := len(vertices)
	for j, v := range vertices {
		if j == index || j == (index+n-1)%n || j == (index+1)%n {
			continue
		}
		if v == a || v == b || v == c {
			continue
		}
		if inTriangle(v, a, b, c) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c mgl64.Vec2) bool {
	return Cross(b.Sub(a), p.Sub(a)) >= 0 &&
		Cross(c.Sub(b), p.Sub(b)) >= 0 &&
		Cross(a.Sub(c), p.Sub(c)) >= 0
}

// mergeConvex greedily joins pieces that share an edge as long as the merged
// outline is still convex.
func mergeConvex(pieces [][]mgl64.Vec2) [][]mgl64.Vec2 {
	for merged := true; merged; {
		merged = false
	outer:
		for i := range pieces {
			for j := i + 1; j < len(pieces); j++ {
				joined, ok := joinOnSharedEdge(pieces[i], pieces[j])
				if !ok || !NewPolygon(joined...).IsConvex() {
					continue
				}
				pieces[i] = joined
				pieces = append(pieces[:j], pieces[j+1:]...)
				merged = true
				break outer
			}
		}
	}
	return pieces
}

func joinOnSharedEdge(p, q []mgl64.Vec2) ([]mgl64.Vec2, bool) {
	np, nq := len(p), len(q)
	for i := range np {
		u, v := p[i], p[(i+1)%np]
		for j := range nq {
			if q[j] != v || q[(j+1)%nq] != u {
				continue
			}
			joined := make([]mgl64.Vec2, 0, np+nq-2)
			for k := 1; k <= np; k++ {
				joined = append(joined, p[(i+k)%np])
			}
			for k := 2; k < nq; k++ {
				joined = append(joined, q[(j+k)%nq])
			}
			return joined, true
		}
	}
	return nil, false
}
