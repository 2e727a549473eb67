package geometry

import "math"

// Range is a closed interval [Min, Max] on the real line. Projections of
// shapes onto an axis are Ranges, which makes them the primitive of every
// separating-axis test.
type Range struct {
	Min float64
	Max float64
}

// NewRange returns the interval between a and b, whatever their order.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// EmptyRange returns an interval that contains nothing and absorbs the first
// value passed to Include.
func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

// RangeFromValues returns the smallest interval containing all values.
func RangeFromValues(values ...float64) Range {
	r := EmptyRange()
	for _, v := range values {
		r.Include(v)
	}
	return r
}

func (r Range) Middle() float64 {
	return (r.Min + r.Max) / 2
}

func (r Range) Length() float64 {
	return math.Max(0, r.Max-r.Min)
}

func (r Range) Empty() bool {
	return r.Min > r.Max
}

// Include grows the interval to contain value.
func (r *Range) Include(value float64) {
	if value < r.Min {
		r.Min = value
	}
	if value > r.Max {
		r.Max = value
	}
}

func (r Range) Includes(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Intersect reports whether the two intervals share at least one value.
func (r Range) Intersect(other Range) bool {
	return r.Min <= other.Max && other.Min <= r.Max
}

// Clip returns the set intersection of r and other. The result is empty when
// they are disjoint.
func (r Range) Clip(other Range) Range {
	return Range{Min: math.Max(r.Min, other.Min), Max: math.Min(r.Max, other.Max)}
}

// Depth returns the distance from value to the nearest bound: positive inside
// the interval, negative outside.
func (r Range) Depth(value float64) float64 {
	return math.Min(value-r.Min, r.Max-value)
}

// Overlap returns how far the two intervals penetrate each other: the smaller
// of the two push-out distances. It is zero or negative when they are disjoint.
func (r Range) Overlap(other Range) float64 {
	return math.Min(r.Max-other.Min, other.Max-r.Min)
}
