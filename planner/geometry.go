package planner

import "math"

// Point is a configuration in the unit square
type Point struct {
	X float64 `json:"x" yaml:"x" validate:"gte=0,lte=1"`
	Y float64 `json:"y" yaml:"y" validate:"gte=0,lte=1"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

// DistanceSquared avoids the square root for comparisons
func (p Point) DistanceSquared(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Bearing returns the angle of the ray from p toward other
func (p Point) Bearing(other Point) float64 {
	return math.Atan2(other.Y-p.Y, other.X-p.X)
}

// Offset moves p by length along angle theta
func (p Point) Offset(theta, length float64) Point {
	return Point{
		X: p.X + length*math.Cos(theta),
		Y: p.Y + length*math.Sin(theta),
	}
}

// InUnitSquare reports whether p lies in the closed domain [0,1]x[0,1]
func (p Point) InUnitSquare() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the Euclidean length of the segment
func (s LineSegment) Length() float64 {
	return s.P1.Distance(s.P2)
}
