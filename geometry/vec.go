package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 and Vector3 share the gonum r3 representation, all arithmetic goes through r3.
type (
	Point3  = r3.Vec
	Vector3 = r3.Vec
)

func NewPoint(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

func Distance(a, b Point3) float64 {
	return r3.Norm(r3.Sub(b, a))
}

func IsZero(v Vector3) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Coincident reports whether two points lie within tol of each other
func Coincident(a, b Point3, tol float64) bool {
	return Distance(a, b) <= tol
}

// FromSlice builds a point from a 3 element slice, missing entries are zero
func FromSlice(xyz []float64) (p Point3) {
	var c [3]float64
	copy(c[:], xyz)
	p = Point3{X: c[0], Y: c[1], Z: c[2]}
	return
}

func isFinite(p Point3) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
