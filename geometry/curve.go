// Package geometry holds the point, curve and trimmed surface representations handed over by the
// node graph, together with the few evaluations the record encoder needs: NURBS points and
// derivatives, true arc length, iso-curves, surface size, closedness and planarity.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type CurveKind uint8

const (
	CurveSegment CurveKind = iota
	CurveArc
	CurveNurbs
)

func (k CurveKind) String() string {
	return [...]string{"Segment", "Arc", "Nurbs"}[k]
}

var CurveNameMap = map[string]CurveKind{
	"segment": CurveSegment,
	"line":    CurveSegment,
	"arc":     CurveArc,
	"nurbs":   CurveNurbs,
}

// Curve is implemented by Segment, Arc and Nurbs only.
type Curve interface {
	Kind() CurveKind
	StartPoint() Point3
	EndPoint() Point3
	Length() float64
	curve()
}

type Segment struct {
	Start, End Point3
}

func (Segment) Kind() CurveKind      { return CurveSegment }
func (s Segment) StartPoint() Point3 { return s.Start }
func (s Segment) EndPoint() Point3   { return s.End }
func (s Segment) Length() float64    { return Distance(s.Start, s.End) }
func (Segment) curve()               {}

// Arc is a circular arc from Start to End around Center, turning positively about Normal.
type Arc struct {
	Start, End, Center Point3
	Normal             Vector3
}

func (Arc) Kind() CurveKind      { return CurveArc }
func (a Arc) StartPoint() Point3 { return a.Start }
func (a Arc) EndPoint() Point3   { return a.End }
func (Arc) curve()               {}

func (a Arc) Radius() float64 {
	return Distance(a.Center, a.Start)
}

// Sweep returns the included angle in (0, 2π]
func (a Arc) Sweep() float64 {
	var (
		u = r3.Sub(a.Start, a.Center)
		v = r3.Sub(a.End, a.Center)
		n = a.Normal
	)
	if IsZero(n) {
		n = r3.Cross(u, v)
	}
	if !IsZero(n) {
		n = r3.Unit(n)
	}
	angle := math.Atan2(r3.Dot(n, r3.Cross(u, v)), r3.Dot(u, v))
	if angle <= 0 {
		angle += 2 * math.Pi
	}
	return angle
}

func (a Arc) Length() float64 {
	return a.Radius() * a.Sweep()
}

// WeightedPoint is a NURBS control point with its rational weight
type WeightedPoint struct {
	P Point3
	W float64
}

func (wp WeightedPoint) String() string {
	return fmt.Sprintf("(%g,%g,%g;%g)", wp.P.X, wp.P.Y, wp.P.Z, wp.W)
}
