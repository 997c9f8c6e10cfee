// Package encoder renders curves and trimmed surfaces into geometry records of the solver input.
package encoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/gocadinp/geometry"
	"github.com/notargets/gocadinp/types"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnsupportedGeometryKind means the host handed over a geometry representation that has no
	// record form. It aborts the compile.
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")
	// ErrInvalidGeometry means a known representation with inconsistent data, the element is skipped.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// DefaultTolerance is the geometric tolerance used when none is configured
const DefaultTolerance = 0.001

type Encoder struct {
	// Tolerance decides planarity and closedness of surface patches
	Tolerance float64
}

func NewEncoder(tol float64) *Encoder {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &Encoder{Tolerance: tol}
}

// EncodeCurve returns the records describing c, findings that do not stop the encoding go to diags
func (e *Encoder) EncodeCurve(c geometry.Curve, diags *types.Diagnostics) (recs []*Record, err error) {
	switch cc := c.(type) {
	case geometry.Segment:
		recs = append(recs, segmentRecord(cc.Start, cc.End))
	case *geometry.Segment:
		recs = append(recs, segmentRecord(cc.Start, cc.End))
	case geometry.Arc:
		recs = append(recs, arcRecord(cc, diags))
	case *geometry.Arc:
		recs = append(recs, arcRecord(*cc, diags))
	case geometry.Nurbs:
		recs, err = nurbsRecords(cc)
	case *geometry.Nurbs:
		recs, err = nurbsRecords(*cc)
	default:
		err = fmt.Errorf("%w: curve %T", ErrUnsupportedGeometryKind, c)
	}
	return
}

func segmentRecord(start, end geometry.Point3) *Record {
	return NewRecord("SLNB").Point("X1", start).Gap().Point("X2", end)
}

func arcRecord(a geometry.Arc, diags *types.Diagnostics) *Record {
	n, ok := arcNormal(a)
	if !ok {
		diags.Warn("arc from %s to %s has no normal and its points are collinear, plane normal %s assumed",
			formatPoint(a.Start), formatPoint(a.End), formatPoint(n))
	}
	return NewRecord("SLNB").
		Point("X1", a.Start).Gap().
		Point("X2", a.End).Gap().
		Point("XM", a.Center).Gap().
		Direction("NX", n)
}

// arcNormal is false when the normal is a guess: none given and start, center and end on one line
func arcNormal(a geometry.Arc) (n geometry.Vector3, ok bool) {
	if !geometry.IsZero(a.Normal) {
		return a.Normal, true
	}
	n = r3.Cross(r3.Sub(a.Start, a.Center), r3.Sub(a.End, a.Center))
	if !geometry.IsZero(n) {
		return r3.Unit(n), true
	}
	return geometry.Vector3{Z: 1}, false
}

func formatPoint(p geometry.Point3) string {
	return "(" + strings.Join(formatTriple(p, AttrDigits), ", ") + ")"
}

/*
A degree one NURBS with two control points is written as a plain segment. Otherwise the knot vector
is mapped affinely from [k0,kn] onto [0,L], L the true arc length, so the solver sees a parameter that
measures length. One knot record per distinct knot, with its multiplicity when above one; the first
carries the degree. Then one record per control point, weights only where they differ from one;
the first point is typed NURB.
*/
func nurbsRecords(c geometry.Nurbs) (recs []*Record, err error) {
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	if c.IsStraightLine() {
		return []*Record{segmentRecord(c.Points[0].P, c.Points[1].P)}, nil
	}
	values, mult := c.DistinctKnots()
	params := geometry.RemapKnots(values, c.Length())
	for i, s := range params {
		r := NewRecord("SLNN").Coord("S", s)
		if mult[i] > 1 {
			r.Int("M", mult[i])
		}
		if i == 0 {
			r.Int("DEGR", c.Degree)
		}
		recs = append(recs, r)
	}
	for i, cp := range c.Points {
		r := NewRecord("SLNP").Point("X", cp.P)
		if cp.W != 1 {
			r.Coord("W", cp.W)
		}
		if i == 0 {
			r.Add("TYPE", "NURB")
		}
		recs = append(recs, r)
	}
	return
}

/*
EncodeSurface writes each boundary loop, outer first, as a SARB record followed by its trim curves.
A patch is written only for non planar faces, with both knot directions mapped onto the physical
size of the face. A patch closed in U or V is still written and reported as a warning.
*/
func (e *Encoder) EncodeSurface(s geometry.Surface, diags *types.Diagnostics) (recs []*Record, err error) {
	if err = s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	for _, loop := range s.OrderedLoops() {
		recs = append(recs, NewRecord("SARB").Add(loop.Kind.String()))
		for i, c := range loop.Curves {
			var crecs []*Record
			if crecs, err = e.EncodeCurve(c, diags); err != nil {
				return nil, fmt.Errorf("%s loop edge %d: %w", loop.Kind, i+1, err)
			}
			recs = append(recs, crecs...)
		}
	}
	p := s.Patch
	if p == nil {
		return
	}
	if p.IsClosedU(e.Tolerance) {
		diags.Warn("surface is closed in U direction, the solver cannot mesh closed faces")
	}
	if p.IsClosedV(e.Tolerance) {
		diags.Warn("surface is closed in V direction, the solver cannot mesh closed faces")
	}
	if s.IsPlanar(e.Tolerance) {
		return
	}
	recs = append(recs, patchRecords(p)...)
	return
}

func patchRecords(p *geometry.Patch) (recs []*Record) {
	width, height := p.Size()
	recs = append(recs, knotRecords("S", "DEGS", p.KnotsU, p.DegreeU, width)...)
	recs = append(recs, knotRecords("T", "DEGT", p.KnotsV, p.DegreeV, height)...)
	for i, row := range p.Grid {
		for j, cp := range row {
			recs = append(recs, NewRecord("SARP").
				Int("NU", i+1).Int("NV", j+1).
				Point("X", cp.P).
				Coord("W", cp.W))
		}
	}
	return
}

func knotRecords(param, degName string, knots []float64, degree int, size float64) (recs []*Record) {
	n := geometry.Nurbs{Knots: knots}
	values, mult := n.DistinctKnots()
	for i, s := range geometry.RemapKnots(values, size) {
		r := NewRecord("SARN").Coord(param, s)
		if mult[i] > 1 {
			r.Int("M", mult[i])
		}
		if i == 0 {
			r.Int(degName, degree)
		}
		recs = append(recs, r)
	}
	return
}
