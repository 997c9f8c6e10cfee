package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

type LoopKind uint8

const (
	LoopOuter LoopKind = iota
	LoopInner
)

func (k LoopKind) String() string {
	return [...]string{"OUT", "IN"}[k]
}

// Loop is a closed, ordered chain of trim curves
type Loop struct {
	Kind   LoopKind
	Curves []Curve
}

// Surface is a trimmed face: exactly one outer loop, any number of inner loops and, for
// curved faces, the underlying NURBS patch.
type Surface struct {
	Loops []Loop
	Patch *Patch
}

func (s Surface) Validate() (err error) {
	var outer int
	for _, l := range s.Loops {
		if l.Kind == LoopOuter {
			outer++
		}
		if len(l.Curves) == 0 {
			return fmt.Errorf("surface has an empty %s loop", l.Kind)
		}
	}
	if outer != 1 {
		return fmt.Errorf("surface must have exactly one outer loop, have %d", outer)
	}
	if s.Patch != nil {
		err = s.Patch.Validate()
	}
	return
}

// OrderedLoops returns the outer loop followed by the inner loops in input order
func (s Surface) OrderedLoops() (loops []Loop) {
	for _, l := range s.Loops {
		if l.Kind == LoopOuter {
			loops = append(loops, l)
		}
	}
	for _, l := range s.Loops {
		if l.Kind == LoopInner {
			loops = append(loops, l)
		}
	}
	return
}

// IsPlanar is true when there is no patch, or when every patch control point lies within tol
// of the least squares plane through the control net.
func (s Surface) IsPlanar(tol float64) bool {
	if s.Patch == nil {
		return true
	}
	return s.Patch.IsPlanar(tol)
}

// Patch is a rational tensor product surface. Grid[i][j] runs along U with i and along V with j.
type Patch struct {
	DegreeU, DegreeV int
	KnotsU, KnotsV   []float64
	Grid             [][]WeightedPoint
}

func (p *Patch) Validate() (err error) {
	nu := len(p.Grid)
	if nu == 0 {
		return fmt.Errorf("surface patch has no control points")
	}
	nv := len(p.Grid[0])
	for i, row := range p.Grid {
		if len(row) != nv {
			return fmt.Errorf("surface patch row %d has %d control points, want %d", i, len(row), nv)
		}
	}
	if err = p.isoCurveTemplate(p.DegreeU, p.KnotsU, nu).Validate(); err != nil {
		return fmt.Errorf("surface patch U direction: %w", err)
	}
	if err = p.isoCurveTemplate(p.DegreeV, p.KnotsV, nv).Validate(); err != nil {
		return fmt.Errorf("surface patch V direction: %w", err)
	}
	for i, row := range p.Grid {
		for j, wp := range row {
			if wp.W <= 0 {
				return fmt.Errorf("surface patch control point (%d,%d) has non positive weight %g", i, j, wp.W)
			}
		}
	}
	return
}

func (p *Patch) isoCurveTemplate(degree int, knots []float64, n int) Nurbs {
	pts := make([]WeightedPoint, n)
	for i := range pts {
		pts[i] = WeightedPoint{W: 1}
	}
	return Nurbs{Degree: degree, Knots: knots, Points: pts}
}

func (p *Patch) Dims() (nu, nv int) {
	nu = len(p.Grid)
	if nu > 0 {
		nv = len(p.Grid[0])
	}
	return
}

func (p *Patch) DomainU() (u0, u1 float64) {
	nu, _ := p.Dims()
	return p.KnotsU[p.DegreeU], p.KnotsU[nu]
}

func (p *Patch) DomainV() (v0, v1 float64) {
	_, nv := p.Dims()
	return p.KnotsV[p.DegreeV], p.KnotsV[nv]
}

// IsoCurveU returns the exact rational curve running along U at fixed v
func (p *Patch) IsoCurveU(v float64) (c Nurbs) {
	nu, nv := p.Dims()
	tmpl := p.isoCurveTemplate(p.DegreeV, p.KnotsV, nv)
	span := tmpl.findSpan(v)
	N := basisFuns(span, v, p.DegreeV, p.KnotsV)
	c = Nurbs{Degree: p.DegreeU, Knots: p.KnotsU, Points: make([]WeightedPoint, nu)}
	for i := 0; i < nu; i++ {
		var (
			A r3.Vec
			W float64
		)
		for k := 0; k <= p.DegreeV; k++ {
			cp := p.Grid[i][span-p.DegreeV+k]
			A = r3.Add(A, r3.Scale(N[k]*cp.W, cp.P))
			W += N[k] * cp.W
		}
		c.Points[i] = WeightedPoint{P: r3.Scale(1/W, A), W: W}
	}
	return
}

// IsoCurveV returns the exact rational curve running along V at fixed u
func (p *Patch) IsoCurveV(u float64) (c Nurbs) {
	nu, nv := p.Dims()
	tmpl := p.isoCurveTemplate(p.DegreeU, p.KnotsU, nu)
	span := tmpl.findSpan(u)
	N := basisFuns(span, u, p.DegreeU, p.KnotsU)
	c = Nurbs{Degree: p.DegreeV, Knots: p.KnotsV, Points: make([]WeightedPoint, nv)}
	for j := 0; j < nv; j++ {
		var (
			A r3.Vec
			W float64
		)
		for k := 0; k <= p.DegreeU; k++ {
			cp := p.Grid[span-p.DegreeU+k][j]
			A = r3.Add(A, r3.Scale(N[k]*cp.W, cp.P))
			W += N[k] * cp.W
		}
		c.Points[j] = WeightedPoint{P: r3.Scale(1/W, A), W: W}
	}
	return
}

func (p *Patch) PointAt(u, v float64) Point3 {
	return p.IsoCurveU(v).PointAt(u)
}

// Size estimates the width and height of the patch once flattened: the longest of the
// iso-curves taken at the start, middle and end of the opposite direction.
func (p *Patch) Size() (width, height float64) {
	v0, v1 := p.DomainV()
	for _, v := range []float64{v0, 0.5 * (v0 + v1), v1} {
		width = math.Max(width, p.IsoCurveU(v).Length())
	}
	u0, u1 := p.DomainU()
	for _, u := range []float64{u0, 0.5 * (u0 + u1), u1} {
		height = math.Max(height, p.IsoCurveV(u).Length())
	}
	return
}

// IsClosedU is true when the first and last control rows along U coincide
func (p *Patch) IsClosedU(tol float64) bool {
	nu, nv := p.Dims()
	if nu < 2 {
		return false
	}
	for j := 0; j < nv; j++ {
		if !Coincident(p.Grid[0][j].P, p.Grid[nu-1][j].P, tol) {
			return false
		}
	}
	return true
}

func (p *Patch) IsClosedV(tol float64) bool {
	nu, nv := p.Dims()
	if nv < 2 {
		return false
	}
	for i := 0; i < nu; i++ {
		if !Coincident(p.Grid[i][0].P, p.Grid[i][nv-1].P, tol) {
			return false
		}
	}
	return true
}

func (p *Patch) IsPlanar(tol float64) bool {
	var pts []Point3
	for _, row := range p.Grid {
		for _, wp := range row {
			pts = append(pts, wp.P)
		}
	}
	if len(pts) < 4 {
		return true
	}
	var centroid r3.Vec
	for _, pt := range pts {
		centroid = r3.Add(centroid, pt)
	}
	centroid = r3.Scale(1/float64(len(pts)), centroid)
	A := mat.NewDense(len(pts), 3, nil)
	for i, pt := range pts {
		d := r3.Sub(pt, centroid)
		A.SetRow(i, []float64{d.X, d.Y, d.Z})
	}
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return false
	}
	var V mat.Dense
	svd.VTo(&V)
	// singular values come sorted, the last right singular vector is the plane normal
	normal := r3.Vec{X: V.At(0, 2), Y: V.At(1, 2), Z: V.At(2, 2)}
	for _, pt := range pts {
		if math.Abs(r3.Dot(r3.Sub(pt, centroid), normal)) > tol {
			return false
		}
	}
	return true
}
