package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

// Number of Gauss-Legendre points used per knot span when integrating arc length
const LengthQuadPoints = 24

// Nurbs is a rational B-spline curve, len(Knots) = len(Points) + Degree + 1
type Nurbs struct {
	Degree int
	Knots  []float64
	Points []WeightedPoint
}

func (Nurbs) Kind() CurveKind { return CurveNurbs }
func (Nurbs) curve()          {}

func (c Nurbs) StartPoint() Point3 {
	u0, _ := c.Domain()
	return c.PointAt(u0)
}

func (c Nurbs) EndPoint() Point3 {
	_, u1 := c.Domain()
	return c.PointAt(u1)
}

func (c Nurbs) Validate() (err error) {
	var (
		p  = c.Degree
		np = len(c.Points)
	)
	switch {
	case p < 1:
		return fmt.Errorf("nurbs degree must be at least 1, have %d", p)
	case np < p+1:
		return fmt.Errorf("nurbs of degree %d needs at least %d control points, have %d", p, p+1, np)
	case len(c.Knots) != np+p+1:
		return fmt.Errorf("nurbs knot count must be %d, have %d", np+p+1, len(c.Knots))
	}
	for i := 1; i < len(c.Knots); i++ {
		if c.Knots[i] < c.Knots[i-1] {
			return fmt.Errorf("nurbs knots decrease at index %d: %g < %g", i, c.Knots[i], c.Knots[i-1])
		}
	}
	if c.Knots[p] >= c.Knots[np] {
		return fmt.Errorf("nurbs parameter domain [%g,%g] is empty", c.Knots[p], c.Knots[np])
	}
	for i, wp := range c.Points {
		if wp.W <= 0 {
			return fmt.Errorf("nurbs control point %d has non positive weight %g", i, wp.W)
		}
		if !isFinite(wp.P) {
			return fmt.Errorf("nurbs control point %d is not finite", i)
		}
	}
	return
}

// Domain returns the evaluation interval [U_p, U_n+1]
func (c Nurbs) Domain() (u0, u1 float64) {
	return c.Knots[c.Degree], c.Knots[len(c.Points)]
}

// DistinctKnots returns the knot values without repetition together with their multiplicities
func (c Nurbs) DistinctKnots() (values []float64, mult []int) {
	return distinctKnots(c.Knots)
}

func distinctKnots(knots []float64) (values []float64, mult []int) {
	for i, k := range knots {
		if i > 0 && k == knots[i-1] {
			mult[len(mult)-1]++
			continue
		}
		values = append(values, k)
		mult = append(mult, 1)
	}
	return
}

// RemapKnots applies the affine map [k0,kn] -> [0,L]. A degenerate range uses scale 1.
func RemapKnots(knots []float64, length float64) (remapped []float64) {
	remapped = make([]float64, len(knots))
	if len(knots) == 0 {
		return
	}
	copy(remapped, knots)
	var (
		k0    = knots[0]
		kn    = knots[len(knots)-1]
		scale = 1.
	)
	if kn-k0 > 0 {
		scale = length / (kn - k0)
	}
	floats.AddConst(-k0, remapped)
	floats.Scale(scale, remapped)
	return
}

func (c Nurbs) findSpan(u float64) int {
	var (
		n = len(c.Points) - 1
		p = c.Degree
		U = c.Knots
	)
	if u >= U[n+1] {
		// last non-degenerate span
		for i := n; i > p; i-- {
			if U[i] < U[i+1] {
				return i
			}
		}
		return p
	}
	if u <= U[p] {
		for i := p; i < n; i++ {
			if U[i] < U[i+1] {
				return i
			}
		}
		return n
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for u < U[mid] || u >= U[mid+1] {
		if u < U[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisFuns returns the p+1 non vanishing basis functions N_{span-p..span, p}(u)
func basisFuns(span int, u float64, p int, U []float64) (N []float64) {
	N = make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	N[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - U[span+1-j]
		right[j] = U[span+j] - u
		saved := 0.
		for r := 0; r < j; r++ {
			den := right[r+1] + left[j-r]
			temp := 0.
			if den != 0 {
				temp = N[r] / den
			}
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
	return
}

// basisDerivs returns the non vanishing basis functions at u and their first derivatives
func basisDerivs(span int, u float64, p int, U []float64) (N, dN []float64) {
	N = basisFuns(span, u, p, U)
	dN = make([]float64, p+1)
	if p == 0 {
		return
	}
	Nm := basisFuns(span, u, p-1, U) // N_{span-p+1..span, p-1}
	for k := 0; k <= p; k++ {
		i := span - p + k
		if k >= 1 {
			if den := U[i+p] - U[i]; den != 0 {
				dN[k] += float64(p) * Nm[k-1] / den
			}
		}
		if k <= p-1 {
			if den := U[i+p+1] - U[i+1]; den != 0 {
				dN[k] -= float64(p) * Nm[k] / den
			}
		}
	}
	return
}

func (c Nurbs) eval(u float64, withDeriv bool) (pt Point3, der Vector3) {
	var (
		p     = c.Degree
		span  = c.findSpan(u)
		N, dN []float64
		A, dA r3.Vec
		W, dW float64
	)
	if withDeriv {
		N, dN = basisDerivs(span, u, p, c.Knots)
	} else {
		N = basisFuns(span, u, p, c.Knots)
	}
	for k := 0; k <= p; k++ {
		cp := c.Points[span-p+k]
		A = r3.Add(A, r3.Scale(N[k]*cp.W, cp.P))
		W += N[k] * cp.W
		if withDeriv {
			dA = r3.Add(dA, r3.Scale(dN[k]*cp.W, cp.P))
			dW += dN[k] * cp.W
		}
	}
	pt = r3.Scale(1/W, A)
	if withDeriv {
		der = r3.Scale(1/W, r3.Sub(dA, r3.Scale(dW, pt)))
	}
	return
}

func (c Nurbs) PointAt(u float64) Point3 {
	pt, _ := c.eval(u, false)
	return pt
}

func (c Nurbs) DerivativeAt(u float64) Vector3 {
	_, der := c.eval(u, true)
	return der
}

// Length integrates the speed over each non-empty knot span of the evaluation domain
func (c Nurbs) Length() (L float64) {
	var (
		p = c.Degree
		n = len(c.Points) - 1
		U = c.Knots
	)
	speed := func(u float64) float64 {
		return r3.Norm(c.DerivativeAt(u))
	}
	for i := p; i <= n; i++ {
		if U[i+1] <= U[i] {
			continue
		}
		L += quad.Fixed(speed, U[i], U[i+1], LengthQuadPoints, quad.Legendre{}, 0)
	}
	return
}

// IsStraightLine is true for a degree 1 curve with two control points, which is
// a plain segment dressed up as a NURBS.
func (c Nurbs) IsStraightLine() bool {
	if c.Degree != 1 || len(c.Points) != 2 || len(c.Knots) != 4 {
		return false
	}
	values, _ := c.DistinctKnots()
	return len(values) == 2
}
