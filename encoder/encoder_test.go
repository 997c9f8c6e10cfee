package encoder

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/notargets/gocadinp/geometry"
	"github.com/notargets/gocadinp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(recs []*Record) (out []string) {
	for _, r := range recs {
		out = append(out, r.String())
	}
	return
}

func field(t *testing.T, r *Record, name string) float64 {
	toks := r.Tokens()
	for i, tok := range toks {
		if tok == name && i+1 < len(toks) {
			v, err := strconv.ParseFloat(toks[i+1], 64)
			require.NoError(t, err)
			return v
		}
	}
	t.Fatalf("field %s missing in %q", name, r.String())
	return 0
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.00000000", FormatFloat(0, CoordDigits))
	assert.Equal(t, "0.00000000", FormatFloat(math.Copysign(0, -1), CoordDigits))
	assert.Equal(t, "0.000000", FormatFloat(-1e-9, AttrDigits))
	assert.Equal(t, "-1.000000", FormatFloat(-1, AttrDigits))
	assert.Equal(t, "12.34567890", FormatFloat(12.3456789, CoordDigits))
	assert.Equal(t, "-", FormatID(0))
	assert.Equal(t, "17", FormatID(17))

	r := NewRecord("SPT").Ref("GRP", 0).Ref("SNO", 3)
	assert.Equal(t, "SPT GRP - SNO 3", r.String())
	assert.Equal(t, "END", NewRecord("END").String())
	assert.Equal(t, "CTRL X y", NewRecord("CTRL").Add("X").Text("  y  ").Text(" ").String())
}

func TestLineBreaks(t *testing.T) {
	line, folded := SingleLine("a\r\nEND\n\nb")
	assert.True(t, folded)
	assert.Equal(t, "a END b", line)
	line, folded = SingleLine("plain text")
	assert.False(t, folded)
	assert.Equal(t, "plain text", line)

	r := NewRecord("SPT").Add("1").Text("a\nEND\nb").Text("\n\r\n")
	assert.Equal(t, "SPT 1 a END b", r.String())
	assert.NotContains(t, r.String(), "\n")
	assert.Equal(t, "SPT FIX PPEND", NewRecord("SPT").Code("FIX", "PP\nEND").String())
	assert.Equal(t, "SLNS TYPE PPMX", NewRecord("SLNS").Code("TYPE", " PP\r\nMX ").Code("FIX", " \n ").String())
}

func TestSegment(t *testing.T) {
	e := NewEncoder(0)
	recs, err := e.EncodeCurve(geometry.Segment{Start: geometry.NewPoint(0, 0, 0), End: geometry.NewPoint(1, 0, 0)},
		new(types.Diagnostics))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SLNB X1 0.00000000 0.00000000 0.00000000  X2 1.00000000 0.00000000 0.00000000",
	}, lines(recs))
}

func TestArc(t *testing.T) {
	e := NewEncoder(0)
	a := geometry.Arc{
		Start:  geometry.NewPoint(1, 0, 0),
		End:    geometry.NewPoint(0, 1, 0),
		Center: geometry.NewPoint(0, 0, 0),
	}
	var diags types.Diagnostics
	recs, err := e.EncodeCurve(&a, &diags)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{
		"SLNB X1 1.00000000 0.00000000 0.00000000  X2 0.00000000 1.00000000 0.00000000" +
			"  XM 0.00000000 0.00000000 0.00000000  NX 0.000000 0.000000 1.000000",
	}, lines(recs))
}

func TestCollinearArcWarns(t *testing.T) {
	e := NewEncoder(0)
	half := geometry.Arc{
		Start:  geometry.NewPoint(1, 0, 0),
		End:    geometry.NewPoint(-1, 0, 0),
		Center: geometry.NewPoint(0, 0, 0),
	}
	var diags types.Diagnostics
	recs, err := e.EncodeCurve(half, &diags)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, strings.HasSuffix(recs[0].String(), "NX 0.000000 0.000000 1.000000"))
	require.Len(t, diags, 1)
	assert.Equal(t, types.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "collinear")
	assert.Contains(t, diags[0].Message, "(1.000000, 0.000000, 0.000000)")

	// an explicit normal settles the plane
	diags = nil
	half.Normal = geometry.Vector3{Y: -1}
	recs, err = e.EncodeCurve(half, &diags)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.True(t, strings.HasSuffix(recs[0].String(), "NX 0.000000 -1.000000 0.000000"))
}

func TestNurbsStraightLineDegrades(t *testing.T) {
	e := NewEncoder(0)
	c := geometry.Nurbs{
		Degree: 1,
		Knots:  []float64{3, 3, 7, 7},
		Points: []geometry.WeightedPoint{{P: geometry.NewPoint(0, 0, 0), W: 1}, {P: geometry.NewPoint(0, 2, 0), W: 1}},
	}
	recs, err := e.EncodeCurve(c, new(types.Diagnostics))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SLNB X1 0.00000000 0.00000000 0.00000000  X2 0.00000000 2.00000000 0.00000000",
	}, lines(recs))
}

func TestNurbsReparametrization(t *testing.T) {
	e := NewEncoder(0)
	w := math.Sqrt2 / 2
	c := geometry.Nurbs{
		Degree: 2,
		Knots:  []float64{10, 10, 10, 11, 13, 13, 13},
		Points: []geometry.WeightedPoint{
			{P: geometry.NewPoint(0, 0, 0), W: 1},
			{P: geometry.NewPoint(1, 0, 0), W: w},
			{P: geometry.NewPoint(2, 1, 0), W: 1},
			{P: geometry.NewPoint(3, 1, 0), W: 1},
		},
	}
	L := c.Length()
	recs, err := e.EncodeCurve(c, new(types.Diagnostics))
	require.NoError(t, err)
	require.Len(t, recs, 3+4)

	knots := recs[:3]
	assert.Equal(t, "SLNN S 0.00000000 M 3 DEGR 2", knots[0].String())
	assert.InDelta(t, 0., field(t, knots[0], "S"), 1e-6)
	assert.InDelta(t, L, field(t, knots[2], "S"), 1e-6)
	// spacing ratio 1:2 survives the affine map
	d1 := field(t, knots[1], "S") - field(t, knots[0], "S")
	d2 := field(t, knots[2], "S") - field(t, knots[1], "S")
	assert.InDelta(t, 2., d2/d1, 1e-6)
	assert.NotContains(t, knots[1].String(), "DEGR")
	assert.NotContains(t, knots[1].String(), " M ")

	pts := lines(recs[3:])
	assert.Equal(t, "SLNP X 0.00000000 0.00000000 0.00000000 TYPE NURB", pts[0])
	assert.Equal(t, "SLNP X 1.00000000 0.00000000 0.00000000 W 0.70710678", pts[1])
	assert.Equal(t, "SLNP X 3.00000000 1.00000000 0.00000000", pts[3])
}

func TestCurveErrors(t *testing.T) {
	e := NewEncoder(0)
	_, err := e.EncodeCurve(nil, new(types.Diagnostics))
	assert.True(t, errors.Is(err, ErrUnsupportedGeometryKind))

	_, err = e.EncodeCurve(geometry.Nurbs{Degree: 2, Knots: []float64{0, 1}}, new(types.Diagnostics))
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
	assert.False(t, errors.Is(err, ErrUnsupportedGeometryKind))
}

func square(size float64) geometry.Loop {
	c := []geometry.Point3{
		geometry.NewPoint(0, 0, 0), geometry.NewPoint(size, 0, 0),
		geometry.NewPoint(size, size, 0), geometry.NewPoint(0, size, 0),
	}
	var curves []geometry.Curve
	for i := range c {
		curves = append(curves, geometry.Segment{Start: c[i], End: c[(i+1)%len(c)]})
	}
	return geometry.Loop{Kind: geometry.LoopOuter, Curves: curves}
}

func TestPlanarSurface(t *testing.T) {
	e := NewEncoder(0)
	hole := geometry.Loop{Kind: geometry.LoopInner, Curves: []geometry.Curve{
		geometry.Arc{
			Start:  geometry.NewPoint(2, 1, 0),
			End:    geometry.NewPoint(2, 1, 0),
			Center: geometry.NewPoint(2, 2, 0),
			Normal: geometry.Vector3{Z: 1},
		},
	}}
	// the inner loop comes first in the input, the outer one is still written first
	s := geometry.Surface{Loops: []geometry.Loop{hole, square(4)}}
	var diags types.Diagnostics
	recs, err := e.EncodeSurface(s, &diags)
	require.NoError(t, err)
	assert.Empty(t, diags)
	out := lines(recs)
	require.Len(t, out, 1+4+1+1)
	assert.Equal(t, "SARB OUT", out[0])
	assert.Equal(t, "SLNB X1 0.00000000 0.00000000 0.00000000  X2 4.00000000 0.00000000 0.00000000", out[1])
	assert.Equal(t, "SARB IN", out[5])
	assert.True(t, strings.HasPrefix(out[6], "SLNB X1 2.00000000 1.00000000"))
}

func TestFlatPatchIsNotWritten(t *testing.T) {
	e := NewEncoder(0)
	s := geometry.Surface{
		Loops: []geometry.Loop{square(1)},
		Patch: &geometry.Patch{
			DegreeU: 1, DegreeV: 1,
			KnotsU: []float64{0, 0, 1, 1}, KnotsV: []float64{0, 0, 1, 1},
			Grid: [][]geometry.WeightedPoint{
				{{P: geometry.NewPoint(0, 0, 0), W: 1}, {P: geometry.NewPoint(0, 1, 0), W: 1}},
				{{P: geometry.NewPoint(1, 0, 0), W: 1}, {P: geometry.NewPoint(1, 1, 0), W: 1}},
			},
		},
	}
	var diags types.Diagnostics
	recs, err := e.EncodeSurface(s, &diags)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, "SARN", r.Keyword)
		assert.NotEqual(t, "SARP", r.Keyword)
	}
}

func halfCylinder(closed bool) *geometry.Patch {
	w := math.Sqrt2 / 2
	ring := []geometry.WeightedPoint{
		{P: geometry.NewPoint(1, 0, 0), W: 1},
		{P: geometry.NewPoint(1, 1, 0), W: w},
		{P: geometry.NewPoint(0, 1, 0), W: 1},
		{P: geometry.NewPoint(-1, 1, 0), W: w},
		{P: geometry.NewPoint(-1, 0, 0), W: 1},
	}
	knotsU := []float64{0, 0, 0, 1, 1, 2, 2, 2}
	if closed {
		ring = append(ring,
			geometry.WeightedPoint{P: geometry.NewPoint(-1, -1, 0), W: w},
			geometry.WeightedPoint{P: geometry.NewPoint(0, -1, 0), W: 1},
			geometry.WeightedPoint{P: geometry.NewPoint(1, -1, 0), W: w},
			geometry.WeightedPoint{P: geometry.NewPoint(1, 0, 0), W: 1},
		)
		knotsU = []float64{0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 4}
	}
	grid := make([][]geometry.WeightedPoint, len(ring))
	for i, wp := range ring {
		top := wp
		top.P.Z = 3
		grid[i] = []geometry.WeightedPoint{wp, top}
	}
	return &geometry.Patch{
		DegreeU: 2, DegreeV: 1,
		KnotsU: knotsU, KnotsV: []float64{5, 5, 6, 6},
		Grid: grid,
	}
}

func TestCurvedPatch(t *testing.T) {
	e := NewEncoder(1e-6)
	s := geometry.Surface{Loops: []geometry.Loop{square(1)}, Patch: halfCylinder(false)}
	var diags types.Diagnostics
	recs, err := e.EncodeSurface(s, &diags)
	require.NoError(t, err)
	assert.Empty(t, diags)

	var sarn, sarp []*Record
	for _, r := range recs {
		switch r.Keyword {
		case "SARN":
			sarn = append(sarn, r)
		case "SARP":
			sarp = append(sarp, r)
		}
	}
	// U knots 0,1,2 then V knots 5,6
	require.Len(t, sarn, 5)
	assert.Equal(t, "SARN S 0.00000000 M 3 DEGS 2", sarn[0].String())
	assert.InDelta(t, math.Pi, field(t, sarn[2], "S"), 1e-6)
	assert.Equal(t, "SARN T 0.00000000 M 2 DEGT 1", sarn[3].String())
	assert.Equal(t, "SARN T 3.00000000 M 2", sarn[4].String())
	// row major, unweighted position with the raw weight
	require.Len(t, sarp, 10)
	assert.Equal(t, "SARP NU 1 NV 1 X 1.00000000 0.00000000 0.00000000 W 1.00000000", sarp[0].String())
	assert.Equal(t, "SARP NU 1 NV 2 X 1.00000000 0.00000000 3.00000000 W 1.00000000", sarp[1].String())
	assert.Equal(t, "SARP NU 2 NV 1 X 1.00000000 1.00000000 0.00000000 W 0.70710678", sarp[2].String())
}

func TestClosedPatchWarns(t *testing.T) {
	e := NewEncoder(1e-6)
	s := geometry.Surface{Loops: []geometry.Loop{square(1)}, Patch: halfCylinder(true)}
	var diags types.Diagnostics
	recs, err := e.EncodeSurface(s, &diags)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, types.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "closed in U")
	assert.Equal(t, "SARB OUT", recs[0].String())
	assert.Equal(t, "SARP", recs[len(recs)-1].Keyword)
}
