package InputParameters

import (
	"fmt"
	"strings"

	"github.com/notargets/gocadinp/assembler"
	"github.com/notargets/gocadinp/geometry"
	"github.com/notargets/gocadinp/types"
)

/*
Build turns the file into a model ready for compilation. Elements keep file order in the direct
element list, external elements are stored but not listed. Couplings are attached by element name;
a coupling whose inputs are refused is kept in the model so the compile reports it.
Options left out of the file stay at their zero value, except InitSystem which defaults to true.
*/
func (mf *ModelFile) Build() (m *types.Model, opts assembler.Options, err error) {
	m = types.NewModel()
	opts = mf.options()
	refs := types.NewOrderedMap[string, types.ElementRef]()
	for i, eb := range mf.Elements {
		if eb.Name == "" {
			return nil, opts, fmt.Errorf("element %d has no name", i+1)
		}
		if refs.Has(eb.Name) {
			return nil, opts, fmt.Errorf("element %q is defined twice", eb.Name)
		}
		var e types.Element
		if e, err = eb.element(); err != nil {
			return nil, opts, fmt.Errorf("element %q: %w", eb.Name, err)
		}
		var ref types.ElementRef
		if eb.External {
			ref = m.AddExternal(e)
		} else {
			ref = m.AddElement(e)
		}
		refs.Set(eb.Name, ref)
	}
	for i, cb := range mf.Couplings {
		var c types.Coupling
		if c, err = cb.coupling(); err != nil {
			return nil, opts, fmt.Errorf("coupling %d: %w", i+1, err)
		}
		a, ok := refs.Get(cb.A)
		if !ok {
			return nil, opts, fmt.Errorf("coupling %d: unknown element %q", i+1, cb.A)
		}
		b := types.NoRef
		if cb.B != "" {
			if b, ok = refs.Get(cb.B); !ok {
				return nil, opts, fmt.Errorf("coupling %d: unknown element %q", i+1, cb.B)
			}
		}
		// refused inputs are reported by the compile
		_, _ = m.AddRelation(c, cb.Group, a, b)
	}
	return m, opts, nil
}

func (mf *ModelFile) options() (opts assembler.Options) {
	opts = assembler.Options{Title: mf.Title, InitSystem: true}
	o := mf.Options
	if o == nil {
		return
	}
	if o.InitSystem != nil {
		opts.InitSystem = *o.InitSystem
	}
	opts.Module = o.Module
	opts.MeshDensity = o.MeshDensity
	opts.Tolerance = o.Tolerance
	opts.StartIndex = o.StartIndex
	opts.ControlText = o.ControlText
	opts.UserText = o.UserText
	return
}

func triple(name string, v []float64) (p geometry.Point3, err error) {
	if len(v) != 3 {
		return p, fmt.Errorf("%s needs 3 values, have %d", name, len(v))
	}
	return geometry.FromSlice(v), nil
}

func optionalTriple(name string, v []float64) (*geometry.Vector3, error) {
	if v == nil {
		return nil, nil
	}
	p, err := triple(name, v)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (eb *ElementBlock) element() (e types.Element, err error) {
	kind, ok := types.ParseElementKind(eb.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown element kind %q", eb.Kind)
	}
	attr := types.Attributes{
		Name:     eb.Name,
		ID:       eb.ID,
		Group:    eb.Group,
		Fixation: eb.Fixation,
		MeshSize: eb.MeshSize,
		Text:     eb.Text,
	}
	switch kind {
	case types.KindPoint:
		pt := &types.Point{Attributes: attr}
		if pt.Position, err = triple("position", eb.Position); err != nil {
			return
		}
		if pt.LocalX, err = optionalTriple("local_x", eb.LocalX); err != nil {
			return
		}
		if pt.LocalZ, err = optionalTriple("local_z", eb.LocalZ); err != nil {
			return
		}
		e = pt
	case types.KindLine:
		ln := &types.Line{Attributes: attr, Section: eb.Section, SectionEnd: eb.SectionEnd}
		if eb.Curve == nil {
			return nil, fmt.Errorf("line has no curve")
		}
		if ln.Curve, err = eb.Curve.curve(); err != nil {
			return
		}
		if eb.Direction != nil {
			if ln.Direction, err = triple("direction", eb.Direction); err != nil {
				return
			}
		}
		e = ln
	case types.KindArea:
		ar := &types.Area{Attributes: attr, Material: eb.Material, Thickness: eb.Thickness}
		if ar.Direction, err = optionalTriple("direction", eb.Direction); err != nil {
			return
		}
		if ar.Surface, err = eb.surface(); err != nil {
			return
		}
		e = ar
	}
	return
}

func (cb *CurveBlock) curve() (c geometry.Curve, err error) {
	kind, ok := geometry.CurveNameMap[strings.ToLower(cb.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown curve type %q", cb.Type)
	}
	switch kind {
	case geometry.CurveSegment:
		var s geometry.Segment
		if s.Start, err = triple("start", cb.Start); err != nil {
			return
		}
		if s.End, err = triple("end", cb.End); err != nil {
			return
		}
		c = s
	case geometry.CurveArc:
		var a geometry.Arc
		if a.Start, err = triple("start", cb.Start); err != nil {
			return
		}
		if a.End, err = triple("end", cb.End); err != nil {
			return
		}
		if a.Center, err = triple("center", cb.Center); err != nil {
			return
		}
		if cb.Normal != nil {
			if a.Normal, err = triple("normal", cb.Normal); err != nil {
				return
			}
		}
		c = a
	case geometry.CurveNurbs:
		n := geometry.Nurbs{Degree: cb.Degree, Knots: cb.Knots}
		if n.Points, err = weighted(cb.Points, cb.Weights); err != nil {
			return
		}
		c = n
	}
	return
}

// weighted pairs control points with their weights, every weight is 1 when weights is empty
func weighted(points [][]float64, weights []float64) (wp []geometry.WeightedPoint, err error) {
	if len(weights) != 0 && len(weights) != len(points) {
		return nil, fmt.Errorf("%d weights for %d control points", len(weights), len(points))
	}
	wp = make([]geometry.WeightedPoint, len(points))
	for i, xyz := range points {
		if wp[i].P, err = triple(fmt.Sprintf("control point %d", i+1), xyz); err != nil {
			return nil, err
		}
		wp[i].W = 1
		if len(weights) != 0 {
			wp[i].W = weights[i]
		}
	}
	return
}

func (lb *LoopBlock) loop(kind geometry.LoopKind) (l geometry.Loop, err error) {
	l.Kind = kind
	for i, cb := range lb.Curves {
		var c geometry.Curve
		if c, err = cb.curve(); err != nil {
			return l, fmt.Errorf("%s loop curve %d: %w", kind, i+1, err)
		}
		l.Curves = append(l.Curves, c)
	}
	return
}

func (eb *ElementBlock) surface() (s geometry.Surface, err error) {
	if eb.Outer == nil {
		return s, fmt.Errorf("area has no outer boundary")
	}
	var l geometry.Loop
	if l, err = eb.Outer.loop(geometry.LoopOuter); err != nil {
		return
	}
	s.Loops = append(s.Loops, l)
	for _, lb := range eb.Inner {
		if l, err = lb.loop(geometry.LoopInner); err != nil {
			return
		}
		s.Loops = append(s.Loops, l)
	}
	if eb.Patch != nil {
		s.Patch, err = eb.Patch.patch()
	}
	return
}

func (pb *PatchBlock) patch() (p *geometry.Patch, err error) {
	if len(pb.Weights) != 0 && len(pb.Weights) != len(pb.Points) {
		return nil, fmt.Errorf("patch has %d weight rows for %d point rows", len(pb.Weights), len(pb.Points))
	}
	p = &geometry.Patch{
		DegreeU: pb.DegreeU,
		DegreeV: pb.DegreeV,
		KnotsU:  pb.KnotsU,
		KnotsV:  pb.KnotsV,
		Grid:    make([][]geometry.WeightedPoint, len(pb.Points)),
	}
	for i, row := range pb.Points {
		var w []float64
		if len(pb.Weights) != 0 {
			w = pb.Weights[i]
		}
		if p.Grid[i], err = weighted(row, w); err != nil {
			return nil, fmt.Errorf("patch row %d: %w", i+1, err)
		}
	}
	return
}

func (cb *CouplingBlock) coupling() (c types.Coupling, err error) {
	kind, ok := types.ParseCouplingKind(cb.Type)
	if !ok {
		return nil, fmt.Errorf("unknown coupling type %q", cb.Type)
	}
	switch kind {
	case types.CouplingRigid:
		c = types.Rigid{Fixation: cb.Fixation}
	case types.CouplingElastic:
		var dir *geometry.Vector3
		if dir, err = optionalTriple("direction", cb.Direction); err != nil {
			return
		}
		c = types.Elastic{Axial: cb.Axial, Rotational: cb.Rotational, Direction: dir}
	case types.CouplingSpring:
		var dir geometry.Vector3
		if dir, err = triple("direction", cb.Direction); err != nil {
			return
		}
		c = types.Spring{Axial: cb.Axial, Rotational: cb.Rotational, Direction: dir}
	}
	return
}
