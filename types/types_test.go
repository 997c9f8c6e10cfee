package types

import (
	"testing"

	"github.com/notargets/gocadinp/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLine(id uint32) *Line {
	return &Line{
		Attributes: Attributes{ID: id},
		Curve:      geometry.Segment{Start: geometry.NewPoint(0, 0, 0), End: geometry.NewPoint(1, 0, 0)},
	}
}

func TestKinds(t *testing.T) {
	tokens := []string{"Point", "LINE", " curve ", "area", "pt"}
	kinds := []ElementKind{KindPoint, KindLine, KindLine, KindArea, KindPoint}
	for i, token := range tokens {
		k, ok := ParseElementKind(token)
		require.True(t, ok, token)
		assert.Equal(t, kinds[i], k)
	}
	_, ok := ParseElementKind("volume")
	assert.False(t, ok)

	k, ok := ParseCouplingKind("Elastic")
	assert.True(t, ok)
	assert.Equal(t, CouplingElastic, k)
	assert.Equal(t, "Spring", CouplingSpring.String())
}

func TestArena(t *testing.T) {
	m := NewModel()
	p := m.AddElement(&Point{Attributes: Attributes{Name: "p"}})
	l := m.AddExternal(newLine(7))
	assert.Equal(t, 2, m.Arena.Len())
	assert.Equal(t, []ElementRef{p}, m.Elements)
	assert.Equal(t, uint32(7), m.Arena.ID(l))
	m.Arena.SetID(p, 3)
	assert.Equal(t, uint32(3), m.Arena.Get(p).Common().ID)
	assert.Equal(t, `Point 3`, Label(m.Arena.Get(p)))
	m.Arena.SetID(p, 0)
	assert.Equal(t, `Point "p"`, Label(m.Arena.Get(p)))
	assert.Panics(t, func() { m.Arena.Get(5) })
	assert.False(t, NoRef.Valid())
	assert.Equal(t, DefaultLineDirection, m.Arena.Get(l).(*Line).LocalDirection())
}

func TestSetInputsOrientation(t *testing.T) {
	var (
		arena = NewArena()
		pt1   = arena.Add(&Point{})
		pt2   = arena.Add(&Point{})
		ln1   = arena.Add(newLine(0))
		ln2   = arena.Add(newLine(0))
		ar    = arena.Add(&Area{})
	)
	{ // point A, line B is swapped
		r := NewCouplingRelation(Rigid{}, 0)
		status, err := r.SetInputs(arena, pt1, ln1)
		require.NoError(t, err)
		assert.Equal(t, StatusModified, status)
		assert.Equal(t, StatusModified, r.Status)
		assert.Equal(t, ln1, r.A)
		assert.Equal(t, pt1, r.B)
	}
	cases := [][2]ElementRef{{ln1, pt1}, {pt1, pt2}, {ln1, ln2}}
	for _, c := range cases {
		r := NewCouplingRelation(Elastic{Axial: 1}, 0)
		status, err := r.SetInputs(arena, c[0], c[1])
		require.NoError(t, err)
		assert.Equal(t, StatusOK, status)
		assert.Equal(t, c[0], r.A)
		assert.Equal(t, c[1], r.B)
	}
	{ // areas are refused on either side
		r := NewCouplingRelation(Rigid{}, 0)
		status, err := r.SetInputs(arena, ar, pt1)
		assert.Error(t, err)
		assert.Equal(t, StatusInvalid, status)
		status, err = r.SetInputs(arena, pt1, ar)
		assert.Error(t, err)
		assert.Equal(t, StatusInvalid, status)
	}
	{ // springs are one sided, the others are not
		r := NewCouplingRelation(Spring{Direction: geometry.Vector3{Z: 1}}, 0)
		status, err := r.SetInputs(arena, pt1, NoRef)
		require.NoError(t, err)
		assert.Equal(t, StatusOK, status)
		_, err = r.SetInputs(arena, pt1, pt2)
		assert.Error(t, err)

		r = NewCouplingRelation(Rigid{}, 0)
		status, err = r.SetInputs(arena, pt1, NoRef)
		assert.Error(t, err)
		assert.Equal(t, StatusInvalid, status)
	}
}

func TestRelationRefs(t *testing.T) {
	m := NewModel()
	p1 := m.AddElement(&Point{})
	p2 := m.AddElement(&Point{})
	l1 := m.AddElement(newLine(0))
	ar := m.AddElement(&Area{})
	_, err := m.AddRelation(Rigid{}, 0, p1, l1)
	require.NoError(t, err)
	_, err = m.AddRelation(Rigid{}, 0, ar, p2)
	require.Error(t, err)
	_, err = m.AddRelation(Spring{}, 0, p2, NoRef)
	require.NoError(t, err)
	// swapped first relation, the invalid one contributes nothing
	assert.Equal(t, []ElementRef{l1, p1, p2}, m.RelationRefs())
	assert.Len(t, m.Relations, 3)
	assert.Equal(t, StatusInvalid, m.Relations[1].Status)
}

func TestOrderedMap(t *testing.T) {
	om := NewOrderedMap[uint32, string]()
	om.Set(5, "five")
	om.Set(1, "one")
	om.Set(5, "FIVE")
	assert.Equal(t, []uint32{5, 1}, om.Keys())
	v, ok := om.Get(5)
	assert.True(t, ok)
	assert.Equal(t, "FIVE", v)
	assert.False(t, om.Has(2))
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	d.Info("note %d", 1)
	d.Warn("closed in %s", "U")
	assert.False(t, d.HasErrors())
	d.Error("bad")
	assert.True(t, d.HasErrors())
	assert.Len(t, d.Filter(SeverityWarning), 1)
	assert.Equal(t, "info: note 1\nwarning: closed in U\nerror: bad", d.String())
}
