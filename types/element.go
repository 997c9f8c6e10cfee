package types

import (
	"fmt"

	"github.com/notargets/gocadinp/geometry"
)

/*
Structural elements are owned by an Arena and referenced everywhere else through an ElementRef, the
index of the element in the arena. Several couplings may reference the same element, and identity
assignment writes through the arena so every reference sees the same id.
*/
type Element interface {
	Kind() ElementKind
	Common() *Attributes
	element()
}

// Attributes are shared by every element kind. ID 0 means no id has been assigned.
type Attributes struct {
	Name     string
	ID       uint32
	Group    uint32
	Fixation string
	MeshSize float64
	Text     string
}

type Point struct {
	Attributes
	Position       geometry.Point3
	LocalX, LocalZ *geometry.Vector3
}

type Line struct {
	Attributes
	Curve               geometry.Curve
	Section, SectionEnd uint32
	Direction           geometry.Vector3
}

type Area struct {
	Attributes
	Surface   geometry.Surface
	Material  uint32
	Thickness float64
	Direction *geometry.Vector3
}

func (*Point) Kind() ElementKind     { return KindPoint }
func (p *Point) Common() *Attributes { return &p.Attributes }
func (*Point) element()              {}
func (*Line) Kind() ElementKind      { return KindLine }
func (l *Line) Common() *Attributes  { return &l.Attributes }
func (*Line) element()               {}
func (*Area) Kind() ElementKind      { return KindArea }
func (a *Area) Common() *Attributes  { return &a.Attributes }
func (*Area) element()               {}

// DefaultLineDirection is the local axis written for lines that carry none
var DefaultLineDirection = geometry.Vector3{X: 0, Y: 0, Z: -1}

// LocalDirection returns the line direction, falling back to DefaultLineDirection
func (l *Line) LocalDirection() geometry.Vector3 {
	if geometry.IsZero(l.Direction) {
		return DefaultLineDirection
	}
	return l.Direction
}

// ElementRef is a non owning handle to an element in an Arena
type ElementRef int

// NoRef marks an absent reference, e.g. the B side of a spring
const NoRef ElementRef = -1

func (r ElementRef) Valid() bool { return r >= 0 }

type Arena struct {
	elements []Element
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) Add(e Element) (ref ElementRef) {
	ref = ElementRef(len(a.elements))
	a.elements = append(a.elements, e)
	return
}

func (a *Arena) Len() int { return len(a.elements) }

// Get panics on a reference that was not issued by this arena
func (a *Arena) Get(ref ElementRef) Element {
	if ref < 0 || int(ref) >= len(a.elements) {
		panic(fmt.Errorf("element reference %d out of range [0,%d)", ref, len(a.elements)))
	}
	return a.elements[ref]
}

func (a *Arena) Contains(ref ElementRef) bool {
	return ref >= 0 && int(ref) < len(a.elements)
}

func (a *Arena) ID(ref ElementRef) uint32 {
	return a.Get(ref).Common().ID
}

func (a *Arena) SetID(ref ElementRef, id uint32) {
	a.Get(ref).Common().ID = id
}

// Label names an element for diagnostics
func Label(e Element) string {
	c := e.Common()
	switch {
	case c.ID != 0:
		return fmt.Sprintf("%s %d", e.Kind(), c.ID)
	case c.Name != "":
		return fmt.Sprintf("%s %q", e.Kind(), c.Name)
	default:
		return fmt.Sprintf("%s (unnumbered)", e.Kind())
	}
}

// Model is what the host hands over for one compile: the arena, the direct element list in
// host order, and the coupling relations in host order.
type Model struct {
	Arena     *Arena
	Elements  []ElementRef
	Relations []*CouplingRelation
}

func NewModel() *Model {
	return &Model{Arena: NewArena()}
}

// AddElement stores e and appends it to the direct element list
func (m *Model) AddElement(e Element) (ref ElementRef) {
	ref = m.Arena.Add(e)
	m.Elements = append(m.Elements, ref)
	return
}

// AddExternal stores e without listing it, it is then only reachable through couplings
func (m *Model) AddExternal(e Element) ElementRef {
	return m.Arena.Add(e)
}

// RelationRefs returns the A and B references of every usable relation in relation order, A before B
func (m *Model) RelationRefs() (refs []ElementRef) {
	for _, r := range m.Relations {
		if r.Status == StatusInvalid {
			continue
		}
		for _, ref := range []ElementRef{r.A, r.B} {
			if m.Arena.Contains(ref) {
				refs = append(refs, ref)
			}
		}
	}
	return
}
