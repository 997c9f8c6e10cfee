package types

import (
	"fmt"

	"github.com/notargets/gocadinp/geometry"
)

// Coupling is implemented by Rigid, Elastic and Spring only
type Coupling interface {
	Kind() CouplingKind
	coupling()
}

type Rigid struct {
	Fixation string
}

type Elastic struct {
	Axial, Rotational float64
	Direction         *geometry.Vector3
}

type Spring struct {
	Axial, Rotational float64
	Direction         geometry.Vector3
}

func (Rigid) Kind() CouplingKind   { return CouplingRigid }
func (Rigid) coupling()            {}
func (Elastic) Kind() CouplingKind { return CouplingElastic }
func (Elastic) coupling()          {}
func (Spring) Kind() CouplingKind  { return CouplingSpring }
func (Spring) coupling()           {}

// CouplingRelation ties a coupling to the element it is anchored on (A) and, except for
// springs, to the element it references (B). Records are always written from the A side.
type CouplingRelation struct {
	Coupling Coupling
	A, B     ElementRef
	Group    uint32
	Status   InputStatus
	Err      error // why the inputs were refused, set with StatusInvalid
}

func NewCouplingRelation(c Coupling, group uint32) *CouplingRelation {
	return &CouplingRelation{Coupling: c, A: NoRef, B: NoRef, Group: group}
}

func (r *CouplingRelation) Kind() CouplingKind { return r.Coupling.Kind() }

/*
SetInputs stores the two sides of the relation. A point A with a line B is swapped so that the
line owns the record: the record grammar has line records that reference points but no point
record that references a line. Every other point/line combination is stored as given.
Areas cannot take part in a coupling, springs take no B side and the others require one.
*/
func (r *CouplingRelation) SetInputs(arena *Arena, a, b ElementRef) (status InputStatus, err error) {
	defer func() { r.Status, r.Err = status, err }()
	if !arena.Contains(a) {
		return StatusInvalid, fmt.Errorf("%s coupling: A side is not set", r.Kind())
	}
	ea := arena.Get(a)
	if ea.Kind() == KindArea {
		return StatusInvalid, fmt.Errorf("%s coupling: A side %s is neither a point nor a line",
			r.Kind(), Label(ea))
	}
	if r.Kind() == CouplingSpring {
		if b.Valid() {
			return StatusInvalid, fmt.Errorf("spring coupling on %s takes no B side", Label(ea))
		}
		r.A, r.B = a, NoRef
		return StatusOK, nil
	}
	if !arena.Contains(b) {
		return StatusInvalid, fmt.Errorf("%s coupling on %s: B side is not set", r.Kind(), Label(ea))
	}
	eb := arena.Get(b)
	if eb.Kind() == KindArea {
		return StatusInvalid, fmt.Errorf("%s coupling on %s: B side %s is neither a point nor a line",
			r.Kind(), Label(ea), Label(eb))
	}
	if ea.Kind() == KindPoint && eb.Kind() == KindLine {
		r.A, r.B = b, a
		return StatusModified, nil
	}
	r.A, r.B = a, b
	return StatusOK, nil
}

// AddRelation builds a relation, normalizes its inputs and appends it to the model even when the
// inputs are invalid, so the caller can report it.
func (m *Model) AddRelation(c Coupling, group uint32, a, b ElementRef) (r *CouplingRelation, err error) {
	r = NewCouplingRelation(c, group)
	_, err = r.SetInputs(m.Arena, a, b)
	if err != nil {
		// keep what the host gave so the relation can still be named in diagnostics
		r.A, r.B = a, b
	}
	m.Relations = append(m.Relations, r)
	return
}
