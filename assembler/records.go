package assembler

import (
	"fmt"

	"github.com/notargets/gocadinp/encoder"
	"github.com/notargets/gocadinp/types"
)

// elementRecord writes the record opening an element, attributes only, geometry follows separately
func elementRecord(e types.Element, id uint32) (rec *encoder.Record) {
	c := e.Common()
	switch el := e.(type) {
	case *types.Point:
		rec = encoder.NewRecord("SPT").Add(encoder.FormatID(id)).Ref("GRP", c.Group).Point("X", el.Position)
		if el.LocalX != nil {
			rec.Direction("NX", *el.LocalX)
		}
		if el.LocalZ != nil {
			rec.Direction("NZ", *el.LocalZ)
		}
	case *types.Line:
		rec = encoder.NewRecord("SLN").Add(encoder.FormatID(id)).Ref("GRP", c.Group).Ref("SNO", el.Section).
			Direction("DRX", el.LocalDirection())
		if el.SectionEnd != 0 {
			rec.Ref("SNOE", el.SectionEnd)
		}
	case *types.Area:
		rec = encoder.NewRecord("SAR").Add(encoder.FormatID(id)).Ref("GRP", c.Group).Ref("MNO", el.Material)
		if el.Thickness > 0 {
			rec.Coord("T", el.Thickness)
		}
		if el.Direction != nil {
			rec.Direction("DRX", *el.Direction)
		}
	}
	if c.Fixation != "" {
		rec.Code("FIX", c.Fixation)
	}
	if c.MeshSize > 0 {
		rec.Coord("H", c.MeshSize)
	}
	return rec.Text(c.Text)
}

// refType names the kind of the B side in a line coupling record
func refType(b types.Element) string {
	if b.Kind() == types.KindLine {
		return ">line"
	}
	return ">point"
}

/*
couplingRecord writes one relation anchored on element a. The record shape follows the anchor kind
and the coupling variant; b is nil for springs. An anchor/reference combination that has no record
form returns an error, the relation is then reported and left out.
*/
func couplingRecord(a, b types.Element, bID uint32, rel *types.CouplingRelation) (rec *encoder.Record, err error) {
	if b != nil && a.Kind() == types.KindPoint && b.Kind() == types.KindLine {
		return nil, fmt.Errorf("%s cannot reference %s, swap the coupling inputs", types.Label(a), types.Label(b))
	}
	switch a.Kind() {
	case types.KindPoint:
		switch c := rel.Coupling.(type) {
		case types.Rigid:
			rec = encoder.NewRecord("SPTP").Ref("REF", bID).Ref("GRP", rel.Group)
			if c.Fixation != "" {
				rec.Code("TYPE", c.Fixation)
			}
		case types.Elastic:
			rec = encoder.NewRecord("SPTS").Ref("REF", bID).Ref("GRP", rel.Group).
				Attr("CP", c.Axial).Attr("CM", c.Rotational)
			if c.Direction != nil {
				rec.Direction("DX", *c.Direction)
			}
		case types.Spring:
			rec = encoder.NewRecord("SPTS").Ref("GRP", rel.Group).
				Attr("CP", c.Axial).Attr("CM", c.Rotational).Direction("DX", c.Direction)
		}
	case types.KindLine:
		switch c := rel.Coupling.(type) {
		case types.Rigid:
			rec = encoder.NewRecord("SLNS").Ref("REF", bID).Add("REFT", refType(b)).Ref("GRP", rel.Group)
			if c.Fixation != "" {
				rec.Code("TYPE", c.Fixation)
			}
		case types.Elastic:
			rec = encoder.NewRecord("SLNS").Ref("REF", bID).Add("REFT", refType(b)).Ref("GRP", rel.Group).
				Attr("CA", c.Axial).Attr("CD", c.Rotational)
			if c.Direction != nil {
				rec.Direction("DX", *c.Direction)
			}
		case types.Spring:
			rec = encoder.NewRecord("SLNS").Ref("GRP", rel.Group).
				Attr("CA", c.Axial).Attr("CD", c.Rotational).Direction("DX", c.Direction)
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("%s coupling has no record form on %s", rel.Kind(), types.Label(a))
	}
	if rel.Kind() != types.CouplingSpring && b == nil {
		return nil, fmt.Errorf("%s coupling on %s has no reference", rel.Kind(), types.Label(a))
	}
	return
}
