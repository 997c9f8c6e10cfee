// Package coupling indexes coupling relations by the resolved id of the element they are
// anchored on, so the assembler can write them right after that element.
package coupling

import (
	"github.com/notargets/gocadinp/registry"
	"github.com/notargets/gocadinp/types"
)

type Index struct {
	byID *types.OrderedMap[uint32, []*types.CouplingRelation]
}

/*
Build keys every usable relation on the id of its A side and keeps input order inside each bucket.
Nothing is indexed under the B side. Relations refused by SetInputs, or whose A side has no id,
are reported and left out.
*/
func Build(arena *types.Arena, relations []*types.CouplingRelation, res *registry.Resolution,
	diags *types.Diagnostics) (ix *Index) {
	ix = &Index{byID: types.NewOrderedMap[uint32, []*types.CouplingRelation]()}
	for i, r := range relations {
		if r.Status == types.StatusInvalid {
			msg := "invalid inputs"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			diags.Error("coupling %d skipped: %s", i+1, msg)
			continue
		}
		idA := res.ID(r.A)
		if idA == 0 {
			diags.Warn("coupling %d skipped: %s has no resolvable id", i+1, types.Label(arena.Get(r.A)))
			continue
		}
		if r.B.Valid() && res.ID(r.B) == 0 {
			diags.Warn("coupling %d on %s: reference %s has no resolvable id", i+1,
				types.Label(arena.Get(r.A)), types.Label(arena.Get(r.B)))
		}
		bucket, _ := ix.byID.Get(idA)
		ix.byID.Set(idA, append(bucket, r))
	}
	return
}

// Relations returns the relations anchored on id, in input order
func (ix *Index) Relations(id uint32) []*types.CouplingRelation {
	if id == 0 {
		return nil
	}
	rels, _ := ix.byID.Get(id)
	return rels
}

// Anchors returns the anchor ids in first-seen order
func (ix *Index) Anchors() []uint32 {
	return ix.byID.Keys()
}

func (ix *Index) Len() int { return ix.byID.Len() }
