// Package registry resolves the integer identity of every structural element taking part in one
// export. Elements keep the ids the user gave them; elements that are reached through a coupling
// and carry no id get a synthetic one, which is handed back to the caller so it can be removed
// again once the export is written.
package registry

import (
	"github.com/notargets/gocadinp/types"
)

type Resolution struct {
	// Assigned maps every element seen, relation references first, to its resolved id (0 if none)
	Assigned *types.OrderedMap[types.ElementRef, uint32]
	// Synthetic holds the elements whose id was generated here, in assignment order
	Synthetic []types.ElementRef
	// Walk is the direct element list with duplicates removed, in host order
	Walk []types.ElementRef
	// Dropped are direct list entries removed as duplicates of an earlier entry
	Dropped []types.ElementRef
	// Explicit is the set of ids that were present before resolution
	Explicit map[uint32]bool
}

/*
Resolve assigns ids in three passes:
  - every explicit id found among the direct elements and the relation references goes into the used set
  - relation references are walked in order; an element without an id receives
    max(startIndex, highest synthetic id so far) + 1, probing forward past used ids
  - the direct list is walked in order and an entry is dropped if the same element, or another element
    with the same non zero id, was already kept

Direct elements that are never referenced by a coupling keep id 0 and are written with a placeholder.
The synthetic ids are written into the arena; call Reset once they are no longer needed.
*/
func Resolve(arena *types.Arena, elements, relationRefs []types.ElementRef, startIndex uint32) (res *Resolution) {
	res = &Resolution{
		Assigned: types.NewOrderedMap[types.ElementRef, uint32](),
		Explicit: make(map[uint32]bool),
	}
	for _, refs := range [][]types.ElementRef{elements, relationRefs} {
		for _, ref := range refs {
			if id := arena.ID(ref); id != 0 {
				res.Explicit[id] = true
			}
		}
	}
	used := make(map[uint32]bool, len(res.Explicit))
	for id := range res.Explicit {
		used[id] = true
	}

	var highest uint32
	for _, ref := range relationRefs {
		if res.Assigned.Has(ref) {
			continue
		}
		if id := arena.ID(ref); id != 0 {
			res.Assigned.Set(ref, id)
			continue
		}
		next := max(startIndex, highest) + 1
		for used[next] {
			next++
		}
		used[next] = true
		highest = next
		arena.SetID(ref, next)
		res.Assigned.Set(ref, next)
		res.Synthetic = append(res.Synthetic, ref)
	}

	var (
		seenRef = make(map[types.ElementRef]bool)
		seenID  = make(map[uint32]bool)
	)
	for _, ref := range elements {
		id := arena.ID(ref)
		if seenRef[ref] || (id != 0 && seenID[id]) {
			res.Dropped = append(res.Dropped, ref)
			continue
		}
		seenRef[ref] = true
		if id != 0 {
			seenID[id] = true
		}
		res.Walk = append(res.Walk, ref)
		if !res.Assigned.Has(ref) {
			res.Assigned.Set(ref, id)
		}
	}
	return
}

// ID returns the resolved id of ref, 0 when it is unresolved or unknown
func (res *Resolution) ID(ref types.ElementRef) (id uint32) {
	id, _ = res.Assigned.Get(ref)
	return
}

func (res *Resolution) IsSynthetic(ref types.ElementRef) bool {
	for _, s := range res.Synthetic {
		if s == ref {
			return true
		}
	}
	return false
}

// Reset clears every synthetic id from the arena so a later Resolve on the same input repeats
// the same assignment.
func (res *Resolution) Reset(arena *types.Arena) {
	for _, ref := range res.Synthetic {
		arena.SetID(ref, 0)
	}
}
