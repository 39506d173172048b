package core

// This file implements the secondary property indexes. An index is declared
// per (label, property key) pair and maintained on every insert and delete.
// Two structures back each indexed key:
//
//   - hash buckets, value -> set of record ids, for O(1) equality lookups;
//   - a B-Tree over ordered kinds (int, float, date) for range lookups.
//
// Indexes are derived data: they can be dropped and rebuilt from a partition
// scan at any time and must come out set-equal to the incrementally
// maintained version.

import (
	"math"

	"github.com/tidwall/btree"
)

// treeItem associates an ordered property value with the record holding it.
type treeItem struct {
	Rank float64
	ID   uint64
}

func treeItemLess(a, b treeItem) bool {
	if a.Rank < b.Rank {
		return true
	}
	if a.Rank > b.Rank {
		return false
	}
	// If ranks are equal, sort by ID to keep items distinct.
	return a.ID < b.ID
}

// keyIndex holds the two structures for one indexed (label, key) pair.
type keyIndex struct {
	buckets map[string]map[uint64]struct{}
	tree    *btree.BTreeG[treeItem]
}

func newKeyIndex() *keyIndex {
	return &keyIndex{
		buckets: make(map[string]map[uint64]struct{}),
		tree:    btree.NewBTreeG[treeItem](treeItemLess),
	}
}

func (k *keyIndex) add(id uint64, v Value) {
	if v.IsNull() {
		return
	}
	bk := v.bucketKey()
	set, ok := k.buckets[bk]
	if !ok {
		set = make(map[uint64]struct{})
		k.buckets[bk] = set
	}
	set[id] = struct{}{}

	if rank, ok := v.ordered(); ok {
		k.tree.Set(treeItem{Rank: rank, ID: id})
	}
}

func (k *keyIndex) remove(id uint64, v Value) {
	if v.IsNull() {
		return
	}
	bk := v.bucketKey()
	if set, ok := k.buckets[bk]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(k.buckets, bk)
		}
	}
	if rank, ok := v.ordered(); ok {
		k.tree.Delete(treeItem{Rank: rank, ID: id})
	}
}

// lookup returns the id set for an exact value. The returned map is the
// internal bucket; callers copy before exposing it.
func (k *keyIndex) lookup(v Value) map[uint64]struct{} {
	return k.buckets[v.bucketKey()]
}

// lookupRange collects ids whose value ranks inside [min, max], bounds
// inclusive, nil meaning unbounded. Only ordered kinds ever enter the tree.
func (k *keyIndex) lookupRange(min, max *Value) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	pivot := treeItem{Rank: math.Inf(-1)}
	if min != nil {
		if rank, ok := min.ordered(); ok {
			pivot = treeItem{Rank: rank}
		} else {
			return out
		}
	}
	var hi float64
	bounded := false
	if max != nil {
		rank, ok := max.ordered()
		if !ok {
			return out
		}
		hi = rank
		bounded = true
	}
	k.tree.Ascend(pivot, func(item treeItem) bool {
		if bounded && item.Rank > hi {
			return false
		}
		out[item.ID] = struct{}{}
		return true
	})
	return out
}

// propertyIndex groups the indexed keys of one label.
type propertyIndex struct {
	keys map[string]*keyIndex
}

func newPropertyIndex() *propertyIndex {
	return &propertyIndex{keys: make(map[string]*keyIndex)}
}

// ensure registers key and reports whether it was newly created (a new key
// needs a backfill scan by the caller).
func (p *propertyIndex) ensure(key string) (*keyIndex, bool) {
	if k, ok := p.keys[key]; ok {
		return k, false
	}
	k := newKeyIndex()
	p.keys[key] = k
	return k, true
}

// onInsert adds id to every registered key present in props.
func (p *propertyIndex) onInsert(id uint64, props Properties) {
	for key, ki := range p.keys {
		if v, ok := props.Get(key); ok {
			ki.add(id, v)
		}
	}
}

// onDelete removes id from every registered key present in props.
func (p *propertyIndex) onDelete(id uint64, props Properties) {
	for key, ki := range p.keys {
		if v, ok := props.Get(key); ok {
			ki.remove(id, v)
		}
	}
}

// indexedKeys returns the registered keys, unsorted.
func (p *propertyIndex) indexedKeys() []string {
	out := make([]string, 0, len(p.keys))
	for k := range p.keys {
		out = append(out, k)
	}
	return out
}
