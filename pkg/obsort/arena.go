package obsort

import (
	"github.com/daviszhen/osort/pkg/util"
)

// extra record slots backing the merger's two current rows
const mergeSlots = 2

// Arena is the single working allocation of a top-level sort call: a
// record array and a parallel sort-pointer array (with inline key
// storage). Its size is a function of the buffer row counts alone, so
// the allocation pattern leaks nothing about row contents. Every
// sort/merge step of the call rebinds pointers into this same arena;
// nothing is allocated mid-algorithm.
type Arena[R any] struct {
	_records  []R
	_ptrs     []SortPointer
	_keys     []byte
	_keyWidth int
	_capacity int
}

func NewArena[R any](capacity, keyWidth int) *Arena[R] {
	util.AssertFunc(capacity >= 0 && keyWidth > 0)
	return &Arena[R]{
		_records:  make([]R, capacity+mergeSlots),
		_ptrs:     make([]SortPointer, capacity),
		_keys:     util.GAlloc.Alloc((capacity + mergeSlots) * keyWidth),
		_keyWidth: keyWidth,
		_capacity: capacity,
	}
}

func (ar *Arena[R]) Capacity() int {
	return ar._capacity
}

func (ar *Arena[R]) Record(slot int) *R {
	return &ar._records[slot]
}

func (ar *Arena[R]) keyAt(slot int) []byte {
	off := slot * ar._keyWidth
	return ar._keys[off : off+ar._keyWidth]
}

// Bind rebinds pointer i to record slot i and returns it.
func (ar *Arena[R]) Bind(i int) *SortPointer {
	ptr := &ar._ptrs[i]
	ptr.Bind(i, ar.keyAt(i))
	return ptr
}

// Ptrs returns the first n pointers, for in-place sorting.
func (ar *Arena[R]) Ptrs(n int) []SortPointer {
	util.AssertFunc(n <= ar._capacity)
	return ar._ptrs[:n]
}

// MergePointer returns one of the two current-row pointers used by the
// streaming merger, bound to its reserved slot past the capacity.
func (ar *Arena[R]) MergePointer(i int) *SortPointer {
	util.AssertFunc(i >= 0 && i < mergeSlots)
	slot := ar._capacity + i
	ptr := &SortPointer{}
	ptr.Bind(slot, ar.keyAt(slot))
	return ptr
}

// Set copies src's key and referenced record into dst's bound slot.
func (ar *Arena[R]) Set(dst, src *SortPointer) {
	copy(dst._key, src._key)
	ar._records[dst._slot] = ar._records[src._slot]
}

func (ar *Arena[R]) Release() {
	util.GAlloc.Free(ar._keys)
	ar._records = nil
	ar._ptrs = nil
	ar._keys = nil
}
