package index

import (
	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/page"
)

// TreeIterator walks a B+ tree's leaves in ascending key order. It holds a
// pin and a read latch on its current leaf, via a PageGuard, released when
// it advances off the page or when Close is called.
type TreeIterator struct {
	bpm       *buffer.BufferPoolManager
	currGuard *buffer.PageGuard
	currNode  *page.BPlusTreePage
	currIdx   int32
}

// NewTreeIterator wraps an already-pinned, read-latched leaf guard at idx.
// Callers are expected to obtain leaf positioning via BPlusTree.Begin /
// BeginAt rather than constructing this directly.
func NewTreeIterator(bpm *buffer.BufferPoolManager, leafGuard *buffer.PageGuard, idx int32) *TreeIterator {
	it := &TreeIterator{
		bpm:       bpm,
		currGuard: leafGuard,
		currNode:  page.NewBPlusTreePage(leafGuard.Page()),
		currIdx:   idx,
	}
	if it.currIdx >= it.currNode.GetCount() {
		it.advancePastPage()
	}
	return it
}

// Key returns the key at the cursor. Only valid while IsValid() is true.
func (it *TreeIterator) Key() int64 {
	return it.currNode.GetKey(it.currIdx)
}

// Value returns the record id at the cursor. Only valid while IsValid()
// is true.
func (it *TreeIterator) Value() page.RecordID {
	return it.currNode.GetRecordID(it.currIdx)
}

// Next advances the cursor, crossing into the next leaf via next_page_id
// if the current one is exhausted. Returns false once iteration is done.
func (it *TreeIterator) Next() bool {
	if it.currGuard == nil {
		return false
	}
	it.currIdx++
	if it.currIdx < it.currNode.GetCount() {
		return true
	}
	return it.advancePastPage()
}

// advancePastPage releases the current leaf and follows next_page_id,
// landing on the first entry of the next leaf (skipping any that turn out
// empty, though leaves are never left empty by design).
func (it *TreeIterator) advancePastPage() bool {
	nextID := it.currNode.GetNextPageID()

	it.currGuard.Page().Latch.RUnlock()
	it.currGuard.Unpin()

	if nextID == 0 {
		it.currGuard = nil
		it.currNode = nil
		return false
	}

	nextGuard := it.bpm.FetchPageGuarded(page.PageID(nextID))
	if nextGuard == nil {
		it.currGuard = nil
		it.currNode = nil
		return false
	}
	nextGuard.Page().Latch.RLock()

	it.currGuard = nextGuard
	it.currNode = page.NewBPlusTreePage(nextGuard.Page())
	it.currIdx = 0

	if it.currNode.GetCount() == 0 {
		return it.advancePastPage()
	}
	return true
}

// Close releases the iterator's pin on its current leaf, if any. Safe to
// call on an exhausted or already-closed iterator.
func (it *TreeIterator) Close() {
	if it.currGuard != nil {
		it.currGuard.Page().Latch.RUnlock()
		it.currGuard.Unpin()
		it.currGuard = nil
		it.currNode = nil
	}
}

// IsValid reports whether the cursor currently names a live entry.
func (it *TreeIterator) IsValid() bool {
	return it.currGuard != nil
}
