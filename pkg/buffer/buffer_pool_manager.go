// Package buffer implements the buffer pool: a fixed array of page frames
// backed by a disk manager, with an extendible hash directory serving as
// the page table and an LRU-K replacer choosing eviction victims.
package buffer

import (
	"errors"
	"sync"

	"pagestore/pkg/storage/disk"
	"pagestore/pkg/storage/hash"
	"pagestore/pkg/storage/page"
)

// pageIDHash adapts hash.Int32Hash to the page.PageID named type so the
// page table's directory stays agnostic to how page ids are represented.
func pageIDHash(id page.PageID) uint64 {
	return hash.Int32Hash(int32(id))
}

// BufferPoolManager owns the pool's frames, free list, page table, and
// replacer, and mediates every access to them through one pool-wide latch.
// Simplicity and correctness dominate here; finer latching is a documented
// optimization, not something this implementation attempts.
type BufferPoolManager struct {
	mu          sync.Mutex
	diskManager disk.DiskManager
	pages       []*page.Page // fixed-size frame array
	replacer    *LRUKReplacer
	freeList    []int                             // free frame ids
	pageTable   *hash.Directory[page.PageID, int] // page id -> frame id
}

// NewBufferPoolManager preallocates poolSize frames, all initially free.
func NewBufferPoolManager(diskManager disk.DiskManager, poolSize int) *BufferPoolManager {
	bpm := &BufferPoolManager{
		diskManager: diskManager,
		pages:       make([]*page.Page, poolSize),
		replacer:    NewLRUKReplacer(poolSize),
		freeList:    make([]int, poolSize),
		pageTable:   hash.New[page.PageID, int](4, pageIDHash),
	}

	for i := 0; i < poolSize; i++ {
		bpm.pages[i] = &page.Page{}
		bpm.freeList[i] = i
	}

	return bpm
}

// FetchPage returns a pinned frame holding pageID, reading it from disk on
// a miss. Returns nil if no frame is available (pool full, all pinned).
func (b *BufferPoolManager) FetchPage(pageID page.PageID) *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.pageTable.Find(pageID); ok {
		p := b.pages[frameID]
		p.SetPinCount(p.PinCount() + 1)
		b.replacer.RecordAccess(frameID)
		b.replacer.SetEvictable(frameID, false)
		return p
	}

	frameID, err := b.getAvailableFrame()
	if err != nil {
		return nil
	}

	p := b.pages[frameID]
	if err := b.diskManager.ReadPage(pageID, p); err != nil {
		// Leave the frame free; nothing was committed to the page table.
		b.freeList = append(b.freeList, frameID)
		return nil
	}

	p.SetID(pageID)
	p.SetPinCount(1)
	p.SetDirty(false)

	b.pageTable.Insert(pageID, frameID)
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return p
}

// UnpinPage decrements pageID's pin count, OR-ing in the dirty hint. Once
// the count reaches zero the frame becomes evictable. Fails if pageID is
// not resident or its pin count is already zero.
func (b *BufferPoolManager) UnpinPage(pageID page.PageID, isDirty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return errors.New("buffer: unpin of a page not resident in the pool")
	}

	p := b.pages[frameID]
	if p.PinCount() <= 0 {
		return errors.New("buffer: pin count is already zero")
	}

	p.SetPinCount(p.PinCount() - 1)
	if isDirty {
		p.SetDirty(true)
	}

	if p.PinCount() == 0 {
		b.replacer.SetEvictable(frameID, true)
	}

	return nil
}

// NewPage allocates a fresh page id, secures a frame, zeroes it, and
// returns it pinned with count 1. Returns nil if no frame is available.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, err := b.getAvailableFrame()
	if err != nil {
		return nil
	}

	newPageID := b.diskManager.AllocatePage()

	p := b.pages[frameID]
	p.Clear()
	p.SetID(newPageID)
	p.SetPinCount(1)
	p.SetDirty(false)

	b.pageTable.Insert(newPageID, frameID)
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	return p
}

// FlushPage writes pageID's bytes to disk and clears its dirty flag. Fails
// if pageID is not resident.
func (b *BufferPoolManager) FlushPage(pageID page.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		return false
	}

	p := b.pages[frameID]
	if err := b.diskManager.WritePage(pageID, p); err != nil {
		return false
	}
	p.SetDirty(false)
	return true
}

// FetchPageGuarded is FetchPage wrapped in a PageGuard.
func (b *BufferPoolManager) FetchPageGuarded(pageID page.PageID) *PageGuard {
	return newPageGuard(b, b.FetchPage(pageID))
}

// NewPageGuarded is NewPage wrapped in a PageGuard.
func (b *BufferPoolManager) NewPageGuarded() *PageGuard {
	return newPageGuard(b, b.NewPage())
}

// FlushAllPages writes every resident dirty page to disk.
func (b *BufferPoolManager) FlushAllPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pages {
		if p.ID() != page.InvalidPageID && p.IsDirty() {
			b.diskManager.WritePage(p.ID(), p)
			p.SetDirty(false)
		}
	}
}

// DeletePage removes pageID from the pool and releases its id to the disk
// manager. Succeeds trivially if pageID is not resident. Fails if the page
// is pinned.
func (b *BufferPoolManager) DeletePage(pageID page.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable.Find(pageID)
	if !ok {
		b.diskManager.DeallocatePage(pageID)
		return true
	}

	p := b.pages[frameID]
	if p.PinCount() > 0 {
		return false
	}

	if p.IsDirty() {
		b.diskManager.WritePage(pageID, p)
	}

	b.pageTable.Remove(pageID)
	b.replacer.Remove(frameID)

	p.Clear()
	b.freeList = append(b.freeList, frameID)

	b.diskManager.DeallocatePage(pageID)
	return true
}

// getAvailableFrame returns a frame ready for reuse: from the free list if
// one is free, otherwise by evicting a replacer victim (writing it back
// first if dirty, and dropping its page-table entry).
func (b *BufferPoolManager) getAvailableFrame() (int, error) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, nil
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, errors.New("buffer: no frame available (pool full, all pages pinned)")
	}

	victim := b.pages[frameID]
	if victim.IsDirty() {
		if err := b.diskManager.WritePage(victim.ID(), victim); err != nil {
			// Keep the victim resident and evictable; its bytes are not on disk.
			b.replacer.RecordAccess(frameID)
			b.replacer.SetEvictable(frameID, true)
			return 0, err
		}
	}
	b.pageTable.Remove(victim.ID())

	return frameID, nil
}
