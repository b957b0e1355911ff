package page

import (
	"encoding/binary"
)

// Field widths and header offsets shared by every on-disk B+ tree node.
const (
	SizeOfPageID = 4
	SizeOfInt32  = 4
	SizeOfInt64  = 8

	OffsetPageID     = 0
	OffsetParentID   = 4
	OffsetPageType   = 8
	OffsetCount      = 12
	OffsetMaxSize    = 16
	OffsetNextPageID = 20

	HeaderSize = 24
)

// Page type tags, stored at OffsetPageType.
const (
	KindInvalid  = 0
	KindInternal = 1
	KindLeaf     = 2
)

func slotSizeFor(leaf bool) int {
	if leaf {
		return SizeOfInt64 + SizeOfRecordID
	}
	return SizeOfInt64 + SizeOfPageID
}

// MaxPossibleSize is the largest max-size a node of the given kind can be
// given and still fit in one page. Callers pick a smaller max size for the
// scenarios spec.md exercises (e.g. leaf_max_size=4); this is only a bound.
func MaxPossibleSize(leaf bool) int32 {
	return int32((PageSize - HeaderSize) / slotSizeFor(leaf))
}

// BPlusTreePage is a view over a Page's raw bytes: header fields plus the
// sorted slot array. Leaf slots are (key, RecordID); internal slots are
// (key, child PageID) with slot 0's key unused.
type BPlusTreePage struct {
	Data []byte
}

// NewBPlusTreePage wraps a fetched Page for node-level access.
func NewBPlusTreePage(p *Page) *BPlusTreePage {
	return &BPlusTreePage{Data: p.Data[:]}
}

// Init formats a fresh page as an empty node of the given kind.
func (p *BPlusTreePage) Init(pageID uint32, kind uint32, parentID uint32, maxSize int32) {
	p.SetPageID(pageID)
	p.SetPageType(kind)
	p.SetParentID(parentID)
	p.SetCount(0)
	p.SetMaxSize(maxSize)
	p.SetNextPageID(0)
}

func (p *BPlusTreePage) GetPageID() uint32 {
	return binary.LittleEndian.Uint32(p.Data[OffsetPageID : OffsetPageID+SizeOfPageID])
}
func (p *BPlusTreePage) SetPageID(id uint32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetPageID:], id)
}

func (p *BPlusTreePage) GetParentID() uint32 {
	return binary.LittleEndian.Uint32(p.Data[OffsetParentID : OffsetParentID+SizeOfPageID])
}
func (p *BPlusTreePage) SetParentID(id uint32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetParentID:], id)
}

func (p *BPlusTreePage) GetPageType() uint32 {
	return binary.LittleEndian.Uint32(p.Data[OffsetPageType : OffsetPageType+SizeOfInt32])
}
func (p *BPlusTreePage) SetPageType(kind uint32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetPageType:], kind)
}

func (p *BPlusTreePage) GetCount() int32 {
	return int32(binary.LittleEndian.Uint32(p.Data[OffsetCount : OffsetCount+SizeOfInt32]))
}
func (p *BPlusTreePage) SetCount(count int32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetCount:], uint32(count))
}

func (p *BPlusTreePage) GetMaxSize() int32 {
	return int32(binary.LittleEndian.Uint32(p.Data[OffsetMaxSize : OffsetMaxSize+SizeOfInt32]))
}
func (p *BPlusTreePage) SetMaxSize(size int32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetMaxSize:], uint32(size))
}

// MinSize is ceil(maxSize/2); internal nodes count the leftmost pointer.
func (p *BPlusTreePage) MinSize() int32 {
	return (p.GetMaxSize() + 1) / 2
}

func (p *BPlusTreePage) GetNextPageID() uint32 {
	return binary.LittleEndian.Uint32(p.Data[OffsetNextPageID : OffsetNextPageID+SizeOfPageID])
}
func (p *BPlusTreePage) SetNextPageID(id uint32) {
	binary.LittleEndian.PutUint32(p.Data[OffsetNextPageID:], id)
}

func (p *BPlusTreePage) IsLeaf() bool {
	return p.GetPageType() == KindLeaf
}

// IsFull reports whether the node has reached its configured max size.
func (p *BPlusTreePage) IsFull() bool {
	return p.GetCount() >= p.GetMaxSize()
}

func (p *BPlusTreePage) slotSize() int {
	return slotSizeFor(p.IsLeaf())
}

func (p *BPlusTreePage) slotOffset(index int32) int {
	return HeaderSize + int(index)*p.slotSize()
}

func (p *BPlusTreePage) GetKey(index int32) int64 {
	offset := p.slotOffset(index)
	return int64(binary.LittleEndian.Uint64(p.Data[offset : offset+SizeOfInt64]))
}

func (p *BPlusTreePage) SetKey(index int32, key int64) {
	offset := p.slotOffset(index)
	binary.LittleEndian.PutUint64(p.Data[offset:], uint64(key))
}

func (p *BPlusTreePage) valueOffset(index int32) int {
	return p.slotOffset(index) + SizeOfInt64
}

// GetRecordID reads a leaf slot's value. Callers must only call this on leaf
// pages.
func (p *BPlusTreePage) GetRecordID(index int32) RecordID {
	offset := p.valueOffset(index)
	return DeserializeRecordID(p.Data[offset : offset+SizeOfRecordID])
}

func (p *BPlusTreePage) SetRecordID(index int32, rid RecordID) {
	offset := p.valueOffset(index)
	buf := rid.Serialize()
	copy(p.Data[offset:offset+SizeOfRecordID], buf[:])
}

// GetChildPageID reads an internal slot's child pointer. Callers must only
// call this on internal pages.
func (p *BPlusTreePage) GetChildPageID(index int32) PageID {
	offset := p.valueOffset(index)
	return PageID(int32(binary.LittleEndian.Uint32(p.Data[offset : offset+SizeOfPageID])))
}

func (p *BPlusTreePage) SetChildPageID(index int32, id PageID) {
	offset := p.valueOffset(index)
	binary.LittleEndian.PutUint32(p.Data[offset:], uint32(id))
}

// copySlot copies one whole slot (key + value) from srcIdx in src to dstIdx
// in p. p and src must be the same kind (both leaf or both internal).
func (p *BPlusTreePage) copySlot(dstIdx int32, src *BPlusTreePage, srcIdx int32) {
	n := p.slotSize()
	dstOff := p.slotOffset(dstIdx)
	srcOff := src.slotOffset(srcIdx)
	copy(p.Data[dstOff:dstOff+n], src.Data[srcOff:srcOff+n])
}

// InsertLeaf inserts (key, rid) in sorted position. Returns false without
// mutating if key is already present.
func (p *BPlusTreePage) InsertLeaf(key int64, rid RecordID) bool {
	count := p.GetCount()
	index := int32(0)
	for index < count {
		cur := p.GetKey(index)
		if cur == key {
			return false
		}
		if cur > key {
			break
		}
		index++
	}

	for i := count; i > index; i-- {
		p.copySlot(i, p, i-1)
	}

	p.SetKey(index, key)
	p.SetRecordID(index, rid)
	p.SetCount(count + 1)
	return true
}

// FindSlot binary-searches a leaf's key array for key, returning its index
// and whether it was found.
func (p *BPlusTreePage) FindSlot(key int64) (int32, bool) {
	count := p.GetCount()
	lo, hi := int32(0), count
	for lo < hi {
		mid := (lo + hi) / 2
		k := p.GetKey(mid)
		switch {
		case k == key:
			return mid, true
		case k < key:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// FindChildIndex binary-searches an internal node's separator array and
// returns the index i such that child[i] covers key: child[0] covers
// (-inf, key[1]); child[i] covers [key[i], key[i+1]) for i >= 1.
func (p *BPlusTreePage) FindChildIndex(key int64) int32 {
	count := p.GetCount()
	lo, hi := int32(1), count
	for lo < hi {
		mid := (lo + hi) / 2
		if p.GetKey(mid) <= key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// MoveHalfTo moves the upper half of p's entries into recipient, which must
// be empty. Used when splitting a full node.
func (p *BPlusTreePage) MoveHalfTo(recipient *BPlusTreePage) {
	count := p.GetCount()
	splitIdx := count / 2
	moveCount := count - splitIdx

	for i := int32(0); i < moveCount; i++ {
		recipient.copySlot(i, p, splitIdx+i)
	}
	recipient.SetCount(moveCount)
	p.SetCount(splitIdx)
}

// Remove deletes the slot at index, shifting later slots down.
func (p *BPlusTreePage) Remove(index int32) {
	count := p.GetCount()
	if index < 0 || index >= count {
		return
	}
	for i := index; i < count-1; i++ {
		p.copySlot(i, p, i+1)
	}
	p.SetCount(count - 1)
}

// MoveAllTo appends all of p's entries onto the end of recipient (a merge),
// leaving p empty.
func (p *BPlusTreePage) MoveAllTo(recipient *BPlusTreePage) {
	start := recipient.GetCount()
	count := p.GetCount()
	for i := int32(0); i < count; i++ {
		recipient.copySlot(start+i, p, i)
	}
	recipient.SetCount(start + count)
	p.SetCount(0)
}

// MoveFirstToEndOf moves p's first entry onto the end of recipient
// (redistribute: borrow from the right sibling).
func (p *BPlusTreePage) MoveFirstToEndOf(recipient *BPlusTreePage) {
	idx := recipient.GetCount()
	recipient.copySlot(idx, p, 0)
	recipient.SetCount(idx + 1)
	p.Remove(0)
}

// MoveLastToFrontOf moves p's last entry onto the front of recipient
// (redistribute: borrow from the left sibling).
func (p *BPlusTreePage) MoveLastToFrontOf(recipient *BPlusTreePage) {
	count := p.GetCount()
	recCount := recipient.GetCount()
	for i := recCount; i > 0; i-- {
		recipient.copySlot(i, recipient, i-1)
	}
	recipient.copySlot(0, p, count-1)
	recipient.SetCount(recCount + 1)
	p.SetCount(count - 1)
}
