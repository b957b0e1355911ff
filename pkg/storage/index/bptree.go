// Package index implements a disk-based, latch-crabbing B+ tree index
// whose nodes are buffer-pool pages.
package index

import (
	"sync"

	"pagestore/pkg/buffer"
	"pagestore/pkg/storage/page"
)

// Comparator imposes a total order over int64 keys, supplied at
// construction. The tree consults it when a split places a key or a
// separator; leaf insertion and node search (InsertLeaf, FindSlot and
// FindChildIndex in package page) compare keys in ascending numeric order,
// so keys are ordered correctly only by a comparator that agrees with
// DefaultComparator.
type Comparator func(a, b int64) int

// DefaultComparator is ordinary ascending numeric order.
func DefaultComparator(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BPlusTree is a disk-based B+ tree: internal and leaf nodes are
// buffer-pool pages, latched individually, with a tree-wide latch guarding
// only the root page id.
type BPlusTree struct {
	name   string
	bpm    *buffer.BufferPoolManager
	header *Header

	treeLatch  sync.RWMutex
	rootPageID page.PageID // guarded by treeLatch

	leafMaxSize     int32
	internalMaxSize int32
	cmp             Comparator
}

// NewBPlusTree opens (or begins) the named tree over bpm, using header to
// resolve and persist its root page id. leafMaxSize/internalMaxSize bound
// node occupancy; cmp orders keys (DefaultComparator if nil).
func NewBPlusTree(name string, header *Header, bpm *buffer.BufferPoolManager, leafMaxSize, internalMaxSize int32, cmp Comparator) *BPlusTree {
	if cmp == nil {
		cmp = DefaultComparator
	}
	return &BPlusTree{
		name:            name,
		bpm:             bpm,
		header:          header,
		rootPageID:      header.GetRootPageID(name),
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		cmp:             cmp,
	}
}

// GetRootPageID returns the tree's current root page id, held under the
// tree latch for the full duration of the read. Acquiring and releasing
// the latch before reading the field, as opposed to holding it across the
// read, gives no memory-ordering guarantee and is not repeated here.
func (tree *BPlusTree) GetRootPageID() page.PageID {
	tree.treeLatch.RLock()
	defer tree.treeLatch.RUnlock()
	return tree.rootPageID
}

func (tree *BPlusTree) IsEmpty() bool {
	return tree.GetRootPageID() == page.InvalidPageID
}

func isInsertSafe(node *page.BPlusTreePage) bool {
	if node.IsLeaf() {
		return node.GetCount() < node.GetMaxSize()-1
	}
	return node.GetCount() < node.GetMaxSize()
}

func isDeleteSafe(node *page.BPlusTreePage) bool {
	return node.GetCount() > node.MinSize()
}

// ancestorStack is the per-operation latch-crabbing queue: ancestor page
// guards accumulated while descending, released in one shot the moment a
// descendant proves safe, plus a flag for the tree-wide latch they were
// queued alongside (the sentinel of section 9's design notes).
type ancestorStack struct {
	tree     *BPlusTree
	write    bool
	treeHeld bool
	guards   []*buffer.PageGuard
}

func newAncestorStack(tree *BPlusTree, write bool) *ancestorStack {
	return &ancestorStack{tree: tree, write: write, treeHeld: true}
}

func (s *ancestorStack) push(g *buffer.PageGuard) {
	s.guards = append(s.guards, g)
}

func (s *ancestorStack) pop() *buffer.PageGuard {
	if len(s.guards) == 0 {
		return nil
	}
	g := s.guards[len(s.guards)-1]
	s.guards = s.guards[:len(s.guards)-1]
	return g
}

// releaseAll unlatches and unpins every queued ancestor, and releases the
// tree-wide latch if it is still held (the sentinel).
func (s *ancestorStack) releaseAll(dirty bool) {
	for _, g := range s.guards {
		if s.write {
			g.Page().Latch.Unlock()
		} else {
			g.Page().Latch.RUnlock()
		}
		if dirty {
			g.MarkDirty()
		}
		g.Unpin()
	}
	s.guards = s.guards[:0]
	if s.treeHeld {
		if s.write {
			s.tree.treeLatch.Unlock()
		} else {
			s.tree.treeLatch.RUnlock()
		}
		s.treeHeld = false
	}
}

// GetValue looks up key. Point queries run concurrently with each other:
// a reader releases its parent's read latch as soon as it has the child's.
func (tree *BPlusTree) GetValue(key int64) (page.RecordID, bool) {
	tree.treeLatch.RLock()
	rootID := tree.rootPageID
	if rootID == page.InvalidPageID {
		tree.treeLatch.RUnlock()
		return page.InvalidRecordID, false
	}

	curGuard := tree.bpm.FetchPageGuarded(rootID)
	if curGuard == nil {
		tree.treeLatch.RUnlock()
		return page.InvalidRecordID, false
	}
	curGuard.Page().Latch.RLock()
	tree.treeLatch.RUnlock()

	curNode := page.NewBPlusTreePage(curGuard.Page())
	for !curNode.IsLeaf() {
		idx := curNode.FindChildIndex(key)
		childID := curNode.GetChildPageID(idx)
		childGuard := tree.bpm.FetchPageGuarded(childID)
		if childGuard == nil {
			curGuard.Page().Latch.RUnlock()
			curGuard.Unpin()
			return page.InvalidRecordID, false
		}
		childGuard.Page().Latch.RLock()

		curGuard.Page().Latch.RUnlock()
		curGuard.Unpin()

		curGuard = childGuard
		curNode = page.NewBPlusTreePage(curGuard.Page())
	}

	defer func() {
		curGuard.Page().Latch.RUnlock()
		curGuard.Unpin()
	}()

	if idx, ok := curNode.FindSlot(key); ok {
		return curNode.GetRecordID(idx), true
	}
	return page.InvalidRecordID, false
}

func (tree *BPlusTree) startNewTree(key int64, rid page.RecordID) {
	guard := tree.bpm.NewPageGuarded()
	if guard == nil {
		panic("index: failed to allocate root page for a new tree")
	}
	p := guard.Page()
	root := page.NewBPlusTreePage(p)
	root.Init(uint32(p.ID()), page.KindLeaf, 0, tree.leafMaxSize)
	root.InsertLeaf(key, rid)

	tree.rootPageID = p.ID()
	tree.header.SetRootPageID(tree.name, tree.rootPageID)

	guard.MarkDirty()
	guard.Unpin()
}

// Insert adds (key, rid). Returns false without mutation on a duplicate
// key.
func (tree *BPlusTree) Insert(key int64, rid page.RecordID) bool {
	tree.treeLatch.Lock()
	stack := newAncestorStack(tree, true)
	defer stack.releaseAll(false)

	if tree.rootPageID == page.InvalidPageID {
		tree.startNewTree(key, rid)
		return true
	}

	curGuard := tree.bpm.FetchPageGuarded(tree.rootPageID)
	if curGuard == nil {
		return false
	}
	curGuard.Page().Latch.Lock()
	curNode := page.NewBPlusTreePage(curGuard.Page())

	for !curNode.IsLeaf() {
		idx := curNode.FindChildIndex(key)
		childID := curNode.GetChildPageID(idx)
		childGuard := tree.bpm.FetchPageGuarded(childID)
		if childGuard == nil {
			curGuard.Page().Latch.Unlock()
			curGuard.Unpin()
			return false
		}
		childGuard.Page().Latch.Lock()
		childNode := page.NewBPlusTreePage(childGuard.Page())

		stack.push(curGuard)
		if isInsertSafe(childNode) {
			stack.releaseAll(false)
		}

		curGuard = childGuard
		curNode = childNode
	}

	if _, found := curNode.FindSlot(key); found {
		curGuard.Page().Latch.Unlock()
		curGuard.Unpin()
		return false
	}

	tree.finishLeafInsert(stack, curNode, key, rid)

	curGuard.Page().Latch.Unlock()
	curGuard.MarkDirty()
	curGuard.Unpin()
	return true
}

// finishLeafInsert inserts into a leaf already proven to hold the key's
// slot, splitting (and propagating the split upward) if it is full.
func (tree *BPlusTree) finishLeafInsert(stack *ancestorStack, leafNode *page.BPlusTreePage, key int64, rid page.RecordID) {
	if !leafNode.IsFull() {
		leafNode.InsertLeaf(key, rid)
		return
	}

	siblingGuard := tree.bpm.NewPageGuarded()
	siblingNode := page.NewBPlusTreePage(siblingGuard.Page())
	siblingNode.Init(uint32(siblingGuard.Page().ID()), page.KindLeaf, leafNode.GetParentID(), tree.leafMaxSize)
	siblingNode.SetNextPageID(leafNode.GetNextPageID())
	leafNode.SetNextPageID(siblingNode.GetPageID())

	leafNode.MoveHalfTo(siblingNode)

	if tree.cmp(key, siblingNode.GetKey(0)) >= 0 {
		siblingNode.InsertLeaf(key, rid)
	} else {
		leafNode.InsertLeaf(key, rid)
	}

	riseKey := siblingNode.GetKey(0)
	tree.insertIntoParent(stack, leafNode, page.PageID(leafNode.GetPageID()), riseKey, page.PageID(siblingNode.GetPageID()))

	siblingGuard.MarkDirty()
	siblingGuard.Unpin()
}

// insertIntoParent installs the (riseKey, newID) separator above oldNode,
// creating a new root if oldNode had none, splitting the parent (via the
// overflow-array technique) if it is full, and recursing upward as needed.
// Ancestor pages come from stack, already fetched and write-latched by the
// descent.
func (tree *BPlusTree) insertIntoParent(stack *ancestorStack, oldNode *page.BPlusTreePage, oldID page.PageID, riseKey int64, newID page.PageID) {
	parentGuard := stack.pop()
	if parentGuard == nil {
		newRootGuard := tree.bpm.NewPageGuarded()
		newRootPage := newRootGuard.Page()
		newRoot := page.NewBPlusTreePage(newRootPage)
		newRoot.Init(uint32(newRootPage.ID()), page.KindInternal, 0, tree.internalMaxSize)
		newRoot.SetCount(2)
		newRoot.SetChildPageID(0, oldID)
		newRoot.SetKey(1, riseKey)
		newRoot.SetChildPageID(1, newID)

		oldNode.SetParentID(newRoot.GetPageID())
		tree.reparentChild(newID, newRoot.GetPageID())

		tree.rootPageID = newRootPage.ID()
		tree.header.SetRootPageID(tree.name, tree.rootPageID)

		newRootGuard.MarkDirty()
		newRootGuard.Unpin()
		return
	}

	defer func() {
		parentGuard.Page().Latch.Unlock()
		parentGuard.MarkDirty()
		parentGuard.Unpin()
	}()

	parentNode := page.NewBPlusTreePage(parentGuard.Page())
	tree.reparentChild(newID, parentNode.GetPageID())

	if !parentNode.IsFull() {
		insertSeparator(parentNode, tree.cmp, riseKey, newID)
		return
	}

	type sep struct {
		key   int64
		child page.PageID
	}

	count := parentNode.GetCount()
	entries := make([]sep, 0, count)
	entries = append(entries, sep{0, parentNode.GetChildPageID(0)})
	for i := int32(1); i < count; i++ {
		entries = append(entries, sep{parentNode.GetKey(i), parentNode.GetChildPageID(i)})
	}

	merged := make([]sep, 0, len(entries)+1)
	merged = append(merged, entries[0])
	inserted := false
	for i := 1; i < len(entries); i++ {
		if !inserted && tree.cmp(riseKey, entries[i].key) < 0 {
			merged = append(merged, sep{riseKey, newID})
			inserted = true
		}
		merged = append(merged, entries[i])
	}
	if !inserted {
		merged = append(merged, sep{riseKey, newID})
	}

	siblingGuard := tree.bpm.NewPageGuarded()
	siblingPage := siblingGuard.Page()
	siblingNode := page.NewBPlusTreePage(siblingPage)
	siblingNode.Init(uint32(siblingPage.ID()), page.KindInternal, parentNode.GetParentID(), tree.internalMaxSize)

	mid := len(merged) / 2

	parentNode.SetCount(int32(mid))
	parentNode.SetChildPageID(0, merged[0].child)
	for i := 1; i < mid; i++ {
		parentNode.SetKey(int32(i), merged[i].key)
		parentNode.SetChildPageID(int32(i), merged[i].child)
	}

	rightCount := len(merged) - mid
	siblingNode.SetCount(int32(rightCount))
	siblingNode.SetChildPageID(0, merged[mid].child)
	for i := mid + 1; i < len(merged); i++ {
		siblingNode.SetKey(int32(i-mid), merged[i].key)
		siblingNode.SetChildPageID(int32(i-mid), merged[i].child)
	}
	for i := int32(0); i < int32(rightCount); i++ {
		childID := siblingNode.GetChildPageID(i)
		if childID == oldID {
			// oldNode is still write-latched by this operation; update it in place.
			oldNode.SetParentID(siblingNode.GetPageID())
			continue
		}
		tree.reparentChild(childID, siblingNode.GetPageID())
	}

	newRiseKey := merged[mid].key
	tree.insertIntoParent(stack, parentNode, page.PageID(parentGuard.Page().ID()), newRiseKey, page.PageID(siblingPage.ID()))

	siblingGuard.MarkDirty()
	siblingGuard.Unpin()
}

// insertSeparator inserts (key, childID) into an internal node that has
// room, preserving the invariant that slot 0's key is unused.
func insertSeparator(node *page.BPlusTreePage, cmp Comparator, key int64, childID page.PageID) {
	count := node.GetCount()
	idx := count
	for i := int32(1); i < count; i++ {
		if cmp(node.GetKey(i), key) > 0 {
			idx = i
			break
		}
	}
	for i := count; i > idx; i-- {
		node.SetKey(i, node.GetKey(i-1))
		node.SetChildPageID(i, node.GetChildPageID(i-1))
	}
	node.SetKey(idx, key)
	node.SetChildPageID(idx, childID)
	node.SetCount(count + 1)
}

func (tree *BPlusTree) reparentChild(childID page.PageID, parentID uint32) {
	childGuard := tree.bpm.FetchPageGuarded(childID)
	if childGuard == nil {
		return
	}
	childGuard.Page().Latch.Lock()
	childNode := page.NewBPlusTreePage(childGuard.Page())
	childNode.SetParentID(parentID)
	childGuard.Page().Latch.Unlock()
	childGuard.MarkDirty()
	childGuard.Unpin()
}

// Remove deletes key, if present. Absent keys are a no-op.
func (tree *BPlusTree) Remove(key int64) {
	tree.treeLatch.Lock()
	stack := newAncestorStack(tree, true)
	defer stack.releaseAll(false)

	if tree.rootPageID == page.InvalidPageID {
		return
	}

	curGuard := tree.bpm.FetchPageGuarded(tree.rootPageID)
	if curGuard == nil {
		return
	}
	curGuard.Page().Latch.Lock()
	curNode := page.NewBPlusTreePage(curGuard.Page())

	for !curNode.IsLeaf() {
		idx := curNode.FindChildIndex(key)
		childID := curNode.GetChildPageID(idx)
		childGuard := tree.bpm.FetchPageGuarded(childID)
		if childGuard == nil {
			curGuard.Page().Latch.Unlock()
			curGuard.Unpin()
			return
		}
		childGuard.Page().Latch.Lock()
		childNode := page.NewBPlusTreePage(childGuard.Page())

		stack.push(curGuard)
		if isDeleteSafe(childNode) {
			stack.releaseAll(false)
		}

		curGuard = childGuard
		curNode = childNode
	}

	idx, found := curNode.FindSlot(key)
	if !found {
		curGuard.Page().Latch.Unlock()
		curGuard.Unpin()
		return
	}
	curNode.Remove(idx)

	if curNode.GetPageID() == uint32(tree.rootPageID) {
		curGuard.MarkDirty()
		tree.adjustRoot(curGuard, curNode)
		return
	}

	if curNode.GetCount() < curNode.MinSize() {
		tree.coalesceOrRedistribute(stack, curGuard, curNode)
		return
	}

	curGuard.Page().Latch.Unlock()
	curGuard.MarkDirty()
	curGuard.Unpin()
}

// adjustRoot handles a root that emptied out (leaf, count 0: the tree
// becomes empty) or shrank to a single child (internal, count 1: that
// child is promoted). rootGuard must still be pinned and write-latched on
// entry; every field this reads off rootNode is read before the guard is
// released, so a concurrent evict-and-reuse of the frame can't race the
// decision of which branch to take.
func (tree *BPlusTree) adjustRoot(rootGuard *buffer.PageGuard, rootNode *page.BPlusTreePage) {
	rootID := page.PageID(rootNode.GetPageID())
	leafEmptied := rootNode.IsLeaf() && rootNode.GetCount() == 0
	internalShrunk := !rootNode.IsLeaf() && rootNode.GetCount() == 1

	var childID page.PageID
	if internalShrunk {
		childID = rootNode.GetChildPageID(0)
	}

	if leafEmptied {
		tree.rootPageID = page.InvalidPageID
		tree.header.SetRootPageID(tree.name, page.InvalidPageID)
	} else if internalShrunk {
		tree.rootPageID = childID
		tree.header.SetRootPageID(tree.name, childID)
	}

	rootGuard.Page().Latch.Unlock()
	rootGuard.Unpin()

	if internalShrunk {
		tree.reparentChild(childID, 0)
	}
	if leafEmptied || internalShrunk {
		tree.bpm.DeletePage(rootID)
	}
}

// coalesceOrRedistribute resolves an underflowed, non-root node: borrows
// from a sibling if one has spare entries, otherwise merges with it and
// recurses on the parent. Takes ownership of releasing nodeGuard; pops (and
// releases) ancestors from stack as the recursion needs them.
func (tree *BPlusTree) coalesceOrRedistribute(stack *ancestorStack, nodeGuard *buffer.PageGuard, node *page.BPlusTreePage) {
	parentGuard := stack.pop()
	if parentGuard == nil {
		nodeGuard.Page().Latch.Unlock()
		nodeGuard.MarkDirty()
		nodeGuard.Unpin()
		return
	}
	parentNode := page.NewBPlusTreePage(parentGuard.Page())

	idxInParent := int32(-1)
	count := parentNode.GetCount()
	for i := int32(0); i < count; i++ {
		if parentNode.GetChildPageID(i) == page.PageID(node.GetPageID()) {
			idxInParent = i
			break
		}
	}

	var siblingIdx int32
	isLeftSibling := idxInParent > 0
	if isLeftSibling {
		siblingIdx = idxInParent - 1
	} else {
		siblingIdx = idxInParent + 1
	}
	siblingGuard := tree.bpm.FetchPageGuarded(parentNode.GetChildPageID(siblingIdx))
	siblingGuard.Page().Latch.Lock()
	siblingNode := page.NewBPlusTreePage(siblingGuard.Page())

	if siblingNode.GetCount() > siblingNode.MinSize() {
		tree.redistribute(siblingNode, node, parentNode, idxInParent, isLeftSibling)

		siblingGuard.Page().Latch.Unlock()
		siblingGuard.MarkDirty()
		siblingGuard.Unpin()
		nodeGuard.Page().Latch.Unlock()
		nodeGuard.MarkDirty()
		nodeGuard.Unpin()
		parentGuard.Page().Latch.Unlock()
		parentGuard.MarkDirty()
		parentGuard.Unpin()
		return
	}

	var leftGuard, rightGuard *buffer.PageGuard
	var leftNode, rightNode *page.BPlusTreePage
	var rightIdxInParent int32
	if isLeftSibling {
		leftGuard, leftNode = siblingGuard, siblingNode
		rightGuard, rightNode = nodeGuard, node
		rightIdxInParent = idxInParent
	} else {
		leftGuard, leftNode = nodeGuard, node
		rightGuard, rightNode = siblingGuard, siblingNode
		rightIdxInParent = siblingIdx
	}

	tree.coalesce(leftNode, rightNode, parentNode, rightIdxInParent)

	leftGuard.Page().Latch.Unlock()
	leftGuard.MarkDirty()
	leftGuard.Unpin()

	rightGuard.Page().Latch.Unlock()
	rightGuard.Unpin()
	tree.bpm.DeletePage(rightGuard.Page().ID())

	if parentNode.GetPageID() == uint32(tree.rootPageID) {
		parentGuard.MarkDirty()
		tree.adjustRoot(parentGuard, parentNode)
		return
	}

	if parentNode.GetCount() < parentNode.MinSize() {
		tree.coalesceOrRedistribute(stack, parentGuard, parentNode)
		return
	}

	parentGuard.Page().Latch.Unlock()
	parentGuard.MarkDirty()
	parentGuard.Unpin()
}

// redistribute moves one entry from sibling into node and updates the
// separator in parent accordingly. For internal nodes this pulls the old
// separator down into the receiving slot and promotes the borrowed key
// up, preserving the "first pointer has no key" invariant throughout.
func (tree *BPlusTree) redistribute(sibling, node, parent *page.BPlusTreePage, idxInParent int32, isLeftSibling bool) {
	if isLeftSibling {
		if node.IsLeaf() {
			sibling.MoveLastToFrontOf(node)
			parent.SetKey(idxInParent, node.GetKey(0))
		} else {
			borrowedKey := sibling.GetKey(sibling.GetCount() - 1)
			sibling.MoveLastToFrontOf(node)
			node.SetKey(1, parent.GetKey(idxInParent))
			parent.SetKey(idxInParent, borrowedKey)
			tree.reparentChild(node.GetChildPageID(0), node.GetPageID())
		}
		return
	}

	if node.IsLeaf() {
		sibling.MoveFirstToEndOf(node)
		parent.SetKey(idxInParent+1, sibling.GetKey(0))
		return
	}

	borrowedKey := sibling.GetKey(1)
	oldCount := node.GetCount()
	sibling.MoveFirstToEndOf(node)
	node.SetKey(oldCount, parent.GetKey(idxInParent+1))
	parent.SetKey(idxInParent+1, borrowedKey)
	tree.reparentChild(node.GetChildPageID(oldCount), node.GetPageID())
}

// coalesce merges right into left, pulling the parent separator down as
// right's first real key when the nodes are internal.
func (tree *BPlusTree) coalesce(left, right, parent *page.BPlusTreePage, rightIdxInParent int32) {
	if !left.IsLeaf() {
		right.SetKey(0, parent.GetKey(rightIdxInParent))
	}

	right.MoveAllTo(left)

	if left.IsLeaf() {
		left.SetNextPageID(right.GetNextPageID())
	} else {
		count := left.GetCount()
		for i := int32(0); i < count; i++ {
			tree.reparentChild(left.GetChildPageID(i), left.GetPageID())
		}
	}

	parent.Remove(rightIdxInParent)
}

// Begin returns an iterator positioned at the smallest key in the tree.
func (tree *BPlusTree) Begin() *TreeIterator {
	curGuard, _ := tree.descendToLeaf(func(node *page.BPlusTreePage) page.PageID {
		return node.GetChildPageID(0)
	})
	if curGuard == nil {
		return nil
	}
	return NewTreeIterator(tree.bpm, curGuard, 0)
}

// BeginAt returns an iterator positioned at the first key >= key.
func (tree *BPlusTree) BeginAt(key int64) *TreeIterator {
	curGuard, curNode := tree.descendToLeaf(func(node *page.BPlusTreePage) page.PageID {
		return node.GetChildPageID(node.FindChildIndex(key))
	})
	if curGuard == nil {
		return nil
	}
	idx, _ := curNode.FindSlot(key)
	return NewTreeIterator(tree.bpm, curGuard, idx)
}

// descendToLeaf performs a read-latch-crabbing descent to a leaf,
// choosing each internal hop via pickChild, and returns the leaf still
// pinned and read-latched.
func (tree *BPlusTree) descendToLeaf(pickChild func(*page.BPlusTreePage) page.PageID) (*buffer.PageGuard, *page.BPlusTreePage) {
	tree.treeLatch.RLock()
	rootID := tree.rootPageID
	if rootID == page.InvalidPageID {
		tree.treeLatch.RUnlock()
		return nil, nil
	}

	curGuard := tree.bpm.FetchPageGuarded(rootID)
	if curGuard == nil {
		tree.treeLatch.RUnlock()
		return nil, nil
	}
	curGuard.Page().Latch.RLock()
	tree.treeLatch.RUnlock()

	curNode := page.NewBPlusTreePage(curGuard.Page())
	for !curNode.IsLeaf() {
		childID := pickChild(curNode)
		childGuard := tree.bpm.FetchPageGuarded(childID)
		if childGuard == nil {
			curGuard.Page().Latch.RUnlock()
			curGuard.Unpin()
			return nil, nil
		}
		childGuard.Page().Latch.RLock()
		curGuard.Page().Latch.RUnlock()
		curGuard.Unpin()

		curGuard = childGuard
		curNode = page.NewBPlusTreePage(curGuard.Page())
	}

	return curGuard, curNode
}

// End reports an iterator with no current position, for range comparisons
// (`for it := tree.Begin(); it.IsValid(); it.Next() { ... }` naturally
// stops at End without needing a sentinel value).
func (tree *BPlusTree) End() *TreeIterator {
	return nil
}
