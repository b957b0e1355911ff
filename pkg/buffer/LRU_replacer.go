package buffer

import (
	"container/list"
	"sync"
)

// K is the number of recent accesses the replacer tracks per frame before
// a frame's k-distance becomes finite.
const K = 2

// frameRecord is a frame's access history: a ring of up to K logical
// timestamps (oldest discarded), kept in access order.
type frameRecord struct {
	frameID   int
	history   []int64 // oldest first, capped at K entries
	evictable bool
}

// kDistanceTimestamp is the timestamp that determines this frame's
// position within its group: the first-access time while in the history
// group, the K-th-most-recent access once promoted to the cache group.
func (r *frameRecord) kDistanceTimestamp() int64 {
	return r.history[0]
}

// LRUKReplacer selects an eviction victim among resident, evictable frames
// using the LRU-K policy: a frame's k-distance is the gap since its K-th
// most recent access (infinite until it has K accesses). The victim is the
// evictable frame with the largest k-distance, ties among infinite
// k-distances broken by earliest first access — classical LRU among young
// frames.
//
// Two ordered groups are maintained instead of recomputing k-distance on
// every Evict: a history group (fewer than K accesses, ordered by
// first-access time) and a cache group (K or more accesses, ordered by the
// timestamp of the K-th most recent access). Both are container/list lists
// kept in ascending timestamp order: RecordAccess scans from the back for
// the frame's position, and Evict scans from the front for the first
// evictable frame.
type LRUKReplacer struct {
	mu       sync.Mutex
	capacity int
	clock    int64

	history      *list.List // history group, oldest first-access at Front
	historyElems map[int]*list.Element

	cache      *list.List // cache group, oldest K-th-most-recent at Front
	cacheElems map[int]*list.Element

	records map[int]*frameRecord
}

func NewLRUKReplacer(capacity int) *LRUKReplacer {
	return &LRUKReplacer{
		capacity:     capacity,
		history:      list.New(),
		historyElems: make(map[int]*list.Element),
		cache:        list.New(),
		cacheElems:   make(map[int]*list.Element),
		records:      make(map[int]*frameRecord),
	}
}

// RecordAccess notes that frame f was just accessed. It creates the
// frame's record on first access, and reassigns it to the correct group
// (history or cache) in the correct position every time its history
// changes.
func (l *LRUKReplacer) RecordAccess(f int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clock++
	now := l.clock

	rec, ok := l.records[f]
	if !ok {
		rec = &frameRecord{frameID: f}
		l.records[f] = rec
	} else {
		l.unlink(f)
	}

	rec.history = append(rec.history, now)
	if len(rec.history) > K {
		rec.history = rec.history[len(rec.history)-K:]
	}

	if len(rec.history) < K {
		l.historyElems[f] = l.insertOrdered(l.history, l.historyElems, f, rec.kDistanceTimestamp())
	} else {
		l.cacheElems[f] = l.insertOrdered(l.cache, l.cacheElems, f, rec.kDistanceTimestamp())
	}
}

// insertOrdered inserts frameID into lst keeping ascending order by
// timestamp (oldest at front), scanning from the back since new accesses
// trend toward the newest end.
func (l *LRUKReplacer) insertOrdered(lst *list.List, elems map[int]*list.Element, frameID int, ts int64) *list.Element {
	for e := lst.Back(); e != nil; e = e.Prev() {
		other := l.records[e.Value.(int)]
		if other.kDistanceTimestamp() <= ts {
			return lst.InsertAfter(frameID, e)
		}
	}
	return lst.PushFront(frameID)
}

// unlink removes frame f's element from whichever group list currently
// holds it, without touching its record.
func (l *LRUKReplacer) unlink(f int) {
	if e, ok := l.historyElems[f]; ok {
		l.history.Remove(e)
		delete(l.historyElems, f)
	}
	if e, ok := l.cacheElems[f]; ok {
		l.cache.Remove(e)
		delete(l.cacheElems, f)
	}
}

// SetEvictable toggles whether frame f may be chosen as a victim. It never
// moves the frame between groups.
func (l *LRUKReplacer) SetEvictable(f int, evictable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[f]
	if !ok {
		return
	}
	rec.evictable = evictable
}

// Evict scans the history group first (oldest evictable wins); if none
// there is evictable, scans the cache group (oldest K-th access evictable
// wins). Returns the victim frame id and purges its record.
func (l *LRUKReplacer) Evict() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.evictFrom(l.history, l.historyElems); ok {
		return f, true
	}
	if f, ok := l.evictFrom(l.cache, l.cacheElems); ok {
		return f, true
	}
	return 0, false
}

func (l *LRUKReplacer) evictFrom(lst *list.List, elems map[int]*list.Element) (int, bool) {
	for e := lst.Front(); e != nil; e = e.Next() {
		f := e.Value.(int)
		if l.records[f].evictable {
			lst.Remove(e)
			delete(elems, f)
			delete(l.records, f)
			return f, true
		}
	}
	return 0, false
}

// Remove purges frame f's record. f must be evictable or untracked;
// removing a pinned (non-evictable) frame is a programmer error.
func (l *LRUKReplacer) Remove(f int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[f]
	if !ok {
		return
	}
	if !rec.evictable {
		panic("buffer: Remove called on a non-evictable frame")
	}
	l.unlink(f)
	delete(l.records, f)
}

// Size returns the number of currently evictable frames.
func (l *LRUKReplacer) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, rec := range l.records {
		if rec.evictable {
			n++
		}
	}
	return n
}
