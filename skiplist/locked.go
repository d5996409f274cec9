package skiplist

import (
	"cmp"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// lockedNode is a tower node for Locked. marked and fullyLinked are the two
// status bits from the algorithm: fullyLinked publishes that every forward
// pointer up to topLevel has been installed, and marked publishes logical
// deletion. Both are single-writer and monotone: once true, never false.
type lockedNode[K cmp.Ordered, V any] struct {
	mu          sync.Mutex
	key         K
	value       V
	topLevel    int
	marked      atomic.Bool
	fullyLinked atomic.Bool
	next        []atomic.Pointer[lockedNode[K, V]]
}

func newLockedNode[K cmp.Ordered, V any](key K, value V, topLevel int) *lockedNode[K, V] {
	return &lockedNode[K, V]{
		key:      key,
		value:    value,
		topLevel: topLevel,
		next:     make([]atomic.Pointer[lockedNode[K, V]], topLevel+1),
	}
}

// Locked is the concurrent lock-coupling skip list: per-node mutexes plus
// the marked/fullyLinked atomics coordinate insert, remove, and a lock-free
// search without any global lock. head and tail are sentinels that live for
// the list's lifetime and are never marked or removed.
type Locked[K cmp.Ordered, V any] struct {
	maxLevel int
	gen      lockedLevelGen
	head     *lockedNode[K, V]
	tail     *lockedNode[K, V]
}

// NewLocked constructs an empty Locked skip list. maxLevel and p fall back
// to DefaultMaxLevel/DefaultProbability when non-positive (or, for p, not
// in (0,1)).
func NewLocked[K cmp.Ordered, V any](maxLevel int, p float64) *Locked[K, V] {
	maxLevel, p = normalizeParams(maxLevel, p)

	head := newLockedNode[K, V](zeroOf[K](), zeroOf[V](), maxLevel)
	tail := newLockedNode[K, V](zeroOf[K](), zeroOf[V](), 0)
	tail.fullyLinked.Store(true)

	for level := 0; level <= maxLevel; level++ {
		head.next[level].Store(tail)
	}
	head.fullyLinked.Store(true)

	return &Locked[K, V]{
		maxLevel: maxLevel,
		gen:      lockedLevelGen{p: p, maxLevel: maxLevel},
		head:     head,
		tail:     tail,
	}
}

func zeroOf[T any]() T {
	var z T
	return z
}

// find walks from maxLevel down to 0, recording the predecessor/successor
// hypothesis at every level and the topmost level the key was observed at.
// It is lock-free: stale forward pointers and marked/fullyLinked are not
// consulted here, so its output must be validated under lock before any
// mutation relies on it.
func (l *Locked[K, V]) find(key K) (foundLevel int, preds, succs []*lockedNode[K, V]) {
	foundLevel = -1
	preds = make([]*lockedNode[K, V], l.maxLevel+1)
	succs = make([]*lockedNode[K, V], l.maxLevel+1)

	pred := l.head
	for level := l.maxLevel; level >= 0; level-- {
		curr := pred.next[level].Load()
		for curr != l.tail && key > curr.key {
			pred = curr
			curr = pred.next[level].Load()
		}
		if foundLevel == -1 && curr != l.tail && curr.key == key {
			foundLevel = level
		}
		preds[level] = pred
		succs[level] = curr
	}
	return foundLevel, preds, succs
}

// Search runs find and, if the key was seen, checks the witness node is
// live (fully linked, not marked) before returning its value. It never
// blocks: no lock is taken.
func (l *Locked[K, V]) Search(key K) (V, bool) {
	foundLevel, _, succs := l.find(key)
	if foundLevel < 0 {
		return zeroOf[V](), false
	}
	found := succs[foundLevel]
	if found != l.tail && found.key == key && found.fullyLinked.Load() && !found.marked.Load() {
		return found.value, true
	}
	return zeroOf[V](), false
}

// Insert adds key/value, returning false without overwriting anything if
// key is already live. A duplicate key that is mid-insertion is awaited
// (spun on) until it publishes, per spec: the existing live key
// always wins a race against a new insert of the same key.
func (l *Locked[K, V]) Insert(key K, value V) bool {
	topLevel := l.gen.sample()

	for {
		foundLevel, preds, succs := l.find(key)

		if foundLevel >= 0 {
			found := succs[foundLevel]
			if !found.marked.Load() {
				for !found.fullyLinked.Load() {
					// Busy-wait on the in-progress inserter's publication;
					// bounded by constant work under its predecessor locks.
					runtime.Gosched()
				}
				return false
			}
			// The found node is dying; retry with a fresh find.
			continue
		}

		locked := make([]*lockedNode[K, V], 0, topLevel+1)
		valid := true

		for level := 0; valid && level <= topLevel; level++ {
			pred := preds[level]
			if !containsNode(locked, pred) {
				pred.mu.Lock()
				locked = append(locked, pred)
			}
			valid = !pred.marked.Load() && !succs[level].marked.Load() && pred.next[level].Load() == succs[level]
		}

		if !valid {
			unlockAll(locked)
			continue
		}

		node := newLockedNode[K, V](key, value, topLevel)
		for level := 0; level <= topLevel; level++ {
			node.next[level].Store(succs[level])
		}
		for level := 0; level <= topLevel; level++ {
			preds[level].next[level].Store(node)
		}
		node.fullyLinked.Store(true)

		unlockAll(locked)
		return true
	}
}

// Remove marks the victim dead, then physically unlinks it at every level
// it occupies. A node is eligible only when its topLevel equals the level
// the find hit it at — otherwise find landed on a lower rung of a taller
// node, and the removal restarts from a fresh find.
func (l *Locked[K, V]) Remove(key K) (V, bool) {
	var victim *lockedNode[K, V]
	isMarked := false
	topLevel := -1

	for {
		foundLevel, preds, succs := l.find(key)
		if foundLevel < 0 && !isMarked {
			return zeroOf[V](), false
		}

		if !isMarked {
			candidate := succs[foundLevel]
			if candidate.topLevel != foundLevel {
				// find hit a lower rung of a taller node; retry from the top.
				continue
			}
			if !candidate.fullyLinked.Load() || candidate.marked.Load() {
				return zeroOf[V](), false
			}
			victim = candidate
			topLevel = victim.topLevel

			victim.mu.Lock()
			if victim.marked.Load() {
				victim.mu.Unlock()
				return zeroOf[V](), false
			}
			victim.marked.Store(true)
			isMarked = true
		}

		locked := make([]*lockedNode[K, V], 0, topLevel+1)
		valid := true

		for level := 0; valid && level <= topLevel; level++ {
			pred := preds[level]
			if !containsNode(locked, pred) {
				pred.mu.Lock()
				locked = append(locked, pred)
			}
			valid = !pred.marked.Load() && pred.next[level].Load() == victim
		}

		if !valid {
			unlockAll(locked)
			continue
		}

		for level := topLevel; level >= 0; level-- {
			preds[level].next[level].Store(victim.next[level].Load())
		}

		value := victim.value
		victim.mu.Unlock()
		unlockAll(locked)
		return value, true
	}
}

// ForEach walks level 0 from head to tail. Marked nodes are still visited:
// ForEach claims no isolation against concurrent mutation and has no
// linearization point of its own.
func (l *Locked[K, V]) ForEach(visit func(key K, value V)) {
	curr := l.head.next[0].Load()
	for curr != l.tail {
		visit(curr.key, curr.value)
		curr = curr.next[0].Load()
	}
}

// Dump prints the key at every level, from the top of the tower down to
// level 0. It is diagnostic only.
func (l *Locked[K, V]) Dump() {
	for level := l.maxLevel; level >= 0; level-- {
		fmt.Printf("L%d:", level)
		curr := l.head.next[level].Load()
		for curr != l.tail {
			fmt.Printf(" %v", curr.key)
			curr = curr.next[level].Load()
		}
		fmt.Println()
	}
}

func containsNode[K cmp.Ordered, V any](locked []*lockedNode[K, V], n *lockedNode[K, V]) bool {
	for _, l := range locked {
		if l == n {
			return true
		}
	}
	return false
}

func unlockAll[K cmp.Ordered, V any](locked []*lockedNode[K, V]) {
	for _, n := range locked {
		n.mu.Unlock()
	}
}

var _ OrderedMap[int, int] = (*Locked[int, int])(nil)
