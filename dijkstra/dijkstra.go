// Package dijkstra is the lazy, min-priority traversal of spec section
// 4.4: a pull-driven sequence of settled Traces in non-decreasing cost
// order, plus a shortest-path helper that consumes the sequence until
// it reaches a destination node. An Engine is consumed once: traces
// already returned by Next are not produced again, and there is no way
// to rewind it. The loop itself is CPU-bound with no
// suspension points (spec section 5); callers that want a time budget
// simply stop calling Next.
package dijkstra

import (
	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/store"
	"github.com/tpreuss/multimodal-router/util"
)

// Trace is a settled state carrying its arrival time and a back-link to
// its predecessor, per spec section 4.4. A Trace owns its own
// (state, payload) pair and only borrows its predecessor.
type Trace struct {
	State       router.State
	Payload     router.Payload
	Predecessor *Trace
}

// Cost is the trace's absolute arrival time, the heap key.
func (t *Trace) Cost() int { return t.State.Time }

type placeKey struct {
	isStop bool
	node   store.NodeID
	stop   store.StopID
}

func keyOf(s router.State) placeKey {
	if s.IsStop {
		return placeKey{isStop: true, stop: s.Stop}
	}
	return placeKey{node: s.Node}
}

// Engine drives the traversal: a min-heap of traces plus a settled set,
// advancing one pop at a time. Stale heap entries for already-settled
// places are discarded on pop; there is no decrease-key.
type Engine struct {
	s       *store.Store
	router  router.Router
	active  map[store.TripID]bool
	heap    util.PriorityQueue[*Trace, int]
	settled map[placeKey]bool
}

// NewEngine seeds the heap with the given starting states, each with no
// predecessor.
func NewEngine(s *store.Store, rtr router.Router, active map[store.TripID]bool, seeds []router.State) *Engine {
	e := &Engine{
		s:       s,
		router:  rtr,
		active:  active,
		heap:    util.NewPriorityQueue[*Trace, int](64),
		settled: make(map[placeKey]bool),
	}
	for _, seed := range seeds {
		e.heap.Enqueue(&Trace{State: seed}, seed.Time)
	}
	return e
}

// Next pops and settles the next trace in non-decreasing cost order, or
// reports false once the heap is exhausted. A place is emitted at most
// once (the settled-once invariant of spec section 4.4).
func (e *Engine) Next() (*Trace, bool) {
	for {
		t, ok := e.heap.Dequeue()
		if !ok {
			return nil, false
		}
		key := keyOf(t.State)
		if e.settled[key] {
			continue
		}
		e.settled[key] = true

		for _, tr := range e.router.Successors(e.s, e.active, t.State) {
			if e.settled[keyOf(tr.Dst)] {
				continue
			}
			e.heap.Enqueue(&Trace{State: tr.Dst, Payload: tr.Payload, Predecessor: t}, tr.Dst.Time)
		}
		return t, true
	}
}

// ShortestPath consumes the engine's sequence until a trace at dst
// (a graph node) is produced, then walks its predecessor chain back
// into forward order. Returns false if the sequence exhausts first.
//
// If dst is already in the seed set, the returned path is the single
// seed trace -- callers (the directions builder) must handle this
// degenerate src==dst case per spec section 4.4.
func ShortestPath(e *Engine, dst store.NodeID) ([]*Trace, bool) {
	for {
		t, ok := e.Next()
		if !ok {
			return nil, false
		}
		if !t.State.IsStop && t.State.Node == dst {
			return reconstruct(t), true
		}
	}
}

func reconstruct(t *Trace) []*Trace {
	n := 0
	for p := t; p != nil; p = p.Predecessor {
		n++
	}
	path := make([]*Trace, n)
	for p, i := t, n-1; p != nil; p, i = p.Predecessor, i-1 {
		path[i] = p
	}
	return path
}
