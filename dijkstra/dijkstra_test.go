package dijkstra

import (
	"testing"

	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/store"
)

// edgeRouter is a minimal test double exposing a fixed directed edge
// list as a Router, so the engine can be exercised against the literal
// Rosetta graph without needing a full Store/GTFS fixture.
type edgeRouter struct {
	edges map[store.NodeID][]router.Transition
}

func (r edgeRouter) Successors(s *store.Store, active map[store.TripID]bool, from router.State) []router.Transition {
	out := make([]router.Transition, 0, len(r.edges[from.Node]))
	for _, t := range r.edges[from.Node] {
		out = append(out, router.Transition{
			Dst:  router.NodeState(t.Dst.Node, from.Time+t.Cost),
			Cost: t.Cost,
		})
	}
	return out
}

func rosettaGraph() edgeRouter {
	type e struct {
		a, b store.NodeID
		cost int
	}
	edges := []e{
		{1, 2, 7}, {1, 3, 9}, {1, 6, 14},
		{2, 3, 10}, {2, 4, 15},
		{3, 4, 11}, {3, 6, 2},
		{4, 5, 6},
		{5, 6, 9},
	}
	g := edgeRouter{edges: make(map[store.NodeID][]router.Transition)}
	for _, edge := range edges {
		g.edges[edge.a] = append(g.edges[edge.a], router.Transition{Dst: router.NodeState(edge.b, 0), Cost: edge.cost})
	}
	return g
}

func nodesOf(path []*Trace) []store.NodeID {
	out := make([]store.NodeID, len(path))
	for i, t := range path {
		out[i] = t.State.Node
	}
	return out
}

func TestShortestPath_RosettaGraph(t *testing.T) {
	g := rosettaGraph()
	e := NewEngine(nil, g, nil, []router.State{router.NodeState(1, 0)})
	path, ok := ShortestPath(e, 5)
	if !ok {
		t.Fatal("expected a path")
	}
	got := nodesOf(path)
	want := []store.NodeID{1, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
	if cost := path[len(path)-1].Cost(); cost != 26 {
		t.Fatalf("cost = %d, want 26", cost)
	}
}

func TestShortestPath_MonotonicCosts(t *testing.T) {
	g := rosettaGraph()
	e := NewEngine(nil, g, nil, []router.State{router.NodeState(1, 0)})
	path, ok := ShortestPath(e, 6)
	if !ok {
		t.Fatal("expected a path")
	}
	wantCosts := []int{0, 9, 11}
	if len(path) != len(wantCosts) {
		t.Fatalf("path length = %d, want %d (%v)", len(path), len(wantCosts), nodesOf(path))
	}
	for i, c := range wantCosts {
		if path[i].Cost() != c {
			t.Fatalf("path[%d].Cost() = %d, want %d", i, path[i].Cost(), c)
		}
	}
	last := nodesOf(path)
	if last[len(last)-1] != 6 {
		t.Fatalf("final node = %d, want 6", last[len(last)-1])
	}
}

func TestShortestPath_SrcEqualsDst(t *testing.T) {
	g := rosettaGraph()
	e := NewEngine(nil, g, nil, []router.State{router.NodeState(1, 0)})
	path, ok := ShortestPath(e, 1)
	if !ok {
		t.Fatal("expected a degenerate single-trace path")
	}
	if len(path) != 1 {
		t.Fatalf("len(path) = %d, want 1", len(path))
	}
	if path[0].Cost() != 0 {
		t.Fatalf("cost = %d, want 0", path[0].Cost())
	}
}

func TestShortestPath_NoRoute(t *testing.T) {
	g := edgeRouter{edges: map[store.NodeID][]router.Transition{
		1: {{Dst: router.NodeState(2, 0), Cost: 5}},
		// node 3 is a disconnected component
	}}
	e := NewEngine(nil, g, nil, []router.State{router.NodeState(1, 0)})
	_, ok := ShortestPath(e, 3)
	if ok {
		t.Fatal("expected no route between disconnected components")
	}
}

func TestEngine_SettlesEachNodeAtMostOnce(t *testing.T) {
	g := rosettaGraph()
	e := NewEngine(nil, g, nil, []router.State{router.NodeState(1, 0)})
	seen := make(map[store.NodeID]int)
	for {
		tr, ok := e.Next()
		if !ok {
			break
		}
		seen[tr.State.Node]++
	}
	for node, count := range seen {
		if count != 1 {
			t.Fatalf("node %d settled %d times, want 1", node, count)
		}
	}
}
