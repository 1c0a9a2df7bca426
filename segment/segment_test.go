package segment

import (
	"testing"

	"github.com/tpreuss/multimodal-router/dijkstra"
	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/store"
)

func nodeTrace(node store.NodeID, t int, way store.WayID, name string) *dijkstra.Trace {
	return &dijkstra.Trace{
		State:   router.NodeState(node, t),
		Payload: router.Payload{Kind: router.PayloadWay, Way: store.Way{ID: way, Name: name}},
	}
}

func seedTrace(node store.NodeID, t int) *dijkstra.Trace {
	return &dijkstra.Trace{State: router.NodeState(node, t)}
}

func boardTrace(stop store.StopID, t int) *dijkstra.Trace {
	return &dijkstra.Trace{
		State:   router.StopState(stop, t),
		Payload: router.Payload{Kind: router.PayloadBoard, Board: router.BoardPayload{}},
	}
}

func TestPartition_SplitsOnWayChange(t *testing.T) {
	path := []*dijkstra.Trace{
		seedTrace(1, 0),
		nodeTrace(2, 5, 10, "Main St"),
		nodeTrace(3, 10, 10, "Main St"),
		nodeTrace(4, 15, 20, "Oak Ave"),
	}
	pieces := Partition(path)
	if len(pieces) != 3 {
		t.Fatalf("len(pieces) = %d, want 3 (seed, Main St, Oak Ave); got %+v", len(pieces), pieces)
	}
	if pieces[1].Context.Way != 10 || len(pieces[1].Traces) != 2 {
		t.Fatalf("piece 1 = %+v, want Way 10 with 2 traces", pieces[1])
	}
	if pieces[2].Context.Way != 20 || len(pieces[2].Traces) != 1 {
		t.Fatalf("piece 2 = %+v, want Way 20 with 1 trace", pieces[2])
	}
}

func TestPartition_SeedTraceAlwaysOpensPieceZero(t *testing.T) {
	path := []*dijkstra.Trace{seedTrace(1, 0)}
	pieces := Partition(path)
	if len(pieces) != 1 || pieces[0].Context.Kind != ContextOrigin {
		t.Fatalf("pieces = %+v, want single origin piece", pieces)
	}
}

func TestPartition_ConsecutiveTransitHopsStaySeparateByDestinationStop(t *testing.T) {
	path := []*dijkstra.Trace{
		seedTrace(0, 0), // placeholder origin, not a stop
		boardTrace(100, 60),
		boardTrace(200, 180),
	}
	pieces := Partition(path)
	if len(pieces) != 3 {
		t.Fatalf("len(pieces) = %d, want 3 (each destination stop is its own namespace); got %+v", len(pieces), pieces)
	}
}

func TestPartition_UndeterminedContextCarriesForward(t *testing.T) {
	path := []*dijkstra.Trace{
		nodeTrace(1, 0, 10, "Main St"),
		{State: router.StopState(100, 20)}, // undetermined: stop-anchor pseudo-edge
	}
	pieces := Partition(path)
	if len(pieces) != 1 {
		t.Fatalf("len(pieces) = %d, want 1 (undetermined context carries Main St forward)", len(pieces))
	}
	if pieces[0].Context.Way != 10 {
		t.Fatalf("piece context = %+v, want Way 10 carried forward", pieces[0].Context)
	}
}
