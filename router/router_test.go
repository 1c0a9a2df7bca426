package router

import (
	"testing"

	"github.com/tpreuss/multimodal-router/store"
)

func fixtureStore() *store.Store {
	return store.Build(store.Raw{
		Nodes: []store.Node{
			{ID: 1, Location: [2]float64{0, 0}, Successors: []store.Ref{store.NodeRef(2), store.StopRef(100)}},
			{ID: 2, Location: [2]float64{0, 0.001}, Successors: []store.Ref{store.NodeRef(1)}},
		},
		Ways: []store.Way{
			{ID: 10, Name: "Main St", Nodes: []store.NodeID{1, 2}},
		},
		Stops: []store.Stop{
			{ID: 100, Location: [2]float64{0.0005, 0.0005}},
			{ID: 200, Location: [2]float64{0.002, 0.002}},
		},
		Trips: []store.Trip{{ID: 1, Route: 1, Service: 1}},
		StopTimes: []store.StopTime{
			{Trip: 1, Stop: 100, Arrival: 0, Departure: 600, Sequence: 1},
			{Trip: 1, Stop: 200, Arrival: 780, Departure: 780, Sequence: 2},
		},
	})
}

func TestPedestrian_NodeToNodeCarriesWayPayload(t *testing.T) {
	s := fixtureStore()
	p := Pedestrian{}
	out := p.Successors(s, nil, NodeState(1, 0))
	found := false
	for _, tr := range out {
		if !tr.Dst.IsStop && tr.Dst.Node == 2 {
			found = true
			if tr.Payload.Kind != PayloadWay || tr.Payload.Way.ID != 10 {
				t.Fatalf("payload = %+v, want Way 10", tr.Payload)
			}
		}
	}
	if !found {
		t.Fatal("expected a transition to node 2")
	}
}

func TestPedestrian_NodeToStopHasNoWayPayload(t *testing.T) {
	s := fixtureStore()
	p := Pedestrian{}
	out := p.Successors(s, nil, NodeState(1, 0))
	for _, tr := range out {
		if tr.Dst.IsStop && tr.Dst.Stop == 100 {
			if tr.Payload.Kind != PayloadNone {
				t.Fatalf("expected undetermined payload for stop-anchor edge, got %+v", tr.Payload)
			}
			return
		}
	}
	t.Fatal("expected a transition to stop 100")
}

func TestPedestrian_StopToAnchorNode(t *testing.T) {
	s := fixtureStore()
	p := Pedestrian{}
	out := p.Successors(s, nil, StopState(100, 0))
	if len(out) != 1 || out[0].Dst.Node != 1 {
		t.Fatalf("StopState(100) successors = %+v, want [node 1]", out)
	}
}

func TestTransit_BoardsEarliestActiveTrip(t *testing.T) {
	s := fixtureStore()
	tr := Transit{}
	active := map[store.TripID]bool{1: true}
	out := tr.Successors(s, active, StopState(100, 500))
	if len(out) != 1 {
		t.Fatalf("transitions = %+v, want exactly 1", out)
	}
	if out[0].Dst.Stop != 200 || out[0].Dst.Time != 780 {
		t.Fatalf("dst = %+v, want stop 200 at t=780", out[0].Dst)
	}
	if out[0].Payload.Board.Wait != 100 {
		t.Fatalf("wait = %d, want 100 (departs 600, now 500)", out[0].Payload.Board.Wait)
	}
}

func TestTransit_NoTripWhenServiceInactive(t *testing.T) {
	s := fixtureStore()
	tr := Transit{}
	out := tr.Successors(s, map[store.TripID]bool{}, StopState(100, 500))
	if len(out) != 0 {
		t.Fatalf("transitions = %+v, want none (no active trips)", out)
	}
}

func TestComposite_StopAsksBothPedestrianAndTransit(t *testing.T) {
	s := fixtureStore()
	c := NewComposite()
	active := map[store.TripID]bool{1: true}
	out := c.Successors(s, active, StopState(100, 500))
	var sawWalk, sawRide bool
	for _, tr := range out {
		if !tr.Dst.IsStop && tr.Dst.Node == 1 {
			sawWalk = true
		}
		if tr.Dst.IsStop && tr.Dst.Stop == 200 {
			sawRide = true
		}
	}
	if !sawWalk || !sawRide {
		t.Fatalf("out = %+v, want both a walk-back and a ride transition", out)
	}
}

func TestComposite_NodeAsksOnlyPedestrian(t *testing.T) {
	s := fixtureStore()
	c := NewComposite()
	out := c.Successors(s, map[store.TripID]bool{1: true}, NodeState(2, 0))
	for _, tr := range out {
		if tr.Dst.IsStop {
			t.Fatalf("node state produced a transit transition: %+v", tr)
		}
	}
}

func TestWalkSpeedMPS_MatchesDesignConstant(t *testing.T) {
	if WalkSpeedMPS != 1.4 {
		t.Fatalf("WalkSpeedMPS = %v, want 1.4", WalkSpeedMPS)
	}
}
