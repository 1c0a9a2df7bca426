package store

import "testing"

func smallRaw() Raw {
	return Raw{
		Nodes: []Node{
			{ID: 1, Location: [2]float64{0, 0}, Successors: []Ref{NodeRef(2), StopRef(100)}},
			{ID: 2, Location: [2]float64{1, 0}, Successors: []Ref{NodeRef(1)}},
		},
		Stops: []Stop{
			{ID: 100, Location: [2]float64{0.5, 0.5}, Name: "Elm St"},
			{ID: 200, Location: [2]float64{2, 2}, Name: "Oak Ave"},
		},
		Trips: []Trip{
			{ID: 1, Route: 1, Service: 1},
		},
		Services: []Service{},
		StopTimes: []StopTime{
			{Trip: 1, Stop: 100, Arrival: 0, Departure: 10, Sequence: 1},
			{Trip: 1, Stop: 200, Arrival: 60, Departure: 70, Sequence: 2},
		},
	}
}

func TestBuild_DerivesStopSuccessors(t *testing.T) {
	s := Build(smallRaw())
	stop, ok := s.Stop(100)
	if !ok {
		t.Fatal("stop 100 not found")
	}
	if len(stop.Successors) != 1 || stop.Successors[0] != 200 {
		t.Fatalf("stop 100 successors = %v, want [200]", stop.Successors)
	}
}

func TestBuild_ReverseStopSuccessorsAnchorsStop(t *testing.T) {
	s := Build(smallRaw())
	anchors := s.AnchorNodes(100)
	if len(anchors) != 1 || anchors[0] != 1 {
		t.Fatalf("AnchorNodes(100) = %v, want [1]", anchors)
	}
}

func TestBuild_ReverseNodeSuccessors(t *testing.T) {
	s := Build(smallRaw())
	rev := s.ReverseNodeSuccessors(2)
	if len(rev) != 1 || rev[0] != 1 {
		t.Fatalf("ReverseNodeSuccessors(2) = %v, want [1]", rev)
	}
}

func TestValidate_FailsWhenStopUnanchored(t *testing.T) {
	raw := smallRaw()
	s := Build(raw)
	if err := Validate(s); err == nil {
		t.Fatal("expected validation error: stop 200 has no anchor node")
	}
}

func TestValidate_PassesWhenEveryStopAnchored(t *testing.T) {
	raw := smallRaw()
	raw.Nodes[1].Successors = append(raw.Nodes[1].Successors, StopRef(200))
	s := Build(raw)
	if err := Validate(s); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestStopTimesForTrip_SortedBySequence(t *testing.T) {
	raw := smallRaw()
	raw.StopTimes = []StopTime{
		{Trip: 1, Stop: 200, Arrival: 60, Departure: 70, Sequence: 2},
		{Trip: 1, Stop: 100, Arrival: 0, Departure: 10, Sequence: 1},
	}
	s := Build(raw)
	times := s.StopTimesForTrip(1)
	if len(times) != 2 || times[0].Sequence != 1 || times[1].Sequence != 2 {
		t.Fatalf("StopTimesForTrip(1) = %v, want ascending by sequence", times)
	}
}

func TestLocationRangeFrom_OrderedByLonThenLat(t *testing.T) {
	raw := Raw{Nodes: []Node{
		{ID: 1, Location: [2]float64{5, 5}},
		{ID: 2, Location: [2]float64{1, 1}},
		{ID: 3, Location: [2]float64{3, 3}},
	}}
	s := Build(raw)
	entries := s.NodeLocationRangeFrom(2, 0)
	if len(entries) != 2 || entries[0].NodeID() != 3 || entries[1].NodeID() != 1 {
		t.Fatalf("unexpected range order: %+v", entries)
	}
}
