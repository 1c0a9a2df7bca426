package store

import (
	"fmt"
	"sort"
	"time"
)

// Raw is the unindexed input to Build: the flat entity lists a
// preprocessor (OSM/GTFS ingestion, or a test fixture) produces before
// the store computes its secondary indexes and derived Stop.Successors.
type Raw struct {
	Nodes    []Node
	Ways     []Way
	Stops    []Stop
	Routes   []Route
	Agencies []Agency
	Trips    []Trip
	Services []Service
	Excepts  []ServiceException
	StopTimes []StopTime
}

// Build indexes a Raw entity set into a queryable Store, deriving
// Stop.Successors from the GTFS next-stop relation (spec section 3's
// second derived invariant) if the caller did not already populate it.
func Build(raw Raw) *Store {
	s := &Store{
		nodes:    raw.Nodes,
		ways:     raw.Ways,
		stops:    raw.Stops,
		routes:   raw.Routes,
		agencies: raw.Agencies,
		trips:    raw.Trips,
		services: raw.Services,
		excepts:  raw.Excepts,
	}

	s.nodeByID = make(map[NodeID]int, len(s.nodes))
	for i, n := range s.nodes {
		s.nodeByID[n.ID] = i
	}
	s.wayByID = make(map[WayID]int, len(s.ways))
	for i, w := range s.ways {
		s.wayByID[w.ID] = i
	}
	s.stopByID = make(map[StopID]int, len(s.stops))
	for i, st := range s.stops {
		s.stopByID[st.ID] = i
	}
	s.tripByID = make(map[TripID]int, len(s.trips))
	for i, t := range s.trips {
		s.tripByID[t.ID] = i
	}

	locEntries := make([]locEntry, 0, len(s.nodes))
	for _, n := range s.nodes {
		locEntries = append(locEntries, locEntry{lon: n.Location[0], lat: n.Location[1], node: n.ID})
	}
	s.nodeLocationIdx = newLocationIndex(locEntries)

	stopLocEntries := make([]locEntry, 0, len(s.stops))
	for _, st := range s.stops {
		stopLocEntries = append(stopLocEntries, locEntry{lon: st.Location[0], lat: st.Location[1], stop: st.ID})
	}
	s.stopLocationIdx = newLocationIndex(stopLocEntries)

	s.reverseNodeSucc = make(map[NodeID][]NodeID)
	s.reverseStopSucc = make(map[StopID][]NodeID)
	s.waysByNode = make(map[NodeID][]WayID)
	for _, n := range s.nodes {
		for _, ref := range n.Successors {
			switch ref.Kind {
			case RefNode:
				s.reverseNodeSucc[ref.Node] = append(s.reverseNodeSucc[ref.Node], n.ID)
			case RefStop:
				s.reverseStopSucc[ref.Stop] = append(s.reverseStopSucc[ref.Stop], n.ID)
			}
		}
	}
	for _, w := range s.ways {
		for _, nid := range w.Nodes {
			s.waysByNode[nid] = append(s.waysByNode[nid], w.ID)
		}
	}

	s.stopTimesByTrip = make(map[TripID][]StopTime)
	for _, st := range raw.StopTimes {
		s.stopTimesByTrip[st.Trip] = append(s.stopTimesByTrip[st.Trip], st)
	}
	for trip := range s.stopTimesByTrip {
		times := s.stopTimesByTrip[trip]
		sort.Slice(times, func(i, j int) bool { return times[i].Sequence < times[j].Sequence })
		s.stopTimesByTrip[trip] = times
	}

	s.tripsByService = make(map[ServiceID][]TripID)
	for _, t := range s.trips {
		s.tripsByService[t.Service] = append(s.tripsByService[t.Service], t.ID)
	}

	s.exceptionsByService = make(map[ServiceID]map[int64]ServiceException)
	for _, e := range s.excepts {
		m, ok := s.exceptionsByService[e.Service]
		if !ok {
			m = make(map[int64]ServiceException)
			s.exceptionsByService[e.Service] = m
		}
		m[dateKey(e.Date)] = e
	}

	deriveStopSuccessors(s)

	return s
}

// deriveStopSuccessors computes each Stop's successor set as the set of
// stops reachable as the next-sequence stop on any trip visiting it,
// unless the caller already supplied Successors (e.g. a hand-built test
// fixture that wants to exercise a specific topology).
func deriveStopSuccessors(s *Store) {
	needsDerive := true
	for _, st := range s.stops {
		if len(st.Successors) > 0 {
			needsDerive = false
			break
		}
	}
	if !needsDerive {
		return
	}

	seen := make(map[StopID]map[StopID]bool)
	for _, times := range s.stopTimesByTrip {
		for i := 0; i+1 < len(times); i++ {
			from := times[i].Stop
			to := times[i+1].Stop
			if seen[from] == nil {
				seen[from] = make(map[StopID]bool)
			}
			seen[from][to] = true
		}
	}
	for i := range s.stops {
		succ := seen[s.stops[i].ID]
		if len(succ) == 0 {
			continue
		}
		list := make([]StopID, 0, len(succ))
		for sid := range succ {
			list = append(list, sid)
		}
		sort.Slice(list, func(a, b int) bool { return list[a] < list[b] })
		s.stops[i].Successors = list
	}
}

func dateKey(t time.Time) int64 {
	return t.Unix() / 86400
}

// Validate checks that every Stop has at least one anchor Node (a Node
// listing the Stop as a successor). It does not check that each Stop's
// Successors equal its GTFS next-stop set. A violation
// is a GraphInvariant error: fatal at preprocessing time, per spec
// section 7 -- the caller is expected to abort startup, never serve
// traffic against an invalid graph.
func Validate(s *Store) error {
	anchored := make(map[StopID]bool, len(s.stops))
	for _, n := range s.nodes {
		for _, ref := range n.Successors {
			if ref.Kind == RefStop {
				anchored[ref.Stop] = true
			}
		}
	}
	for _, st := range s.stops {
		if !anchored[st.ID] {
			return fmt.Errorf("graph invariant violated: stop %d has no anchor node", st.ID)
		}
	}
	return nil
}
