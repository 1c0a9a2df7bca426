package store

import "sort"

// Store is the immutable, build-once graph snapshot. All entities are
// held by value in id-indexed slices; every reference into the store
// (Node, Stop, Trip, ...) is a borrow, never a copy of ownership, per
// spec section 3's "Graph Store exclusively owns all entities" rule.
//
// No locking on the hot path: once Build returns, nothing here is ever
// mutated again, so concurrent readers need no synchronization
// (spec section 5).
type Store struct {
	nodes    []Node
	ways     []Way
	stops    []Stop
	routes   []Route
	agencies []Agency
	trips    []Trip
	services []Service
	excepts  []ServiceException

	nodeByID map[NodeID]int
	wayByID  map[WayID]int
	stopByID map[StopID]int
	tripByID map[TripID]int

	// AVET-style indexes: sorted (value, entity) pairs for range scans.
	nodeLocationIdx locationIndex
	stopLocationIdx locationIndex

	// reverse successor lookup: target ref -> nodes that list it as a
	// successor, materializing spec section 4.2's node_successors(b).
	reverseNodeSucc map[NodeID][]NodeID
	reverseStopSucc map[StopID][]NodeID // nodes that anchor this stop (node.Successors contains the stop)

	// stop times grouped by trip, ordered by sequence -- the AVET index
	// on :stop_times/trip that continue_trip and find_trip scan.
	stopTimesByTrip map[TripID][]StopTime

	// trips grouped by service, the AEVT index on :trip/service that
	// day_trips filters against.
	tripsByService map[ServiceID][]TripID

	// ways referencing a given node, used to resolve the walking payload
	// (first Way referencing both endpoints of an edge).
	waysByNode map[NodeID][]WayID

	// service exceptions grouped by service, keyed by truncated date.
	exceptionsByService map[ServiceID]map[int64]ServiceException
}

// Entity views, returned by id lookups. Kept as thin value copies since
// the store never mutates after Build.

func (s *Store) Node(id NodeID) (Node, bool) {
	i, ok := s.nodeByID[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

func (s *Store) Way(id WayID) (Way, bool) {
	i, ok := s.wayByID[id]
	if !ok {
		return Way{}, false
	}
	return s.ways[i], true
}

func (s *Store) Stop(id StopID) (Stop, bool) {
	i, ok := s.stopByID[id]
	if !ok {
		return Stop{}, false
	}
	return s.stops[i], true
}

func (s *Store) Trip(id TripID) (Trip, bool) {
	i, ok := s.tripByID[id]
	if !ok {
		return Trip{}, false
	}
	return s.trips[i], true
}

func (s *Store) Service(id ServiceID) (Service, bool) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

func (s *Store) Route(id RouteID) (Route, bool) {
	for _, r := range s.routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

func (s *Store) NodeCount() int { return len(s.nodes) }
func (s *Store) StopCount() int { return len(s.stops) }

func (s *Store) AllServices() []Service { return s.services }

//*******************************************
// location range index (AVET on :node/location or :stop/location)
//*******************************************

type locEntry struct {
	lon, lat float64
	node     NodeID
	stop     StopID
}

type locationIndex struct {
	entries []locEntry
}

func newLocationIndex(entries []locEntry) locationIndex {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].lon != entries[j].lon {
			return entries[i].lon < entries[j].lon
		}
		return entries[i].lat < entries[j].lat
	})
	return locationIndex{entries: entries}
}

// RangeFrom returns entries with lon >= from.lon (and lat >= from.lat on
// tie), in ascending index order -- the ordering the nearest-node
// operation of spec section 4.1 is defined against ("first entity
// returned by range(location >= point)").
func (idx locationIndex) RangeFrom(lon, lat float64) []locEntry {
	i := sort.Search(len(idx.entries), func(i int) bool {
		e := idx.entries[i]
		if e.lon != lon {
			return e.lon > lon
		}
		return e.lat >= lat
	})
	return idx.entries[i:]
}
