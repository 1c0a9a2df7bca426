// Package query is the set of pure, index-backed lookups of spec
// section 4.2 -- node_successors, nearest_node, day_trips,
// continue_trip, and find_trip. Every one is a facade over a store
// index; none of them mutate the store, and none of them allocate more
// than the result they return.
package query

import (
	"time"

	"github.com/tpreuss/multimodal-router/geo"
	"github.com/tpreuss/multimodal-router/store"
)

// NodeSuccessors returns node's outgoing successors together with the
// reverse edge -- nodes that list node as one of their own successors --
// so a single forward-looking traversal can still walk a road "the
// other way" without the store needing a second, symmetric edge list.
func NodeSuccessors(s *store.Store, node store.NodeID) []store.Ref {
	n, ok := s.Node(node)
	if !ok {
		return nil
	}
	out := make([]store.Ref, 0, len(n.Successors))
	out = append(out, n.Successors...)
	for _, other := range s.ReverseNodeSuccessors(node) {
		out = append(out, store.NodeRef(other))
	}
	return out
}

// NearestNode resolves a coordinate to the first entity returned by
// range(AVET, :node/location, point), i.e. the node whose (lon, lat) is
// lexicographically first at or after point. Ties are broken by index
// order, per spec section 4.1.
func NearestNode(s *store.Store, point geo.Coord) (store.NodeID, bool) {
	entries := s.NodeLocationRangeFrom(point[0], point[1])
	if len(entries) == 0 {
		return 0, false
	}
	return entries[0].NodeID(), true
}

// NearestStop is the Stop-location analogue of NearestNode, used when
// snapping a coordinate directly to a boarding location rather than a
// road intersection.
func NearestStop(s *store.Store, point geo.Coord) (store.StopID, bool) {
	entries := s.StopLocationRangeFrom(point[0], point[1])
	if len(entries) == 0 {
		return 0, false
	}
	return entries[0].StopID(), true
}

// DayTrips returns the set of trip ids whose service is active on date,
// honoring both the weekly calendar and any ServiceException for that
// exact date (SPEC_FULL section 3). date is truncated to a calendar day
// before comparison.
func DayTrips(s *store.Store, date time.Time) map[store.TripID]bool {
	day := truncateToDate(date)
	active := make(map[store.TripID]bool)
	for _, svc := range s.AllServices() {
		isActive := svc.ActiveByCalendar(day)
		if exc, ok := s.ServiceException(svc.ID, day.Unix()/86400); ok {
			isActive = exc.Added
		}
		if !isActive {
			continue
		}
		for _, trip := range s.TripsForService(svc.ID) {
			active[trip] = true
		}
	}
	return active
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ContinueTrip returns the StopTime at which trip visits stop next
// along its sequence, scanning range(AVET, :stop_times/trip, trip) for
// the entry whose Stop matches -- spec section 4.2.
func ContinueTrip(s *store.Store, stop store.StopID, trip store.TripID) (store.StopTime, bool) {
	for _, st := range s.StopTimesForTrip(trip) {
		if st.Stop == stop {
			return st, true
		}
	}
	return store.StopTime{}, false
}

// FindTrip returns the (src, dst) StopTime pair of the earliest active
// trip departing src after now and continuing on to dst, tie-broken by
// smallest trip id, per spec section 4.2.
func FindTrip(s *store.Store, src, dst store.StopID, now int, active map[store.TripID]bool) (store.StopTime, store.StopTime, bool) {
	var bestSrc, bestDst store.StopTime
	found := false
	for tripID := range active {
		times := s.StopTimesForTrip(tripID)
		for _, srcTime := range times {
			if srcTime.Stop != src {
				continue
			}
			if srcTime.Departure <= now {
				continue
			}
			dstTime, ok := ContinueTrip(s, dst, tripID)
			if !ok {
				continue
			}
			if !found ||
				srcTime.Departure < bestSrc.Departure ||
				(srcTime.Departure == bestSrc.Departure && tripID < bestSrc.Trip) {
				bestSrc = srcTime
				bestDst = dstTime
				found = true
			}
		}
	}
	return bestSrc, bestDst, found
}
