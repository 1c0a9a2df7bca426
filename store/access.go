package store

// The methods below are the only way package query (and anything built
// on it) reaches into the indexes built in build.go -- they are the
// store's range/lookup primitives of spec section 4.1, typed concretely
// per entity kind instead of exposed as a generic attr/value interface.

// ReverseNodeSuccessors returns nodes E such that node ∈ E.Successors,
// i.e. range(AVET, :node/successors, node).
func (s *Store) ReverseNodeSuccessors(node NodeID) []NodeID {
	return s.reverseNodeSucc[node]
}

// AnchorNodes returns nodes that list stop as a successor (the
// stop-to-node walk-back link).
func (s *Store) AnchorNodes(stop StopID) []NodeID {
	return s.reverseStopSucc[stop]
}

// StopTimesForTrip returns a trip's stop times, ascending by sequence --
// range(AVET, :stop_times/trip, trip).
func (s *Store) StopTimesForTrip(trip TripID) []StopTime {
	return s.stopTimesByTrip[trip]
}

// TripsForService returns the trips whose Service field equals service,
// range(AEVT, :trip/service, service).
func (s *Store) TripsForService(service ServiceID) []TripID {
	return s.tripsByService[service]
}

// WaysReferencingNode returns the Ways whose Nodes list contains node.
func (s *Store) WaysReferencingNode(node NodeID) []WayID {
	return s.waysByNode[node]
}

// ServiceException looks up a one-off calendar override for a service
// on a specific date.
func (s *Store) ServiceException(service ServiceID, date int64) (ServiceException, bool) {
	m, ok := s.exceptionsByService[service]
	if !ok {
		return ServiceException{}, false
	}
	e, ok := m[date]
	return e, ok
}

// NodeLocationRangeFrom scans the node-location index starting at
// (lon, lat) in ascending order.
func (s *Store) NodeLocationRangeFrom(lon, lat float64) []locEntry {
	return s.nodeLocationIdx.RangeFrom(lon, lat)
}

// StopLocationRangeFrom scans the stop-location index starting at
// (lon, lat) in ascending order.
func (s *Store) StopLocationRangeFrom(lon, lat float64) []locEntry {
	return s.stopLocationIdx.RangeFrom(lon, lat)
}

func (e locEntry) NodeID() NodeID { return e.node }
func (e locEntry) StopID() StopID { return e.stop }
