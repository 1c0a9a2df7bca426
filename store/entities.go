// Package store is the graph's entity/attribute/value store: a single
// read-only-after-build snapshot holding Nodes, Ways, Stops, Trips,
// Services, and StopTimes, plus the secondary indexes every fast query
// in package query is built on.
//
// The schema is a static union of typed value slots rather than a
// dynamic attr->interface{} map: every attribute the routing core reads
// is known at compile time, so an index is just a sorted container keyed
// by (attr value, entity id) instead of a generic reflection path.
package store

import (
	"time"

	"github.com/tpreuss/multimodal-router/geo"
)

type NodeID int64
type WayID int64
type StopID int64
type TripID int64
type ServiceID int64
type RouteID int64
type AgencyID int64

// RefKind tags a successor reference as pointing at a Node or a Stop,
// the only two kinds of entity a Node's successor set may contain.
type RefKind byte

const (
	RefNode RefKind = iota
	RefStop
)

type Ref struct {
	Kind RefKind
	Node NodeID
	Stop StopID
}

func NodeRef(id NodeID) Ref { return Ref{Kind: RefNode, Node: id} }
func StopRef(id StopID) Ref { return Ref{Kind: RefStop, Stop: id} }

// Node is a road intersection. Successors is bidirectional in meaning
// per spec section 3: the reverse edge is not stored here, it is derived
// by query.NodeSuccessors via the AVET reverse-lookup.
type Node struct {
	ID         NodeID
	Location   geo.Coord
	Successors []Ref
}

// Way is a bundle of road segments sharing a name/class.
type Way struct {
	ID    WayID
	Name  string
	Nodes []NodeID
}

// Stop is a GTFS boarding location. Successors are the stops directly
// reachable as the next-sequence stop on some trip, precomputed once at
// build time (see build.go).
type Stop struct {
	ID         StopID
	Location   geo.Coord
	Name       string
	Successors []StopID
}

type Route struct {
	ID        RouteID
	Agency    AgencyID
	ShortName string
	LongName  string
}

type Agency struct {
	ID   AgencyID
	Name string
}

type Trip struct {
	ID      TripID
	Route   RouteID
	Service ServiceID
}

// Service is a GTFS calendar entry. A trip runs on date D iff
// Start < D < End (strict) and D's weekday is in Days, unless a
// ServiceException for D exists, whose Added flag then decides alone.
type Service struct {
	ID    ServiceID
	Start time.Time
	End   time.Time
	Days  [7]bool // indexed by time.Weekday()
}

// ActiveByCalendar reports whether the weekly calendar (ignoring any
// ServiceException) marks the service active on date.
func (s Service) ActiveByCalendar(date time.Time) bool {
	if !date.After(s.Start) || !date.Before(s.End) {
		return false
	}
	return s.Days[date.Weekday()]
}

// ServiceException models GTFS calendar_dates.txt: a one-off addition or
// removal of a service's activity on a specific date. Not part of
// spec.md's Service definition, added per SPEC_FULL section 3 so holiday
// schedules don't silently mis-route.
type ServiceException struct {
	Service ServiceID
	Date    time.Time
	Added   bool // true: service added on this date; false: removed
}

// StopTime is one arrival/departure of one trip at one stop in its
// sequence. Arrival/Departure are seconds since the service day's local
// midnight and may exceed 86400 for past-midnight trips (SPEC_FULL
// section 3), so ordering comparisons never need to wrap.
type StopTime struct {
	Trip      TripID
	Stop      StopID
	Arrival   int
	Departure int
	Sequence  int
}
