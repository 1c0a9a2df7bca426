// Package router implements spec section 4.3's "traverse from node at
// time" abstraction: a tagged variant of Pedestrian and Transit routers
// behind one Router interface, so the Dijkstra engine in package
// dijkstra never needs to know which mode it is crossing.
package router

import (
	"github.com/tpreuss/multimodal-router/geo"
	"github.com/tpreuss/multimodal-router/query"
	"github.com/tpreuss/multimodal-router/store"
)

// WalkSpeedMPS is the design-value constant of spec section 4.3.
const WalkSpeedMPS = 1.4

// State is a traversal position: either a Node or a Stop, at an
// absolute time measured in seconds since the query's zone-midnight.
type State struct {
	IsStop bool
	Node   store.NodeID
	Stop   store.StopID
	Time   int
}

func NodeState(node store.NodeID, t int) State { return State{Node: node, Time: t} }
func StopState(stop store.StopID, t int) State { return State{IsStop: true, Stop: stop, Time: t} }

// PayloadKind tags what a Transition's Payload carries, so the
// directions builder (package directions) can recover the Way or
// StopTime that produced an edge without type-switching on an `any`.
type PayloadKind byte

const (
	PayloadNone PayloadKind = iota
	PayloadWay
	PayloadBoard
)

type BoardPayload struct {
	From store.StopTime
	To   store.StopTime
	Wait int
}

type Payload struct {
	Kind  PayloadKind
	Way   store.Way
	Board BoardPayload
}

// Transition is one outgoing edge from a State: the destination, its
// cost in seconds, and enough payload to reconstruct the step later.
type Transition struct {
	Dst     State
	Cost    int
	Payload Payload
}

// Router is the capability every mode-specific and the composite router
// implements: "what can I do from here, and what does it cost".
type Router interface {
	Successors(s *store.Store, active map[store.TripID]bool, from State) []Transition
}

// Composite dispatches to Pedestrian or Transit per the kind of from,
// implementing the "tagged variant with single successors() operation"
// rewrite called for in spec section 9.
type Composite struct {
	Pedestrian Pedestrian
	Transit    Transit
}

func NewComposite() Composite {
	return Composite{}
}

func (c Composite) Successors(s *store.Store, active map[store.TripID]bool, from State) []Transition {
	if from.IsStop {
		out := c.Transit.Successors(s, active, from)
		out = append(out, c.Pedestrian.Successors(s, active, from)...)
		return out
	}
	return c.Pedestrian.Successors(s, active, from)
}

//*******************************************
// pedestrian router
//*******************************************

type Pedestrian struct{}

func (Pedestrian) Successors(s *store.Store, active map[store.TripID]bool, from State) []Transition {
	var loc geo.Coord
	if from.IsStop {
		stop, ok := s.Stop(from.Stop)
		if !ok {
			return nil
		}
		loc = stop.Location
		out := make([]Transition, 0, 4)
		for _, anchor := range s.AnchorNodes(from.Stop) {
			node, ok := s.Node(anchor)
			if !ok {
				continue
			}
			dist := geo.Distance(loc, node.Location)
			cost := int(dist / WalkSpeedMPS)
			out = append(out, Transition{
				Dst:  NodeState(anchor, from.Time+cost),
				Cost: cost,
			})
		}
		return out
	}

	node, ok := s.Node(from.Node)
	if !ok {
		return nil
	}
	loc = node.Location

	refs := nodeAndStopSuccessors(s, from.Node)
	out := make([]Transition, 0, len(refs))
	for _, ref := range refs {
		switch ref.Kind {
		case store.RefNode:
			other, ok := s.Node(ref.Node)
			if !ok {
				continue
			}
			dist := geo.Distance(loc, other.Location)
			cost := int(dist / WalkSpeedMPS)
			out = append(out, Transition{
				Dst:     NodeState(ref.Node, from.Time+cost),
				Cost:    cost,
				Payload: wayPayload(s, from.Node, ref.Node),
			})
		case store.RefStop:
			stop, ok := s.Stop(ref.Stop)
			if !ok {
				continue
			}
			dist := geo.Distance(loc, stop.Location)
			cost := int(dist / WalkSpeedMPS)
			out = append(out, Transition{
				Dst:  StopState(ref.Stop, from.Time+cost),
				Cost: cost,
			})
		}
	}
	return out
}

func nodeAndStopSuccessors(s *store.Store, node store.NodeID) []store.Ref {
	return query.NodeSuccessors(s, node)
}

// wayPayload resolves the Way payload of a Node->Node walk as the first
// Way referencing both endpoints, per spec section 4.3; an empty
// payload if none references both (e.g. the stop-anchor pseudo-edge).
func wayPayload(s *store.Store, a, b store.NodeID) Payload {
	waysA := s.WaysReferencingNode(a)
	if len(waysA) == 0 {
		return Payload{}
	}
	waysB := make(map[store.WayID]bool, len(s.WaysReferencingNode(b)))
	for _, w := range s.WaysReferencingNode(b) {
		waysB[w] = true
	}
	for _, w := range waysA {
		if waysB[w] {
			way, ok := s.Way(w)
			if ok {
				return Payload{Kind: PayloadWay, Way: way}
			}
		}
	}
	return Payload{}
}

//*******************************************
// transit router
//*******************************************

type Transit struct{}

func (Transit) Successors(s *store.Store, active map[store.TripID]bool, from State) []Transition {
	if !from.IsStop {
		return nil
	}
	stop, ok := s.Stop(from.Stop)
	if !ok {
		return nil
	}
	out := make([]Transition, 0, len(stop.Successors))
	for _, next := range stop.Successors {
		srcTime, dstTime, ok := query.FindTrip(s, from.Stop, next, from.Time, active)
		if !ok {
			continue
		}
		wait := srcTime.Departure - from.Time
		out = append(out, Transition{
			Dst:  StopState(next, dstTime.Arrival),
			Cost: dstTime.Arrival - from.Time,
			Payload: Payload{
				Kind: PayloadBoard,
				Board: BoardPayload{
					From: srcTime,
					To:   dstTime,
					Wait: wait,
				},
			},
		})
	}
	return out
}
