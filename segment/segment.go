// Package segment partitions a settled Dijkstra path into the
// maximal-run "pieces" of spec section 4.6: consecutive traces stay in
// the same piece iff the travel context they arrived through matches.
package segment

import (
	"github.com/tpreuss/multimodal-router/dijkstra"
	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/store"
)

type ContextKind byte

const (
	ContextOrigin ContextKind = iota
	ContextWay
	ContextStop
)

// Context is the "travel context namespace" a trace arrived through:
// a specific Way for a walking transition, or a specific destination
// Stop for a transit transition.
type Context struct {
	Kind ContextKind
	Way  store.WayID
	Stop store.StopID
	Node store.NodeID
	Name string
}

func (c Context) sameNamespace(o Context) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ContextWay:
		return c.Way == o.Way
	case ContextStop:
		return c.Stop == o.Stop
	default:
		return c.Node == o.Node
	}
}

type Piece struct {
	Context Context
	Traces  []*dijkstra.Trace
}

func (p Piece) First() *dijkstra.Trace { return p.Traces[0] }
func (p Piece) Last() *dijkstra.Trace  { return p.Traces[len(p.Traces)-1] }

// Partition walks path once, assigning each trace a Context and opening
// a new Piece whenever the namespace changes. The first trace always
// opens piece zero; a trace whose own transition carries no payload
// (an undetermined context -- e.g. a stop-anchor walk) carries forward
// the previous trace's context, per the stateful-carry policy spec
// section 9 leaves to the implementer.
//
// Policy decision (spec section 9 open question): the seed trace's own
// context defaults to a sentinel unique to its node ("origin"), which
// never matches any Way/Stop namespace; a seed at a Stop takes that
// Stop's context instead. Traces right after the seed whose context is
// undetermined carry the seed's context forward and so join piece zero.
func Partition(path []*dijkstra.Trace) []Piece {
	if len(path) == 0 {
		return nil
	}
	pieces := make([]Piece, 0, len(path))
	var prev Context
	for i, t := range path {
		var ctx Context
		switch t.Payload.Kind {
		case router.PayloadWay:
			ctx = Context{Kind: ContextWay, Way: t.Payload.Way.ID, Name: t.Payload.Way.Name}
		case router.PayloadBoard:
			ctx = Context{Kind: ContextStop, Stop: t.State.Stop}
		default:
			if i == 0 {
				ctx = originContext(t)
			} else {
				ctx = prev
			}
		}

		if i == 0 || !ctx.sameNamespace(prev) {
			pieces = append(pieces, Piece{Context: ctx})
		}
		last := &pieces[len(pieces)-1]
		last.Traces = append(last.Traces, t)
		prev = ctx
	}
	return pieces
}

func originContext(t *dijkstra.Trace) Context {
	if t.State.IsStop {
		return Context{Kind: ContextStop, Stop: t.State.Stop}
	}
	return Context{Kind: ContextOrigin, Node: t.State.Node}
}
