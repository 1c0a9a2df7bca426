// Package directions is the path-to-directions pipeline of spec
// section 4.7: classify the maneuver at every piece boundary, compute
// bearings and distances, and assemble the MapBox-Directions-v5-shaped
// response of spec section 6.
package directions

import (
	"crypto/rand"
	"fmt"

	"github.com/tpreuss/multimodal-router/dijkstra"
	"github.com/tpreuss/multimodal-router/geo"
	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/segment"
	"github.com/tpreuss/multimodal-router/store"
)

type Maneuver struct {
	Type          string  `json:"type"`
	BearingBefore float64 `json:"bearing_before"`
	BearingAfter  float64 `json:"bearing_after"`
	Modifier      *string `json:"modifier,omitempty"`
}

type TripRef struct {
	ID store.TripID `json:"id"`
}

type Step struct {
	Mode     string         `json:"mode"`
	Distance float64        `json:"distance"`
	Geometry geo.LineString `json:"geometry"`
	Maneuver Maneuver       `json:"maneuver"`
	Arrive   int64          `json:"arrive"`
	Name     *string        `json:"name,omitempty"`
	Wait     *int           `json:"wait,omitempty"`
	Trip     *TripRef       `json:"trip,omitempty"`
}

type Waypoint struct {
	Name     string    `json:"name"`
	Location geo.Coord `json:"location"`
}

type Directions struct {
	UUID      string     `json:"uuid"`
	Waypoints []Waypoint `json:"waypoints"`
	Distance  float64    `json:"distance"`
	Duration  int        `json:"duration"`
	Steps     []Step     `json:"steps"`
}

// turnTable is the sorted largest-key-<=-angle lookup of spec section
// 4.7 point 3, kept ascending so modifierFor can scan it in order and
// stop at the first threshold above the angle.
var turnTable = []struct {
	threshold float64
	modifier  string
}{
	{-180, "straight"},
	{-120, "slight left"},
	{-60, "left"},
	{-20, "sharp left"},
	{0, "straight"},
	{20, "slight right"},
	{60, "right"},
	{120, "sharp right"},
	{160, "uturn"},
	{180, "straight"},
}

func modifierFor(angle float64) string {
	best := turnTable[0].modifier
	for _, e := range turnTable {
		if e.threshold <= angle {
			best = e.modifier
		} else {
			break
		}
	}
	return best
}

// Build assembles the directions response for a settled path, a store
// to resolve locations/names against, and the departure's zone-midnight
// epoch (spec section 4.7 point 4's "zone_midnight_epoch"). Returns
// false only if path is empty -- a single-trace path (src == dst) is
// the valid degenerate response of spec section 4.4/8.
func Build(s *store.Store, path []*dijkstra.Trace, zoneMidnightEpoch int64) (Directions, bool) {
	if len(path) == 0 {
		return Directions{}, false
	}
	uuid := newUUID()
	first := path[0]
	last := path[len(path)-1]
	startLoc, _ := locationOf(s, first.State)
	endLoc, _ := locationOf(s, last.State)

	if len(path) == 1 {
		return Directions{
			UUID: uuid,
			Waypoints: []Waypoint{
				{Location: startLoc},
				{Location: endLoc},
			},
			Distance: 0,
			Duration: 0,
			Steps:    []Step{},
		}, true
	}

	pieces := segment.Partition(path)

	firstSentinel := segment.Piece{Traces: []*dijkstra.Trace{first}}
	lastSentinel := segment.Piece{Traces: []*dijkstra.Trace{last}}

	steps := make([]Step, 0, len(pieces))
	var firstWayName, lastWayName string
	for i, piece := range pieces {
		var prev, next segment.Piece
		if i == 0 {
			prev = firstSentinel
		} else {
			prev = pieces[i-1]
		}
		if i == len(pieces)-1 {
			next = lastSentinel
		} else {
			next = pieces[i+1]
		}

		if piece.Context.Kind == segment.ContextWay && piece.Context.Name != "" {
			if firstWayName == "" {
				firstWayName = piece.Context.Name
			}
			lastWayName = piece.Context.Name
		}

		steps = append(steps, buildStep(s, prev, piece, next, i == 0, i == len(pieces)-1, zoneMidnightEpoch))
	}

	totalDistance := 0.0
	for _, st := range steps {
		totalDistance += st.Distance
	}
	duration := last.State.Time - first.State.Time

	return Directions{
		UUID: uuid,
		Waypoints: []Waypoint{
			{Name: firstWayName, Location: startLoc},
			{Name: lastWayName, Location: endLoc},
		},
		Distance: totalDistance,
		Duration: duration,
		Steps:    steps,
	}, true
}

func buildStep(s *store.Store, prev, piece, next segment.Piece, isFirst, isLast bool, zoneMidnightEpoch int64) Step {
	maneuverType := classifyManeuver(prev, piece, next, isFirst, isLast)

	prevLoc, _ := locationOf(s, prev.First().State)
	pieceLoc, _ := locationOf(s, piece.First().State)
	nextLoc, _ := locationOf(s, next.First().State)

	pre := geo.Bearing(prevLoc, pieceLoc)
	post := geo.Bearing(pieceLoc, nextLoc)
	angle := geo.NormalizeAngle(post, pre)

	maneuver := Maneuver{Type: maneuverType, BearingBefore: pre, BearingAfter: post}
	if maneuverType == "turn" {
		m := modifierFor(angle)
		maneuver.Modifier = &m
	}

	line := make(geo.CoordArray, 0, len(piece.Traces)+1)
	for _, t := range piece.Traces {
		loc, _ := locationOf(s, t.State)
		line = append(line, loc)
	}
	line = append(line, nextLoc)

	mode := "walking"
	if piece.Context.Kind == segment.ContextStop {
		mode = "transit"
	}

	step := Step{
		Mode:     mode,
		Distance: geo.Length(line),
		Geometry: geo.NewLineString(line),
		Maneuver: maneuver,
		Arrive:   zoneMidnightEpoch + int64(piece.Last().State.Time),
	}
	if piece.Context.Name != "" {
		name := piece.Context.Name
		step.Name = &name
	} else if piece.Context.Kind == segment.ContextStop {
		if stop, ok := s.Stop(piece.Context.Stop); ok {
			name := stop.Name
			step.Name = &name
		}
	}

	// Spec section 9's documented quirk: a notification step's wait is
	// read from the NEXT piece's first stop-time, not its own boarding
	// payload, and only if that precondition holds.
	if maneuverType == "notification" {
		if board, ok := boardPayload(next); ok {
			w := board.Wait
			step.Wait = &w
		}
	}

	if mode == "transit" {
		if trip, ok := tripFor(piece, next); ok {
			step.Trip = &TripRef{ID: trip}
		}
	}

	return step
}

func classifyManeuver(prev, piece, next segment.Piece, isFirst, isLast bool) string {
	if isFirst {
		return "depart"
	}
	if isLast {
		return "arrive"
	}
	if prev.Context.Kind == segment.ContextWay && piece.Context.Kind == segment.ContextStop {
		return "notification"
	}
	if piece.Context.Kind == segment.ContextStop && next.Context.Kind == segment.ContextStop {
		return "continue"
	}
	if piece.Context.Kind == segment.ContextStop && next.Context.Kind == segment.ContextWay {
		return "exit vehicle"
	}
	return "turn"
}

func boardPayload(p segment.Piece) (router.BoardPayload, bool) {
	t := p.First()
	if t.Payload.Kind != router.PayloadBoard {
		return router.BoardPayload{}, false
	}
	return t.Payload.Board, true
}

// tripFor resolves the trip id a transit step reports: the ride that
// produced the current piece, falling back to the upcoming piece's
// ride when the current piece carries none (spec section 4.7 point 4's
// "trip-id of current, or next when exit vehicle").
func tripFor(piece, next segment.Piece) (store.TripID, bool) {
	if board, ok := boardPayload(piece); ok {
		return board.To.Trip, true
	}
	if board, ok := boardPayload(next); ok {
		return board.To.Trip, true
	}
	return 0, false
}

func locationOf(s *store.Store, st router.State) (geo.Coord, bool) {
	if st.IsStop {
		stop, ok := s.Stop(st.Stop)
		if !ok {
			return geo.Coord{}, false
		}
		return stop.Location, true
	}
	node, ok := s.Node(st.Node)
	if !ok {
		return geo.Coord{}, false
	}
	return node.Location, true
}

func newUUID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
