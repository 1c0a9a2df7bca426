package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"github.com/tpreuss/multimodal-router/dijkstra"
	"github.com/tpreuss/multimodal-router/directions"
	"github.com/tpreuss/multimodal-router/geo"
	"github.com/tpreuss/multimodal-router/gtfs"
	"github.com/tpreuss/multimodal-router/metrics"
	"github.com/tpreuss/multimodal-router/preprocess/osmload"
	"github.com/tpreuss/multimodal-router/query"
	"github.com/tpreuss/multimodal-router/router"
	"github.com/tpreuss/multimodal-router/store"
)

func main() {
	config := ReadConfig("./config.yaml")

	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, &slog.HandlerOptions{Level: config.Log.Level.Slog()})))

	s := loadStore(config)
	if err := store.Validate(s); err != nil {
		slog.Error("graph failed validation: " + err.Error())
		panic(err)
	}
	slog.Info(fmt.Sprintf("loaded store: %d nodes, %d stops", s.NodeCount(), s.StopCount()))

	coll := metrics.NewCollector()
	coll.GraphNodes.Set(float64(s.NodeCount()))
	coll.GraphStops.Set(float64(s.StopCount()))
	coll.Serve(config.Server.MetricsAddr)

	rtr := router.NewComposite()

	app := http.DefaultServeMux
	MapPost(app, "/v1/directions", func(req DirectionsRequest) Result {
		return handleDirections(s, rtr, coll, req)
	})

	slog.Info("listening on " + config.Server.ListenAddr)
	if err := http.ListenAndServe(config.Server.ListenAddr, app); err != nil {
		slog.Error("server exited: " + err.Error())
	}
}

// loadStore runs the offline OSM+GTFS ingestion pipeline (spec section
// 3's preprocessing boundary: the live query path never parses source
// data, only the already-indexed Store).
func loadStore(config Config) *store.Store {
	nodes, ways, err := osmload.Load(config.Build.Source.OSM)
	if err != nil {
		slog.Error("failed to load OSM: " + err.Error())
		panic(err)
	}
	raw, err := gtfs.Load(config.Build.Source.GTFS)
	if err != nil {
		slog.Error("failed to load GTFS: " + err.Error())
		panic(err)
	}
	raw.Nodes = nodes
	raw.Ways = ways

	anchorStops(&raw)

	return store.Build(raw)
}

// anchorStops links every Stop to its nearest road Node so the
// pedestrian router can walk on and off the transit network, per spec
// section 3's "every Stop has at least one anchor Node" invariant.
// Runs against a throwaway Store built from the road graph alone, since
// the real Store's location index isn't available until after Build.
func anchorStops(raw *store.Raw) {
	roadOnly := store.Build(store.Raw{Nodes: raw.Nodes})
	for _, stop := range raw.Stops {
		nearest, ok := query.NearestNode(roadOnly, stop.Location)
		if !ok {
			continue
		}
		for j := range raw.Nodes {
			if raw.Nodes[j].ID == nearest {
				raw.Nodes[j].Successors = append(raw.Nodes[j].Successors, store.StopRef(stop.ID))
				break
			}
		}
	}
}

type DirectionsRequest struct {
	OriginLon float64 `json:"origin_lon"`
	OriginLat float64 `json:"origin_lat"`
	DestLon   float64 `json:"dest_lon"`
	DestLat   float64 `json:"dest_lat"`
	Departure int64   `json:"departure"` // unix epoch seconds
}

func handleDirections(s *store.Store, rtr router.Composite, coll *metrics.Collector, req DirectionsRequest) Result {
	start := time.Now()

	originNode, ok := query.NearestNode(s, geo.Coord{req.OriginLon, req.OriginLat})
	if !ok {
		coll.QueriesTotal.WithLabelValues("not_found").Inc()
		return BadRequest("no road node near origin")
	}
	destNode, ok := query.NearestNode(s, geo.Coord{req.DestLon, req.DestLat})
	if !ok {
		coll.QueriesTotal.WithLabelValues("not_found").Inc()
		return BadRequest("no road node near destination")
	}

	departure := time.Unix(req.Departure, 0).UTC()
	zoneMidnight := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	secsSinceMidnight := int(departure.Sub(zoneMidnight).Seconds())

	active := query.DayTrips(s, departure)

	engine := dijkstra.NewEngine(s, rtr, active, []router.State{
		router.NodeState(originNode, secsSinceMidnight),
	})
	path, ok := dijkstra.ShortestPath(engine, destNode)
	if !ok {
		coll.QueriesTotal.WithLabelValues("not_found").Inc()
		coll.QueryDuration.Observe(time.Since(start).Seconds())
		return BadRequest("no route found")
	}

	resp, ok := directions.Build(s, path, zoneMidnight.Unix())
	if !ok {
		coll.QueriesTotal.WithLabelValues("error").Inc()
		coll.QueryDuration.Observe(time.Since(start).Seconds())
		return BadRequest("failed to assemble directions")
	}

	coll.QueriesTotal.WithLabelValues("found").Inc()
	coll.SettledStates.Observe(float64(len(path)))
	coll.QueryDuration.Observe(time.Since(start).Seconds())
	return OK(resp)
}
