// Package osmload turns an OSM PBF extract into the Node/Way entities
// of package store, via three sequential scans of the file: first to
// find intersection nodes (referenced by more than one way, or a way's
// endpoint), second to record their coordinates, third to emit Ways
// split at those intersections and Nodes with bidirectional successor
// links (walking has no direction, unlike the teacher's oneway-aware
// driving graph). Between the second and third scans, the intersection
// coordinates are pre-clustered through an R-tree so Node ids are
// assigned in spatial-locality order rather than arbitrary way-scan
// order -- a one-time offline pass, never touched by the live
// nearest-node query path.
package osmload

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/tidwall/rtree"

	"github.com/tpreuss/multimodal-router/geo"
	"github.com/tpreuss/multimodal-router/store"
)

// walkableHighways is the set of OSM highway= values a pedestrian can
// use -- excludes motorway/trunk/raceway-class ways no pedestrian router
// should ever traverse.
var walkableHighways = map[string]bool{
	"footway": true, "path": true, "pedestrian": true, "living_street": true,
	"residential": true, "service": true, "unclassified": true, "tertiary": true,
	"secondary": true, "primary": true, "steps": true, "track": true, "cycleway": true,
}

type intersection struct {
	coord geo.Coord
	count int
}

// clusterIntersections bulk-inserts every genuine intersection (count > 1)
// into an R-tree and hands out Node ids in the tree's own scan order, so
// nodes close together on the ground land close together in id space
// instead of in whatever order the way scan happened to visit them. This
// is the offline pre-clustering step; the live nearest-node query never
// touches an r-tree.
func clusterIntersections(nodeCandidates map[int64]*intersection) (map[int64]store.NodeID, []store.Node) {
	var tree rtree.RTreeG[int64]
	for id, c := range nodeCandidates {
		if c.count > 1 {
			point := [2]float64{c.coord[0], c.coord[1]}
			tree.Insert(point, point, id)
		}
	}

	nodeIDs := make(map[int64]store.NodeID, len(nodeCandidates))
	nodes := make([]store.Node, 0, len(nodeCandidates))
	var nextNodeID store.NodeID = 1
	tree.Scan(func(_, _ [2]float64, id int64) bool {
		nid := nextNodeID
		nextNodeID++
		nodeIDs[id] = nid
		nodes = append(nodes, store.Node{ID: nid, Location: nodeCandidates[id].coord})
		return true
	})

	return nodeIDs, nodes
}

// Load reads pbfFile and returns the Node/Way entity set, with Node ids
// assigned in R-tree scan order (spatial locality) and Way ids in
// file-scan order.
func Load(pbfFile string) ([]store.Node, []store.Way, error) {
	file, err := os.Open(pbfFile)
	if err != nil {
		return nil, nil, fmt.Errorf("osmload: open %s: %w", pbfFile, err)
	}
	defer file.Close()

	nodeCandidates := make(map[int64]*intersection)

	scanner := osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		tags := way.TagMap()
		if !walkableHighways[tags["highway"]] {
			continue
		}
		refs := way.Nodes.NodeIDs()
		for i, ref := range refs {
			id := ref.FeatureID().Ref()
			c := nodeCandidates[id]
			if c == nil {
				c = &intersection{}
				nodeCandidates[id] = c
			}
			c.count++
			if i == 0 || i == len(refs)-1 {
				c.count++ // endpoints are always node boundaries
			}
		}
	}
	scanner.Close()
	if _, err := file.Seek(0, 0); err != nil {
		return nil, nil, err
	}

	scanner = osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := n.FeatureID().Ref()
		c, ok := nodeCandidates[id]
		if !ok {
			continue
		}
		c.coord = geo.Coord{n.Lon, n.Lat}
	}
	scanner.Close()
	if _, err := file.Seek(0, 0); err != nil {
		return nil, nil, err
	}

	nodeIDs, nodes := clusterIntersections(nodeCandidates)

	boundary := func(id int64) store.NodeID {
		c := nodeCandidates[id]
		if c == nil || c.count <= 1 {
			return 0
		}
		return nodeIDs[id]
	}

	var ways []store.Way
	var nextWayID store.WayID = 1
	successors := make(map[store.NodeID]map[store.NodeID]bool)
	addEdge := func(a, b store.NodeID) {
		if successors[a] == nil {
			successors[a] = make(map[store.NodeID]bool)
		}
		successors[a][b] = true
	}

	scanner = osmpbf.New(context.Background(), file, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		tags := way.TagMap()
		if !walkableHighways[tags["highway"]] {
			continue
		}
		name := tags["name"]
		refs := way.Nodes.NodeIDs()
		if len(refs) < 2 {
			continue
		}

		var segment []store.NodeID
		startID := refs[0].FeatureID().Ref()
		start := boundary(startID)
		segment = append(segment, start)
		for i := 1; i < len(refs); i++ {
			id := refs[i].FeatureID().Ref()
			c := nodeCandidates[id]
			if c == nil {
				continue
			}
			if c.count > 1 {
				nid := boundary(id)
				segment = append(segment, nid)
				if len(segment) >= 2 {
					ways = append(ways, store.Way{ID: nextWayID, Name: name, Nodes: append([]store.NodeID(nil), segment...)})
					nextWayID++
					for j := 0; j+1 < len(segment); j++ {
						addEdge(segment[j], segment[j+1])
						addEdge(segment[j+1], segment[j])
					}
				}
				segment = []store.NodeID{nid}
			}
		}
	}
	scanner.Close()

	for i := range nodes {
		for other := range successors[nodes[i].ID] {
			nodes[i].Successors = append(nodes[i].Successors, store.NodeRef(other))
		}
	}

	return nodes, ways, nil
}
