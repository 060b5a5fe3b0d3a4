// Package network provides travel-time oracle implementations: a road-network
// graph answering queries via Dijkstra shortest paths, and a fixed matrix used
// for small scenarios and tests.
package network

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/fleetsim/ridepool/core/model"
)

// Network is a weighted directed road graph. TravelTime runs Dijkstra from
// the source node and memoizes the one-to-all result, so repeated queries from
// the same origin cost one search. Safe for concurrent use.
type Network struct {
	g  *simple.WeightedDirectedGraph
	mu sync.Mutex
	// trees caches the shortest-path tree per source location.
	trees map[model.Location]path.Shortest
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{
		g:     simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		trees: make(map[model.Location]path.Shortest),
	}
}

// AddEdge adds a one-way road segment with the given travel time in seconds.
func (n *Network) AddEdge(from, to model.Location, travelTime float64) error {
	if from == to {
		return fmt.Errorf("network: self edge at node %d", from)
	}
	if travelTime < 0 {
		return fmt.Errorf("network: negative travel time on %d->%d", from, to)
	}
	f, t := simple.Node(from), simple.Node(to)
	if n.g.Node(int64(from)) == nil {
		n.g.AddNode(f)
	}
	if n.g.Node(int64(to)) == nil {
		n.g.AddNode(t)
	}
	n.g.SetWeightedEdge(n.g.NewWeightedEdge(f, t, travelTime))
	return nil
}

// Nodes returns all node ids, sorted.
func (n *Network) Nodes() []model.Location {
	var out []model.Location
	it := n.g.Nodes()
	for it.Next() {
		out = append(out, model.Location(it.Node().ID()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TravelTime implements network.TravelTimeOracle. Unknown nodes and missing
// paths report +Inf.
func (n *Network) TravelTime(from, to model.Location) float64 {
	if from == to {
		return 0
	}
	if n.g.Node(int64(from)) == nil || n.g.Node(int64(to)) == nil {
		return math.Inf(1)
	}
	n.mu.Lock()
	tree, ok := n.trees[from]
	if !ok {
		tree = path.DijkstraFrom(n.g.Node(int64(from)), n.g)
		n.trees[from] = tree
	}
	n.mu.Unlock()
	return tree.WeightTo(int64(to))
}

// Edges returns all road segments in serialized form, sorted by endpoints.
func (n *Network) Edges() []EdgeDef {
	var out []EdgeDef
	it := n.g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		out = append(out, EdgeDef{
			From:       e.From().ID(),
			To:         e.To().ID(),
			TravelTime: e.Weight(),
			Oneway:     true,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// EdgeDef is the serialized form of a road segment.
type EdgeDef struct {
	From       int64   `yaml:"from" json:"from"`
	To         int64   `yaml:"to" json:"to"`
	TravelTime float64 `yaml:"travel_time" json:"travel_time"`
	// Oneway suppresses the implicit reverse edge.
	Oneway bool `yaml:"oneway,omitempty" json:"oneway,omitempty"`
}

// FromEdges builds a network from serialized edges. Unless marked oneway,
// each edge also adds its reverse with the same travel time.
func FromEdges(edges []EdgeDef) (*Network, error) {
	n := NewNetwork()
	for _, e := range edges {
		if err := n.AddEdge(model.Location(e.From), model.Location(e.To), e.TravelTime); err != nil {
			return nil, err
		}
		if !e.Oneway {
			if err := n.AddEdge(model.Location(e.To), model.Location(e.From), e.TravelTime); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}
