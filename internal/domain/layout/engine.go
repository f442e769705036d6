package layout

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/pkg/errors"
)

// Algorithm computes positions for an existing node set given its edges.
// Implementations may be unavailable or fail; the Engine turns every failure
// mode into a fallback, never into missing positions.
type Algorithm interface {
	Name() string
	Arrange(nodes []*node.Node, edges []*edge.Edge) (map[string]shared.Position, error)
}

// Engine arranges an already-populated graph with a pluggable primary
// algorithm and a square-grid fallback. A nil algorithm means the optimized
// layout could not be loaded; the engine still works.
type Engine struct {
	algorithm Algorithm
	logger    *zap.Logger
}

// NewEngine creates a layout engine. algorithm may be nil.
func NewEngine(algorithm Algorithm, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{algorithm: algorithm, logger: logger}
}

// Arrange returns a position for every supplied node, keyed by node id.
// If the primary algorithm is unavailable, errors, panics, or leaves any
// node unpositioned, the whole set falls back to the square grid. The
// fallback is logged as a warning and never surfaced to the caller: a
// visually valid graph matters more than an optimal one.
func (e *Engine) Arrange(nodes []*node.Node, edges []*edge.Edge) map[string]shared.Position {
	if len(nodes) == 0 {
		return map[string]shared.Position{}
	}

	positions, err := e.tryPrimary(nodes, edges)
	if err == nil {
		for _, n := range nodes {
			if _, ok := positions[n.ID().String()]; !ok {
				err = errors.NewInternal("layout algorithm left node unpositioned", nil)
				break
			}
		}
	}
	if err == nil {
		return positions
	}

	e.logger.Warn("relationship layout unavailable, falling back to grid placement",
		zap.Error(err),
		zap.Int("node_count", len(nodes)),
	)
	return FallbackGrid(nodes)
}

func (e *Engine) tryPrimary(nodes []*node.Node, edges []*edge.Edge) (positions map[string]shared.Position, err error) {
	if e.algorithm == nil {
		return nil, errors.NewUnavailable("no layout algorithm configured")
	}
	defer func() {
		if r := recover(); r != nil {
			positions = nil
			err = errors.NewInternal(
				fmt.Sprintf("layout algorithm %q panicked", e.algorithm.Name()),
				fmt.Errorf("%v", r),
			)
		}
	}()
	return e.algorithm.Arrange(nodes, edges)
}

// LayeredAlgorithm ranks nodes top-to-bottom by edge direction: sources
// above targets, back-edges from cycles ignored during ranking, each rank
// centered horizontally with nodes ordered under their predecessors to keep
// crossings down. A simplified, deterministic specialization of hierarchical
// graph layout.
type LayeredAlgorithm struct {
	rankGapY float64
	nodeGapX float64
}

// NewLayeredAlgorithm creates a layered algorithm with default spacing
func NewLayeredAlgorithm() *LayeredAlgorithm {
	return &LayeredAlgorithm{rankGapY: 220, nodeGapX: 320}
}

// Name identifies the algorithm in logs
func (a *LayeredAlgorithm) Name() string { return "layered" }

// Arrange computes layered positions. Input order decides all tie-breaks,
// so identical input produces identical output.
func (a *LayeredAlgorithm) Arrange(nodes []*node.Node, edges []*edge.Edge) (map[string]shared.Position, error) {
	positions := make(map[string]shared.Position, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID().String()] = i
	}

	// Adjacency over edges whose endpoints are both present; others are
	// irrelevant to this arrangement.
	outgoing := make([][]int, len(nodes))
	for _, e := range edges {
		from, okFrom := index[e.Source().String()]
		to, okTo := index[e.Target().String()]
		if !okFrom || !okTo {
			continue
		}
		outgoing[from] = append(outgoing[from], to)
	}

	layers := assignLayers(len(nodes), outgoing)

	// Group by layer in input order
	byLayer := make(map[int][]int)
	maxLayer := 0
	for i, l := range layers {
		byLayer[l] = append(byLayer[l], i)
		if l > maxLayer {
			maxLayer = l
		}
	}

	// Order each rank under its predecessors: sort by the mean x-slot of
	// incoming neighbors from the rank above, stable so input order breaks
	// ties.
	slot := make(map[int]int, len(nodes))
	for l := 0; l <= maxLayer; l++ {
		row := byLayer[l]
		if l > 0 {
			incoming := make(map[int][]int)
			for from, targets := range outgoing {
				for _, to := range targets {
					if layers[to] == l && layers[from] == l-1 {
						incoming[to] = append(incoming[to], from)
					}
				}
			}
			sort.SliceStable(row, func(x, y int) bool {
				return barycenter(incoming[row[x]], slot) < barycenter(incoming[row[y]], slot)
			})
		}
		offset := float64(len(row)-1) / 2
		for i, nodeIdx := range row {
			slot[nodeIdx] = i
			positions[nodes[nodeIdx].ID().String()] = shared.MustPosition(
				(float64(i)-offset)*a.nodeGapX,
				float64(l)*a.rankGapY,
			)
		}
	}

	return positions, nil
}

// assignLayers ranks nodes by edge direction. Back-edges found by DFS are
// dropped first so cyclic relationship graphs still rank cleanly.
func assignLayers(n int, outgoing [][]int) []int {
	// Three-color DFS marks back-edges
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make([]int, n)
	back := make(map[[2]int]bool)

	var dfs func(u int)
	dfs = func(u int) {
		state[u] = visiting
		for _, v := range outgoing[u] {
			switch state[v] {
			case visiting:
				back[[2]int{u, v}] = true
			case unvisited:
				dfs(v)
			}
		}
		state[u] = done
	}
	for i := 0; i < n; i++ {
		if state[i] == unvisited {
			dfs(i)
		}
	}

	// Longest-path layering over the remaining DAG (Kahn order)
	indegree := make([]int, n)
	for u := 0; u < n; u++ {
		for _, v := range outgoing[u] {
			if !back[[2]int{u, v}] {
				indegree[v]++
			}
		}
	}
	layer := make([]int, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range outgoing[u] {
			if back[[2]int{u, v}] {
				continue
			}
			if layer[u]+1 > layer[v] {
				layer[v] = layer[u] + 1
			}
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return layer
}

func barycenter(preds []int, slot map[int]int) float64 {
	if len(preds) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range preds {
		sum += float64(slot[p])
	}
	return sum / float64(len(preds))
}
