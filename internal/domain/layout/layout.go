// Package layout computes deterministic 2-D positions for canvas nodes.
//
// Every function here is pure: positions depend only on the supplied
// snapshot and parameters, never on wall-clock time or randomness, so laying
// out the same graph twice produces identical coordinates. Placement comes
// in four shapes, selected by generation kind:
//
//   - anchored: a single child placed one stride right of its source node
//   - hierarchical: a whole sub-graph (world, factions, locations) in three
//     centered tiers past the rightmost existing content
//   - grid: unanchored standalone nodes on a fixed column count
//   - relationship: a rank-by-edge-direction arrangement of an existing
//     graph, with a square-grid fallback that can never fail
package layout

import (
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
)

// Placement constants. Fixed values keep every algorithm deterministic.
const (
	// AnchorStrideX is the horizontal offset of an anchored child from its source
	AnchorStrideX = 400.0

	// SiblingStaggerY separates concurrent children of the same source so two
	// placeholders anchored to one node never overlap
	SiblingStaggerY = 150.0

	// InsertionStrideX is the gap between the rightmost existing node and a
	// newly inserted sub-graph
	InsertionStrideX = 400.0

	// DefaultInsertionX anchors the first sub-graph on an empty canvas
	DefaultInsertionX = 0.0

	// TierRootY and TierGapY fix the three hierarchy tiers at increasing y
	TierRootY = 0.0
	TierGapY  = 250.0

	// TierSpacingX is the uniform horizontal spacing within a tier
	TierSpacingX = 300.0

	// Grid placement for standalone nodes
	GridColumns    = 3
	GridCellWidth  = 350.0
	GridCellHeight = 300.0
	GridJitterMax  = 20

	// Fallback square grid used when the relationship layout is unavailable
	FallbackCellWidth  = 300.0
	FallbackCellHeight = 200.0
)

// AnchoredPlacement places a new child one stride right of its anchor.
// siblingIndex is the number of lineage children the anchor already has:
// the first child lands level with the source, later (or concurrent)
// children stagger downward so they never overlap.
func AnchoredPlacement(anchor shared.Position, siblingIndex int) shared.Position {
	return anchor.Translate(AnchorStrideX, float64(siblingIndex)*SiblingStaggerY)
}

// CountLineageChildren counts existing lineage edges leaving the given
// source node. Used as the sibling index for anchored placement.
func CountLineageChildren(edges []*edge.Edge, sourceID shared.NodeID) int {
	count := 0
	for _, e := range edges {
		if e.Kind() == edge.KindLineage && e.Source().Equals(sourceID) {
			count++
		}
	}
	return count
}

// RightmostX returns the largest x-coordinate of any node, or ok=false for
// an empty set.
func RightmostX(nodes []*node.Node) (float64, bool) {
	if len(nodes) == 0 {
		return 0, false
	}
	max := nodes[0].Position().X()
	for _, n := range nodes[1:] {
		if x := n.Position().X(); x > max {
			max = x
		}
	}
	return max, true
}
