package layout

import (
	"math"

	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
)

// GridPlacement positions an unanchored node by its insertion index on a
// fixed column count. A small index-derived jitter breaks the mechanical
// look of a perfect grid while keeping the result fully deterministic.
func GridPlacement(index int) shared.Position {
	col := index % GridColumns
	row := index / GridColumns
	return shared.MustPosition(
		float64(col)*GridCellWidth+jitter(index, 13),
		float64(row)*GridCellHeight+jitter(index, 7),
	)
}

// jitter derives a stable offset in [-GridJitterMax, GridJitterMax] from the
// node index. No randomness: the same index always jitters the same way.
func jitter(index, salt int) float64 {
	span := 2*GridJitterMax + 1
	return float64((index*salt+salt)%span - GridJitterMax)
}

// FallbackGrid places every node on a square grid derived from node count
// alone (columns = ceil(sqrt(n))), keyed by node id. It cannot fail and is
// the terminal fallback when the relationship layout is unavailable.
func FallbackGrid(nodes []*node.Node) map[string]shared.Position {
	positions := make(map[string]shared.Position, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	columns := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for i, n := range nodes {
		col := i % columns
		row := i / columns
		positions[n.ID().String()] = shared.MustPosition(
			float64(col)*FallbackCellWidth,
			float64(row)*FallbackCellHeight,
		)
	}
	return positions
}
