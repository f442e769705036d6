package layout

import (
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
)

// TierLayout holds the computed positions for a three-tier sub-graph: one
// root, a middle tier (factions), and a bottom tier (locations).
type TierLayout struct {
	Root   shared.Position
	Middle []shared.Position
	Bottom []shared.Position
}

// PlaceHierarchy computes positions for a sub-graph arriving as a batch.
// The insertion point sits one stride past the rightmost existing node so a
// new sub-graph never overlaps previously placed content; on an empty canvas
// it falls back to a fixed default. Below the root, each tier is centered
// under the insertion point with uniform horizontal spacing.
func PlaceHierarchy(existing []*node.Node, middleCount, bottomCount int) TierLayout {
	insertX := DefaultInsertionX
	if x, ok := RightmostX(existing); ok {
		insertX = x + InsertionStrideX
	}

	return TierLayout{
		Root:   shared.MustPosition(insertX, TierRootY),
		Middle: centeredRow(insertX, TierRootY+TierGapY, middleCount),
		Bottom: centeredRow(insertX, TierRootY+2*TierGapY, bottomCount),
	}
}

// centeredRow lays out count positions at the given y, centered around x
func centeredRow(centerX, y float64, count int) []shared.Position {
	if count <= 0 {
		return nil
	}
	row := make([]shared.Position, count)
	offset := float64(count-1) / 2
	for i := 0; i < count; i++ {
		row[i] = shared.MustPosition(centerX+(float64(i)-offset)*TierSpacingX, y)
	}
	return row
}
