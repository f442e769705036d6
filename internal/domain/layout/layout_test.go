package layout

import (
	"testing"

	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
)

func characterAt(t *testing.T, x, y float64) *node.Node {
	t.Helper()
	n, err := node.NewPlaceholder(node.KindCharacter, shared.MustPosition(x, y), node.CharacterSheet{})
	if err != nil {
		t.Fatalf("NewPlaceholder() error = %v", err)
	}
	return n
}

func TestAnchoredPlacement(t *testing.T) {
	anchor := shared.MustPosition(120, 80)

	tests := []struct {
		name         string
		siblingIndex int
		wantX        float64
		wantY        float64
	}{
		{
			name:         "first child lands one stride right, level with source",
			siblingIndex: 0,
			wantX:        520,
			wantY:        80,
		},
		{
			name:         "second child staggers down",
			siblingIndex: 1,
			wantX:        520,
			wantY:        230,
		},
		{
			name:         "third child staggers further",
			siblingIndex: 2,
			wantX:        520,
			wantY:        380,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnchoredPlacement(anchor, tt.siblingIndex)
			if got.X() != tt.wantX || got.Y() != tt.wantY {
				t.Errorf("AnchoredPlacement() = (%v, %v), want (%v, %v)", got.X(), got.Y(), tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCountLineageChildren(t *testing.T) {
	source := shared.NewNodeID()
	other := shared.NewNodeID()

	e1, _ := edge.NewLineageEdge(source, shared.NewNodeID())
	e2, _ := edge.NewLineageEdge(source, shared.NewNodeID())
	e3, _ := edge.NewLineageEdge(other, shared.NewNodeID())
	rel, _ := edge.NewRelationshipEdge(source, other, "allies", edge.RelationshipMeta{})

	edges := []*edge.Edge{e1, e2, e3, rel}

	if got := CountLineageChildren(edges, source); got != 2 {
		t.Errorf("CountLineageChildren() = %d, want 2; relationship edges must not count", got)
	}
	if got := CountLineageChildren(edges, shared.NewNodeID()); got != 0 {
		t.Errorf("CountLineageChildren() for childless source = %d, want 0", got)
	}
}

func TestPlaceHierarchy_EmptyCanvas(t *testing.T) {
	tiers := PlaceHierarchy(nil, 3, 4)

	if tiers.Root.X() != DefaultInsertionX || tiers.Root.Y() != TierRootY {
		t.Errorf("Root = (%v, %v), want default insertion point", tiers.Root.X(), tiers.Root.Y())
	}
	if len(tiers.Middle) != 3 || len(tiers.Bottom) != 4 {
		t.Fatalf("tier sizes = (%d, %d), want (3, 4)", len(tiers.Middle), len(tiers.Bottom))
	}

	// Middle tier centered under root: offsets -300, 0, +300
	wantMiddleX := []float64{-300, 0, 300}
	for i, p := range tiers.Middle {
		if p.X() != wantMiddleX[i] || p.Y() != TierGapY {
			t.Errorf("Middle[%d] = (%v, %v), want (%v, %v)", i, p.X(), p.Y(), wantMiddleX[i], TierGapY)
		}
	}

	// Bottom tier centered with even count: -450, -150, +150, +450
	wantBottomX := []float64{-450, -150, 150, 450}
	for i, p := range tiers.Bottom {
		if p.X() != wantBottomX[i] || p.Y() != 2*TierGapY {
			t.Errorf("Bottom[%d] = (%v, %v), want (%v, %v)", i, p.X(), p.Y(), wantBottomX[i], 2*TierGapY)
		}
	}
}

func TestPlaceHierarchy_InsertsPastRightmost(t *testing.T) {
	existing := []*node.Node{
		characterAt(t, 100, 50),
		characterAt(t, 900, -200),
		characterAt(t, 500, 300),
	}

	tiers := PlaceHierarchy(existing, 2, 2)

	wantX := 900 + InsertionStrideX
	if tiers.Root.X() != wantX {
		t.Errorf("Root.X() = %v, want %v (one stride past rightmost)", tiers.Root.X(), wantX)
	}
	for _, p := range append(tiers.Middle, tiers.Bottom...) {
		if p.X() <= 900 {
			t.Errorf("tier position x = %v overlaps existing content", p.X())
		}
	}
}

func TestPlaceHierarchy_Deterministic(t *testing.T) {
	existing := []*node.Node{characterAt(t, 250, 0)}

	a := PlaceHierarchy(existing, 3, 4)
	b := PlaceHierarchy(existing, 3, 4)

	if !a.Root.Equals(b.Root) {
		t.Error("PlaceHierarchy() root differs across identical invocations")
	}
	for i := range a.Middle {
		if !a.Middle[i].Equals(b.Middle[i]) {
			t.Errorf("PlaceHierarchy() middle[%d] differs across identical invocations", i)
		}
	}
	for i := range a.Bottom {
		if !a.Bottom[i].Equals(b.Bottom[i]) {
			t.Errorf("PlaceHierarchy() bottom[%d] differs across identical invocations", i)
		}
	}
}

func TestGridPlacement(t *testing.T) {
	// Deterministic: same index, same position
	for i := 0; i < 10; i++ {
		if !GridPlacement(i).Equals(GridPlacement(i)) {
			t.Fatalf("GridPlacement(%d) not deterministic", i)
		}
	}

	// Jitter stays within bounds of the cell
	for i := 0; i < 30; i++ {
		p := GridPlacement(i)
		col := i % GridColumns
		row := i / GridColumns
		dx := p.X() - float64(col)*GridCellWidth
		dy := p.Y() - float64(row)*GridCellHeight
		if dx < -GridJitterMax || dx > GridJitterMax || dy < -GridJitterMax || dy > GridJitterMax {
			t.Errorf("GridPlacement(%d) jitter = (%v, %v), exceeds ±%d", i, dx, dy, GridJitterMax)
		}
	}

	// Fourth node wraps to the second row
	p := GridPlacement(GridColumns)
	if p.Y() < GridCellHeight-GridJitterMax {
		t.Errorf("GridPlacement(%d).Y() = %v, expected second row", GridColumns, p.Y())
	}
}

func TestFallbackGrid(t *testing.T) {
	var nodes []*node.Node
	for i := 0; i < 8; i++ {
		nodes = append(nodes, characterAt(t, 0, 0))
	}

	positions := FallbackGrid(nodes)

	if len(positions) != 8 {
		t.Fatalf("FallbackGrid() positioned %d of 8 nodes", len(positions))
	}
	// columns = ceil(sqrt(8)) = 3, so x never exceeds two cells
	for id, p := range positions {
		if p.X() > 2*FallbackCellWidth {
			t.Errorf("FallbackGrid() node %s at x = %v, beyond 3 columns", id, p.X())
		}
	}
	// Distinct cells for distinct nodes
	seen := make(map[[2]float64]string)
	for id, p := range positions {
		key := [2]float64{p.X(), p.Y()}
		if prev, dup := seen[key]; dup {
			t.Errorf("FallbackGrid() placed %s and %s on the same cell", prev, id)
		}
		seen[key] = id
	}

	if got := FallbackGrid(nil); len(got) != 0 {
		t.Errorf("FallbackGrid(nil) = %d positions, want 0", len(got))
	}
}
