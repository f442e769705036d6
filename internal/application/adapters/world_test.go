package adapters

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/layout"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/errors"
)

func worldParams() WorldParams {
	return WorldParams{
		Genre:        "fantasy",
		Era:          "second dawn",
		Tone:         "hopeful",
		Themes:       []string{"rebirth", "betrayal"},
		NumFactions:  3,
		NumLocations: 4,
	}
}

func worldResult(factions, locations int) *generation.WorldResult {
	result := &generation.WorldResult{
		WorldSetting: generation.WorldSetting{
			ID:          "world-1",
			Name:        "The Shattered March",
			Description: "A borderland of broken oaths.",
			Genre:       "fantasy",
			Era:         "second dawn",
			Tone:        "hopeful",
			Themes:      []string{"rebirth"},
			MagicLevel:  "moderate",
		},
	}
	for i := 0; i < factions; i++ {
		result.Factions = append(result.Factions, generation.Faction{
			ID:        fmt.Sprintf("faction-%d", i+1),
			Name:      fmt.Sprintf("Faction %d", i+1),
			Alignment: "neutral",
		})
	}
	for i := 0; i < locations; i++ {
		result.Locations = append(result.Locations, generation.Location{
			ID:   fmt.Sprintf("location-%d", i+1),
			Name: fmt.Sprintf("Location %d", i+1),
		})
	}
	return result
}

func nodesByKind(cv *canvas.Canvas) map[node.Kind][]*node.Node {
	byKind := make(map[node.Kind][]*node.Node)
	for _, n := range cv.Snapshot().Nodes {
		byKind[n.Kind()] = append(byKind[n.Kind()], n)
	}
	return byKind
}

func TestWorldAdapter_Begin(t *testing.T) {
	client, _ := newTestClient()

	t.Run("PreviewPastRightmostContent", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		addSettledCharacter(t, cv, 100, 0)
		adapter := NewWorldAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), worldParams())
		require.NoError(t, err)
		require.Len(t, nodeIDs, 1)

		previewID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)
		preview, err := cv.FindNode(previewID)
		require.NoError(t, err)

		assert.Equal(t, node.KindPreview, preview.Kind())
		assert.Equal(t, node.StatusLoading, preview.Status())
		assert.Equal(t, 100.0+layout.InsertionStrideX, preview.Position().X())
		assert.Equal(t, layout.TierRootY, preview.Position().Y())

		label, ok := preview.Display().(node.PreviewLabel)
		require.True(t, ok)
		assert.Equal(t, "Generating fantasy world...", label.Label)
	})

	t.Run("CountsOutOfRangeFailValidation", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewWorldAdapter(cv, client, nil)

		params := worldParams()
		params.NumFactions = 0
		_, err := adapter.Begin(context.Background(), params)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))

		params = worldParams()
		params.NumLocations = 13
		_, err = adapter.Begin(context.Background(), params)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.Zero(t, cv.NodeCount())
	})

	t.Run("MissingThemesFailValidation", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewWorldAdapter(cv, client, nil)

		params := worldParams()
		params.Themes = nil
		_, err := adapter.Begin(context.Background(), params)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestWorldAdapter_SettleSuccess(t *testing.T) {
	client, _ := newTestClient()

	t.Run("SwapsPreviewForHierarchy", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewWorldAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), worldParams())
		require.NoError(t, err)
		previewID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)

		require.NoError(t, adapter.SettleSuccess(context.Background(), testContext(cv, nodeIDs), worldResult(3, 4)))

		assert.False(t, cv.HasNode(previewID))
		assert.Equal(t, 8, cv.NodeCount())
		assert.Equal(t, 7, cv.EdgeCount())

		byKind := nodesByKind(cv)
		require.Len(t, byKind[node.KindWorld], 1)
		require.Len(t, byKind[node.KindFaction], 3)
		require.Len(t, byKind[node.KindLocation], 4)
		assert.Empty(t, byKind[node.KindPreview])

		root := byKind[node.KindWorld][0]
		assert.Equal(t, node.StatusIdle, root.Status())
		assert.Equal(t, layout.TierRootY, root.Position().Y())

		summary, ok := root.Display().(node.WorldSummary)
		require.True(t, ok)
		assert.Equal(t, "The Shattered March", summary.Name)

		for _, f := range byKind[node.KindFaction] {
			assert.Equal(t, node.StatusIdle, f.Status())
			assert.Equal(t, layout.TierRootY+layout.TierGapY, f.Position().Y())
		}
		for _, l := range byKind[node.KindLocation] {
			assert.Equal(t, layout.TierRootY+2*layout.TierGapY, l.Position().Y())
		}

		for _, e := range cv.Snapshot().Edges {
			assert.Equal(t, edge.KindContainment, e.Kind())
			assert.True(t, e.Source().Equals(root.ID()))
		}
	})

	t.Run("HierarchyLandsWherePreviewStood", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		addSettledCharacter(t, cv, 100, 0)
		adapter := NewWorldAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), worldParams())
		require.NoError(t, err)
		previewID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)
		preview, err := cv.FindNode(previewID)
		require.NoError(t, err)
		previewPosition := preview.Position()

		require.NoError(t, adapter.SettleSuccess(context.Background(), testContext(cv, nodeIDs), worldResult(3, 4)))

		root := nodesByKind(cv)[node.KindWorld][0]
		assert.Equal(t, previewPosition, root.Position())
	})

	t.Run("DismissedPreviewDiscardsWorld", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewWorldAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), worldParams())
		require.NoError(t, err)
		previewID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)
		removed := cv.RemoveNodes(func(n *node.Node) bool { return n.ID().Equals(previewID) })
		require.Equal(t, 1, removed)

		require.NoError(t, adapter.SettleSuccess(context.Background(), testContext(cv, nodeIDs), worldResult(3, 4)))

		assert.Zero(t, cv.NodeCount())
		assert.Zero(t, cv.EdgeCount())
	})
}

func TestWorldAdapter_SettleError(t *testing.T) {
	client, _ := newTestClient()
	cv := canvas.NewCanvas("test")
	adapter := NewWorldAdapter(cv, client, nil)

	nodeIDs, err := adapter.Begin(context.Background(), worldParams())
	require.NoError(t, err)
	previewID, err := shared.ParseNodeID(nodeIDs[0])
	require.NoError(t, err)

	adapter.SettleError(context.Background(), testContext(cv, nodeIDs), "world generation failed")

	preview, err := cv.FindNode(previewID)
	require.NoError(t, err)
	assert.Equal(t, node.StatusError, preview.Status())
	assert.Equal(t, "world generation failed", preview.ErrorMessage())
	assert.Equal(t, 1, cv.NodeCount())
}

func TestWorldGeneration_EndToEnd(t *testing.T) {
	client, _ := newTestClient()
	cv := canvas.NewCanvas("test")
	adapter := NewWorldAdapter(cv, client, nil)
	ctrl, store := newHarness[WorldParams, *generation.WorldResult](t, adapter, cv.ID().String())

	handle, err := ctrl.Trigger(context.Background(), worldParams())
	require.NoError(t, err)
	require.Equal(t, ports.OperationStatusPending, handle.Status)

	previewID, err := shared.ParseNodeID(handle.NodeIDs[0])
	require.NoError(t, err)
	assert.True(t, cv.HasNode(previewID))

	waitForStatus(t, store, handle.OperationID, ports.OperationStatusSuccess)

	assert.False(t, cv.HasNode(previewID))
	assert.Equal(t, 8, cv.NodeCount())
	assert.Equal(t, 7, cv.EdgeCount())

	byKind := nodesByKind(cv)
	require.Len(t, byKind[node.KindWorld], 1)
	summary, ok := byKind[node.KindWorld][0].Display().(node.WorldSummary)
	require.True(t, ok)
	assert.Equal(t, "The Fantasy Expanse", summary.Name)

	require.Len(t, byKind[node.KindFaction], 3)
	badge, ok := byKind[node.KindFaction][0].Display().(node.FactionBadge)
	require.True(t, ok)
	assert.Equal(t, "The Gilded Compact", badge.Name)

	require.Len(t, byKind[node.KindLocation], 4)
}
