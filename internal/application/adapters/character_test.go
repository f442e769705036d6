package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loreweave-backend/internal/application/mutation"
	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/layout"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/internal/infrastructure/persistence/memory"
	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/errors"
)

func newTestClient() (*generation.Client, *generation.MockProvider) {
	provider := generation.NewMockProvider()
	return generation.NewClient(provider, generation.Profiles{}, nil), provider
}

func addSettledCharacter(t *testing.T, cv *canvas.Canvas, x, y float64) *node.Node {
	t.Helper()
	n, err := node.NewMaterialized(node.KindCharacter, shared.MustPosition(x, y), node.CharacterSheet{
		Name:    "Eldrin the Wise",
		Role:    "Mentor",
		Tagline: "A mentor forged by a wandering wizard",
		Bio:     "Seen much, says little.",
		Traits:  []string{"patient", "cryptic"},
	})
	require.NoError(t, err)
	require.NoError(t, cv.AddNode(n))
	return n
}

func testContext(cv *canvas.Canvas, nodeIDs []string) mutation.MutationContext {
	return mutation.MutationContext{
		OperationID: shared.NewOperationID().String(),
		CanvasID:    cv.ID().String(),
		NodeIDs:     nodeIDs,
		StartedAt:   time.Now(),
	}
}

func newHarness[Req any, Resp any](t *testing.T, adapter mutation.Adapter[Req, Resp], canvasID string) (*mutation.Controller[Req, Resp], *memory.OperationStore) {
	t.Helper()
	store := memory.NewOperationStore(time.Minute)
	t.Cleanup(store.Close)
	ctrl := mutation.NewController(adapter, mutation.Config{
		CanvasID:       canvasID,
		Store:          store,
		MinimumLoading: time.Nanosecond,
	})
	return ctrl, store
}

func waitForStatus(t *testing.T, store *memory.OperationStore, operationID string, want ports.OperationStatus) *ports.OperationResult {
	t.Helper()
	var record *ports.OperationResult
	require.Eventually(t, func() bool {
		current, err := store.Get(context.Background(), operationID)
		if err != nil {
			return false
		}
		record = current
		return current.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return record
}

func TestCharacterAdapter_Begin(t *testing.T) {
	client, _ := newTestClient()

	t.Run("AnchoredPlacementWithLineageEdge", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		anchor := addSettledCharacter(t, cv, 100, 50)
		adapter := NewCharacterAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), CharacterParams{
			Concept:      "a wandering wizard",
			Archetype:    "mentor",
			AnchorNodeID: anchor.ID().String(),
		})
		require.NoError(t, err)
		require.Len(t, nodeIDs, 1)

		placeholderID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)
		placeholder, err := cv.FindNode(placeholderID)
		require.NoError(t, err)

		assert.Equal(t, node.StatusLoading, placeholder.Status())
		assert.Equal(t, 100.0+layout.AnchorStrideX, placeholder.Position().X())
		assert.Equal(t, 50.0, placeholder.Position().Y())

		sheet, ok := placeholder.Display().(node.CharacterSheet)
		require.True(t, ok)
		assert.Equal(t, "Mentor", sheet.Role)
		assert.Empty(t, sheet.Name)

		snap := cv.Snapshot()
		require.Len(t, snap.Edges, 1)
		assert.Equal(t, edge.KindLineage, snap.Edges[0].Kind())
		assert.True(t, snap.Edges[0].Source().Equals(anchor.ID()))
		assert.True(t, snap.Edges[0].Target().Equals(placeholderID))
		assert.True(t, snap.Edges[0].IsAnimated())
	})

	t.Run("SiblingStaggerForSecondChild", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		anchor := addSettledCharacter(t, cv, 0, 0)
		adapter := NewCharacterAdapter(cv, client, nil)

		first, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "a rival", Archetype: "trickster", AnchorNodeID: anchor.ID().String(),
		})
		require.NoError(t, err)
		second, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "an old friend", Archetype: "guardian", AnchorNodeID: anchor.ID().String(),
		})
		require.NoError(t, err)

		firstID, _ := shared.ParseNodeID(first[0])
		secondID, _ := shared.ParseNodeID(second[0])
		firstNode, err := cv.FindNode(firstID)
		require.NoError(t, err)
		secondNode, err := cv.FindNode(secondID)
		require.NoError(t, err)

		assert.Equal(t, 0.0, firstNode.Position().Y())
		assert.Equal(t, layout.SiblingStaggerY, secondNode.Position().Y())
		assert.Equal(t, firstNode.Position().X(), secondNode.Position().X())
	})

	t.Run("GridPlacementWithoutAnchor", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewCharacterAdapter(cv, client, nil)

		nodeIDs, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "a stranger", Archetype: "healer",
		})
		require.NoError(t, err)

		placeholderID, _ := shared.ParseNodeID(nodeIDs[0])
		placeholder, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.Equal(t, layout.GridPlacement(0), placeholder.Position())
		assert.Zero(t, cv.EdgeCount())
	})

	t.Run("MissingConceptFailsValidation", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewCharacterAdapter(cv, client, nil)

		_, err := adapter.Begin(context.Background(), CharacterParams{Archetype: "mentor"})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.Zero(t, cv.NodeCount())
	})

	t.Run("MalformedAnchorIDFailsValidation", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewCharacterAdapter(cv, client, nil)

		_, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "a stranger", Archetype: "mentor", AnchorNodeID: "not-a-uuid",
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.Zero(t, cv.NodeCount())
	})

	t.Run("UnknownAnchorReportsSourceGone", func(t *testing.T) {
		cv := canvas.NewCanvas("test")
		adapter := NewCharacterAdapter(cv, client, nil)

		_, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "a stranger", Archetype: "mentor", AnchorNodeID: shared.NewNodeID().String(),
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Zero(t, cv.NodeCount())
	})
}

func TestCharacterAdapter_Settlement(t *testing.T) {
	client, _ := newTestClient()

	result := &generation.CharacterResult{
		Name:         "Eldrin the Wise",
		Tagline:      "A mentor forged by a wandering wizard",
		Bio:          "Seen much, says little.",
		VisualPrompt: "Portrait of an old wizard",
		Traits:       []string{"patient", "cryptic", "fiercely loyal"},
	}

	stage := func(t *testing.T) (*canvas.Canvas, *CharacterAdapter, mutation.MutationContext, shared.NodeID) {
		t.Helper()
		cv := canvas.NewCanvas("test")
		anchor := addSettledCharacter(t, cv, 0, 0)
		adapter := NewCharacterAdapter(cv, client, nil)
		nodeIDs, err := adapter.Begin(context.Background(), CharacterParams{
			Concept: "a wandering wizard", Archetype: "mentor", AnchorNodeID: anchor.ID().String(),
		})
		require.NoError(t, err)
		placeholderID, err := shared.ParseNodeID(nodeIDs[0])
		require.NoError(t, err)
		return cv, adapter, testContext(cv, nodeIDs), placeholderID
	}

	t.Run("SuccessMergesSheetAndStopsPulse", func(t *testing.T) {
		cv, adapter, mctx, placeholderID := stage(t)

		require.NoError(t, adapter.SettleSuccess(context.Background(), mctx, result))

		settled, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.Equal(t, node.StatusIdle, settled.Status())

		sheet, ok := settled.Display().(node.CharacterSheet)
		require.True(t, ok)
		assert.Equal(t, "Eldrin the Wise", sheet.Name)
		assert.Equal(t, "Mentor", sheet.Role)
		assert.Equal(t, []string{"patient", "cryptic", "fiercely loyal"}, sheet.Traits)

		snap := cv.Snapshot()
		require.Len(t, snap.Edges, 1)
		assert.False(t, snap.Edges[0].IsAnimated())
	})

	t.Run("ErrorKeepsRoleAndPosition", func(t *testing.T) {
		cv, adapter, mctx, placeholderID := stage(t)
		before, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		position := before.Position()

		adapter.SettleError(context.Background(), mctx, "character generation failed")

		failed, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.Equal(t, node.StatusError, failed.Status())
		assert.Equal(t, "character generation failed", failed.ErrorMessage())
		assert.Equal(t, position, failed.Position())

		sheet, ok := failed.Display().(node.CharacterSheet)
		require.True(t, ok)
		assert.Equal(t, "Mentor", sheet.Role)

		snap := cv.Snapshot()
		require.Len(t, snap.Edges, 1)
		assert.False(t, snap.Edges[0].IsAnimated())
	})

	t.Run("VanishedPlaceholderIsNoOp", func(t *testing.T) {
		cv, adapter, mctx, placeholderID := stage(t)
		removed := cv.RemoveNodes(func(n *node.Node) bool { return n.ID().Equals(placeholderID) })
		require.Equal(t, 1, removed)
		version := cv.Version()

		require.NoError(t, adapter.SettleSuccess(context.Background(), mctx, result))

		assert.Equal(t, version, cv.Version())
		assert.Equal(t, 1, cv.NodeCount())
	})

	t.Run("EmptyContextIsNoOp", func(t *testing.T) {
		cv, adapter, _, _ := stage(t)
		version := cv.Version()

		adapter.SettleError(context.Background(), mutation.MutationContext{}, "boom")

		assert.Equal(t, version, cv.Version())
	})
}

func TestCharacterGeneration_EndToEnd(t *testing.T) {
	t.Run("MentorSettlesAsEldrin", func(t *testing.T) {
		client, _ := newTestClient()
		cv := canvas.NewCanvas("test")
		anchor := addSettledCharacter(t, cv, 0, 0)
		adapter := NewCharacterAdapter(cv, client, nil)
		ctrl, store := newHarness[CharacterParams, *generation.CharacterResult](t, adapter, cv.ID().String())

		handle, err := ctrl.Trigger(context.Background(), CharacterParams{
			Concept:      "a wandering wizard",
			Archetype:    "mentor",
			AnchorNodeID: anchor.ID().String(),
		})
		require.NoError(t, err)
		require.Equal(t, ports.OperationStatusPending, handle.Status)
		require.Len(t, handle.NodeIDs, 1)

		placeholderID, err := shared.ParseNodeID(handle.NodeIDs[0])
		require.NoError(t, err)
		staged, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.True(t, staged.IsLoading())

		waitForStatus(t, store, handle.OperationID, ports.OperationStatusSuccess)

		settled, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.Equal(t, node.StatusIdle, settled.Status())

		sheet, ok := settled.Display().(node.CharacterSheet)
		require.True(t, ok)
		assert.Equal(t, "Eldrin the Wise", sheet.Name)
		assert.Equal(t, "Mentor", sheet.Role)
		assert.Equal(t, []string{"patient", "cryptic", "fiercely loyal"}, sheet.Traits)
	})

	t.Run("BackendFailureLandsOnPlaceholder", func(t *testing.T) {
		client, provider := newTestClient()
		provider.SetError(fmt.Errorf("backend timeout"))

		cv := canvas.NewCanvas("test")
		adapter := NewCharacterAdapter(cv, client, nil)
		ctrl, store := newHarness[CharacterParams, *generation.CharacterResult](t, adapter, cv.ID().String())

		handle, err := ctrl.Trigger(context.Background(), CharacterParams{
			Concept: "a wandering wizard", Archetype: "mentor",
		})
		require.NoError(t, err)

		record := waitForStatus(t, store, handle.OperationID, ports.OperationStatusError)
		assert.Equal(t, "character generation failed", record.Error)

		placeholderID, err := shared.ParseNodeID(handle.NodeIDs[0])
		require.NoError(t, err)
		failed, err := cv.FindNode(placeholderID)
		require.NoError(t, err)
		assert.Equal(t, node.StatusError, failed.Status())
		assert.Equal(t, "character generation failed", failed.ErrorMessage())
	})
}
