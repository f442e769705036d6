package adapters

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"loreweave-backend/internal/application/mutation"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/layout"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/errors"
)

// SceneParams is the trigger payload for scene generation. The source node
// must be a settled character; the generated scene features that character.
type SceneParams struct {
	SourceNodeID string `json:"source_node_id" validate:"required"`
	SceneType    string `json:"scene_type" validate:"required"`
	Tone         string `json:"tone,omitempty"`
}

// SceneAdapter drives scene generation on one canvas.
type SceneAdapter struct {
	canvas *canvas.Canvas
	client *generation.Client
	logger *zap.Logger
}

// NewSceneAdapter creates a scene adapter bound to the given canvas.
func NewSceneAdapter(cv *canvas.Canvas, client *generation.Client, logger *zap.Logger) *SceneAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneAdapter{
		canvas: cv,
		client: client,
		logger: logger,
	}
}

// Kind returns the generation kind this adapter serves
func (a *SceneAdapter) Kind() string {
	return "scene"
}

// Begin stages a loading scene placeholder anchored to the source character,
// linked by an animated lineage edge. Triggering from a node that is not a
// settled character is rejected synchronously.
func (a *SceneAdapter) Begin(ctx context.Context, params SceneParams) ([]string, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid scene request: %v", err))
	}

	sourceID, err := shared.ParseNodeID(params.SourceNodeID)
	if err != nil {
		return nil, err
	}
	source, err := a.canvas.FindNode(sourceID)
	if err != nil {
		return nil, shared.ErrSourceNodeGone
	}
	if source.Kind() != node.KindCharacter {
		return nil, errors.NewValidation("scene generation requires a character source node")
	}
	if source.Status() != node.StatusIdle {
		return nil, errors.NewValidation("source character has not finished generating")
	}

	snap := a.canvas.Snapshot()
	position := layout.AnchoredPlacement(source.Position(), layout.CountLineageChildren(snap.Edges, sourceID))

	placeholder, err := node.NewPlaceholder(node.KindScene, position, node.SceneCard{
		SceneType: params.SceneType,
	})
	if err != nil {
		return nil, err
	}
	lineage, err := edge.NewLineageEdge(sourceID, placeholder.ID())
	if err != nil {
		return nil, err
	}

	if err := a.canvas.AddBatch([]*node.Node{placeholder}, []*edge.Edge{lineage}); err != nil {
		return nil, err
	}

	a.logger.Debug("scene placeholder staged",
		zap.String("node_id", placeholder.ID().String()),
		zap.String("source_node_id", params.SourceNodeID),
		zap.String("scene_type", params.SceneType),
	)

	return []string{placeholder.ID().String()}, nil
}

// Dispatch reads the source character off the canvas and sends it to the
// backend. The read happens here rather than at begin so the scene reflects
// the character as it stands when the call goes out; a source removed in the
// window between begin and dispatch fails the operation onto the placeholder.
func (a *SceneAdapter) Dispatch(ctx context.Context, params SceneParams) (*generation.SceneResult, error) {
	sourceID, err := shared.ParseNodeID(params.SourceNodeID)
	if err != nil {
		return nil, err
	}
	source, err := a.canvas.FindNode(sourceID)
	if err != nil {
		return nil, shared.ErrSourceNodeGone
	}
	sheet, ok := source.Display().(node.CharacterSheet)
	if !ok {
		return nil, shared.ErrSourceNodeGone
	}

	return a.client.GenerateScene(ctx, generation.SceneRequest{
		CharacterContext: generation.CharacterContext{
			Name:         sheet.Name,
			Tagline:      sheet.Tagline,
			Bio:          sheet.Bio,
			VisualPrompt: sheet.VisualPrompt,
			Traits:       append([]string(nil), sheet.Traits...),
		},
		SceneType: params.SceneType,
		Tone:      params.Tone,
	})
}

// SettleSuccess materializes the placeholder with the generated scene. The
// scene type chosen at begin time survives the merge.
func (a *SceneAdapter) SettleSuccess(ctx context.Context, mctx mutation.MutationContext, result *generation.SceneResult) error {
	nodeID, ok := primaryNode(mctx)
	if !ok {
		return nil
	}

	var settleErr error
	applied := a.canvas.UpdateNode(nodeID, func(n *node.Node) {
		sceneType := ""
		if card, ok := n.Display().(node.SceneCard); ok {
			sceneType = card.SceneType
		}
		settleErr = n.SettleInto(node.SceneCard{
			Title:        result.Title,
			SceneType:    sceneType,
			Content:      result.Content,
			Summary:      result.Summary,
			VisualPrompt: result.VisualPrompt,
		})
	})
	if !applied {
		a.logger.Debug("scene placeholder vanished before settlement",
			zap.String("node_id", nodeID.String()),
		)
		return nil
	}
	if settleErr != nil {
		return settleErr
	}

	stopLoadingPulse(a.canvas, nodeID)
	return nil
}

// SettleError marks the placeholder errored in place.
func (a *SceneAdapter) SettleError(ctx context.Context, mctx mutation.MutationContext, message string) {
	nodeID, ok := primaryNode(mctx)
	if !ok {
		return
	}

	applied := a.canvas.UpdateNode(nodeID, func(n *node.Node) {
		n.MarkError(message)
	})
	if !applied {
		a.logger.Debug("scene placeholder vanished before error settlement",
			zap.String("node_id", nodeID.String()),
		)
		return
	}

	stopLoadingPulse(a.canvas, nodeID)
}
