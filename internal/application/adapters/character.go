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

// CharacterParams is the trigger payload for character generation. The
// anchor node is optional: when present the placeholder lands one stride
// right of it with a lineage edge, otherwise it takes the next grid cell.
type CharacterParams struct {
	Concept      string `json:"concept" validate:"required"`
	Archetype    string `json:"archetype" validate:"required"`
	Tone         string `json:"tone,omitempty"`
	AnchorNodeID string `json:"anchor_node_id,omitempty"`
}

// CharacterAdapter drives character generation on one canvas.
type CharacterAdapter struct {
	canvas *canvas.Canvas
	client *generation.Client
	logger *zap.Logger
}

// NewCharacterAdapter creates a character adapter bound to the given canvas.
func NewCharacterAdapter(cv *canvas.Canvas, client *generation.Client, logger *zap.Logger) *CharacterAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CharacterAdapter{
		canvas: cv,
		client: client,
		logger: logger,
	}
}

// Kind returns the generation kind this adapter serves
func (a *CharacterAdapter) Kind() string {
	return "character"
}

// Begin stages a loading character placeholder. The placeholder already
// carries the role derived from the archetype so the canvas shows what is
// being generated while the backend works.
func (a *CharacterAdapter) Begin(ctx context.Context, params CharacterParams) ([]string, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid character request: %v", err))
	}

	position, anchorID, err := a.placement(params.AnchorNodeID)
	if err != nil {
		return nil, err
	}

	placeholder, err := node.NewPlaceholder(node.KindCharacter, position, node.CharacterSheet{
		Role: roleLabel(params.Archetype),
	})
	if err != nil {
		return nil, err
	}

	var edges []*edge.Edge
	if anchorID != nil {
		lineage, err := edge.NewLineageEdge(*anchorID, placeholder.ID())
		if err != nil {
			return nil, err
		}
		edges = append(edges, lineage)
	}

	if err := a.canvas.AddBatch([]*node.Node{placeholder}, edges); err != nil {
		return nil, err
	}

	a.logger.Debug("character placeholder staged",
		zap.String("node_id", placeholder.ID().String()),
		zap.String("archetype", params.Archetype),
	)

	return []string{placeholder.ID().String()}, nil
}

// placement resolves where the placeholder lands. Anchored placement needs
// the anchor's current position and its lineage child count for the sibling
// stagger; without an anchor the placeholder takes the next grid cell.
func (a *CharacterAdapter) placement(anchorNodeID string) (shared.Position, *shared.NodeID, error) {
	snap := a.canvas.Snapshot()

	if anchorNodeID == "" {
		return layout.GridPlacement(len(snap.Nodes)), nil, nil
	}

	anchorID, err := shared.ParseNodeID(anchorNodeID)
	if err != nil {
		return shared.Position{}, nil, err
	}
	anchor, err := a.canvas.FindNode(anchorID)
	if err != nil {
		return shared.Position{}, nil, shared.ErrSourceNodeGone
	}

	sibling := layout.CountLineageChildren(snap.Edges, anchorID)
	return layout.AnchoredPlacement(anchor.Position(), sibling), &anchorID, nil
}

// Dispatch calls the generation backend. No canvas access happens here.
func (a *CharacterAdapter) Dispatch(ctx context.Context, params CharacterParams) (*generation.CharacterResult, error) {
	return a.client.GenerateCharacter(ctx, generation.CharacterRequest{
		Concept:   params.Concept,
		Archetype: params.Archetype,
		Tone:      params.Tone,
	})
}

// SettleSuccess materializes the placeholder with the generated sheet. The
// role label chosen at begin time survives the merge.
func (a *CharacterAdapter) SettleSuccess(ctx context.Context, mctx mutation.MutationContext, result *generation.CharacterResult) error {
	nodeID, ok := primaryNode(mctx)
	if !ok {
		return nil
	}

	var settleErr error
	applied := a.canvas.UpdateNode(nodeID, func(n *node.Node) {
		role := ""
		if sheet, ok := n.Display().(node.CharacterSheet); ok {
			role = sheet.Role
		}
		settleErr = n.SettleInto(node.CharacterSheet{
			Name:         result.Name,
			Role:         role,
			Tagline:      result.Tagline,
			Bio:          result.Bio,
			VisualPrompt: result.VisualPrompt,
			Traits:       append([]string(nil), result.Traits...),
		})
	})
	if !applied {
		a.logger.Debug("character placeholder vanished before settlement",
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

// SettleError marks the placeholder errored in place, keeping its position
// and role so the user sees which request failed.
func (a *CharacterAdapter) SettleError(ctx context.Context, mctx mutation.MutationContext, message string) {
	nodeID, ok := primaryNode(mctx)
	if !ok {
		return
	}

	applied := a.canvas.UpdateNode(nodeID, func(n *node.Node) {
		n.MarkError(message)
	})
	if !applied {
		a.logger.Debug("character placeholder vanished before error settlement",
			zap.String("node_id", nodeID.String()),
		)
		return
	}

	stopLoadingPulse(a.canvas, nodeID)
}
