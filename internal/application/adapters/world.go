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
	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/errors"
)

// WorldParams is the trigger payload for world generation.
type WorldParams struct {
	Genre        string   `json:"genre" validate:"required"`
	Era          string   `json:"era" validate:"required"`
	Tone         string   `json:"tone" validate:"required"`
	Themes       []string `json:"themes" validate:"min=1"`
	NumFactions  int      `json:"num_factions" validate:"gte=1,lte=8"`
	NumLocations int      `json:"num_locations" validate:"gte=1,lte=12"`
}

// WorldAdapter drives world generation on one canvas. Unlike the single-node
// contracts, a successful settlement swaps the preview placeholder for a
// whole sub-graph: one world root, a tier of factions, and a tier of
// locations, all contained under the root.
type WorldAdapter struct {
	canvas *canvas.Canvas
	client *generation.Client
	logger *zap.Logger
}

// NewWorldAdapter creates a world adapter bound to the given canvas.
func NewWorldAdapter(cv *canvas.Canvas, client *generation.Client, logger *zap.Logger) *WorldAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorldAdapter{
		canvas: cv,
		client: client,
		logger: logger,
	}
}

// Kind returns the generation kind this adapter serves
func (a *WorldAdapter) Kind() string {
	return "world"
}

// Begin stages a single preview placeholder where the world root will land,
// past the rightmost existing content.
func (a *WorldAdapter) Begin(ctx context.Context, params WorldParams) ([]string, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.NewValidation(fmt.Sprintf("invalid world request: %v", err))
	}

	snap := a.canvas.Snapshot()
	tier := layout.PlaceHierarchy(snap.Nodes, 0, 0)

	preview, err := node.NewPlaceholder(node.KindPreview, tier.Root, node.PreviewLabel{
		Label: fmt.Sprintf("Generating %s world...", params.Genre),
	})
	if err != nil {
		return nil, err
	}
	if err := a.canvas.AddNode(preview); err != nil {
		return nil, err
	}

	a.logger.Debug("world preview staged",
		zap.String("node_id", preview.ID().String()),
		zap.String("genre", params.Genre),
		zap.Int("num_factions", params.NumFactions),
		zap.Int("num_locations", params.NumLocations),
	)

	return []string{preview.ID().String()}, nil
}

// Dispatch calls the generation backend. No canvas access happens here.
func (a *WorldAdapter) Dispatch(ctx context.Context, params WorldParams) (*generation.WorldResult, error) {
	return a.client.GenerateWorld(ctx, generation.WorldRequest{
		Genre:        params.Genre,
		Era:          params.Era,
		Tone:         params.Tone,
		Themes:       params.Themes,
		NumFactions:  params.NumFactions,
		NumLocations: params.NumLocations,
	})
}

// SettleSuccess removes the preview and lands the generated sub-graph in
// three tiers. The hierarchy is placed against the canvas as it stands after
// the preview is gone, so the preview's own position never pushes the world
// further right. A preview the user already deleted counts as a dismissal
// and the world is discarded.
func (a *WorldAdapter) SettleSuccess(ctx context.Context, mctx mutation.MutationContext, result *generation.WorldResult) error {
	previewID, ok := primaryNode(mctx)
	if !ok {
		return nil
	}

	removed := a.canvas.RemoveNodes(func(n *node.Node) bool { return n.ID().Equals(previewID) })
	if removed == 0 {
		a.logger.Debug("world preview vanished before settlement, discarding result",
			zap.String("node_id", previewID.String()),
		)
		return nil
	}

	snap := a.canvas.Snapshot()
	tier := layout.PlaceHierarchy(snap.Nodes, len(result.Factions), len(result.Locations))

	nodes := make([]*node.Node, 0, 1+len(result.Factions)+len(result.Locations))
	edges := make([]*edge.Edge, 0, len(result.Factions)+len(result.Locations))

	root, err := node.NewMaterialized(node.KindWorld, tier.Root, node.WorldSummary{
		Name:            result.WorldSetting.Name,
		Description:     result.WorldSetting.Description,
		Genre:           result.WorldSetting.Genre,
		Era:             result.WorldSetting.Era,
		Tone:            result.WorldSetting.Tone,
		Themes:          append([]string(nil), result.WorldSetting.Themes...),
		MagicLevel:      result.WorldSetting.MagicLevel,
		TechnologyLevel: result.WorldSetting.TechnologyLevel,
	})
	if err != nil {
		return err
	}
	nodes = append(nodes, root)

	for i, f := range result.Factions {
		badge, err := node.NewMaterialized(node.KindFaction, tier.Middle[i], node.FactionBadge{
			Name:        f.Name,
			Description: f.Description,
			FactionType: f.FactionType,
			Alignment:   f.Alignment,
			Values:      append([]string(nil), f.Values...),
			Goals:       append([]string(nil), f.Goals...),
			Influence:   f.Influence,
			AllyCount:   f.AllyCount,
			EnemyCount:  f.EnemyCount,
		})
		if err != nil {
			return err
		}
		contains, err := edge.NewContainmentEdge(root.ID(), badge.ID(), "contains")
		if err != nil {
			return err
		}
		nodes = append(nodes, badge)
		edges = append(edges, contains)
	}

	for i, l := range result.Locations {
		badge, err := node.NewMaterialized(node.KindLocation, tier.Bottom[i], node.LocationBadge{
			Name:         l.Name,
			Description:  l.Description,
			LocationType: l.LocationType,
		})
		if err != nil {
			return err
		}
		contains, err := edge.NewContainmentEdge(root.ID(), badge.ID(), "contains")
		if err != nil {
			return err
		}
		nodes = append(nodes, badge)
		edges = append(edges, contains)
	}

	if err := a.canvas.AddBatch(nodes, edges); err != nil {
		return err
	}

	a.logger.Debug("world sub-graph landed",
		zap.String("root_node_id", root.ID().String()),
		zap.Int("factions", len(result.Factions)),
		zap.Int("locations", len(result.Locations)),
	)

	return nil
}

// SettleError marks the preview errored in place so the user sees the failed
// request where the world would have landed.
func (a *WorldAdapter) SettleError(ctx context.Context, mctx mutation.MutationContext, message string) {
	previewID, ok := primaryNode(mctx)
	if !ok {
		return
	}

	if applied := a.canvas.UpdateNode(previewID, func(n *node.Node) {
		n.MarkError(message)
	}); !applied {
		a.logger.Debug("world preview vanished before error settlement",
			zap.String("node_id", previewID.String()),
		)
	}
}
