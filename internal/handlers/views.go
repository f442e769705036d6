package handlers

import (
	"loreweave-backend/internal/application/services"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/pkg/api"
)

func canvasView(info *services.CanvasInfo) api.CanvasView {
	return api.CanvasView{
		ID:        info.ID,
		Name:      info.Name,
		Version:   info.Version,
		NodeCount: info.NodeCount,
		EdgeCount: info.EdgeCount,
		CreatedAt: info.CreatedAt,
		UpdatedAt: info.UpdatedAt,
	}
}

func snapshotView(info *services.CanvasInfo, snap canvas.Snapshot) api.SnapshotResponse {
	nodes := make([]api.NodeView, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes = append(nodes, nodeView(n))
	}
	edges := make([]api.EdgeView, 0, len(snap.Edges))
	for _, e := range snap.Edges {
		edges = append(edges, edgeView(e))
	}
	return api.SnapshotResponse{
		Canvas: canvasView(info),
		Nodes:  nodes,
		Edges:  edges,
	}
}

func nodeView(n *node.Node) api.NodeView {
	return api.NodeView{
		ID:     n.ID().String(),
		Kind:   string(n.Kind()),
		Status: string(n.Status()),
		Position: api.PositionView{
			X: n.Position().X(),
			Y: n.Position().Y(),
		},
		Display: displayView(n.Display()),
		Error:   n.ErrorMessage(),
	}
}

func edgeView(e *edge.Edge) api.EdgeView {
	view := api.EdgeView{
		ID:       e.ID().String(),
		Source:   e.Source().String(),
		Target:   e.Target().String(),
		Kind:     string(e.Kind()),
		Label:    e.Label(),
		Animated: e.IsAnimated(),
	}
	if meta := e.Meta(); meta != nil {
		view.Meta = &api.RelationshipMetaView{
			Type:     meta.Type,
			Strength: meta.Strength,
			Trust:    meta.Trust,
			Romance:  meta.Romance,
		}
	}
	return view
}

// displayView maps the tagged display union onto its wire shape.
func displayView(d node.Display) interface{} {
	switch payload := d.(type) {
	case node.CharacterSheet:
		return api.CharacterSheetView{
			Name:         payload.Name,
			Role:         payload.Role,
			Tagline:      payload.Tagline,
			Bio:          payload.Bio,
			VisualPrompt: payload.VisualPrompt,
			Traits:       payload.Traits,
		}
	case node.SceneCard:
		return api.SceneCardView{
			Title:        payload.Title,
			SceneType:    payload.SceneType,
			Content:      payload.Content,
			Summary:      payload.Summary,
			VisualPrompt: payload.VisualPrompt,
		}
	case node.WorldSummary:
		return api.WorldSummaryView{
			Name:            payload.Name,
			Description:     payload.Description,
			Genre:           payload.Genre,
			Era:             payload.Era,
			Tone:            payload.Tone,
			Themes:          payload.Themes,
			MagicLevel:      payload.MagicLevel,
			TechnologyLevel: payload.TechnologyLevel,
		}
	case node.FactionBadge:
		return api.FactionBadgeView{
			Name:        payload.Name,
			Description: payload.Description,
			FactionType: payload.FactionType,
			Alignment:   payload.Alignment,
			Values:      payload.Values,
			Goals:       payload.Goals,
			Influence:   payload.Influence,
			AllyCount:   payload.AllyCount,
			EnemyCount:  payload.EnemyCount,
		}
	case node.LocationBadge:
		return api.LocationBadgeView{
			Name:         payload.Name,
			Description:  payload.Description,
			LocationType: payload.LocationType,
		}
	case node.PreviewLabel:
		return api.PreviewLabelView{
			Label: payload.Label,
		}
	default:
		return nil
	}
}
