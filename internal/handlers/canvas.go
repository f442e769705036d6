package handlers

import (
	"encoding/json"
	"net/http"

	"loreweave-backend/internal/application/services"
	"loreweave-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CanvasHandler handles canvas lifecycle and graph-editing HTTP requests.
type CanvasHandler struct {
	service *services.CanvasService
	logger  *zap.Logger
}

// NewCanvasHandler creates a canvas handler with injected dependencies.
func NewCanvasHandler(service *services.CanvasService, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{
		service: service,
		logger:  logger,
	}
}

// CreateCanvas handles POST /api/v1/canvases
func (h *CanvasHandler) CreateCanvas(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCanvasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := h.service.CreateCanvas(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusCreated, canvasView(info))
}

// ListCanvases handles GET /api/v1/canvases
func (h *CanvasHandler) ListCanvases(w http.ResponseWriter, r *http.Request) {
	infos := h.service.ListCanvases(r.Context())

	views := make([]api.CanvasView, 0, len(infos))
	for _, info := range infos {
		views = append(views, canvasView(info))
	}

	api.Success(w, http.StatusOK, views)
}

// GetSnapshot handles GET /api/v1/canvases/{canvasID}
func (h *CanvasHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	info, err := h.service.GetCanvas(r.Context(), canvasID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	snap, err := h.service.Snapshot(r.Context(), canvasID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, snapshotView(info, snap))
}

// DeleteCanvas handles DELETE /api/v1/canvases/{canvasID}
func (h *CanvasHandler) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	if err := h.service.DeleteCanvas(r.Context(), canvasID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveNode handles PUT /api/v1/canvases/{canvasID}/nodes/{nodeID}/position
func (h *CanvasHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")
	nodeID := chi.URLParam(r, "nodeID")

	var req api.MoveNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.MoveNode(r.Context(), canvasID, nodeID, req.X, req.Y); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveNodes handles POST /api/v1/canvases/{canvasID}/nodes/bulk-delete
func (h *CanvasHandler) RemoveNodes(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	var req api.RemoveNodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.NodeIDs) == 0 {
		api.Error(w, http.StatusBadRequest, "node_ids cannot be empty")
		return
	}

	removed, err := h.service.RemoveNodes(r.Context(), canvasID, req.NodeIDs)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, api.RemoveNodesResponse{RemovedCount: removed})
}

// LinkCharacters handles POST /api/v1/canvases/{canvasID}/relationships
func (h *CanvasHandler) LinkCharacters(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	var params services.LinkParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	edgeID, err := h.service.LinkCharacters(r.Context(), canvasID, params)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusCreated, api.LinkResponse{EdgeID: edgeID})
}

// ArrangeRelationships handles POST /api/v1/canvases/{canvasID}/arrange
func (h *CanvasHandler) ArrangeRelationships(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	moved, err := h.service.ArrangeRelationships(r.Context(), canvasID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, api.ArrangeResponse{MovedCount: moved})
}
