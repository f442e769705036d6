package handlers

import (
	"encoding/json"
	"net/http"

	"loreweave-backend/internal/application/adapters"
	"loreweave-backend/internal/application/services"
	"loreweave-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GenerationHandler handles generation-trigger and operation-polling requests.
// Triggers return 202 Accepted with the staged placeholder handle; the client
// polls the operation endpoint (or refetches the snapshot) for settlement.
type GenerationHandler struct {
	service *services.CanvasService
	logger  *zap.Logger
}

// NewGenerationHandler creates a generation handler with injected dependencies.
func NewGenerationHandler(service *services.CanvasService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateCharacter handles POST /api/v1/canvases/{canvasID}/generations/character
func (h *GenerationHandler) GenerateCharacter(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	var params adapters.CharacterParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handle, err := h.service.BeginCharacterGeneration(r.Context(), canvasID, params)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusAccepted, handle)
}

// GenerateScene handles POST /api/v1/canvases/{canvasID}/generations/scene
func (h *GenerationHandler) GenerateScene(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	var params adapters.SceneParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handle, err := h.service.BeginSceneGeneration(r.Context(), canvasID, params)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusAccepted, handle)
}

// GenerateWorld handles POST /api/v1/canvases/{canvasID}/generations/world
func (h *GenerationHandler) GenerateWorld(w http.ResponseWriter, r *http.Request) {
	canvasID := chi.URLParam(r, "canvasID")

	var params adapters.WorldParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handle, err := h.service.BeginWorldGeneration(r.Context(), canvasID, params)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusAccepted, handle)
}

// GetOperation handles GET /api/v1/operations/{operationID}
func (h *GenerationHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "operationID")

	result, err := h.service.GetOperation(r.Context(), operationID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
