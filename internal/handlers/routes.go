package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the versioned API surface. Middleware ordering and
// the health/metrics endpoints belong to the caller; this only wires the
// domain routes.
func RegisterRoutes(r chi.Router, canvases *CanvasHandler, generations *GenerationHandler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/canvases", func(r chi.Router) {
			r.Post("/", canvases.CreateCanvas)
			r.Get("/", canvases.ListCanvases)

			r.Route("/{canvasID}", func(r chi.Router) {
				r.Get("/", canvases.GetSnapshot)
				r.Delete("/", canvases.DeleteCanvas)
				r.Post("/arrange", canvases.ArrangeRelationships)
				r.Post("/relationships", canvases.LinkCharacters)
				r.Put("/nodes/{nodeID}/position", canvases.MoveNode)
				r.Post("/nodes/bulk-delete", canvases.RemoveNodes)

				r.Route("/generations", func(r chi.Router) {
					r.Post("/character", generations.GenerateCharacter)
					r.Post("/scene", generations.GenerateScene)
					r.Post("/world", generations.GenerateWorld)
				})
			})
		})

		r.Get("/operations/{operationID}", generations.GetOperation)
	})
}
