// Package handlers provides the HTTP handlers over the canvas application
// services.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"loreweave-backend/pkg/api"
	appErrors "loreweave-backend/pkg/errors"
)

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case appErrors.IsValidation(err):
		api.Error(w, http.StatusBadRequest, appErrors.UserMessage(err))
	case appErrors.IsNotFound(err):
		api.Error(w, http.StatusNotFound, appErrors.UserMessage(err))
	case appErrors.IsConflict(err):
		api.Error(w, http.StatusConflict, appErrors.UserMessage(err))
	case appErrors.IsUnavailable(err):
		api.Error(w, http.StatusServiceUnavailable, appErrors.UserMessage(err))
	default:
		// Full detail goes to the log, a generic message to the client.
		logger.Error("internal error", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
