//go:build wireinject
// +build wireinject

package di

import (
	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
)

// InitializeRouter wires the full HTTP surface from environment config.
// NewContainer remains the production entrypoint because it also owns
// lifecycle concerns the provider graph does not model: the tuning watcher
// and ordered shutdown.
func InitializeRouter() (*chi.Mux, error) {
	wire.Build(SuperSet)
	return nil, nil
}
