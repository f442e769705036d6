// Package adapters binds the generation contracts to a canvas. Each adapter
// implements one contract's placeholder staging, backend dispatch, and
// settlement writes, and is driven by a mutation controller. Settlement paths
// treat a vanished placeholder as a recoverable race and quietly no-op
// instead of failing the operation.
package adapters

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"loreweave-backend/internal/application/mutation"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/shared"
)

// validate is shared across adapters; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = validator.New()

// primaryNode extracts the placeholder node id from a settlement context.
// ok=false means the context cannot address a node and the settlement must
// leave the canvas untouched.
func primaryNode(mctx mutation.MutationContext) (shared.NodeID, bool) {
	if mctx.IsEmpty() {
		return shared.NodeID{}, false
	}
	id, err := shared.ParseNodeID(mctx.PrimaryNodeID())
	if err != nil {
		return shared.NodeID{}, false
	}
	return id, true
}

// stopLoadingPulse ends the animation on every lineage edge feeding the
// settled node. Called on both success and error settlement so no edge keeps
// pulsing after its target stopped loading.
func stopLoadingPulse(cv *canvas.Canvas, target shared.NodeID) {
	cv.UpdateEdges(
		func(e *edge.Edge) bool {
			return e.Kind() == edge.KindLineage && e.Target().Equals(target) && e.IsAnimated()
		},
		func(e *edge.Edge) { e.StopAnimation() },
	)
}

// roleLabel turns a raw archetype like "mentor" into the display role "Mentor".
func roleLabel(archetype string) string {
	if archetype == "" {
		return archetype
	}
	runes := []rune(archetype)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
