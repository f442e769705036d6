// Package services exposes the application operations the HTTP layer calls:
// canvas lifecycle, generation triggers, relationship editing, and layout.
// The CanvasService owns a runtime per live canvas, each holding the typed
// mutation controllers for that canvas's generation contracts.
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"loreweave-backend/internal/application/adapters"
	"loreweave-backend/internal/application/mutation"
	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/domain/edge"
	"loreweave-backend/internal/domain/layout"
	"loreweave-backend/internal/domain/node"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/errors"
)

var validate = validator.New()

// GraphRecorder receives canvas size measurements after mutating operations.
// The observability collector implements it; tests use the no-op.
type GraphRecorder interface {
	CanvasResized(canvasID string, nodes, edges int)
	CanvasDropped(canvasID string)
}

type nopGraphRecorder struct{}

func (nopGraphRecorder) CanvasResized(string, int, int) {}
func (nopGraphRecorder) CanvasDropped(string)           {}

// NopGraphRecorder returns a recorder that discards all measurements
func NopGraphRecorder() GraphRecorder {
	return nopGraphRecorder{}
}

// CanvasInfo is the read projection of a canvas returned by lifecycle calls.
type CanvasInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkParams is the payload for creating a relationship edge between two
// character nodes. Bond values live on a 0..1 scale.
type LinkParams struct {
	SourceNodeID string  `json:"source_node_id" validate:"required"`
	TargetNodeID string  `json:"target_node_id" validate:"required"`
	Label        string  `json:"label" validate:"required"`
	Type         string  `json:"type,omitempty"`
	Strength     float64 `json:"strength" validate:"gte=0,lte=1"`
	Trust        float64 `json:"trust" validate:"gte=0,lte=1"`
	Romance      float64 `json:"romance" validate:"gte=0,lte=1"`
}

// Config carries the collaborators every canvas runtime shares.
type Config struct {
	Client         *generation.Client
	Store          ports.OperationStore
	Engine         *layout.Engine
	Clock          mutation.Clock
	MinimumLoading time.Duration
	CanvasLimits   canvas.Limits
	Logger         *zap.Logger
	Recorder       mutation.Recorder
	Graphs         GraphRecorder

	// MaxConcurrentGenerations caps unsettled operations across all
	// canvases. Zero is unlimited. Adjustable at runtime through
	// SetMaxConcurrentGenerations.
	MaxConcurrentGenerations int
}

// canvasRuntime bundles one canvas with its generation controllers. The
// controllers share the operation store and clock but are bound to this
// canvas's adapters.
type canvasRuntime struct {
	canvas     *canvas.Canvas
	characters *mutation.Controller[adapters.CharacterParams, *generation.CharacterResult]
	scenes     *mutation.Controller[adapters.SceneParams, *generation.SceneResult]
	worlds     *mutation.Controller[adapters.WorldParams, *generation.WorldResult]
}

// CanvasService manages live canvases and routes operations to them.
type CanvasService struct {
	mu       sync.RWMutex
	runtimes map[string]*canvasRuntime
	limits   canvas.Limits

	client     *generation.Client
	store      ports.OperationStore
	engine     *layout.Engine
	clock      mutation.Clock
	minLoading time.Duration
	logger     *zap.Logger
	recorder   mutation.Recorder
	graphs     GraphRecorder

	inflight    atomic.Int64
	maxInflight atomic.Int64
}

// NewCanvasService creates the service. Store and Client are required; the
// rest default to working no-op or standard implementations.
func NewCanvasService(cfg Config) *CanvasService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Engine == nil {
		cfg.Engine = layout.NewEngine(layout.NewLayeredAlgorithm(), cfg.Logger)
	}
	if cfg.Clock == nil {
		cfg.Clock = mutation.RealClock()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = mutation.NopRecorder()
	}
	if cfg.Graphs == nil {
		cfg.Graphs = NopGraphRecorder()
	}

	s := &CanvasService{
		runtimes:   make(map[string]*canvasRuntime),
		client:     cfg.Client,
		store:      cfg.Store,
		engine:     cfg.Engine,
		clock:      cfg.Clock,
		minLoading: cfg.MinimumLoading,
		limits:     cfg.CanvasLimits,
		logger:     cfg.Logger,
		recorder:   cfg.Recorder,
		graphs:     cfg.Graphs,
	}
	s.maxInflight.Store(int64(cfg.MaxConcurrentGenerations))
	return s
}

// SetCanvasLimits replaces the size bounds applied to canvases created after
// this call. Existing canvases keep the limits they were created with.
func (s *CanvasService) SetCanvasLimits(limits canvas.Limits) {
	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()
}

// SetMaxConcurrentGenerations adjusts the in-flight operation cap at
// runtime. Zero removes the cap; operations already dispatched are never
// interrupted.
func (s *CanvasService) SetMaxConcurrentGenerations(n int) {
	s.maxInflight.Store(int64(n))
}

// CreateCanvas opens a new empty canvas and its generation runtime.
func (s *CanvasService) CreateCanvas(ctx context.Context, name string) (*CanvasInfo, error) {
	if len(name) > 200 {
		return nil, errors.NewValidation("canvas name must be at most 200 characters")
	}

	s.mu.Lock()
	cv := canvas.NewCanvasWithLimits(name, s.limits)
	rt := s.newRuntime(cv)
	s.runtimes[cv.ID().String()] = rt
	s.mu.Unlock()

	s.logger.Info("canvas created",
		zap.String("canvas_id", cv.ID().String()),
		zap.String("name", cv.Name()),
	)

	return infoOf(cv), nil
}

// GetCanvas returns the read projection of one canvas.
func (s *CanvasService) GetCanvas(ctx context.Context, canvasID string) (*CanvasInfo, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return nil, err
	}
	return infoOf(rt.canvas), nil
}

// ListCanvases returns every live canvas, oldest first.
func (s *CanvasService) ListCanvases(ctx context.Context) []*CanvasInfo {
	s.mu.RLock()
	infos := make([]*CanvasInfo, 0, len(s.runtimes))
	for _, rt := range s.runtimes {
		infos = append(infos, infoOf(rt.canvas))
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// DeleteCanvas drops a canvas and its runtime. Operations already dispatched
// keep running; their settlements land on the dropped aggregate and are
// invisible, which is the same recoverable race as a deleted placeholder.
func (s *CanvasService) DeleteCanvas(ctx context.Context, canvasID string) error {
	if _, err := shared.ParseCanvasID(canvasID); err != nil {
		return err
	}

	s.mu.Lock()
	_, ok := s.runtimes[canvasID]
	if ok {
		delete(s.runtimes, canvasID)
	}
	s.mu.Unlock()

	if !ok {
		return shared.ErrCanvasNotFound
	}

	s.graphs.CanvasDropped(canvasID)
	s.logger.Info("canvas deleted", zap.String("canvas_id", canvasID))
	return nil
}

// Snapshot returns a deep copy of the canvas graph for rendering.
func (s *CanvasService) Snapshot(ctx context.Context, canvasID string) (canvas.Snapshot, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return canvas.Snapshot{}, err
	}

	// The UI polls snapshots while operations settle in the background, so
	// this is where settlement events surface into logs and gauges.
	s.flush(rt.canvas)
	return rt.canvas.Snapshot(), nil
}

// BeginCharacterGeneration triggers the character contract on a canvas.
func (s *CanvasService) BeginCharacterGeneration(ctx context.Context, canvasID string, params adapters.CharacterParams) (*mutation.Handle, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.admitGeneration(); err != nil {
		return nil, err
	}
	handle, err := rt.characters.Trigger(ctx, params)
	if err != nil {
		return nil, err
	}
	s.flush(rt.canvas)
	return handle, nil
}

// BeginSceneGeneration triggers the scene contract on a canvas.
func (s *CanvasService) BeginSceneGeneration(ctx context.Context, canvasID string, params adapters.SceneParams) (*mutation.Handle, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.admitGeneration(); err != nil {
		return nil, err
	}
	handle, err := rt.scenes.Trigger(ctx, params)
	if err != nil {
		return nil, err
	}
	s.flush(rt.canvas)
	return handle, nil
}

// BeginWorldGeneration triggers the world contract on a canvas.
func (s *CanvasService) BeginWorldGeneration(ctx context.Context, canvasID string, params adapters.WorldParams) (*mutation.Handle, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return nil, err
	}
	if err := s.admitGeneration(); err != nil {
		return nil, err
	}
	handle, err := rt.worlds.Trigger(ctx, params)
	if err != nil {
		return nil, err
	}
	s.flush(rt.canvas)
	return handle, nil
}

// GetOperation returns the lifecycle record of one generation operation.
func (s *CanvasService) GetOperation(ctx context.Context, operationID string) (*ports.OperationResult, error) {
	if _, err := shared.ParseOperationID(operationID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, operationID)
}

// LinkCharacters creates a relationship edge between two character nodes.
func (s *CanvasService) LinkCharacters(ctx context.Context, canvasID string, params LinkParams) (string, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return "", err
	}
	if err := validate.Struct(params); err != nil {
		return "", errors.NewValidation(fmt.Sprintf("invalid relationship request: %v", err))
	}

	sourceID, err := shared.ParseNodeID(params.SourceNodeID)
	if err != nil {
		return "", err
	}
	targetID, err := shared.ParseNodeID(params.TargetNodeID)
	if err != nil {
		return "", err
	}

	for _, id := range []shared.NodeID{sourceID, targetID} {
		n, err := rt.canvas.FindNode(id)
		if err != nil {
			return "", err
		}
		if n.Kind() != node.KindCharacter {
			return "", errors.NewValidation("relationship edges connect character nodes")
		}
	}

	bond, err := edge.NewRelationshipEdge(sourceID, targetID, params.Label, edge.RelationshipMeta{
		Type:     params.Type,
		Strength: params.Strength,
		Trust:    params.Trust,
		Romance:  params.Romance,
	})
	if err != nil {
		return "", err
	}
	if err := rt.canvas.AddEdge(bond); err != nil {
		return "", err
	}

	s.flush(rt.canvas)
	return bond.ID().String(), nil
}

// ArrangeRelationships re-homes every node using the relationship layout
// engine and returns how many nodes moved. The engine's grid fallback means
// this can rearrange but never fail once the canvas resolves.
func (s *CanvasService) ArrangeRelationships(ctx context.Context, canvasID string) (int, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return 0, err
	}

	snap := rt.canvas.Snapshot()
	if len(snap.Nodes) == 0 {
		return 0, nil
	}

	positions := s.engine.Arrange(snap.Nodes, snap.Edges)

	moved := 0
	for _, n := range snap.Nodes {
		if p, ok := positions[n.ID().String()]; ok && !p.Equals(n.Position()) {
			n.MoveTo(p)
			moved++
		}
	}
	if err := rt.canvas.ReplaceAll(snap.Nodes); err != nil {
		return 0, err
	}

	s.flush(rt.canvas)
	s.logger.Info("relationship layout applied",
		zap.String("canvas_id", canvasID),
		zap.Int("nodes_moved", moved),
	)
	return moved, nil
}

// MoveNode repositions a single node, typically after a user drag.
func (s *CanvasService) MoveNode(ctx context.Context, canvasID, nodeID string, x, y float64) error {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return err
	}
	id, err := shared.ParseNodeID(nodeID)
	if err != nil {
		return err
	}
	position, err := shared.NewPosition(x, y)
	if err != nil {
		return err
	}

	if applied := rt.canvas.UpdateNode(id, func(n *node.Node) { n.MoveTo(position) }); !applied {
		return shared.ErrNodeNotFound
	}

	s.flush(rt.canvas)
	return nil
}

// RemoveNodes deletes the given nodes and every edge touching them.
func (s *CanvasService) RemoveNodes(ctx context.Context, canvasID string, nodeIDs []string) (int, error) {
	rt, err := s.runtime(canvasID)
	if err != nil {
		return 0, err
	}
	if len(nodeIDs) == 0 {
		return 0, errors.NewValidation("node_ids must not be empty")
	}

	wanted := make(map[string]struct{}, len(nodeIDs))
	for _, raw := range nodeIDs {
		id, err := shared.ParseNodeID(raw)
		if err != nil {
			return 0, err
		}
		wanted[id.String()] = struct{}{}
	}

	removed := rt.canvas.RemoveNodes(func(n *node.Node) bool {
		_, ok := wanted[n.ID().String()]
		return ok
	})

	s.flush(rt.canvas)
	return removed, nil
}

// admitGeneration enforces the soft cap on concurrent generations. The
// check is advisory rather than transactional: a burst arriving exactly at
// the cap may briefly overshoot by a request or two, which is fine for a
// load-shedding knob.
func (s *CanvasService) admitGeneration() error {
	limit := s.maxInflight.Load()
	if limit > 0 && s.inflight.Load() >= limit {
		return errors.NewUnavailable("too many generations in flight, try again shortly")
	}
	return nil
}

// runtime resolves a canvas id to its live runtime.
func (s *CanvasService) runtime(canvasID string) (*canvasRuntime, error) {
	if _, err := shared.ParseCanvasID(canvasID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.runtimes[canvasID]
	if !ok {
		return nil, shared.ErrCanvasNotFound
	}
	return rt, nil
}

// newRuntime builds the per-canvas controllers around shared collaborators.
func (s *CanvasService) newRuntime(cv *canvas.Canvas) *canvasRuntime {
	base := mutation.Config{
		CanvasID:       cv.ID().String(),
		Store:          s.store,
		Clock:          s.clock,
		MinimumLoading: s.minLoading,
		Logger:         s.logger,
		Recorder:       inflightRecorder{next: s.recorder, count: &s.inflight},
	}
	return &canvasRuntime{
		canvas:     cv,
		characters: mutation.NewController(adapters.NewCharacterAdapter(cv, s.client, s.logger), base),
		scenes:     mutation.NewController(adapters.NewSceneAdapter(cv, s.client, s.logger), base),
		worlds:     mutation.NewController(adapters.NewWorldAdapter(cv, s.client, s.logger), base),
	}
}

// flush drains accumulated domain events into logs and updates the size
// gauges. Settlements happen on background goroutines, so their events wait
// here until the next call touching the canvas.
func (s *CanvasService) flush(cv *canvas.Canvas) {
	for _, event := range cv.DrainEvents() {
		s.logger.Debug("canvas event",
			zap.String("canvas_id", event.AggregateID()),
			zap.String("event_type", event.EventType()),
			zap.Any("data", event.EventData()),
		)
	}
	s.graphs.CanvasResized(cv.ID().String(), cv.NodeCount(), cv.EdgeCount())
}

// inflightRecorder counts unsettled operations on top of the configured
// metrics recorder. Every begun mutation reaches exactly one settlement, so
// the count stays balanced.
type inflightRecorder struct {
	next  mutation.Recorder
	count *atomic.Int64
}

func (r inflightRecorder) MutationBegun(kind string) {
	r.count.Add(1)
	r.next.MutationBegun(kind)
}

func (r inflightRecorder) MutationSettled(kind string, status ports.OperationStatus) {
	r.count.Add(-1)
	r.next.MutationSettled(kind, status)
}

func (r inflightRecorder) FloorWait(kind string, wait time.Duration) {
	r.next.FloorWait(kind, wait)
}

// infoOf projects the aggregate into its read model.
func infoOf(cv *canvas.Canvas) *CanvasInfo {
	return &CanvasInfo{
		ID:        cv.ID().String(),
		Name:      cv.Name(),
		Version:   cv.Version(),
		NodeCount: cv.NodeCount(),
		EdgeCount: cv.EdgeCount(),
		CreatedAt: cv.CreatedAt(),
		UpdatedAt: cv.UpdatedAt(),
	}
}
