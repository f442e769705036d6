// Package mutation orchestrates the asynchronous placeholder lifecycle
// behind every generation trigger: write a loading placeholder, dispatch
// the generation call, hold a minimum loading duration, then settle the
// placeholder into its final success or error state. One dispatched
// operation always reaches exactly one terminal settlement; there is no
// controller-level cancellation or retry.
package mutation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/domain/shared"
	"loreweave-backend/pkg/errors"
)

// DefaultMinimumLoadingDuration keeps near-instant responses from
// flickering the loading placeholder.
const DefaultMinimumLoadingDuration = 300 * time.Millisecond

// Adapter binds one generation contract to the canvas lifecycle.
type Adapter[Req any, Resp any] interface {
	// Kind names the generation contract for operation records and metrics.
	Kind() string

	// Begin writes the placeholder mutation and returns the created node ids.
	Begin(ctx context.Context, req Req) ([]string, error)

	// Dispatch performs the generation call.
	Dispatch(ctx context.Context, req Req) (Resp, error)

	// SettleSuccess reconciles the generated payload into the canvas.
	SettleSuccess(ctx context.Context, mctx MutationContext, resp Resp) error

	// SettleError marks the placeholder failed while keeping it on the canvas.
	SettleError(ctx context.Context, mctx MutationContext, message string)
}

// Recorder observes mutation lifecycle transitions for metrics.
type Recorder interface {
	MutationBegun(kind string)
	MutationSettled(kind string, status ports.OperationStatus)
	FloorWait(kind string, wait time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) MutationBegun(string)                          {}
func (nopRecorder) MutationSettled(string, ports.OperationStatus) {}
func (nopRecorder) FloorWait(string, time.Duration)               {}

// NopRecorder returns a Recorder that discards every observation.
func NopRecorder() Recorder { return nopRecorder{} }

// Handle is returned by Trigger so callers can track the operation while
// the canvas mutation settles in the background.
type Handle struct {
	OperationID string                `json:"operation_id"`
	CanvasID    string                `json:"canvas_id"`
	Kind        string                `json:"kind"`
	Status      ports.OperationStatus `json:"status"`
	NodeIDs     []string              `json:"node_ids,omitempty"`
}

// Config carries the controller collaborators shared across kinds.
type Config struct {
	CanvasID       string
	Store          ports.OperationStore
	Clock          Clock
	MinimumLoading time.Duration
	Logger         *zap.Logger
	Recorder       Recorder
	Tracer         trace.Tracer
}

// Controller drives the placeholder lifecycle for one generation contract
// on one canvas.
type Controller[Req any, Resp any] struct {
	adapter    Adapter[Req, Resp]
	canvasID   string
	store      ports.OperationStore
	clock      Clock
	minLoading time.Duration
	logger     *zap.Logger
	recorder   Recorder
	tracer     trace.Tracer
}

// NewController creates a controller for the given adapter.
func NewController[Req any, Resp any](adapter Adapter[Req, Resp], cfg Config) *Controller[Req, Resp] {
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.MinimumLoading == 0 {
		cfg.MinimumLoading = DefaultMinimumLoadingDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("loreweave.mutation")
	}

	return &Controller[Req, Resp]{
		adapter:    adapter,
		canvasID:   cfg.CanvasID,
		store:      cfg.Store,
		clock:      cfg.Clock,
		minLoading: cfg.MinimumLoading,
		logger:     cfg.Logger,
		recorder:   cfg.Recorder,
		tracer:     cfg.Tracer,
	}
}

// Trigger begins a generation operation. The placeholder is written before
// Trigger returns; dispatch and settlement run in the background. A
// malformed request fails synchronously with a validation error. Any
// failure after the trigger is accepted surfaces through the error
// settlement path and an error-phase handle, never as a thrown error.
func (c *Controller[Req, Resp]) Trigger(ctx context.Context, req Req) (*Handle, error) {
	operationID := shared.NewOperationID().String()
	startedAt := c.clock.Now()

	nodeIDs, err := c.adapter.Begin(ctx, req)
	if err != nil {
		if errors.IsValidation(err) {
			return nil, err
		}
		return c.failBeforeDispatch(ctx, operationID, startedAt, err), nil
	}

	mctx := MutationContext{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		NodeIDs:     nodeIDs,
		StartedAt:   startedAt,
	}

	if err := c.store.Store(ctx, &ports.OperationResult{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusPending,
		NodeIDs:     nodeIDs,
		StartedAt:   startedAt,
	}); err != nil {
		c.logger.Warn("failed to record pending operation",
			zap.String("operation_id", operationID),
			zap.Error(err),
		)
	}

	c.recorder.MutationBegun(c.adapter.Kind())
	c.logger.Info("generation begun",
		zap.String("operation_id", operationID),
		zap.String("canvas_id", c.canvasID),
		zap.String("kind", c.adapter.Kind()),
		zap.Int("placeholder_count", len(nodeIDs)),
	)

	// The dispatched operation outlives the trigger request. Dropping
	// cancellation (but not values) guarantees a terminal settlement.
	go c.run(context.WithoutCancel(ctx), mctx, req)

	return &Handle{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusPending,
		NodeIDs:     nodeIDs,
	}, nil
}

// failBeforeDispatch settles a trigger whose begin step failed: no
// placeholder exists, so the canvas stays untouched and the operation
// record goes straight to the error phase.
func (c *Controller[Req, Resp]) failBeforeDispatch(ctx context.Context, operationID string, startedAt time.Time, cause error) *Handle {
	message := errors.UserMessage(cause)
	completed := c.clock.Now()

	if err := c.store.Store(ctx, &ports.OperationResult{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusError,
		StartedAt:   startedAt,
		CompletedAt: &completed,
		Error:       message,
	}); err != nil {
		c.logger.Warn("failed to record rejected operation",
			zap.String("operation_id", operationID),
			zap.Error(err),
		)
	}

	// The empty context makes this a guaranteed no-op on the canvas.
	c.adapter.SettleError(ctx, MutationContext{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		StartedAt:   startedAt,
	}, message)

	c.recorder.MutationBegun(c.adapter.Kind())
	c.recorder.MutationSettled(c.adapter.Kind(), ports.OperationStatusError)
	c.logger.Warn("generation rejected before dispatch",
		zap.String("operation_id", operationID),
		zap.String("canvas_id", c.canvasID),
		zap.String("kind", c.adapter.Kind()),
		zap.Error(cause),
	)

	return &Handle{
		OperationID: operationID,
		CanvasID:    c.canvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusError,
	}
}

// run carries one dispatched operation to its terminal settlement.
func (c *Controller[Req, Resp]) run(ctx context.Context, mctx MutationContext, req Req) {
	ctx, span := c.tracer.Start(ctx, "mutation.dispatch",
		trace.WithAttributes(
			attribute.String("generation.kind", c.adapter.Kind()),
			attribute.String("operation.id", mctx.OperationID),
			attribute.String("canvas.id", mctx.CanvasID),
		),
	)
	defer span.End()

	resp, dispatchErr := c.adapter.Dispatch(ctx, req)
	if dispatchErr != nil {
		span.RecordError(dispatchErr)
	}

	c.holdLoadingFloor(mctx)

	if dispatchErr != nil {
		c.settleError(ctx, mctx, dispatchErr)
		return
	}

	if err := c.adapter.SettleSuccess(ctx, mctx, resp); err != nil {
		span.RecordError(err)
		c.settleError(ctx, mctx, err)
		return
	}

	c.settleSuccess(ctx, mctx, resp)
}

// holdLoadingFloor blocks until the placeholder has been visibly loading
// for the configured minimum duration.
func (c *Controller[Req, Resp]) holdLoadingFloor(mctx MutationContext) {
	elapsed := c.clock.Now().Sub(mctx.StartedAt)
	remaining := c.minLoading - elapsed
	if remaining <= 0 {
		c.recorder.FloorWait(c.adapter.Kind(), 0)
		return
	}

	c.recorder.FloorWait(c.adapter.Kind(), remaining)
	<-c.clock.After(remaining)
}

func (c *Controller[Req, Resp]) settleSuccess(ctx context.Context, mctx MutationContext, resp Resp) {
	completed := c.clock.Now()
	c.updateTerminal(ctx, &ports.OperationResult{
		OperationID: mctx.OperationID,
		CanvasID:    mctx.CanvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusSuccess,
		NodeIDs:     mctx.NodeIDs,
		StartedAt:   mctx.StartedAt,
		CompletedAt: &completed,
		Result:      resp,
	})

	c.recorder.MutationSettled(c.adapter.Kind(), ports.OperationStatusSuccess)
	c.logger.Info("generation settled",
		zap.String("operation_id", mctx.OperationID),
		zap.String("canvas_id", mctx.CanvasID),
		zap.String("kind", c.adapter.Kind()),
		zap.Duration("duration", completed.Sub(mctx.StartedAt)),
	)
}

func (c *Controller[Req, Resp]) settleError(ctx context.Context, mctx MutationContext, cause error) {
	message := errors.UserMessage(cause)
	c.adapter.SettleError(ctx, mctx, message)

	completed := c.clock.Now()
	c.updateTerminal(ctx, &ports.OperationResult{
		OperationID: mctx.OperationID,
		CanvasID:    mctx.CanvasID,
		Kind:        c.adapter.Kind(),
		Status:      ports.OperationStatusError,
		NodeIDs:     mctx.NodeIDs,
		StartedAt:   mctx.StartedAt,
		CompletedAt: &completed,
		Error:       message,
	})

	c.recorder.MutationSettled(c.adapter.Kind(), ports.OperationStatusError)
	c.logger.Warn("generation settled with error",
		zap.String("operation_id", mctx.OperationID),
		zap.String("canvas_id", mctx.CanvasID),
		zap.String("kind", c.adapter.Kind()),
		zap.Error(cause),
	)
}

// updateTerminal writes a terminal operation record unless an earlier
// settlement already won.
func (c *Controller[Req, Resp]) updateTerminal(ctx context.Context, record *ports.OperationResult) {
	current, err := c.store.Get(ctx, record.OperationID)
	if err == nil && current.Status.IsTerminal() {
		return
	}

	if err := c.store.Update(ctx, record.OperationID, record); err != nil {
		c.logger.Warn("failed to record operation settlement",
			zap.String("operation_id", record.OperationID),
			zap.Error(err),
		)
	}
}
