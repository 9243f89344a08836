package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"planner/internal/amqp"
	applog "planner/internal/log"
	"planner/internal/services"
)

// SnapshotWorker records net worth history in response to AMQP triggers.
// State-change messages are debounced so a burst of edits produces a
// single snapshot; explicit snapshot requests always record.
type SnapshotWorker struct {
	planner  *services.PlannerService
	debounce time.Duration
	logger   *applog.Logger

	mu       sync.Mutex
	lastTake time.Time
}

func NewSnapshotWorker(planner *services.PlannerService, debounce time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		planner:  planner,
		debounce: debounce,
		logger:   applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker),
	}
}

// HandleMessage processes a single message from AMQP.
func (w *SnapshotWorker) HandleMessage(ctx context.Context, msg *amqp.Message) error {
	switch msg.Kind {
	case amqp.KindStateChanged:
		return w.handleStateChanged(ctx, msg)
	case amqp.KindSnapshotRequest:
		return w.handleSnapshotRequest(ctx, msg)
	default:
		// Unknown kinds are acked, not requeued; redelivery cannot fix them.
		w.logger.WarnContext(ctx, "Ignoring message of unknown kind", "kind", msg.Kind)
		return nil
	}
}

func (w *SnapshotWorker) handleStateChanged(ctx context.Context, msg *amqp.Message) error {
	w.logger.InfoContext(ctx, "Processing state change",
		applog.FieldEntity, msg.Entity,
		applog.FieldEntityID, msg.EntityID,
		"action", msg.Action)

	if !w.shouldTake() {
		w.logger.DebugContext(ctx, "Snapshot debounced", applog.FieldEntity, msg.Entity)
		return nil
	}

	reason := fmt.Sprintf("%s %s", msg.Entity, msg.Action)
	if _, err := w.planner.RecordSnapshot(ctx, reason); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

func (w *SnapshotWorker) handleSnapshotRequest(ctx context.Context, msg *amqp.Message) error {
	reason := msg.Reason
	if reason == "" {
		reason = "requested"
	}
	w.logger.InfoContext(ctx, "Processing snapshot request", "reason", reason)

	w.markTaken()
	if _, err := w.planner.RecordSnapshot(ctx, reason); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// StartupCheck records a baseline snapshot when history is empty, so a
// fresh deployment has a starting point before any messages arrive.
func (w *SnapshotWorker) StartupCheck(ctx context.Context) error {
	snapshots, err := w.planner.Snapshots(ctx)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snapshots) > 0 {
		w.logger.InfoContext(ctx, "Snapshot history present on startup", "count", len(snapshots))
		return nil
	}

	w.logger.InfoContext(ctx, "No snapshot history found, recording baseline",
		applog.FieldOperation, applog.OpStartup)
	w.markTaken()
	if _, err := w.planner.RecordSnapshot(ctx, "startup baseline"); err != nil {
		return fmt.Errorf("record baseline snapshot: %w", err)
	}
	return nil
}

// shouldTake reports whether enough time has passed since the last
// snapshot and claims the slot when it has.
func (w *SnapshotWorker) shouldTake() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce > 0 && time.Since(w.lastTake) < w.debounce {
		return false
	}
	w.lastTake = time.Now()
	return true
}

func (w *SnapshotWorker) markTaken() {
	w.mu.Lock()
	w.lastTake = time.Now()
	w.mu.Unlock()
}
