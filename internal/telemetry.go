package internal

import (
	"context"
	"sync"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// telemetry.go
// Lightweight telemetry hook layer for the draft orchestrator. Callers may
// register a real metrics emitter (or a test stub) via
// RegisterTelemetryEmitter; by default the emitter is a no-op so the module
// carries no hard dependency on a metrics SDK.

type telemetryEmitter func(ctx context.Context, name string, labels map[string]string, value any)

var (
	teleMu   sync.Mutex
	teleImpl telemetryEmitter = func(ctx context.Context, name string, labels map[string]string, value any) {
		// noop by default
	}
)

// RegisterTelemetryEmitter registers a custom emitter function. Service wiring
// can provide a metrics-backed emitter or a test meter.
func RegisterTelemetryEmitter(fn telemetryEmitter) {
	teleMu.Lock()
	defer teleMu.Unlock()
	if fn == nil {
		teleImpl = func(ctx context.Context, name string, labels map[string]string, value any) {}
		return
	}
	teleImpl = fn
}

func emit(ctx context.Context, name string, labels map[string]string, value any) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn(ctx, name, labels, value)
}

// EmitOperationLatency records a latency measure (milliseconds) for one draft
// lifecycle operation.
func EmitOperationLatency(ctx context.Context, op draftflow.DraftOperation, ms int64) {
	emit(ctx, "draft_operation_latency_ms", map[string]string{"operation": string(op)}, ms)
}

// EmitConflict records a conflict observed on the Edit choreography.
func EmitConflict(ctx context.Context, kind draftflow.ConflictKind) {
	emit(ctx, "draft_edit_conflict_total", map[string]string{"kind": kind.String()}, int64(1))
}

// EmitRecovery records a best-effort recovery attempt after an operation
// failure.
func EmitRecovery(ctx context.Context, op draftflow.DraftOperation) {
	emit(ctx, "draft_recovery_total", map[string]string{"operation": string(op)}, int64(1))
}
