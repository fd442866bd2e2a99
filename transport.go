package draftflow

import (
	"context"
)

// Model is the orchestrator's view of the OData transport/batching engine.
// Requests queued into one batch group form a single changeset and the backend
// observes them in queue order; SubmitBatch flushes the group. Waiting on a
// queued operation before its group was submitted is a caller error and may
// block forever.
type Model interface {
	// BindOperation creates a bound, not-yet-executed action against entity.
	BindOperation(actionName string, entity EntityContext, opts *OperationOptions) (Operation, error)

	// BindContext binds a context to an arbitrary path without issuing a
	// request. The context materializes on first property access.
	BindContext(path string) EntityContext

	// SubmitBatch flushes every request queued in group as one changeset.
	SubmitBatch(ctx context.Context, group string) error
}

// EntityContext identifies one row of an entity set at a navigation path. The
// orchestrator never creates or destroys contexts except when binding a new
// one to a sibling path.
type EntityContext interface {
	Path() string
	Model() Model

	// Property returns a locally available property value without network
	// access. The second return reports availability.
	Property(name string) (any, bool)

	// RequestProperty fetches a property value, materializing the row.
	RequestProperty(ctx context.Context, name string) (any, error)

	// RequestObject fetches the full entity object.
	RequestObject(ctx context.Context) (map[string]any, error)

	// RequestCanonicalPath resolves the key-predicate based addressing of the
	// instance this context points at.
	RequestCanonicalPath(ctx context.Context) (string, error)

	// IsListBound reports whether the context originates from a list binding.
	IsListBound() bool

	HasPendingChanges() bool
	ResetChanges(ctx context.Context) error
	Delete(ctx context.Context, group string) error
}

// OperationOptions carries the query options applied when binding an action.
type OperationOptions struct {
	Select              []string
	InheritExpandSelect bool
}

// Operation is a bound draft action produced by Model.BindOperation.
type Operation interface {
	Name() string
	SetParameter(name string, value any)

	// Queue enqueues the request into opts.BatchGroup preserving call order
	// and returns without blocking. The request is sent when the group is
	// submitted.
	Queue(opts ExecuteOptions) PendingOperation

	// Execute is the standalone convenience: queue, submit the group and wait.
	Execute(ctx context.Context, opts ExecuteOptions) (EntityContext, error)
}

// PendingOperation is a queued request awaiting its batch submission.
type PendingOperation interface {
	Wait(ctx context.Context) (EntityContext, error)
}

// StrictHandlingFailure describes an HTTP 412 response flagged as strict
// handling: a soft warning the user may override by resubmitting the batch.
type StrictHandlingFailure struct {
	Messages []string
	Resubmit func(ctx context.Context) error
}

// StrictHandlingCallback decides whether a strict-handling failure should be
// resubmitted. Returning true tells the transport to resubmit the batch group.
type StrictHandlingCallback func(ctx context.Context, failure StrictHandlingFailure) bool

// ExecuteOptions parameterizes a single operation execution.
type ExecuteOptions struct {
	BatchGroup string

	// IgnoreETag sends the request with a wildcard precondition. Required for
	// Activation when it shares a changeset with Preparation.
	IgnoreETag bool

	// ReplaceWithActive tells a list-bound Edit to swap the list row for the
	// active sibling once the draft exists.
	ReplaceWithActive bool

	Strict                 *StrictHandlingTracker
	OnStrictHandlingFailed StrictHandlingCallback
}
