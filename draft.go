package draftflow

import (
	"context"
)

// Orchestrator exposes the draft lifecycle operations as a coherent protocol.
//
// Primitives map one draft state transition each; the compound operations
// (CreateDraftFromActiveDocument, ActivateDocument) sequence primitives with
// the protocol's recovery policies. Implementations are created through the
// factory package.
type Orchestrator interface {
	// ExecuteDraftEditAction creates a draft from an active document. With
	// preserveChanges set, the backend rejects the edit with a conflict when
	// another user's unsaved draft exists; unset, that draft is overwritten.
	ExecuteDraftEditAction(ctx context.Context, entity EntityContext, preserveChanges bool, strict *StrictHandlingTracker) (EntityContext, error)

	// ExecuteDraftPreparationAction validates a draft's pending changes.
	// Usage errors are returned; transport failures are routed to the
	// recoverable-error hook and yield (nil, nil), because preparation
	// failure is recoverable by continuing without fresh validation messages.
	ExecuteDraftPreparationAction(ctx context.Context, entity EntityContext, group string, requestMessages bool, ignoreETag bool) (Operation, error)

	// ExecuteDraftActivationAction turns a draft into the active document.
	// An empty group means standalone immediate execution.
	ExecuteDraftActivationAction(ctx context.Context, entity EntityContext, group string, strict *StrictHandlingTracker) (EntityContext, error)

	// ExecuteDraftDiscardAction discards a draft through the service's
	// Discard action.
	ExecuteDraftDiscardAction(ctx context.Context, entity EntityContext, strict *StrictHandlingTracker, enableStrictHandling bool) error

	// DeleteDraft deletes entity using Discard when the service defines it
	// for a draft instance, plain entity deletion otherwise.
	DeleteDraft(ctx context.Context, entity EntityContext, strict *StrictHandlingTracker, enableStrictHandling bool) error

	// CreateDraftFromActiveDocument runs the edit choreography including the
	// sibling shortcut and the overwrite flow on conflicts.
	CreateDraftFromActiveDocument(ctx context.Context, entity EntityContext, opts CreateDraftOptions) (EntityContext, error)

	// ActivateDocument runs the activation choreography, two-phase when the
	// service defines a Preparation action.
	ActivateDocument(ctx context.Context, entity EntityContext, opts ActivateOptions) (EntityContext, error)

	// ComputeSiblingInformation relocates deepest's path onto the sibling of
	// root. It resolves to (nil, nil) when no authorized sibling exists.
	ComputeSiblingInformation(ctx context.Context, root, deepest EntityContext) (*SiblingInformation, error)

	// ActionName resolves the qualified bound-action name for op, or "" when
	// the service does not define it.
	ActionName(entity EntityContext, op DraftOperation) string

	// ReturnType resolves the return type of op's action, or "".
	ReturnType(entity EntityContext, op DraftOperation) string

	// HasPrepareAction reports whether the service defines a Preparation
	// action for the entity.
	HasPrepareAction(entity EntityContext) bool

	// MessagesPath resolves the Messages annotation path on the entity type,
	// or "".
	MessagesPath(entity EntityContext) string
}

// CreateDraftOptions parameterizes CreateDraftFromActiveDocument.
type CreateDraftOptions struct {
	// PreserveChanges defaults to true when nil.
	PreserveChanges *bool
	Strict          *StrictHandlingTracker
}

// ActivateOptions parameterizes ActivateDocument.
type ActivateOptions struct {
	// BeforeActivate may veto the activation by resolving false.
	BeforeActivate func(ctx context.Context) (bool, error)

	// AfterActivate receives the original draft context and the resulting
	// active context.
	AfterActivate func(ctx context.Context, original, active EntityContext) error

	Strict *StrictHandlingTracker
}

// RecoverableErrorHook observes best-effort failures the orchestrator absorbs
// (standalone preparation failures, post-activation-failure recovery). The
// default hook logs through zap.
type RecoverableErrorHook func(op DraftOperation, entityPath string, err error)

// Bool returns a pointer to b, for CreateDraftOptions.PreserveChanges.
func Bool(b bool) *bool {
	return &b
}
