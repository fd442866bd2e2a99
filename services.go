package draftflow

import (
	"context"
	"fmt"
)

// AnnotationLookup resolves draft-related annotation facts. It is a pure
// key-value view over the service metadata: the orchestrator only composes
// paths from the DraftRoot and Messages terms.
type AnnotationLookup interface {
	// MetaPath translates a context path into its metadata path, e.g.
	// "/Documents(ID=1,IsActiveEntity=true)" -> "/Documents".
	MetaPath(contextPath string) string

	// Object reads the annotation value at path, or nil when absent.
	Object(path string) any
}

// SideEffectsService requests refreshed property values after an action
// succeeds or fails.
type SideEffectsService interface {
	RequestSideEffects(ctx context.Context, paths []string, entity EntityContext, group string) error

	// ActionSideEffects returns the side effects annotated for a bound
	// action, or ok=false when the action declares none.
	ActionSideEffects(actionName string, entity EntityContext) (*ActionSideEffects, bool)
}

// MessageHandler manages previously surfaced transition messages.
type MessageHandler interface {
	// RemoveTransitionMessages drops transition messages shown for path.
	// With keepFinal set, messages of final transitions survive.
	RemoveTransitionMessages(path string, keepFinal bool)
}

// ConfirmationGateway asks the user a yes/no question when a draft clash
// requires a decision about overwriting another user's unsaved changes.
type ConfirmationGateway interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
}

// Localizer resolves user-facing texts. Translation lookup is an external
// concern; DefaultLocalizer provides English fallbacks.
type Localizer interface {
	Text(key string, args ...any) string
}

// Text keys consumed by the orchestrator.
const (
	TextDraftLockedByUser        = "DRAFT_LOCKED_BY_USER"
	TextConfirmOverwriteTitle    = "CONFIRM_OVERWRITE_TITLE"
	TextConfirmOverwriteUnsaved  = "CONFIRM_OVERWRITE_UNSAVED"
	TextConfirmOverwriteUnkOwner = "CONFIRM_OVERWRITE_UNKNOWN_OWNER"
)

type defaultLocalizer struct{}

var defaultTexts = map[string]string{
	TextDraftLockedByUser:        "The document is currently locked by %s. Try again later.",
	TextConfirmOverwriteTitle:    "Edit Document",
	TextConfirmOverwriteUnsaved:  "%s has unsaved changes for this document. If you continue, those changes will be lost.",
	TextConfirmOverwriteUnkOwner: "Another user has unsaved changes for this document. If you continue, those changes will be lost.",
}

// DefaultLocalizer returns the built-in English localizer.
func DefaultLocalizer() Localizer {
	return defaultLocalizer{}
}

func (defaultLocalizer) Text(key string, args ...any) string {
	pattern, ok := defaultTexts[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return pattern
	}
	return fmt.Sprintf(pattern, args...)
}

// NoopMessageHandler is a MessageHandler that does nothing, for headless
// callers.
type NoopMessageHandler struct{}

func (NoopMessageHandler) RemoveTransitionMessages(string, bool) {}

// DenyAllGateway is a ConfirmationGateway that declines every request. It is
// the safe default when no interactive gateway is wired: an overwrite never
// happens without an explicit user decision.
type DenyAllGateway struct{}

func (DenyAllGateway) Confirm(context.Context, ConfirmationRequest) (bool, error) {
	return false, nil
}
