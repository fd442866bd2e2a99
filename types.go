package draftflow

import (
	"fmt"

	"github.com/google/uuid"
)

// DraftOperation identifies one of the four draft lifecycle actions. The
// values are the sub-path names under the DraftRoot annotation term.
type DraftOperation string

const (
	OperationEdit        DraftOperation = "EditAction"
	OperationActivation  DraftOperation = "ActivationAction"
	OperationPreparation DraftOperation = "PreparationAction"
	OperationDiscard     DraftOperation = "DiscardAction"
)

// Batch group identifiers. Standalone primitives (Edit, Discard) always run in
// the direct group; the combined Preparation+Activation sequence shares the
// draft group so the backend observes one changeset.
const (
	BatchGroupDirect = "direct"
	BatchGroupDraft  = "draft"
)

// Annotation vocabulary terms composed by the orchestrator. These are the only
// terms it ever reads from the annotation store.
const (
	DraftRootTerm = "@com.sap.vocabularies.Common.v1.DraftRoot"
	MessagesTerm  = "@com.sap.vocabularies.Common.v1.Messages"
)

// Entity property and action parameter names fixed by the draft protocol.
const (
	PropertyIsActiveEntity          = "IsActiveEntity"
	PropertyHasActiveEntity         = "HasActiveEntity"
	PropertyDraftAdministrativeData = "DraftAdministrativeData"
	ParameterPreserveChanges        = "PreserveChanges"
	ParameterSideEffectsQualifier   = "SideEffectsQualifier"
	SiblingEntityNavigation         = "SiblingEntity"
)

// PathMapping relates one navigation depth of the original instance to the
// equivalent path on its sibling.
type PathMapping struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// SiblingInformation is the result of a sibling resolution. TargetContext is
// bound to the deepest sibling path; PathMapping carries one entry per depth
// level so callers can remap path-keyed caches.
type SiblingInformation struct {
	TargetContext EntityContext `json:"-"`
	PathMapping   []PathMapping `json:"pathMapping"`
}

// DraftAdministrativeData mirrors the protocol's administrative record for a
// draft instance. InProcessByUser is populated while another user holds an
// exclusive lock; CreatedByUser identifies the owner of unsaved changes.
type DraftAdministrativeData struct {
	DraftUUID                  uuid.UUID `json:"DraftUUID"`
	InProcessByUser            string    `json:"InProcessByUser"`
	InProcessByUserDescription string    `json:"InProcessByUserDescription"`
	CreatedByUser              string    `json:"CreatedByUser"`
	CreatedByUserDescription   string    `json:"CreatedByUserDescription"`
	LastChangedByUser          string    `json:"LastChangedByUser"`
	DraftIsCreatedByMe         bool      `json:"DraftIsCreatedByMe"`
}

// LockingUser returns the display name of the user currently holding a lock,
// or "" when the draft is not locked.
func (d *DraftAdministrativeData) LockingUser() string {
	if d == nil {
		return ""
	}
	if d.InProcessByUserDescription != "" {
		return d.InProcessByUserDescription
	}
	return d.InProcessByUser
}

// OwningUser returns the display name of the user who created the draft.
func (d *DraftAdministrativeData) OwningUser() string {
	if d == nil {
		return ""
	}
	if d.CreatedByUserDescription != "" {
		return d.CreatedByUserDescription
	}
	return d.CreatedByUser
}

// DecodeDraftAdministrativeData converts the raw property object returned by
// the transport into a typed record. A nil object yields nil.
func DecodeDraftAdministrativeData(obj map[string]any) *DraftAdministrativeData {
	if obj == nil {
		return nil
	}
	data := &DraftAdministrativeData{}
	if raw, ok := obj["DraftUUID"].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			data.DraftUUID = id
		}
	}
	if v, ok := obj["InProcessByUser"].(string); ok {
		data.InProcessByUser = v
	}
	if v, ok := obj["InProcessByUserDescription"].(string); ok {
		data.InProcessByUserDescription = v
	}
	if v, ok := obj["CreatedByUser"].(string); ok {
		data.CreatedByUser = v
	}
	if v, ok := obj["CreatedByUserDescription"].(string); ok {
		data.CreatedByUserDescription = v
	}
	if v, ok := obj["LastChangedByUser"].(string); ok {
		data.LastChangedByUser = v
	}
	if v, ok := obj["DraftIsCreatedByMe"].(bool); ok {
		data.DraftIsCreatedByMe = v
	}
	return data
}

// ConflictKind classifies the HTTP statuses the Edit action uses as
// control-flow signals.
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	// ConflictAnotherDraftExists maps HTTP 409: someone else created a draft.
	ConflictAnotherDraftExists
	// ConflictPreconditionWarning maps HTTP 412: strict-handling warning the
	// user may override.
	ConflictPreconditionWarning
	// ConflictLocked maps HTTP 423: the resource is exclusively locked.
	ConflictLocked
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictNone:
		return "none"
	case ConflictAnotherDraftExists:
		return "another_draft_exists"
	case ConflictPreconditionWarning:
		return "precondition_warning"
	case ConflictLocked:
		return "locked"
	default:
		return fmt.Sprintf("conflict_kind(%d)", int(k))
	}
}

// ActionSideEffects describes the side effects the service annotates for a
// bound action: target paths to refresh and trigger actions to invoke.
type ActionSideEffects struct {
	TargetPaths    []string `json:"targetPaths"`
	TriggerActions []string `json:"triggerActions"`
}

// ConfirmationRequest is handed to the ConfirmationGateway when a draft clash
// requires the user to decide whether to overwrite unsaved changes.
type ConfirmationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
