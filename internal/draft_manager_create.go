package internal

import (
	"context"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// CreateDraftFromActiveDocument runs the edit choreography. A conflict from
// the Edit action (another draft exists, precondition failed, locked) first
// checks for a draft the current user is already authorized to edit; failing
// that, it runs the overwrite flow, which either fails on an exclusive lock or
// asks the user to sacrifice the other user's unsaved changes.
func (dm *draftManager) CreateDraftFromActiveDocument(
	ctx context.Context,
	entity draftflow.EntityContext,
	opts draftflow.CreateDraftOptions,
) (draftflow.EntityContext, error) {
	preserveChanges := true
	if opts.PreserveChanges != nil {
		preserveChanges = *opts.PreserveChanges
	}

	draft, err := dm.ExecuteDraftEditAction(ctx, entity, preserveChanges, opts.Strict)
	if err != nil {
		kind := draftflow.ConflictKindOf(err)
		if kind == draftflow.ConflictNone {
			return nil, err
		}
		EmitConflict(ctx, kind)
		draft, err = dm.resolveEditConflict(ctx, entity, opts.Strict)
		if err != nil {
			return nil, err
		}
	}

	if err := dm.requestEditSideEffects(ctx, entity, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// resolveEditConflict recovers from a conflicting Edit: prefer the sibling
// draft when the user may edit it, otherwise run the overwrite flow.
func (dm *draftManager) resolveEditConflict(
	ctx context.Context,
	entity draftflow.EntityContext,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.EntityContext, error) {
	dm.messages.RemoveTransitionMessages(entity.Path(), false)

	sibling, err := dm.ComputeSiblingInformation(ctx, entity, entity)
	if err != nil {
		return nil, err
	}
	if sibling != nil && sibling.TargetContext != nil {
		// Materialize the sibling row before handing it back.
		if _, err := sibling.TargetContext.RequestProperty(ctx, draftflow.PropertyIsActiveEntity); err != nil {
			return nil, err
		}
		return sibling.TargetContext, nil
	}
	return dm.overwriteForeignDraft(ctx, entity, strict)
}

// overwriteForeignDraft decides whether another user's draft may be replaced.
// An exclusive lock is a hard failure; unsaved changes require the user's
// confirmation, after which the Edit is retried without preserving changes.
func (dm *draftManager) overwriteForeignDraft(
	ctx context.Context,
	entity draftflow.EntityContext,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.EntityContext, error) {
	raw, err := entity.RequestProperty(ctx, draftflow.PropertyDraftAdministrativeData)
	if err != nil {
		return nil, err
	}
	obj, _ := raw.(map[string]any)
	admin := draftflow.DecodeDraftAdministrativeData(obj)

	if locker := admin.LockingUser(); locker != "" {
		return nil, draftflow.NewDocumentLockedError(entity.Path(),
			dm.localizer.Text(draftflow.TextDraftLockedByUser, locker))
	}

	message := dm.localizer.Text(draftflow.TextConfirmOverwriteUnkOwner)
	if owner := admin.OwningUser(); owner != "" {
		message = dm.localizer.Text(draftflow.TextConfirmOverwriteUnsaved, owner)
	}
	confirmed, err := dm.confirm.Confirm(ctx, draftflow.ConfirmationRequest{
		Title:   dm.localizer.Text(draftflow.TextConfirmOverwriteTitle),
		Message: message,
	})
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, draftflow.NewCreationCancelledError(entity.Path())
	}
	return dm.ExecuteDraftEditAction(ctx, entity, false, strict)
}

// requestEditSideEffects requests the trigger actions the Edit action
// declares, once a draft context exists.
func (dm *draftManager) requestEditSideEffects(
	ctx context.Context,
	entity draftflow.EntityContext,
	draft draftflow.EntityContext,
) error {
	editAction := dm.ActionName(entity, draftflow.OperationEdit)
	if editAction == "" {
		return nil
	}
	effects, ok := dm.sideEffects.ActionSideEffects(editAction, draft)
	if !ok || len(effects.TriggerActions) == 0 {
		return nil
	}
	triggers := dedupe(effects.TriggerActions)
	return dm.sideEffects.RequestSideEffects(ctx, triggers, draft, dm.config.BatchGroups.Direct)
}
