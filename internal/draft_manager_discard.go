package internal

import (
	"context"
	"time"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// ExecuteDraftDiscardAction discards a draft through the service's Discard
// action and submits the batch immediately. Callers need no payload; the
// active sibling, if any, is untouched.
func (dm *draftManager) ExecuteDraftDiscardAction(
	ctx context.Context,
	entity draftflow.EntityContext,
	strict *draftflow.StrictHandlingTracker,
	enableStrictHandling bool,
) error {
	if err := dm.requireDraft(entity, draftflow.OperationDiscard, "cannot discard an active document"); err != nil {
		return err
	}

	operation, err := createOperation(dm.annotations, entity, draftflow.OperationDiscard, nil)
	if err != nil {
		return err
	}
	ctx, cancel := dm.opContext(ctx)
	defer cancel()

	opts := draftflow.ExecuteOptions{
		BatchGroup: dm.config.BatchGroups.Direct,
		Strict:     strict,
	}
	if enableStrictHandling {
		opts.OnStrictHandlingFailed = dm.strictCallback(strict)
	}

	start := time.Now()
	pending := operation.Queue(opts)
	if err := entity.Model().SubmitBatch(ctx, dm.config.BatchGroups.Direct); err != nil {
		return draftflow.NewExecutionError(entity.Path(), draftflow.OperationDiscard, err)
	}
	_, waitErr := pending.Wait(ctx)
	EmitOperationLatency(ctx, draftflow.OperationDiscard, time.Since(start).Milliseconds())
	return waitErr
}

// DeleteDraft deletes entity with the semantics the backend models: a draft
// whose service defines a Discard action goes through Discard (plain DELETE
// would also remove shared association data), while active documents and
// drafts without a Discard action use ordinary deletion, resetting pending
// local changes first.
func (dm *draftManager) DeleteDraft(
	ctx context.Context,
	entity draftflow.EntityContext,
	strict *draftflow.StrictHandlingTracker,
	enableStrictHandling bool,
) error {
	active, err := dm.isActiveEntity(entity)
	if err != nil {
		return err
	}

	if active || dm.ActionName(entity, draftflow.OperationDiscard) == "" {
		if entity.HasPendingChanges() {
			if err := entity.ResetChanges(ctx); err != nil {
				return err
			}
		}
		return entity.Delete(ctx, dm.config.BatchGroups.Direct)
	}
	return dm.ExecuteDraftDiscardAction(ctx, entity, strict, enableStrictHandling)
}
