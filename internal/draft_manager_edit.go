package internal

import (
	"context"
	"time"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// ExecuteDraftEditAction creates a draft from an active document. With
// preserveChanges set, the backend answers with a conflict when another user's
// unsaved draft exists; unset, that draft is silently overwritten.
//
// Transport rejections are propagated unchanged so the create choreography can
// interpret the carried HTTP status.
func (dm *draftManager) ExecuteDraftEditAction(
	ctx context.Context,
	entity draftflow.EntityContext,
	preserveChanges bool,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.EntityContext, error) {
	if err := dm.requireActive(entity); err != nil {
		return nil, err
	}
	ctx, cancel := dm.opContext(ctx)
	defer cancel()

	operation, err := createOperation(dm.annotations, entity, draftflow.OperationEdit, &draftflow.OperationOptions{
		InheritExpandSelect: true,
	})
	if err != nil {
		return nil, err
	}
	operation.SetParameter(draftflow.ParameterPreserveChanges, preserveChanges)

	start := time.Now()
	draft, err := operation.Execute(ctx, draftflow.ExecuteOptions{
		BatchGroup:             dm.config.BatchGroups.Direct,
		ReplaceWithActive:      entity.IsListBound(),
		Strict:                 strict,
		OnStrictHandlingFailed: dm.strictCallback(strict),
	})
	EmitOperationLatency(ctx, draftflow.OperationEdit, time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}
	return draft, nil
}
