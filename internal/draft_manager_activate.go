package internal

import (
	"context"
	"time"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// queuedPreparation is a Preparation request sitting in a batch group.
type queuedPreparation struct {
	operation    draftflow.Operation
	pending      draftflow.PendingOperation
	messagesPath string
}

// queuePreparation binds the Preparation action and enqueues it into group
// without submitting. With requestMessages set and the action annotated with a
// return type, the entity's messages path is added to the action's $select so
// validation messages arrive with the response; without a return type the
// messages require a follow-up fetch and $select is left alone.
func (dm *draftManager) queuePreparation(
	entity draftflow.EntityContext,
	group string,
	requestMessages bool,
	ignoreETag bool,
) (*queuedPreparation, error) {
	if err := dm.requireDraft(entity, draftflow.OperationPreparation, "preparation requires a draft document"); err != nil {
		return nil, err
	}

	opts := &draftflow.OperationOptions{}
	messagesPath := dm.MessagesPath(entity)
	if requestMessages && messagesPath != "" && dm.ReturnType(entity, draftflow.OperationPreparation) != "" {
		opts.Select = append(opts.Select, messagesPath)
	}

	operation, err := createOperation(dm.annotations, entity, draftflow.OperationPreparation, opts)
	if err != nil {
		return nil, err
	}
	// Some backends reject Preparation unless the legacy qualifier is
	// explicitly empty.
	operation.SetParameter(draftflow.ParameterSideEffectsQualifier, "")

	if group == "" {
		group = dm.config.BatchGroups.Draft
	}
	pending := operation.Queue(draftflow.ExecuteOptions{
		BatchGroup: group,
		IgnoreETag: ignoreETag,
	})
	return &queuedPreparation{
		operation:    operation,
		pending:      pending,
		messagesPath: messagesPath,
	}, nil
}

// ExecuteDraftPreparationAction validates a draft's pending changes as a
// standalone call. Usage errors are returned; transport failures go to the
// recoverable-error hook and yield (nil, nil), because preparation failure is
// recoverable by continuing without fresh validation messages.
func (dm *draftManager) ExecuteDraftPreparationAction(
	ctx context.Context,
	entity draftflow.EntityContext,
	group string,
	requestMessages bool,
	ignoreETag bool,
) (draftflow.Operation, error) {
	queued, err := dm.queuePreparation(entity, group, requestMessages, ignoreETag)
	if err != nil {
		return nil, err
	}
	ctx, cancel := dm.opContext(ctx)
	defer cancel()
	if group == "" {
		group = dm.config.BatchGroups.Draft
	}

	start := time.Now()
	if err := entity.Model().SubmitBatch(ctx, group); err != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), err)
		return nil, nil
	}
	_, waitErr := queued.pending.Wait(ctx)
	EmitOperationLatency(ctx, draftflow.OperationPreparation, time.Since(start).Milliseconds())
	if waitErr != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), waitErr)
		return nil, nil
	}
	return queued.operation, nil
}

// queueActivation binds the Activation action and enqueues it into group. Per
// the draft protocol, when Preparation and Activation share one changeset the
// Activation request must carry a wildcard precondition, so the ETag is
// ignored whenever the service defines a Preparation action. The
// strict-handling callback is only registered for batched execution; a
// standalone activation has no earlier request in its batch to conflict with.
func (dm *draftManager) queueActivation(
	entity draftflow.EntityContext,
	group string,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.PendingOperation, error) {
	operation, err := dm.bindActivation(entity)
	if err != nil {
		return nil, err
	}
	return operation.Queue(dm.activationOptions(entity, group, strict)), nil
}

func (dm *draftManager) bindActivation(entity draftflow.EntityContext) (draftflow.Operation, error) {
	if err := dm.requireDraft(entity, draftflow.OperationActivation, "activation requires a draft document"); err != nil {
		return nil, err
	}
	return createOperation(dm.annotations, entity, draftflow.OperationActivation, nil)
}

func (dm *draftManager) activationOptions(
	entity draftflow.EntityContext,
	group string,
	strict *draftflow.StrictHandlingTracker,
) draftflow.ExecuteOptions {
	opts := draftflow.ExecuteOptions{
		BatchGroup: group,
		IgnoreETag: dm.HasPrepareAction(entity),
		Strict:     strict,
	}
	if group != "" {
		opts.OnStrictHandlingFailed = dm.strictCallback(strict)
	}
	return opts
}

// ExecuteDraftActivationAction turns a draft into the active document. An
// empty group means standalone immediate execution.
func (dm *draftManager) ExecuteDraftActivationAction(
	ctx context.Context,
	entity draftflow.EntityContext,
	group string,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.EntityContext, error) {
	operation, err := dm.bindActivation(entity)
	if err != nil {
		return nil, err
	}
	ctx, cancel := dm.opContext(ctx)
	defer cancel()

	start := time.Now()
	active, execErr := operation.Execute(ctx, dm.activationOptions(entity, group, strict))
	EmitOperationLatency(ctx, draftflow.OperationActivation, time.Since(start).Milliseconds())
	if execErr != nil {
		dm.recoverActivationSideEffects(ctx, entity)
		return nil, execErr
	}
	return active, nil
}

// awaitActivation resolves a queued Activation request and runs the
// side-effects recovery on failure. The original activation error is always
// the one returned.
func (dm *draftManager) awaitActivation(
	ctx context.Context,
	entity draftflow.EntityContext,
	pending draftflow.PendingOperation,
) (draftflow.EntityContext, error) {
	active, err := pending.Wait(ctx)
	if err != nil {
		dm.recoverActivationSideEffects(ctx, entity)
		return nil, err
	}
	return active, nil
}

// ActivateDocument runs the activation choreography. Without a Preparation
// action, activation is a single standalone call. With one, Preparation and
// Activation are queued into the shared draft batch group in that order, the
// group is submitted once and both results are awaited afterwards, so the
// backend validates before activating inside one changeset.
func (dm *draftManager) ActivateDocument(
	ctx context.Context,
	entity draftflow.EntityContext,
	opts draftflow.ActivateOptions,
) (draftflow.EntityContext, error) {
	if opts.BeforeActivate != nil {
		proceed, err := opts.BeforeActivate(ctx)
		if err != nil {
			return nil, err
		}
		if !proceed {
			return nil, draftflow.NewActivationVetoedError(entity.Path())
		}
	}

	var active draftflow.EntityContext
	if !dm.HasPrepareAction(entity) {
		var err error
		active, err = dm.ExecuteDraftActivationAction(ctx, entity, "", opts.Strict)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		active, err = dm.prepareAndActivate(ctx, entity, opts.Strict)
		if err != nil {
			return nil, err
		}
	}

	if opts.AfterActivate != nil {
		if err := opts.AfterActivate(ctx, entity, active); err != nil {
			return nil, err
		}
	}
	return active, nil
}

func (dm *draftManager) prepareAndActivate(
	ctx context.Context,
	entity draftflow.EntityContext,
	strict *draftflow.StrictHandlingTracker,
) (draftflow.EntityContext, error) {
	group := dm.config.BatchGroups.Draft
	ctx, cancel := dm.opContext(ctx)
	defer cancel()

	preparation, err := dm.queuePreparation(entity, group, dm.config.Protocol.RequestMessagesOnPrepare, false)
	if err != nil {
		return nil, err
	}
	activation, err := dm.queueActivation(entity, group, strict)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := entity.Model().SubmitBatch(ctx, group); err != nil {
		return nil, draftflow.NewExecutionError(entity.Path(), draftflow.OperationActivation, err)
	}
	_, prepErr := preparation.pending.Wait(ctx)
	active, actErr := dm.awaitActivation(ctx, entity, activation)
	EmitOperationLatency(ctx, draftflow.OperationActivation, time.Since(start).Milliseconds())

	// The changeset is atomic, so a preparation failure surfaces as the
	// activation failure too; the activation error stays the original one.
	original := actErr
	if original == nil {
		original = prepErr
	}
	if original != nil {
		dm.recoverActivationMessages(ctx, entity, group)
		return nil, original
	}
	return active, nil
}

// recoverActivationMessages re-runs Preparation alone, this time requesting
// messages, after a failed activation: some backends only surface validation
// detail through a second Preparation call. When the refetched entity carries
// messages, previously shown non-final transition messages are dropped so the
// fresh ones are not buried. Every step is best-effort.
func (dm *draftManager) recoverActivationMessages(ctx context.Context, entity draftflow.EntityContext, group string) {
	EmitRecovery(ctx, draftflow.OperationPreparation)

	preparation, err := dm.queuePreparation(entity, group, true, false)
	if err != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), err)
		return
	}
	if err := entity.Model().SubmitBatch(ctx, group); err != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), err)
		return
	}
	if _, err := preparation.pending.Wait(ctx); err != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), err)
		return
	}

	obj, err := entity.RequestObject(ctx)
	if err != nil {
		dm.recoverable(draftflow.OperationPreparation, entity.Path(), err)
		return
	}
	if preparation.messagesPath == "" {
		return
	}
	if messages, ok := obj[preparation.messagesPath].([]any); ok && len(messages) > 0 {
		dm.messages.RemoveTransitionMessages(entity.Path(), true)
	}
}

// recoverActivationSideEffects recovers diagnostic information after a failed
// activation: when the service defines a Preparation action, the side effects
// annotated on it are requested, falling back to the generic messages path.
// Every step is best-effort; failures reach the hook only.
func (dm *draftManager) recoverActivationSideEffects(ctx context.Context, entity draftflow.EntityContext) {
	if !dm.HasPrepareAction(entity) {
		return
	}
	EmitRecovery(ctx, draftflow.OperationActivation)

	prepareAction := dm.ActionName(entity, draftflow.OperationPreparation)
	if effects, ok := dm.sideEffects.ActionSideEffects(prepareAction, entity); ok && len(effects.TargetPaths) > 0 {
		paths := dedupe(effects.TargetPaths)
		if err := dm.sideEffects.RequestSideEffects(ctx, paths, entity, dm.config.BatchGroups.Draft); err != nil {
			dm.recoverable(draftflow.OperationActivation, entity.Path(), err)
		}
		return
	}

	messagesPath := dm.MessagesPath(entity)
	if messagesPath == "" {
		return
	}
	if err := dm.sideEffects.RequestSideEffects(ctx, []string{messagesPath}, entity, dm.config.BatchGroups.Draft); err != nil {
		dm.recoverable(draftflow.OperationActivation, entity.Path(), err)
	}
}
