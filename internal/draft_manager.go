package internal

import (
	"context"

	"go.uber.org/zap"

	draftflow "github.com/ArmandoTL8/draftflow"
)

type draftManager struct {
	annotations draftflow.AnnotationLookup
	sideEffects draftflow.SideEffectsService
	messages    draftflow.MessageHandler
	confirm     draftflow.ConfirmationGateway
	localizer   draftflow.Localizer
	config      *draftflow.Config
	recoverable draftflow.RecoverableErrorHook
}

// NewDraftManager creates a new Orchestrator instance. Nil collaborators fall
// back to safe defaults: a no-op message handler, a deny-all confirmation
// gateway, the built-in English localizer and a zap-logging recoverable-error
// hook.
func NewDraftManager(
	config *draftflow.Config,
	annotations draftflow.AnnotationLookup,
	sideEffects draftflow.SideEffectsService,
	messages draftflow.MessageHandler,
	confirm draftflow.ConfirmationGateway,
	localizer draftflow.Localizer,
	onRecoverableError draftflow.RecoverableErrorHook,
) draftflow.Orchestrator {
	if config == nil {
		config = draftflow.DefaultConfig()
	}
	if messages == nil {
		messages = draftflow.NoopMessageHandler{}
	}
	if confirm == nil {
		confirm = draftflow.DenyAllGateway{}
	}
	if localizer == nil {
		localizer = draftflow.DefaultLocalizer()
	}
	if onRecoverableError == nil {
		onRecoverableError = func(op draftflow.DraftOperation, entityPath string, err error) {
			zap.S().Warnw("recoverable draft operation failure", "operation", op, "path", entityPath, "error", err)
		}
	}
	return &draftManager{
		annotations: annotations,
		sideEffects: sideEffects,
		messages:    messages,
		confirm:     confirm,
		localizer:   localizer,
		config:      config,
		recoverable: onRecoverableError,
	}
}

func (dm *draftManager) ActionName(entity draftflow.EntityContext, op draftflow.DraftOperation) string {
	return resolveActionName(dm.annotations, entity, op)
}

func (dm *draftManager) ReturnType(entity draftflow.EntityContext, op draftflow.DraftOperation) string {
	return resolveReturnType(dm.annotations, entity, op)
}

func (dm *draftManager) HasPrepareAction(entity draftflow.EntityContext) bool {
	return dm.ActionName(entity, draftflow.OperationPreparation) != ""
}

func (dm *draftManager) MessagesPath(entity draftflow.EntityContext) string {
	return resolveMessagesPath(dm.annotations, entity)
}

// isActiveEntity reads the locally available IsActiveEntity property. A
// context without it is not materialized, which is programmer misuse.
func (dm *draftManager) isActiveEntity(entity draftflow.EntityContext) (bool, error) {
	value, ok := entity.Property(draftflow.PropertyIsActiveEntity)
	if !ok {
		return false, draftflow.NewDraftError(draftflow.ErrorTypeUsage, draftflow.ErrCodeMissingContext,
			"IsActiveEntity is not available on the context").WithPath(entity.Path())
	}
	active, _ := value.(bool)
	return active, nil
}

func (dm *draftManager) requireActive(entity draftflow.EntityContext) error {
	active, err := dm.isActiveEntity(entity)
	if err != nil {
		return err
	}
	if !active {
		return draftflow.NewNotActiveEntityError(entity.Path())
	}
	return nil
}

func (dm *draftManager) requireDraft(entity draftflow.EntityContext, op draftflow.DraftOperation, message string) error {
	active, err := dm.isActiveEntity(entity)
	if err != nil {
		return err
	}
	if active {
		return draftflow.NewNotDraftEntityError(entity.Path(), op, message)
	}
	return nil
}

// opContext applies the configured operation timeout.
func (dm *draftManager) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := dm.config.Protocol.OperationTimeout; timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// strictCallback builds the transport callback for HTTP 412 strict-handling
// failures: warnings are collected on the tracker and the resubmit decision
// follows the tracker's confirmed flag, which the caller sets after resolving
// the warning dialog.
func (dm *draftManager) strictCallback(strict *draftflow.StrictHandlingTracker) draftflow.StrictHandlingCallback {
	return func(ctx context.Context, failure draftflow.StrictHandlingFailure) bool {
		for _, message := range failure.Messages {
			strict.AddWarning(message)
		}
		return strict.Confirmed()
	}
}
