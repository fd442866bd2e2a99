// Package factory wires the draft orchestrator together from its
// collaborators and configuration. It is the only package that reaches into
// internal; library users construct everything through here.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	draftflow "github.com/ArmandoTL8/draftflow"
	"github.com/ArmandoTL8/draftflow/internal"
)

// Collaborators carries the service-specific plugins the orchestrator needs.
// Annotations and SideEffects are mandatory; the rest fall back to safe
// defaults (no-op message handler, deny-all confirmation gateway, built-in
// English localizer, zap-logging recoverable-error hook).
type Collaborators struct {
	Annotations  draftflow.AnnotationLookup
	SideEffects  draftflow.SideEffectsService
	Messages     draftflow.MessageHandler
	Confirmation draftflow.ConfirmationGateway
	Localizer    draftflow.Localizer

	// OnRecoverableError observes failures the orchestrator absorbs instead of
	// returning.
	OnRecoverableError draftflow.RecoverableErrorHook

	// DisableAnnotationCache skips the memoizing annotation layer. Useful when
	// the lookup is already cached or the metadata changes between calls.
	DisableAnnotationCache bool
}

// NewOrchestrator builds an Orchestrator from config and collaborators. A nil
// config means DefaultConfig.
func NewOrchestrator(config *draftflow.Config, c Collaborators) (draftflow.Orchestrator, error) {
	if config == nil {
		config = draftflow.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if c.Annotations == nil {
		return nil, fmt.Errorf("factory: Annotations collaborator is required")
	}
	if c.SideEffects == nil {
		return nil, fmt.Errorf("factory: SideEffects collaborator is required")
	}

	annotations := c.Annotations
	if !c.DisableAnnotationCache {
		annotations = internal.NewCachingAnnotationLookup(annotations)
	}

	return internal.NewDraftManager(
		config,
		annotations,
		c.SideEffects,
		c.Messages,
		c.Confirmation,
		c.Localizer,
		c.OnRecoverableError,
	), nil
}

// SetupLogging replaces the global zap logger according to cfg. The returned
// function flushes buffered entries and should be deferred by the caller.
func SetupLogging(cfg draftflow.LoggingConfig) (func(), error) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.Format == "console" {
		zapCfg.Encoding = "console"
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = level
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }, nil
}
