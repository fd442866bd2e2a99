package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	draftflow "github.com/ArmandoTL8/draftflow"
	"github.com/ArmandoTL8/draftflow/internal/odatamock"
)

func TestNewOrchestrator(t *testing.T) {
	svc := odatamock.NewTravelService()
	orchestrator, err := NewOrchestrator(nil, Collaborators{
		Annotations: svc,
		SideEffects: svc,
	})
	require.NoError(t, err)
	require.NotNil(t, orchestrator)

	entity := svc.BindContext(odatamock.TravelActivePath)
	assert.Equal(t, odatamock.TravelEditAction, orchestrator.ActionName(entity, draftflow.OperationEdit))
}

func TestNewOrchestratorRequiresCollaborators(t *testing.T) {
	svc := odatamock.NewTravelService()

	_, err := NewOrchestrator(nil, Collaborators{SideEffects: svc})
	assert.Error(t, err)

	_, err = NewOrchestrator(nil, Collaborators{Annotations: svc})
	assert.Error(t, err)
}

func TestNewOrchestratorRejectsInvalidConfig(t *testing.T) {
	svc := odatamock.NewTravelService()
	cfg := draftflow.DefaultConfig()
	cfg.BatchGroups.Draft = cfg.BatchGroups.Direct

	_, err := NewOrchestrator(cfg, Collaborators{Annotations: svc, SideEffects: svc})
	require.Error(t, err)
	_, ok := err.(*draftflow.ConfigError)
	assert.True(t, ok)
}

func TestNewOrchestratorCachesAnnotations(t *testing.T) {
	// The annotation cache means repeated fact lookups work even if the
	// underlying service forgets its annotations afterwards.
	svc := odatamock.NewTravelService()
	orchestrator, err := NewOrchestrator(nil, Collaborators{
		Annotations: svc,
		SideEffects: svc,
	})
	require.NoError(t, err)

	entity := svc.BindContext(odatamock.TravelActivePath)
	assert.True(t, orchestrator.HasPrepareAction(entity))
	svc.UndefineOperation("/Travels", draftflow.OperationPreparation)
	assert.True(t, orchestrator.HasPrepareAction(entity))
}

func TestNewOrchestratorWithoutAnnotationCache(t *testing.T) {
	svc := odatamock.NewTravelService()
	orchestrator, err := NewOrchestrator(nil, Collaborators{
		Annotations:            svc,
		SideEffects:            svc,
		DisableAnnotationCache: true,
	})
	require.NoError(t, err)

	entity := svc.BindContext(odatamock.TravelActivePath)
	assert.True(t, orchestrator.HasPrepareAction(entity))
	svc.UndefineOperation("/Travels", draftflow.OperationPreparation)
	assert.False(t, orchestrator.HasPrepareAction(entity))
}

func TestNewOrchestratorEndToEnd(t *testing.T) {
	svc := odatamock.NewTravelService()
	orchestrator, err := NewOrchestrator(nil, Collaborators{
		Annotations: svc,
		SideEffects: svc,
	})
	require.NoError(t, err)

	ctx := context.Background()
	active := svc.BindContext(odatamock.TravelActivePath)
	draft, err := orchestrator.CreateDraftFromActiveDocument(ctx, active, draftflow.CreateDraftOptions{})
	require.NoError(t, err)

	activated, err := orchestrator.ActivateDocument(ctx, draft, draftflow.ActivateOptions{})
	require.NoError(t, err)
	assert.Equal(t, odatamock.TravelActivePath, activated.Path())
}

func TestSetupLogging(t *testing.T) {
	cleanup, err := SetupLogging(draftflow.LoggingConfig{Level: "debug", Format: "console", Development: true})
	require.NoError(t, err)
	cleanup()

	_, err = SetupLogging(draftflow.LoggingConfig{Level: "not-a-level"})
	assert.Error(t, err)
}
