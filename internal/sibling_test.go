package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	draftflow "github.com/ArmandoTL8/draftflow"
	"github.com/ArmandoTL8/draftflow/internal/odatamock"
)

func TestComputeSiblingInformationRootOnly(t *testing.T) {
	svc := odatamock.NewTravelService()
	svc.SetCanonicalPath(
		odatamock.TravelActivePath+"/SiblingEntity",
		odatamock.TravelDraftPath,
	)
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	entity := svc.BindContext(odatamock.TravelActivePath)
	info, err := orchestrator.ComputeSiblingInformation(context.Background(), entity, entity)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, odatamock.TravelDraftPath, info.TargetContext.Path())
	require.Len(t, info.PathMapping, 1)
	assert.Equal(t, odatamock.TravelActivePath, info.PathMapping[0].OldPath)
	assert.Equal(t, odatamock.TravelDraftPath, info.PathMapping[0].NewPath)
	assert.Len(t, svc.CanonicalRequests(), 1)
}

func TestComputeSiblingInformationDeepPath(t *testing.T) {
	svc := odatamock.NewTravelService()
	root := odatamock.TravelActivePath
	deep := root + "/_Bookings(ID=7,IsActiveEntity=true)/_Flight"

	svc.SetCanonicalPath(root+"/SiblingEntity", odatamock.TravelDraftPath)
	svc.SetCanonicalPath(
		root+"/_Bookings(ID=7,IsActiveEntity=true)/SiblingEntity",
		"/Bookings(ID=7,IsActiveEntity=false)",
	)
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	info, err := orchestrator.ComputeSiblingInformation(context.Background(),
		svc.BindContext(root), svc.BindContext(deep))
	require.NoError(t, err)
	require.NotNil(t, info)

	wantDeep := odatamock.TravelDraftPath + "/_Bookings(ID=7,IsActiveEntity=false)/_Flight"
	assert.Equal(t, wantDeep, info.TargetContext.Path())

	require.Len(t, info.PathMapping, 3)
	assert.Equal(t, odatamock.TravelDraftPath, info.PathMapping[0].NewPath)
	assert.Equal(t, odatamock.TravelDraftPath+"/_Bookings(ID=7,IsActiveEntity=false)", info.PathMapping[1].NewPath)
	assert.Equal(t, wantDeep, info.PathMapping[2].NewPath)
	assert.Equal(t, root+"/_Bookings(ID=7,IsActiveEntity=true)/_Flight", info.PathMapping[2].OldPath)

	// The 1:1 navigation has no sibling lookup of its own.
	assert.Len(t, svc.CanonicalRequests(), 2)
}

func TestComputeSiblingInformationParametrizedRoot(t *testing.T) {
	svc := odatamock.NewTravelService()
	root := "/Param(aa)/Entity(bb)"
	deep := root + "/_Nav(cc)/_SubNav(dd)"

	svc.SetCanonicalPath(root+"/SiblingEntity", "/Entity(bb2)")
	svc.SetCanonicalPath(root+"/_Nav(cc)/SiblingEntity", "/Navs(cc2)")
	svc.SetCanonicalPath(root+"/_Nav(cc)/_SubNav(dd)/SiblingEntity", "/SubNavs(dd2)")
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	info, err := orchestrator.ComputeSiblingInformation(context.Background(),
		svc.BindContext(root), svc.BindContext(deep))
	require.NoError(t, err)
	require.NotNil(t, info)

	// Only the parenthesized key portions change; the navigation-property
	// names and the parametrized prefix survive.
	assert.Equal(t, "/Param(aa)/Entity(bb2)/_Nav(cc2)/_SubNav(dd2)", info.TargetContext.Path())
	require.Len(t, info.PathMapping, 3)
	assert.Equal(t, "/Param(aa)/Entity(bb2)", info.PathMapping[0].NewPath)
	assert.Equal(t, "/Param(aa)/Entity(bb2)/_Nav(cc2)", info.PathMapping[1].NewPath)
	assert.Len(t, svc.CanonicalRequests(), 3)
}

func TestComputeSiblingInformationPathMismatch(t *testing.T) {
	svc := odatamock.NewTravelService()
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	// "/Travels(ID=4" is a string prefix of the deep path but not a segment
	// boundary.
	root := svc.BindContext("/Travels(ID=4")
	deep := svc.BindContext("/Travels(ID=42,IsActiveEntity=true)")
	_, err := orchestrator.ComputeSiblingInformation(context.Background(), root, deep)
	require.Error(t, err)

	var draftErr *draftflow.DraftError
	require.ErrorAs(t, err, &draftErr)
	assert.Equal(t, draftflow.ErrCodeSiblingPathMismatch, draftErr.Code)

	// Precondition violations never reach the network.
	assert.Empty(t, svc.CanonicalRequests())
}

func TestComputeSiblingInformationNoAuthorizedSibling(t *testing.T) {
	svc := odatamock.NewTravelService()
	svc.FailCanonicalPath(
		odatamock.TravelActivePath+"/SiblingEntity",
		&odatamock.StatusError{Status: 404, Reason: "no sibling"},
	)
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	entity := svc.BindContext(odatamock.TravelActivePath)
	info, err := orchestrator.ComputeSiblingInformation(context.Background(), entity, entity)
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestComputeSiblingInformationPartialFailureYieldsNil(t *testing.T) {
	svc := odatamock.NewTravelService()
	root := odatamock.TravelActivePath
	deep := root + "/_Bookings(ID=7,IsActiveEntity=true)"

	svc.SetCanonicalPath(root+"/SiblingEntity", odatamock.TravelDraftPath)
	svc.FailCanonicalPath(
		root+"/_Bookings(ID=7,IsActiveEntity=true)/SiblingEntity",
		&odatamock.StatusError{Status: 403, Reason: "not authorized"},
	)
	orchestrator := NewDraftManager(nil, svc, svc, nil, nil, nil, nil)

	info, err := orchestrator.ComputeSiblingInformation(context.Background(),
		svc.BindContext(root), svc.BindContext(deep))
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestComputeSiblingInformationDepthLimit(t *testing.T) {
	svc := odatamock.NewTravelService()
	cfg := draftflow.DefaultConfig()
	cfg.Protocol.MaxSiblingDepth = 1
	orchestrator := NewDraftManager(cfg, svc, svc, nil, nil, nil, nil)

	root := odatamock.TravelActivePath
	deep := root + "/_Bookings(ID=7)/_Flight"
	_, err := orchestrator.ComputeSiblingInformation(context.Background(),
		svc.BindContext(root), svc.BindContext(deep))
	require.Error(t, err)
	assert.True(t, draftflow.IsUsageError(err))
	assert.Empty(t, svc.CanonicalRequests())
}
