package odatamock

import (
	draftflow "github.com/ArmandoTL8/draftflow"
)

// Canned paths and action names shared by the test suites and the demo binary.
const (
	TravelActivePath = "/Travels(ID=42,IsActiveEntity=true)"
	TravelDraftPath  = "/Travels(ID=42,IsActiveEntity=false)"

	TravelEditAction     = "TravelService.draftEdit"
	TravelActivateAction = "TravelService.draftActivate"
	TravelPrepareAction  = "TravelService.draftPrepare"
	TravelDiscardAction  = "TravelService.draftDiscard"
)

// NewTravelService builds a service with one fully annotated draft root
// (/Travels, all four lifecycle actions, Preparation return type and a
// Messages path) and one active travel document.
func NewTravelService() *Service {
	svc := NewService()
	svc.DefineDraftRoot("/Travels", map[draftflow.DraftOperation]string{
		draftflow.OperationEdit:        TravelEditAction,
		draftflow.OperationActivation:  TravelActivateAction,
		draftflow.OperationPreparation: TravelPrepareAction,
		draftflow.OperationDiscard:     TravelDiscardAction,
	})
	svc.DefineReturnType("/Travels", draftflow.OperationPreparation, "TravelService.Travel")
	svc.DefineMessagesPath("/Travels", "Messages")
	svc.AddEntity(TravelActivePath, map[string]any{
		"ID":                              42,
		draftflow.PropertyIsActiveEntity:  true,
		draftflow.PropertyHasActiveEntity: false,
		"Description":                     "Business trip to Walldorf",
		"BookingFee":                      20,
	})
	return svc
}

// NewTravelDraft adds the draft sibling of the fixture travel document and
// returns its path. The administrative record describes who is working on it.
func NewTravelDraft(svc *Service, admin map[string]any) string {
	draft := svc.AddEntity(TravelDraftPath, map[string]any{
		"ID":                              42,
		draftflow.PropertyIsActiveEntity:  false,
		draftflow.PropertyHasActiveEntity: true,
		"Description":                     "Business trip to Walldorf",
		"BookingFee":                      20,
	})
	if admin != nil {
		draft.Properties[draftflow.PropertyDraftAdministrativeData] = admin
	}
	draft.SiblingPath = TravelActivePath
	if active, ok := svc.Entity(TravelActivePath); ok {
		active.SiblingPath = TravelDraftPath
	}
	return TravelDraftPath
}
