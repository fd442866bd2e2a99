package draftflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictKindString(t *testing.T) {
	assert.Equal(t, "none", ConflictNone.String())
	assert.Equal(t, "another_draft_exists", ConflictAnotherDraftExists.String())
	assert.Equal(t, "precondition_warning", ConflictPreconditionWarning.String())
	assert.Equal(t, "locked", ConflictLocked.String())
	assert.Equal(t, "conflict_kind(99)", ConflictKind(99).String())
}

func TestDecodeDraftAdministrativeData(t *testing.T) {
	id := uuid.New()
	data := DecodeDraftAdministrativeData(map[string]any{
		"DraftUUID":                "not-a-uuid-then-zero",
		"InProcessByUser":          "locker",
		"CreatedByUser":            "owner",
		"CreatedByUserDescription": "Owner Name",
		"DraftIsCreatedByMe":       true,
	})
	require.NotNil(t, data)
	assert.Equal(t, uuid.Nil, data.DraftUUID)
	assert.True(t, data.DraftIsCreatedByMe)
	assert.Equal(t, "locker", data.LockingUser())
	assert.Equal(t, "Owner Name", data.OwningUser())

	data = DecodeDraftAdministrativeData(map[string]any{"DraftUUID": id.String()})
	require.NotNil(t, data)
	assert.Equal(t, id, data.DraftUUID)
}

func TestDecodeDraftAdministrativeDataNil(t *testing.T) {
	assert.Nil(t, DecodeDraftAdministrativeData(nil))
}

func TestAdministrativeDataNilReceivers(t *testing.T) {
	var data *DraftAdministrativeData
	assert.Equal(t, "", data.LockingUser())
	assert.Equal(t, "", data.OwningUser())
}

func TestLockingUserPrefersDescription(t *testing.T) {
	data := &DraftAdministrativeData{
		InProcessByUser:            "UNAME",
		InProcessByUserDescription: "Una Me",
	}
	assert.Equal(t, "Una Me", data.LockingUser())

	data.InProcessByUserDescription = ""
	assert.Equal(t, "UNAME", data.LockingUser())
}
