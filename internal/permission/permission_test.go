package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foil-records-server/internal/permission"
)

func TestBitPositionsStable(t *testing.T) {
	// Позиции битов зашиты в сохранённые маски, сдвиг ломает данные
	expected := map[permission.Capability]uint64{
		permission.AddNote:        1 << 0,
		permission.AddFile:        1 << 1,
		permission.AddLink:        1 << 2,
		permission.AddInstruction: 1 << 3,
		permission.GrantExtension: 1 << 4,
		permission.EditResponse:   1 << 5,
		permission.DeleteResponse: 1 << 6,
		permission.ChangePrivacy:  1 << 7,
		permission.ManageUsers:    1 << 8,
		permission.ChangeStatus:   1 << 9,
	}

	for capability, bit := range expected {
		assert.Equal(t, bit, uint64(capability.Bit()), capability.Name())
	}
}

func TestAddIdempotent(t *testing.T) {
	mask, err := permission.Add(0, permission.AddNote, permission.AddFile)
	require.NoError(t, err)

	again, err := permission.Add(mask, permission.AddNote)
	require.NoError(t, err)

	assert.Equal(t, mask, again)
	assert.True(t, permission.Has(again, permission.AddNote))
	assert.True(t, permission.Has(again, permission.AddFile))
}

func TestRemoveIdempotent(t *testing.T) {
	mask, err := permission.Add(0, permission.AddNote, permission.ManageUsers)
	require.NoError(t, err)

	mask, err = permission.Remove(mask, permission.AddNote)
	require.NoError(t, err)
	assert.False(t, permission.Has(mask, permission.AddNote))
	assert.True(t, permission.Has(mask, permission.ManageUsers))

	again, err := permission.Remove(mask, permission.AddNote)
	require.NoError(t, err)
	assert.Equal(t, mask, again)
}

func TestAddRemoveUnknownCapability(t *testing.T) {
	_, err := permission.Add(0, permission.Capability(99))
	assert.ErrorIs(t, err, permission.ErrUnknownCapability)

	_, err = permission.Remove(0, permission.Capability(-1))
	assert.ErrorIs(t, err, permission.ErrUnknownCapability)
}

func TestHasInvalidCapability(t *testing.T) {
	mask, err := permission.Add(0, permission.All()...)
	require.NoError(t, err)

	assert.False(t, permission.Has(mask, permission.Capability(64)))
	assert.False(t, permission.Has(mask, permission.Capability(-1)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		expected permission.Capability
		wantErr  bool
	}{
		{"add_note", permission.AddNote, false},
		{"manage_users", permission.ManageUsers, false},
		{"change_status", permission.ChangeStatus, false},
		{"Add Note", 0, true},
		{"", 0, true},
		{"delete_request", 0, true},
	}

	for _, tt := range tests {
		capability, err := permission.Parse(tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, permission.ErrUnknownCapability, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, capability, tt.name)
	}
}

func TestLabelsCanonicalOrder(t *testing.T) {
	// Labels всегда в порядке битов независимо от порядка выдачи прав
	mask, err := permission.Add(0, permission.ManageUsers, permission.AddNote, permission.EditResponse)
	require.NoError(t, err)

	assert.Equal(t, []string{"Add Note", "Edit Response", "Manage Users"}, permission.Labels(mask))
}

func TestLabelsEmptyMask(t *testing.T) {
	assert.Empty(t, permission.Labels(0))
}

func TestSetRoundTrip(t *testing.T) {
	original := []permission.Capability{permission.AddFile, permission.GrantExtension, permission.ChangeStatus}

	mask, err := permission.Add(0, original...)
	require.NoError(t, err)

	assert.Equal(t, original, permission.Set(mask))
}

func TestAllCoversEveryName(t *testing.T) {
	for _, capability := range permission.All() {
		require.True(t, capability.Valid())
		require.NotEmpty(t, capability.Name())
		require.NotEmpty(t, capability.Label())

		parsed, err := permission.Parse(capability.Name())
		require.NoError(t, err)
		assert.Equal(t, capability, parsed)
	}
}
