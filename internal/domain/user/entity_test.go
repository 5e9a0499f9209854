package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}

func TestUser_ToResponse_OmitsPassword(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := User{
		ID:        7,
		Email:     "a@b.com",
		Password:  "secret",
		FirstName: "A",
		LastName:  "B",
		Role:      RoleMember,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := u.ToResponse()
	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, u.Email, resp.Email)
	assert.Equal(t, u.Role, resp.Role)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "password")
	assert.Contains(t, fields, "firstName")
	assert.Contains(t, fields, "isActive")
}

func TestSeedUsers(t *testing.T) {
	seeds := SeedUsers()
	require.Len(t, seeds, 3)

	for i, u := range seeds {
		assert.Equal(t, int64(i+1), u.ID)
		assert.True(t, u.IsActive)
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	}

	// fresh copies on every call
	seeds[0].Email = "changed@taskmaster.com"
	assert.Equal(t, "admin@taskmaster.com", SeedUsers()[0].Email)
}
