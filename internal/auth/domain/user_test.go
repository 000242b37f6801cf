package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("sweet-clover"))

	assert.NotEqual(t, "sweet-clover", u.PasswordHash)
	assert.True(t, u.CheckPassword("sweet-clover"))
	assert.False(t, u.CheckPassword("bitter-clover"))
	assert.False(t, u.CheckPassword(""))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleCustomer}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
