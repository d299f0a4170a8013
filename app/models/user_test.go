package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("operator1", "s3cret99", ROLE_USER)
	require.NoError(t, err)

	assert.Equal(t, "operator1", u.Name)
	assert.Equal(t, ROLE_USER, u.Role)
	assert.NotEqual(t, "s3cret99", u.Password)
	assert.True(t, CheckPasswordHash("s3cret99", u.Password))
	assert.False(t, CheckPasswordHash("wrong", u.Password))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "s3cret99", ROLE_USER)
	assert.Error(t, err, "name below minimum length")

	_, err = CreateUser("operator1", "short", ROLE_USER)
	assert.Error(t, err, "password below minimum length")

	_, err = CreateUser("operator1", "s3cret99", "superadmin")
	assert.Error(t, err, "unknown role")
}
