package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCarriesUserClaims(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	s.now = func() time.Time { return testNow }

	raw, err := s.Issue(alice)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(raw, claims)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["sub"])
	assert.NotEmpty(t, claims["jti"])
	assert.EqualValues(t, testNow.Add(time.Hour).Unix(), claims["exp"])
	assert.Equal(t, alice, UserFromClaims(claims))
}

func TestUserFromClaimsNeedsSubject(t *testing.T) {
	assert.Nil(t, UserFromClaims(jwt.MapClaims{"name": "Alice"}))
}
