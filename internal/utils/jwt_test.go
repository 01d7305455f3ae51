package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(42, testSecret, AccessToken, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, testSecret, AccessToken, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other", AccessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(42, testSecret, AccessToken, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret, AccessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWT_WrongType(t *testing.T) {
	token, err := GenerateJWT(42, testSecret, RefreshToken, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", testSecret, AccessToken)
	assert.Error(t, err)
}
