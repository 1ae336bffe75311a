package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "boss@valdosta.edu", "Boss", "STAFF", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.False(t, tok.Exp.IsZero())

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, StaffClaims{Email: "boss@valdosta.edu", Name: "Boss", Role: "STAFF"}, claims)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("s3cret", "boss@valdosta.edu", "Boss", "STAFF", 5)
	require.NoError(t, err)

	expired, err := NewAccessToken("s3cret", "boss@valdosta.edu", "Boss", "STAFF", -5)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expired.Exp.Unix() + 3600,
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "boss@valdosta.edu",
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	cases := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good.Token},
		"expired":      {"s3cret", expired.Token},
		"garbage":      {"s3cret", "not-a-jwt"},
		"no subject":   {"s3cret", noSub},
		"no expiry":    {"s3cret", noExp},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
