package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(TokenConfig{
		Secret:   testSecret,
		Issuer:   "pokecsv",
		Audience: "pokecsv",
		Now:      fixedClock(now),
	})
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{})
	assert.ErrorIs(t, err, ErrNoSecret)

	issuer, err := NewTokenIssuer(TokenConfig{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, issuer.ttl)
}

func TestIssueAndValidate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue("ash")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, now.Add(time.Hour), token.ExpiresAt)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := issuer.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ash", claims.Subject)
	assert.Equal(t, "ash", claims.Name)
	assert.Equal(t, "pokecsv", claims.Issuer)
	assert.Len(t, claims.ID, 27)
}

func TestIssueUniqueIDs(t *testing.T) {
	issuer := newTestIssuer(t, time.Now())

	first, err := issuer.Issue("ash")
	require.NoError(t, err)
	second, err := issuer.Issue("ash")
	require.NoError(t, err)

	c1, err := issuer.Validate(first.AccessToken)
	require.NoError(t, err)
	c2, err := issuer.Validate(second.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidateRejects(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)
	token, err := issuer.Issue("ash")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestIssuer(t, now.Add(2*time.Hour))
		_, err := later.Validate(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenIssuer(TokenConfig{
			Secret:   "another-secret-of-enough-length",
			Issuer:   "pokecsv",
			Audience: "pokecsv",
			Now:      fixedClock(now),
		})
		require.NoError(t, err)
		_, err = other.Validate(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, err := NewTokenIssuer(TokenConfig{
			Secret:   testSecret,
			Issuer:   "pokecsv",
			Audience: "someone-else",
			Now:      fixedClock(now),
		})
		require.NoError(t, err)
		_, err = other.Validate(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewTokenIssuer(TokenConfig{
			Secret:   testSecret,
			Issuer:   "not-pokecsv",
			Audience: "pokecsv",
			Now:      fixedClock(now),
		})
		require.NoError(t, err)
		_, err = other.Validate(token.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "ash"})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Validate(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
