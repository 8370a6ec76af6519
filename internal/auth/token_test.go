package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/pokecatch/backend/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokens(t *testing.T, secret string) (*TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	s, err := NewTokenService([]byte(secret), DefaultTokenTTL, WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService([]byte("k"), 0)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	s, _ := newTestTokens(t, "super-secret")

	tok, err := s.Issue("user-123")
	require.NoError(t, err)

	id, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID())
}

func TestIssue_ExpiresOneHourAfterIssue(t *testing.T) {
	s, clock := newTestTokens(t, "secret")

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(tok, &claims)
	require.NoError(t, err)
	assert.Equal(t, 3600*time.Second, DefaultTokenTTL)
	assert.Equal(t, clock.t.Unix()+3600, claims.ExpiresAt.Unix())
	assert.Equal(t, clock.t.Unix(), claims.IssuedAt.Unix())
}

func TestVerify_Expiry(t *testing.T) {
	s, clock := newTestTokens(t, "secret")
	issuedAt := clock.t

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	clock.t = issuedAt.Add(DefaultTokenTTL - time.Second)
	_, err = s.Verify(tok)
	require.NoError(t, err, "token must be accepted before expiresAt")

	clock.t = issuedAt.Add(DefaultTokenTTL)
	_, err = s.Verify(tok)
	require.NoError(t, err, "token must be accepted at exactly expiresAt")

	clock.t = issuedAt.Add(DefaultTokenTTL + time.Second)
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, _ := newTestTokens(t, "right-secret")
	verifier, _ := newTestTokens(t, "wrong-secret")

	tok, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerify_TamperedPayload(t *testing.T) {
	s, _ := newTestTokens(t, "secret")
	tok, err := s.Issue("u3")
	require.NoError(t, err)

	other, err := s.Issue("u4")
	require.NoError(t, err)

	// header and signature from one token, claims from another
	a := strings.Split(tok, ".")
	b := strings.Split(other, ".")
	forged := a[0] + "." + b[1] + "." + a[2]

	_, err = s.Verify(forged)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	s, _ := newTestTokens(t, "k")
	_, err := s.Verify("not.a.jwt")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	_, err = s.Verify("")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	s, clock := newTestTokens(t, "k")
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u5",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerify_RequiresSubjectAndExpiry(t *testing.T) {
	s, clock := newTestTokens(t, "k")

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	})
	signed, err := noSub.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u6"})
	signed, err = noExp.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithIdentity(context.Background(), Identity{userID: "u7"})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u7", id.UserID())

	ctx = ContextWithIdentity(context.Background(), Identity{})
	_, ok = IdentityFromContext(ctx)
	assert.False(t, ok)
}
