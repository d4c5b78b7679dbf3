package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/core"
)

func newSignKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestAccessTokenRoundtrip(t *testing.T) {
	tk := NewJWTTokenizer(newSignKey(t))

	session := &core.Session{
		ID:             "session-1",
		SessionPrivKey: "0x01",
		SessionPubKey:  "0x04aabb",
		UserSWA:        "0x9999000000000000000000000000000000009999",
	}

	token, err := tk.SessionToAccessToken(session)
	require.NoError(t, err)

	got, err := tk.AccessTokenToSession(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.UserSWA, got.UserSWA)

	// Key material must never enter the token.
	assert.Empty(t, got.SessionPrivKey)
	assert.Empty(t, got.SessionPubKey)
}

func TestAccessTokenRejectsForeignKey(t *testing.T) {
	minter := NewJWTTokenizer(newSignKey(t))
	verifier := NewJWTTokenizer(newSignKey(t))

	token, err := minter.SessionToAccessToken(&core.Session{ID: "s", UserSWA: "0x01"})
	require.NoError(t, err)

	_, err = verifier.AccessTokenToSession(token)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestAccessTokenRejectsWrongAudience(t *testing.T) {
	key := newSignKey(t)
	tk := NewJWTTokenizer(key)

	claims := jwt.RegisteredClaims{
		Subject:   "0x01",
		ID:        "s",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Audience:  jwt.ClaimStrings{"other:audience"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)

	_, err = tk.AccessTokenToSession(token)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	key := newSignKey(t)
	tk := NewJWTTokenizer(key)

	claims := jwt.RegisteredClaims{
		Subject:   "0x01",
		ID:        "s",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		Audience:  jwt.ClaimStrings{AudienceAccess},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)

	_, err = tk.AccessTokenToSession(token)
	require.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestAccessTokenRejectsGarbage(t *testing.T) {
	tk := NewJWTTokenizer(newSignKey(t))

	_, err := tk.AccessTokenToSession("not-a-jwt")
	require.ErrorIs(t, err, core.ErrInvalidToken)
}
