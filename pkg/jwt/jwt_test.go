package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "owner@shop.test", "USER")
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@shop.test", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)

	assert.Equal(t, time.Minute, svc.AccessExpiry())
	assert.Equal(t, 2*time.Minute, svc.RefreshExpiry())
}

func TestJWTService_ValidateRefreshToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "owner@shop.test", "USER")
	assert.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateInvalidToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTService("other-secret", time.Minute, time.Minute)
	pair, err := other.GenerateTokenPair(uuid.New(), "a@b.c", "USER")
	assert.NoError(t, err)
	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Second, -time.Second)

	pair, err := svc.GenerateTokenPair(uuid.New(), "expired@shop.test", "USER")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSigningMethod(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)

	claims := gjwt.MapClaims{
		"userId": uuid.NewString(),
		"email":  "x@y.z",
		"role":   "USER",
		"exp":    time.Now().Add(time.Minute).Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_SignError(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) { return "", errors.New("sign failed") }

	svc := NewJWTService("secret", time.Minute, time.Minute)
	_, err := svc.GenerateTokenPair(uuid.New(), "a@b.c", "USER")
	assert.Error(t, err)

	signer := NewResetTokenSigner("reset", time.Hour)
	_, _, err = signer.Issue(uuid.New(), "a@b.c")
	assert.Error(t, err)
}

func TestResetTokenSigner_IssueAndVerify(t *testing.T) {
	signer := NewResetTokenSigner("reset-secret", time.Hour)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return now }

	userID := uuid.New()
	token, expiresAt, err := signer.Issue(userID, "owner@shop.test")
	assert.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)
	assert.Equal(t, time.Hour, signer.TTL())

	// real clock is past the fake issue time, so use a fresh signer for verification
	verifier := NewResetTokenSigner("reset-secret", time.Hour)
	verifier.now = time.Now
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	fresh, _, err := verifier.Issue(userID, "owner@shop.test")
	assert.NoError(t, err)
	got, err := verifier.Verify(fresh)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestResetTokenSigner_TokensAreUnique(t *testing.T) {
	signer := NewResetTokenSigner("reset-secret", time.Hour)
	userID := uuid.New()

	a, _, err := signer.Issue(userID, "owner@shop.test")
	assert.NoError(t, err)
	b, _, err := signer.Issue(userID, "owner@shop.test")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestResetTokenSigner_RejectsForeignTokens(t *testing.T) {
	signer := NewResetTokenSigner("reset-secret", time.Hour)

	// a session token signed with another secret is not a reset token
	svc := NewJWTService("session-secret", time.Minute, time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "a@b.c", "USER")
	assert.NoError(t, err)
	_, err = signer.Verify(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// same secret but a non-uuid subject
	bad := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	str, err := bad.SignedString([]byte("reset-secret"))
	assert.NoError(t, err)
	_, err = signer.Verify(str)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
