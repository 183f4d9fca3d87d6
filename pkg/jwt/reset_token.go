package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ResetClaims are carried by password reset tokens. Subject holds the user id.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ResetTokenSigner issues and verifies time-boxed password reset tokens.
// It uses its own secret so a leaked session secret cannot mint reset links.
type ResetTokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokenSigner(secret string, ttl time.Duration) *ResetTokenSigner {
	return &ResetTokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns how long issued reset tokens stay valid.
func (s *ResetTokenSigner) TTL() time.Duration { return s.ttl }

// Issue signs a reset token for the user and returns it with its expiry.
func (s *ResetTokenSigner) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := signJWTToken(token, s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the user id in the token.
func (s *ResetTokenSigner) Verify(tokenString string) (uuid.UUID, error) {
	claims := &ResetClaims{}
	if err := parseHMAC(tokenString, claims, s.secret); err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
