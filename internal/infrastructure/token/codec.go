package token

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the full clarification payload inside the token. The
// token is the only record of a pending clarification; nothing is kept
// server side until the customer submits.
type Claims struct {
	jwt.RegisteredClaims
	Payload clarify.Payload `json:"payload"`
}

// Codec signs and verifies clarification tokens
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewCodec creates a codec from token configuration
func NewCodec(cfg config.TokenConfig) *Codec {
	return &Codec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.LinkTTL,
		issuer: cfg.Issuer,
	}
}

// Sign serializes the payload into a signed, expiring token string
func (c *Codec) Sign(payload clarify.Payload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    c.issuer,
			Subject:   payload.OrderID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Payload: payload,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry and returns the embedded
// payload. Every failure mode collapses into ErrTokenInvalid so callers
// cannot distinguish a tampered token from an expired one.
func (c *Codec) Verify(tokenString string) (clarify.Payload, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return clarify.Payload{}, shared.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return clarify.Payload{}, shared.ErrTokenInvalid
	}
	if err := claims.Payload.Validate(); err != nil {
		return clarify.Payload{}, shared.ErrTokenInvalid
	}
	return claims.Payload, nil
}

// Hash returns a hex SHA-256 digest of the token for audit logging
func Hash(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
