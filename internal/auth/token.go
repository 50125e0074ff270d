package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is applied when the codec is constructed with a
// non-positive TTL.
const DefaultTokenTTL = 15 * time.Minute

// Claims carries the identity and the revocation counter. Version is a
// pointer so a token missing the claim entirely fails decoding instead of
// defaulting to zero.
type Claims struct {
	jwt.RegisteredClaims
	Version *int `json:"ver"`
}

// TokenCodec signs and verifies the service's bearer tokens with a
// process-wide HMAC secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the lifetime applied to issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject carrying the given token version.
func (c *TokenCodec) Issue(subject string, version int) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Version: &version,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the token and extracts (subject, version). Every failure
// mode (bad signature, wrong signing method, malformed structure, past
// expiry, missing claims) comes back as ErrInvalidToken. The parser validates
// the signature before the claim set is ever consulted.
func (c *TokenCodec) Decode(tokenString string) (string, int, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", 0, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", 0, ErrInvalidToken
	}
	if claims.Version == nil {
		return "", 0, ErrInvalidToken
	}
	return claims.Subject, *claims.Version, nil
}
