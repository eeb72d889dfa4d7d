package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/models"
)

const (
	Issuer   = "orbitpm"
	Audience = "orbitpm-users"
	TokenTTL = 24 * time.Hour
)

// Claims is the verified identity payload of a session token. It is produced
// once per request by Verify and threaded explicitly into every gate; nothing
// in the system re-reads the raw token after that.
type Claims struct {
	TenantID *uint       `json:"tenant_id,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the token subject into the user id it was issued for.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.Unauthenticated("invalid token subject")
	}
	return uint(id), nil
}

// Codec issues and verifies HS256 session tokens.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue signs a token for the given user, valid for TokenTTL.
func (c *Codec) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := Claims{
		TenantID: user.TenantID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify decodes and validates a token. It fails closed: any signature,
// expiry, issuer, audience or shape problem is Unauthenticated, never an
// anonymous pass-through.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, "invalid or expired token", err)
	}

	if _, err := claims.UserID(); err != nil {
		return nil, err
	}

	return claims, nil
}

var defaultCodec *Codec

// Init sets up the package-level codec from the configured secret.
func Init(secret string) error {
	codec, err := NewCodec(secret)
	if err != nil {
		return err
	}
	defaultCodec = codec
	return nil
}

func Issue(user *models.User) (string, error) {
	if defaultCodec == nil {
		return "", errors.New("auth codec is not initialized")
	}
	return defaultCodec.Issue(user)
}

func Verify(tokenString string) (*Claims, error) {
	if defaultCodec == nil {
		return nil, apperrors.Unauthenticated("auth codec is not initialized")
	}
	return defaultCodec.Verify(tokenString)
}
