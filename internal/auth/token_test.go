package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orbitpm/orbitpm/internal/apperrors"
	"github.com/orbitpm/orbitpm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "token-test-secret"

func testCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(testSecret)
	require.NoError(t, err)

	return codec
}

func tenantUser(id uint, tenantID uint, role models.Role) *models.User {
	user := &models.User{Role: role, TenantID: &tenantID}
	user.ID = id
	return user
}

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := testCodec(t)

	user := tenantUser(42, 7, models.RoleTenantAdmin)

	token, err := codec.Issue(user)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(7), *claims.TenantID)
	assert.Equal(t, models.RoleTenantAdmin, claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Contains(t, claims.Audience, Audience)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueSystemAdminHasNoTenant(t *testing.T) {
	codec := testCodec(t)

	admin := &models.User{Role: models.RoleSystemAdmin}
	admin.ID = 1

	token, err := codec.Issue(admin)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Nil(t, claims.TenantID)
	assert.Equal(t, models.RoleSystemAdmin, claims.Role)
}

// signed builds a token directly, bypassing Issue, to probe Verify's checks.
func signed(t *testing.T, secret string, mutate func(*Claims)) string {
	t.Helper()

	now := time.Now()
	tenantID := uint(7)

	claims := Claims{
		TenantID: &tenantID,
		Role:     models.RoleMember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(42),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	if mutate != nil {
		mutate(&claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestVerifyRejections(t *testing.T) {
	codec := testCodec(t)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "expired even with valid signature",
			token: signed(t, testSecret, func(c *Claims) {
				c.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			}),
		},
		{
			name:  "wrong signing secret",
			token: signed(t, "some-other-secret", nil),
		},
		{
			name: "issuer mismatch",
			token: signed(t, testSecret, func(c *Claims) {
				c.Issuer = "someone-else"
			}),
		},
		{
			name: "audience mismatch",
			token: signed(t, testSecret, func(c *Claims) {
				c.Audience = jwt.ClaimStrings{"other-users"}
			}),
		},
		{
			name: "missing expiry",
			token: signed(t, testSecret, func(c *Claims) {
				c.ExpiresAt = nil
			}),
		},
		{
			name: "non-numeric subject",
			token: signed(t, testSecret, func(c *Claims) {
				c.Subject = "not-a-user-id"
			}),
		},
		{
			name:  "malformed",
			token: "definitely.not.a-jwt",
		},
		{
			name:  "empty",
			token: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
		})
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := testCodec(t)

	token, err := codec.Issue(tenantUser(42, 7, models.RoleMember))
	require.NoError(t, err)

	_, err = codec.Verify(token + "x")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	codec := testCodec(t)

	claims := jwt.MapClaims{
		"sub": "42",
		"iss": Issuer,
		"aud": Audience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}
