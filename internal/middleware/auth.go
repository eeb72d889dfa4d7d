package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/types"
)

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// verified claims to the request context.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.Verify(token)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		ctx.Set(types.ContextClaimsKey, claims)
		ctx.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through anonymously. Invalid tokens degrade to anonymous
// here; the guards downstream fail closed.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if claims, err := auth.Verify(token); err == nil {
				ctx.Set(types.ContextClaimsKey, claims)
			}
		}
		ctx.Next()
	}
}
