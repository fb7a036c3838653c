// Package middleware – bearer token authentication and the admin gate.
//
// Tokens are HS256 JWTs issued at login. Authenticate() parses and verifies
// the Authorization header and stores the principal in the Gin context;
// RequireAdmin() then gates the staff surface on the role claim. Failures
// are JSON envelopes (request_id/code/message), never redirects: the API has
// no HTML surface to redirect to.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Context keys under which the authenticated principal is stored. Handlers
// and the access logger read these; they are only ever set after the token
// signature has verified.
const (
	ContextUserIDKey    = "userID"
	ContextUserRoleKey  = "userRole"
	ContextUserNameKey  = "userName"
	ContextUserEmailKey = "userEmail"
)

// adminRole is the role claim value required by RequireAdmin.
const adminRole = "ADMIN"

// Authenticate verifies the Bearer token and attaches the principal to the
// context. Requests without a token, with a malformed Authorization header,
// with a bad signature, or with an expired token are rejected with 401 and
// code "unauthorized".
//
// Only HS256 is accepted; jwt/v5 validates exp/nbf during Parse, so an
// expired token never reaches the claim extraction below.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, secret)
		if !ok {
			abortAuthError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuthenticate attaches the principal when a valid Bearer token is
// present and otherwise continues anonymously. It never rejects: the intake
// endpoint serves both signed-in citizens (whose complaints are linked to
// their account) and anonymous walk-ins. An invalid token is treated as
// absent rather than rejected so a stale browser session cannot block a
// citizen from filing.
func OptionalAuthenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, secret); ok {
			setPrincipal(c, claims)
		}
		c.Next()
	}
}

// RequireAdmin allows the request through only when the authenticated
// principal carries the ADMIN role. It must be placed after Authenticate().
// A missing principal yields 401; a non-admin principal yields 403 with
// code "forbidden".
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextUserRoleKey)
		if !ok {
			abortAuthError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if asString(role) != adminRole {
			abortAuthError(c, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		c.Next()
	}
}

// parseBearer extracts and verifies the Authorization header. It returns
// the token claims and whether authentication succeeded.
func parseBearer(c *gin.Context, secret []byte) (jwt.MapClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// setPrincipal copies the identity claims into the Gin context.
func setPrincipal(c *gin.Context, claims jwt.MapClaims) {
	c.Set(ContextUserIDKey, claimString(claims, "sub"))
	c.Set(ContextUserRoleKey, claimString(claims, "role"))
	c.Set(ContextUserNameKey, claimString(claims, "name"))
	c.Set(ContextUserEmailKey, claimString(claims, "email"))
}

// claimString reads a string claim, returning "" when absent or non-string.
func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// abortAuthError writes the standard JSON error envelope and stops the chain.
func abortAuthError(c *gin.Context, status int, code, message string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": asString(rid),
		"code":       code,
		"message":    message,
	})
}
