package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"furniture-admin/pkg/errors"
	jwtutil "furniture-admin/pkg/jwt"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// CredentialKey is the context key for the raw bearer credential
	CredentialKey ContextKey = "credential"
	// ClaimsKey is the context key for the verified claims
	ClaimsKey ContextKey = "claims"
)

// AdminRole is the role claim accepted when the login service sets one
const AdminRole = "admin"

// CredentialMiddleware requires an admin bearer credential, checks it with
// the verifier, and stores both the raw credential and its claims in the
// request context for the order source calls downstream.
func CredentialMiddleware(verifier *jwtutil.CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				HandleError(w, r, errors.NewUnauthorizedError("Missing authorization header"))
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				HandleError(w, r, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}
			credential := parts[1]

			claims, err := verifier.ValidateToken(credential)
			if err != nil {
				if stderrors.Is(err, jwtutil.ErrTokenExpired) {
					HandleError(w, r, errors.NewUnauthorizedError("Token expired"))
					return
				}
				HandleError(w, r, errors.NewUnauthorizedError("Invalid token"))
				return
			}

			if claims.Role != "" && !strings.EqualFold(claims.Role, AdminRole) {
				HandleError(w, r, errors.NewForbiddenError("Insufficient permissions"))
				return
			}

			ctx := context.WithValue(r.Context(), CredentialKey, credential)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCredential extracts the bearer credential from context
func GetCredential(ctx context.Context) string {
	credential, _ := ctx.Value(CredentialKey).(string)
	return credential
}

// GetClaims extracts verified claims from context
func GetClaims(ctx context.Context) (*jwtutil.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwtutil.Claims)
	return claims, ok
}
