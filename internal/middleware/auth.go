package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TokenVerifier verifies a bearer token and returns the user ID it carries.
// *auth.TokenIssuer satisfies it.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying the authenticated owner ID.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the authenticated owner ID, or "" when the request
// did not pass through Authenticator.
func OwnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey{}).(string)
	return id
}

// Authenticator rejects requests without a valid "Authorization: Bearer"
// token with 401 and puts the token's user ID in the request context.
// The ID is trusted as-is once the token verifies.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator constructs an Authenticator using verifier.
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Handler is the middleware function.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed authorization header")
			return
		}

		ownerID, err := a.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "token expired or invalid")
			return
		}

		reportOwner(r.Context(), ownerID)
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), ownerID)))
	})
}
