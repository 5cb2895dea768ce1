package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/inkwell/pkg/auth"
	"github.com/shashiranjanraj/inkwell/pkg/logger"
	"github.com/shashiranjanraj/inkwell/pkg/response"
)

// AuthMiddleware requires a valid "Authorization: Bearer <jwt>" header and
// attaches the resolved auth.Identity to the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if header == "" || !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(w, "No token provided")
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
			response.Unauthorized(w, "Invalid token")
			return
		}

		id := auth.Identity{AccountID: claims.AccountID, Role: claims.Role}
		reqLog := logger.WithCtx(r.Context()).With("account_id", id.AccountID)

		ctx := auth.WithIdentity(r.Context(), id)
		ctx = logger.InjectLogger(ctx, reqLog)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromCtx returns the caller attached by AuthMiddleware.
func IdentityFromCtx(r *http.Request) (auth.Identity, bool) {
	return auth.FromContext(r.Context())
}

// RoleFromCtx returns the caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r)
	return id.Role, ok
}
