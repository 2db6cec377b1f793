// Package rbac gates routes by the role carried in the admin JWT.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/liftstore/pkg/auth"
	"github.com/shashiranjanraj/liftstore/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. AuthMiddleware must run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFrom(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[claims.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
