package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/endemicwatch/endemic-monitoring/internal/auth"
)

// RequireAccess enforces the policy table for one (resource, action)
// pair. Requests without a context user are treated as the public tier,
// so the same guard works on both open and authenticated route groups.
func RequireAccess(resource auth.Resource, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tier := auth.TierPublic
			user, ok := auth.UserFromContext(r.Context())
			if ok && user != nil {
				tier = user.Tier()
			}

			if !auth.Authorize(tier, resource, action) {
				if !ok {
					writeAccessError(w, http.StatusUnauthorized, "missing authorization token")
					return
				}
				slog.Warn("access denied",
					"user_id", user.ID,
					"tier", tier.String(),
					"resource", resource,
					"action", action)
				writeAccessError(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAccessError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
