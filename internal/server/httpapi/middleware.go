package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// withAuth extracts and validates the bearer token and stores the
// authenticated user id in the request context. Every owner-scoped route
// goes through here; handlers past this point can trust userIDFromContext.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthHeaderName)
		if header == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != common.AuthScheme {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		userID, err := s.users.ValidateToken(parts[1])
		if err != nil {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the id stored by withAuth.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
