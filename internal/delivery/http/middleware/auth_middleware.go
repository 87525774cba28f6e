package middleware

import (
	"net/http"
	"strings"

	"clinic-scheduler/internal/session"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
)

type AuthMiddleware struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthMiddleware(authUsecase usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUsecase: authUsecase}
}

// Authenticate resolves the bearer token into a session and stores it in
// the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		sess, err := m.authUsecase.Authenticate(r.Context(), parts[1])
		if err != nil {
			response.FromError(w, err, "Failed to validate token")
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// Require rejects sessions whose role lacks any of the capabilities.
// It must run after Authenticate.
func Require(capabilities ...session.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session not found")
				return
			}

			for _, c := range capabilities {
				if !sess.Can(c) {
					response.Forbidden(w, "You don't have permission to access this resource")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny passes when the role holds at least one of the capabilities.
func RequireAny(capabilities ...session.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session not found")
				return
			}

			for _, c := range capabilities {
				if sess.Can(c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}
