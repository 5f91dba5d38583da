package middleware

import (
	"net/http"
	"strings"

	"ride-hailing/internal/data/repository"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

// JWTAuth validates the bearer token (or the access_token cookie) and loads the
// user behind it. Only active accounts get through.
func JWTAuth(secret string, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract token
			token := bearerToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Unauthorized: No token provided")
				return
			}

			// 2. Verify signature & expiry
			claims, err := utils.ParseToken(secret, token)
			if err != nil {
				logger.Debug("Rejected token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Unauthorized: Invalid token")
				return
			}

			userID, err := utils.ParseUUID(claims.UserID)
			if err != nil {
				utils.ResponseUnauthorized(w, "Unauthorized: Invalid token")
				return
			}

			// 3. Load user
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load user for token",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || !user.IsActive() {
				logger.Warn("Token for missing or inactive user", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, "Unauthorized: User not found or inactive")
				return
			}

			// 4. Role comes from the stored user, not the token
			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles must run after JWTAuth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			utils.ResponseForbidden(w, "Forbidden: Access denied")
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(utils.AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
