package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quadro-dev/quadro/internal/auth"
	"github.com/quadro-dev/quadro/internal/models"
	"github.com/quadro-dev/quadro/internal/session"
	"github.com/quadro-dev/quadro/internal/types"
)

type AuthenticatedUser struct {
	ID     uint              `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   models.Role       `json:"role"`
	Status models.UserStatus `json:"status"`
}

func AuthMiddleware(store *session.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := auth.VerifyJWT(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		sid, err := auth.SessionToken(token)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		sess, err := store.Current(sid)

		if err != nil {
			if errors.Is(err, types.ErrAccountSuspended) {
				// Distinct message so a revoked user can tell this apart from
				// an ordinary expired login.
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access revoked"})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			return
		}

		ctx.Set(types.ContextSessionKey, sid)
		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:     sess.UserID,
			Name:   sess.Name,
			Email:  sess.Email,
			Role:   sess.Role,
			Status: sess.Status,
		})
		ctx.Next()
	}
}
