package middleware

import (
	"net/http"
	"strings"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/auth"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/dariovidovic/NWP-LV7/internal/session"
	"github.com/dariovidovic/NWP-LV7/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u AuthenticatedUser) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RequireLogin gates every protected route. A cookie session identity is the
// primary path; API clients may instead present a Bearer token. Anything else
// is bounced to the login page, or gets a 401 when the client wants JSON.
func RequireLogin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if userID := session.UserID(ctx); userID != 0 {
			if attachUser(ctx, userID) {
				ctx.Next()
				return
			}
		}

		if userID, ok := bearerUserID(ctx); ok {
			if attachUser(ctx, userID) {
				ctx.Next()
				return
			}
		}

		if wantsJSON(ctx) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		ctx.Redirect(http.StatusFound, "/login")
		ctx.Abort()
	}
}

func attachUser(ctx *gin.Context, userID uint) bool {
	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		return false
	}

	ctx.Set(types.ContextUserKey, AuthenticatedUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})

	return true
}

func bearerUserID(ctx *gin.Context) (uint, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return 0, false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	userID, err := auth.VerifyToken(parts[1])

	if err != nil {
		return 0, false
	}

	return userID, true
}

func wantsJSON(ctx *gin.Context) bool {
	if strings.Contains(ctx.GetHeader("Accept"), "application/json") {
		return true
	}
	return ctx.ContentType() == "application/json"
}
