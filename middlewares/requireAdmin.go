package middlewares

import (
	"net/http"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := CurrentIdentity(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "code": "unauthorized"})
			return
		}

		isAdmin, err := IsAdmin(ctx, identity.Email)
		if err != nil {
			initializers.Logger.Error("Admin lookup failed", zap.String("email", identity.Email), zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "internal_error"})
			return
		}
		if !isAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required", "code": "forbidden"})
			return
		}

		ctx.Next()
	}
}

func IsAdmin(ctx *gin.Context, email string) (bool, error) {
	var count int64
	err := initializers.DB.WithContext(ctx.Request.Context()).
		Model(&models.User{}).
		Where("email = ? AND is_admin = ?", email, true).
		Count(&count).Error
	return count > 0, err
}
