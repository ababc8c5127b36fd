package delivery

import (
	"fmt"
	"net/http"
	"strings"

	authdomain "calotrack-backend/internal/auth/domain"
	"calotrack-backend/internal/common"
	"calotrack-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "userID"
)

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization header format"})
			return
		}

		user, err := authUsecase.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the user AuthMiddleware stored, or nil on public routes.
func CurrentUser(c *gin.Context) *authdomain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*authdomain.User)
	return user
}

// RequireAdmin lets through only users whose email is in emails. It must run
// after AuthMiddleware. An empty list rejects everyone.
func RequireAdmin(emails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			common.RespondError(c, common.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[strings.ToLower(user.Email)]; !ok {
			common.RespondError(c, fmt.Errorf("%w: admin access required", common.ErrForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}
