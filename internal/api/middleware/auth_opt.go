package middleware

import (
	"Streamline/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 PersonID，失败或缺失则为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Set("person_id", uint64(0))
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := security.ValidateToken(token)

		if err != nil {
			c.Set("person_id", uint64(0))
		} else {
			c.Set("person_id", claims.PersonID)
			newCtx := context.WithValue(c.Request.Context(), "person_id", claims.PersonID)
			c.Request = c.Request.WithContext(newCtx)
		}

		c.Next()
	}
}
