package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"delivery-manager/internal/core/auth"
	"delivery-manager/internal/domain"
	resp "delivery-manager/internal/transport/http/response"
)

// AuthJWT rejects requests without a bearer token (401) and requests with an
// invalid or expired one (403). Optional roles narrow access further.
func AuthJWT(j *auth.JWTer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "invalid token"))
			return
		}
		if len(roles) > 0 && !roleAllowed(domain.Role(claims.Role), roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
