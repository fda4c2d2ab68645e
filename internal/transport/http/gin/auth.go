package httpgin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinechain/cinebook/internal/auth"
	"github.com/cinechain/cinebook/internal/domain"
)

const actorKey = "actor"

// AuthRequired validates the Bearer token and stores the resulting actor in
// the request context. Anonymous callers get 401; the identity service that
// issued the token already did the heavy lifting.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, MessageResponse{Message: "missing bearer token"})
			return
		}

		actor, err := auth.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, MessageResponse{Message: "invalid token"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Assumes AuthRequired
// ran earlier in the chain.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok || !allowed[actor.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, MessageResponse{Message: "forbidden"})
			return
		}

		c.Next()
	}
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}

	actor, ok := v.(domain.Actor)
	return actor, ok
}
