package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive-api/internal/platform/persistence"
)

// ActorHeader names the request header carrying the acting identity.
// Requests without it are attributed to the system actor.
const ActorHeader = "X-Actor"

func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
			c.Request = c.Request.WithContext(persistence.WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}
