package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextActorIDKey = "actor_id"

// AuthRequired resolves the calling actor from the bearer token and stores
// the actor id on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actorID, err := s.verifier.Parse(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextActorIDKey, actorID)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func actorIDFromContext(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextActorIDKey)
	if !ok {
		return 0, false
	}
	actorID, ok := value.(snowflake.ID)
	return actorID, ok
}
