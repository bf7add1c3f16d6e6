package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/auth"
	"github.com/hainam0320/EXE201-sub000/models"
)

const identityKey = "identity"

// RequireAuth authenticates the bearer token through the access guard and,
// when roles are given, requires one of them. The resolved identity is
// stored on the context for handlers.
func RequireAuth(guard auth.Guard, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := guard.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), apperr.Payload(err))
			return
		}
		if len(roles) > 0 && !guard.Authorize(id, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Payload(
				apperr.New(apperr.KindForbidden, "insufficient role for this endpoint")))
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the authenticated caller set by RequireAuth.
func Identity(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(auth.Identity)
	return id
}
