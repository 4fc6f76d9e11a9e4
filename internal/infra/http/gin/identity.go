package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/domain/booking"
)

// Identity is resolved upstream (gateway/session layer); this service
// trusts the forwarded headers. Authentication schemes are out of scope
// here.
type Identity struct {
	UserID string
	Role   booking.Role
}

const identityKey = "identity"

func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		role := booking.Role(c.GetHeader("X-User-Role"))
		if id != "" {
			c.Set(identityKey, Identity{UserID: id, Role: role})
		}
		c.Next()
	}
}

func requireIdentity(c *gin.Context, role booking.Role) (Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity required"})
		return Identity{}, false
	}
	ident := val.(Identity)
	if role != "" && ident.Role != role {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return Identity{}, false
	}
	return ident, true
}
