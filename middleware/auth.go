package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casaligan-admin-server/services"
	"casaligan-admin-server/types"
)

const (
	ContextUserID  = "user_id"
	ContextAdminID = "admin_id"
	ContextClaims  = "claims"
)

// TokenAuthenticator turns a bearer token into admin claims.
type TokenAuthenticator interface {
	Authenticate(token string) (*types.Claims, error)
}

func setClaims(c *gin.Context, claims *types.Claims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextAdminID, claims.AdminID)
}

// ActorFromContext returns the admin set by the auth middleware.
func ActorFromContext(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:  c.GetUint(ContextUserID),
		AdminID: c.GetUint(ContextAdminID),
	}
}

func ClaimsFromContext(c *gin.Context) *types.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.Claims)
	return claims
}

// AdminAuthMiddleware requires a bearer token belonging to an admin.
func AdminAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		// Check if the header starts with "Bearer "
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token format",
				"message": "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(tokenString)
		if err != nil {
			log.Printf("🔍 AdminAuthMiddleware: rejected token for %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid, expired or not an admin session",
			})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AdminWebSocketAuthMiddleware reads the token from the query string, since
// browsers cannot set headers on a websocket upgrade.
func AdminWebSocketAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			log.Printf("🔌 AdminWebSocketAuthMiddleware: No token in query parameters")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Token required",
				"message": "Please provide a valid token in query parameters",
			})
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(tokenString)
		if err != nil {
			log.Printf("🔌 AdminWebSocketAuthMiddleware: Token rejected: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}
