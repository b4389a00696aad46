package routes

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"casaligan-admin-server/middleware"
	"casaligan-admin-server/services"
	"casaligan-admin-server/types"
)

// AdminAuthenticator is the console sign-in surface.
type AdminAuthenticator interface {
	middleware.TokenAuthenticator
	Login(ctx context.Context, email, password string) (*services.AdminSession, error)
	Profile(ctx context.Context, claims *types.Claims) (*services.AdminProfile, error)
}

// RegisterAdminAuthRoutes registers login on the public group and the current
// admin lookup on the protected one.
func RegisterAdminAuthRoutes(public, protected *gin.RouterGroup, auth AdminAuthenticator) {
	public.POST("/auth/login", adminLogin(auth))
	protected.GET("/auth/me", currentAdmin(auth))
}

func adminLogin(auth AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		session, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		case errors.Is(err, services.ErrNotAdmin):
			log.Printf("🚫 Non-admin sign-in attempt for %s", req.Email)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		case errors.Is(err, services.ErrAccountInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
			return
		default:
			log.Printf("❌ Admin login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		log.Printf("✅ Admin %d signed in", session.Admin.AdminID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"data":    session,
		})
	}
}

func currentAdmin(auth AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFromContext(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		profile, err := auth.Profile(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrNotAdmin) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin account not found"})
				return
			}
			log.Printf("❌ Failed to load admin %d: %v", claims.AdminID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load admin"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
	}
}
