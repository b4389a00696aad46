package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casaligan-admin-server/middleware"
	ws "casaligan-admin-server/websocket"
)

// Dependencies are the pieces the admin API is built from. RateLimiter and
// WriteQuota may be nil.
type Dependencies struct {
	AllowedOrigins []string
	Auth           AdminAuthenticator
	Bookings       *BookingHandler
	Hub            *ws.Hub
	RateLimiter    *middleware.RateLimiter
	WriteQuota     *middleware.WriteQuota
}

// NewRouter builds the gin engine with the middleware stack and all routes.
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.AuditLogMiddleware())
	if d.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(d.RateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"message": "Casaligan admin server is running",
			"time":    time.Now().UTC(),
		}
		if d.Hub != nil {
			body["console_clients"] = d.Hub.ClientCount()
		}
		c.JSON(http.StatusOK, body)
	})

	api := router.Group("/api/v1")
	admin := api.Group("/admin")

	if d.Hub != nil {
		RegisterAdminWebSocketRoutes(admin, d.Hub, d.Auth)
	}

	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware(d.Auth))
	{
		RegisterAdminAuthRoutes(admin, protected, d.Auth)
		RegisterAdminBookingRoutes(protected, d.Bookings, middleware.WriteQuotaMiddleware(d.WriteQuota))
	}

	return router
}

// RegisterAdminWebSocketRoutes registers the live booking feed. The token
// comes from the query string.
func RegisterAdminWebSocketRoutes(rg *gin.RouterGroup, hub *ws.Hub, auth AdminAuthenticator) {
	rg.GET("/ws/bookings", middleware.AdminWebSocketAuthMiddleware(auth), func(c *gin.Context) {
		ws.ServeWebSocket(hub, c.Writer, c.Request, c.GetUint(middleware.ContextAdminID))
	})
}
