package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter assembles the gin engine with the API routes.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(logger), gin.Recovery(), CORS())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		api.GET("/libraries", h.GetLibraries)
		api.GET("/libraries/:id/qr", h.GetLibraryQR)

		api.GET("/bookings", h.GetBookings)
		api.POST("/bookings", h.CreateBooking)

		api.POST("/scan", h.Scan)

		admin := api.Group("/admin")
		admin.POST("/login", h.AdminLogin)
		admin.POST("/release", h.AdminRelease)

		api.GET("/student", h.GetStudent)
		api.PUT("/student", h.PutStudent)
	}

	return r
}
