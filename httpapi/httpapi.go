// Package httpapi exposes the guarded document operations over HTTP. It is a
// thin layer: JSON in, JSON out, with authentication middleware attaching the
// principal and all authorization delegated to the service layer.
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/service"
)

// Config carries the handler's transport settings.
type Config struct {
	// AllowedOrigins for CORS. Empty disables cross-origin requests.
	AllowedOrigins []string
}

// Handler builds the API's HTTP handler.
func Handler(svc *service.Service, verifier TokenVerifier, logger logging.Logger, cfg Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", authenticate(verifier))
	h := handlers{svc: svc}

	api.POST("/orders", h.createOrder)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.PUT("/orders/:id", h.updateOrder)
	api.DELETE("/orders/:id", h.deleteOrder)

	api.POST("/users/:uid", h.createProfile)
	api.GET("/users/:uid", h.getProfile)
	api.PUT("/users/:uid", h.updateProfile)

	return router
}

// renderError writes the public view of an error: status from its code, body
// limited to the error's public message. Internal detail stays in the logs.
func renderError(c *gin.Context, err error) {
	logging.Track(c.Request.Context(), "error", err.Error())
	c.JSON(errors.HTTPStatusCode(err), gin.H{"error": errors.PublicMessage(err)})
}
