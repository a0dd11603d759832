package http_api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.POST("/api/v1/paystack/initialize", s.initialize)
	s.router.GET("/api/v1/paystack/verify", s.verifyRedirect)
	s.router.POST("/api/v1/paystack/webhook", s.webhook)
	s.router.GET("/api/v1/entitlement", s.entitlement)

	admin := s.router.Group("/api/v1/admin", s.adminAuth())
	admin.GET("/payments", s.listPayments)
	admin.POST("/entitlement", s.setEntitlement)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
