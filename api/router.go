package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jacentio/lattice/internal/metrics"
)

// NewRouter returns the HTTP handler for svc.
func NewRouter(svc *Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for route, entityType := range Routes {
		r.GET(route, svc.listHandler(entityType))
	}

	return r
}

func (s *Service) listHandler(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := s.List(c.Request.Context(), entityType, c.Request.URL.Query())
		if err != nil {
			c.JSON(Status(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
