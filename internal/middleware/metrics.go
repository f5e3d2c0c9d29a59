package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openacademia/catalog-api/internal/service"
)

// Health and scrape endpoints would dominate the request histograms if observed.
var unobservedPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/ready":   {},
}

// Metrics records one observation per request, labelled with the gin route
// template so career and subject ids collapse into a bounded label set.
// Requests that matched no route share a single label.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, skip := unobservedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
