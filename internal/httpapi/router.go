// Package httpapi serves the candle snapshot API.
package httpapi

import (
	"net/http"
	"time"

	"ohlcproxy/internal/query"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with the history, health and metrics
// endpoints.
func NewRouter(svc *query.Service, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	h := &HistoryHandler{svc: svc, logger: logger}
	r.GET("/history", h.GetHistory)
	r.GET("/healthz", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UnixMilli()})
}
