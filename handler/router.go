package handler

import (
	"github.com/gin-gonic/gin"

	"llamaid/config"
)

// NewRouter builds the gin engine serving h. When h.Metrics is set, /metrics is exposed.
func NewRouter(h *HTTPHandler, corsCfg config.CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(accessLogMiddleware())
	r.Use(recoveryMiddleware())
	r.Use(corsMiddleware(corsCfg))

	r.POST("/ask", h.Ask)
	r.POST("/sbar", h.SBAR)
	r.GET("/presets", h.Presets)
	r.GET("/healthz", h.Healthz)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}
	return r
}
