package handler

import (
	"net/http"

	"github.com/vervelak/lastwar-alliance-manager/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	// AllowOrigins enables CORS for the listed origins. Empty disables it.
	AllowOrigins []string
	// CSRF guards the console routes when set.
	CSRF    gin.HandlerFunc
	Metrics bool
}

func NewRouter(h *AwardsHandler, opt RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(), middleware.SecurityHeaders())
	if len(opt.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opt.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}
	r.SetHTMLTemplate(Templates())
	r.StaticFS("/static", Static())

	r.GET("/healthz", Healthz)
	if opt.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	console := r.Group("/awards")
	if opt.CSRF != nil {
		console.Use(opt.CSRF)
	}
	guard := h.sessions.Require(h.store, "/awards")
	console.GET("", h.Page)
	console.POST("", guard, h.Action)
	console.GET("/history.xlsx", guard, h.Export)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/awards") })
	return r
}
