package api

import (
	"net/http"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/config"
	"github.com/esatkurtul80/AuditPro-sub000/internal/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers 路由所需的全部控制器
type Controllers struct {
	Audit  *AuditController
	Action *ActionController
	Media  *MediaController
}

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, db *gorm.DB, hub *websocket.Hub, ctls Controllers) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(RateLimitMiddleware(float64(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// 快照订阅
	if hub != nil {
		router.GET("/ws", websocket.SnapshotHandler(hub))
	}

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		audits := v1.Group("/audits")
		{
			audits.GET("", ctls.Audit.List)
			audits.GET("/:id", ctls.Audit.Get)
			audits.GET("/:id/activity", ctls.Audit.Activity)
			audits.POST("/:id/complete", ctls.Audit.Complete)

			// 整改流程路由
			audits.POST("/:id/actions/submit", ctls.Action.Submit)
			audits.POST("/:id/actions/approve", ctls.Action.Approve)
			audits.POST("/:id/actions/reject", ctls.Action.Reject)
			audits.POST("/:id/actions/revert-rejection", ctls.Action.RevertRejection)
			audits.POST("/:id/actions/revert-approval", ctls.Action.RevertApproval)

			// 证据媒体路由
			audits.POST("/:id/evidence", ctls.Media.Upload)
			audits.DELETE("/:id/evidence", ctls.Media.Delete)
		}

		mediaGroup := v1.Group("/media")
		{
			mediaGroup.GET("/pending", ctls.Media.ListPending)
			mediaGroup.POST("/:media_id/uploaded", ctls.Media.MarkUploaded)
		}
	}

	// 未匹配路由返回 JSON 格式的 404
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}
