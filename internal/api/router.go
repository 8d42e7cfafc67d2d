package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chatHandler "order-chatbot/internal/api/handlers/chat"
	"order-chatbot/internal/api/handlers/health"
	kitchenHandler "order-chatbot/internal/api/handlers/kitchen"
	menuHandler "order-chatbot/internal/api/handlers/menu"
	"order-chatbot/internal/api/middleware"
	"order-chatbot/internal/core/ai/ollama"
	"order-chatbot/internal/core/chat"
	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/infrastructure/store"
	"order-chatbot/internal/pkg/common"
)

const (
	// 超時設置：模型生成可能慢，給到 90 秒
	timeoutDuration = 90 * time.Second
	// 請求體大小限制 (1MB)，純文字對話不需要更多
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, mongoClient *mongo.Client, sessions store.SessionStore) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化儲存與服務
	menuStore := store.NewMenuStore(mongoClient, &cfg.Mongo)
	orderStore := store.NewOrderStore(mongoClient, &cfg.Mongo)
	oracle := ollama.NewClient(&cfg.Ollama)
	orchestrator := chat.NewOrchestrator(oracle, chat.PhraseClassifier{}, menuStore, orderStore)

	common.LogInfo("Services initialized",
		zap.String("model", cfg.Ollama.Model),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Duration("oracle_timeout", cfg.Ollama.Timeout),
	)

	// 全局中間件：設置請求超時並注入配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(mongoClient, sessions))
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		chatH := chatHandler.NewHandler(orchestrator, sessions)
		menuH := menuHandler.NewHandler(menuStore)
		kitchenH := kitchenHandler.NewHandler(orderStore)

		// 對話
		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("", chatH.HandleChat)
			chatGroup.POST("/reset", chatH.HandleReset)
		}

		// 菜單管理
		menuGroup := api.Group("/menu")
		{
			menuGroup.GET("", menuH.HandleList)
			menuGroup.PUT("", menuH.HandleReplace)
			menuGroup.POST("/items", menuH.HandleUpsert)
			menuGroup.DELETE("/items/:name", menuH.HandleDelete)
		}

		// 廚房顯示
		orderGroup := api.Group("/orders")
		{
			orderGroup.GET("", kitchenH.HandleList)
			orderGroup.GET("/:id", kitchenH.HandleGet)
			orderGroup.PATCH("/:id/status", kitchenH.HandleUpdateStatus)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
