package server

import (
  "fmt"
  "net/http"

  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/chatloop-org/chatloop-backend/internal/handlers"
  "github.com/chatloop-org/chatloop-backend/internal/middleware"
)

type RouterConfig struct {
  ChatHandler           *handlers.ChatHandler
  RequestLogMiddleware  *middleware.RequestLogMiddleware
  ProviderConfigured    bool
  DevMode               bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()

  //-----------------------------------------
  // Recovery: unhandled panics become the uniform JSON error body.
  // The panic detail only leaves the process in development mode.
  //-----------------------------------------
  router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
    body := gin.H{"error": "internal server error"}
    if cfg.DevMode {
      body["details"] = fmt.Sprint(recovered)
    }
    c.AbortWithStatusJSON(http.StatusInternalServerError, body)
  }))

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
        "http://localhost:3000",
        "http://localhost:5173",
    },
    AllowMethods:     []string{"GET","POST","OPTIONS"},
    AllowHeaders:     []string{"Authorization","Content-Type","X-Requested-With"},
    AllowCredentials: true,
  }))

  if cfg.RequestLogMiddleware != nil {
    router.Use(cfg.RequestLogMiddleware.LogRequests())
  }

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/", handlers.Root(cfg.ProviderConfigured))
  router.GET("/api/health", handlers.Healthz)

  //-----------------------------------------
  // Chat Routes
  //-----------------------------------------
  api := router.Group("/api/chat")
  {
    api.POST("/register", cfg.ChatHandler.Register)
    api.POST("/login", cfg.ChatHandler.Login)
    api.GET("/history/:userId", cfg.ChatHandler.GetConversationHistory)
  }
  router.POST("/api/chat", cfg.ChatHandler.Chat)

  return router
}
