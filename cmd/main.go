package main

import (
  "fmt"
  "os"

  "github.com/chatloop-org/chatloop-backend/internal/db"
  "github.com/chatloop-org/chatloop-backend/internal/handlers"
  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/middleware"
  "github.com/chatloop-org/chatloop-backend/internal/repos"
  "github.com/chatloop-org/chatloop-backend/internal/server"
  "github.com/chatloop-org/chatloop-backend/internal/services"
  "github.com/chatloop-org/chatloop-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Fatal error: Cannot connect to Postgres", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Fatal error: Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  conversationRepo := repos.NewConversationRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  completionService := services.NewOpenAIService(log)
  userService := services.NewUserService(thePG, log, userRepo, conversationRepo)
  chatService := services.NewChatService(thePG, log, conversationRepo, completionService)
  log.Info("Services Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  chatHandler := handlers.NewChatHandler(userService, chatService, logMode == "development")
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  requestLogMiddleware := middleware.NewRequestLogMiddleware(log)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    ChatHandler:          chatHandler,
    RequestLogMiddleware: requestLogMiddleware,
    ProviderConfigured:   completionService.Configured(),
    DevMode:              logMode == "development",
  })
  log.Info("Router Set Up From Main Successful :)")

  // Bind once; a port conflict is fatal rather than silently reassigned.
  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
    os.Exit(1)
  }
}
