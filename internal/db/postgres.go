package db

import (
  "fmt"
  "time"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/types"
  "github.com/chatloop-org/chatloop-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

// NewPostgresService connects to the database named by DATABASE_URL. A
// missing URL is fatal for the caller; connection failures are retried a
// bounded number of times before giving up.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Get and Set Environment Variables
  log.Info("Attempting to load environment variables for Postgres now...")
  databaseURL := utils.GetEnv("DATABASE_URL", "", log)
  if databaseURL == "" {
    log.Error("DATABASE_URL is not set, cannot start without a database")
    return nil, fmt.Errorf("DATABASE_URL environment variable is required")
  }
  connectAttempts := utils.GetEnvAsInt("DB_CONNECT_ATTEMPTS", 3, log)
  backoffSeconds := utils.GetEnvAsInt("DB_CONNECT_BACKOFF_SECONDS", 2, log)
  log.Info("Environment variables loaded for Postgres :)")

  //2) Attempt DB Connection (bounded retry)
  log.Info("Attempting to connect to Postgres DB now...")
  var db *gorm.DB
  var err error
  for attempt := 1; attempt <= connectAttempts; attempt++ {
    db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
      DisableForeignKeyConstraintWhenMigrating: true,
    })
    if err == nil {
      break
    }
    log.Warn("Failed to connect to Postgres DB", "attempt", attempt, "maxAttempts", connectAttempts, "error", err)
    if attempt < connectAttempts {
      time.Sleep(time.Duration(backoffSeconds) * time.Second)
    }
  }
  if err != nil {
    log.Error("Giving up connecting to Postgres DB", "attempts", connectAttempts, "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres DB after %d attempts: %w", connectAttempts, err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  //3) Enable uuid-ossp Extension
  log.Debug("Attempting to enable uuid-ossp extension now...")
  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension :(", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled or already exists :)")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.Conversation{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed for Base Tables :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully for Base Tables :)")

  // The unique indexes on user.name, user.user_token and
  // conversation.user_token come from the model tags; one conversation per
  // user is therefore enforced at the store, not just assumed.
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
