package repos

import (
    "context"
    "errors"

    "gorm.io/gorm"

    "github.com/chatloop-org/chatloop-backend/internal/apperrors"
    "github.com/chatloop-org/chatloop-backend/internal/logger"
    "github.com/chatloop-org/chatloop-backend/internal/types"
)

type UserRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)

    // READ
    NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
    GetByNameAndToken(ctx context.Context, tx *gorm.DB, name, userToken string) (*types.User, error)
}

type userRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
    // Add a repo field for consistent logs
    repoLog := baseLog.With("repo", "UserRepo")
    return &userRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }
    if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
        ur.log.Error("Failed to create user", "error", err)
        return nil, apperrors.Persistence("failed to register user", err)
    }
    ur.log.Info("Successfully created user", "name", user.Name)
    return user, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ur *userRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }
    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.User{}).
        Where("name = ?", name).
        Count(&count).Error; err != nil {
        ur.log.Error("Failed to check if user name exists", "name", name, "error", err)
        return false, apperrors.Persistence("failed to look up user name", err)
    }
    return count > 0, nil
}

func (ur *userRepo) GetByNameAndToken(ctx context.Context, tx *gorm.DB, name, userToken string) (*types.User, error) {
    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }
    var user types.User
    if err := transaction.WithContext(ctx).
        Where("name = ? AND user_token = ?", name, userToken).
        First(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, apperrors.NotFound("user not found")
        }
        ur.log.Error("Failed to get user by name and token", "name", name, "error", err)
        return nil, apperrors.Persistence("failed to look up user", err)
    }
    return &user, nil
}
