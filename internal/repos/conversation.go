package repos

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/chatloop-org/chatloop-backend/internal/apperrors"
    "github.com/chatloop-org/chatloop-backend/internal/logger"
    "github.com/chatloop-org/chatloop-backend/internal/types"
)

type ConversationRepo interface {
    // GetByUserToken returns (nil, nil) when the user has no conversation
    // yet; absence is not an error at this layer.
    GetByUserToken(ctx context.Context, tx *gorm.DB, userToken string) (*types.Conversation, error)
    GetRecentByUserToken(ctx context.Context, tx *gorm.DB, userToken string, limit int) ([]*types.Conversation, error)
    Create(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error)
    // Save overwrites the full conversation document and stamps
    // last_updated. Last writer wins.
    Save(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error)
}

type conversationRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
    return &conversationRepo{
        db:  db,
        log: baseLog.With("repo", "ConversationRepo"),
    }
}

func (cr *conversationRepo) GetByUserToken(ctx context.Context, tx *gorm.DB, userToken string) (*types.Conversation, error) {
    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }
    var conv types.Conversation
    if err := transaction.WithContext(ctx).
        Where("user_token = ?", userToken).
        First(&conv).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, nil
        }
        cr.log.Error("Failed to get conversation by user token", "error", err)
        return nil, apperrors.Persistence("failed to load conversation", err)
    }
    return &conv, nil
}

func (cr *conversationRepo) GetRecentByUserToken(ctx context.Context, tx *gorm.DB, userToken string, limit int) ([]*types.Conversation, error) {
    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }
    var convs []*types.Conversation
    if err := transaction.WithContext(ctx).
        Where("user_token = ?", userToken).
        Order("created_at DESC").
        Limit(limit).
        Find(&convs).Error; err != nil {
        cr.log.Error("Failed to get recent conversations", "error", err)
        return nil, apperrors.Persistence("failed to load conversations", err)
    }
    return convs, nil
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error) {
    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }
    if conv.ID == uuid.Nil {
        conv.ID = uuid.New()
    }
    conv.LastUpdated = time.Now()
    if err := transaction.WithContext(ctx).Create(conv).Error; err != nil {
        cr.log.Error("Failed to create conversation", "error", err)
        return nil, apperrors.Persistence("failed to create conversation", err)
    }
    return conv, nil
}

func (cr *conversationRepo) Save(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error) {
    transaction := tx
    if transaction == nil {
        transaction = cr.db
    }
    conv.LastUpdated = time.Now()
    if conv.ID == uuid.Nil {
        // First save of a lazily built conversation.
        return cr.Create(ctx, transaction, conv)
    }
    if err := transaction.WithContext(ctx).
        Model(&types.Conversation{}).
        Where("id = ?", conv.ID).
        Updates(map[string]interface{}{
            "messages":     conv.Messages,
            "last_updated": conv.LastUpdated,
        }).Error; err != nil {
        cr.log.Error("Failed to save conversation", "error", err)
        return nil, apperrors.Persistence("failed to save conversation", err)
    }
    return conv, nil
}
