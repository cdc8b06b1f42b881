package services

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/chatloop-org/chatloop-backend/internal/apperrors"
  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/repos"
  "github.com/chatloop-org/chatloop-backend/internal/types"
)

// ChatService runs one exchange: locate or build the user's conversation,
// append the user message, replay the full history against the completion
// provider, append the reply and persist the whole document.
type ChatService interface {
  Exchange(ctx context.Context, userToken, message string) (string, []types.Message, error)
  GetHistory(ctx context.Context, userToken string) ([]types.Message, error)
}

type chatService struct {
  db         *gorm.DB
  log        *logger.Logger
  convRepo   repos.ConversationRepo
  completion CompletionService
}

func NewChatService(db *gorm.DB, log *logger.Logger, convRepo repos.ConversationRepo, completion CompletionService) ChatService {
  serviceLog := log.With("service", "ChatService")
  return &chatService{
    db:         db,
    log:        serviceLog,
    convRepo:   convRepo,
    completion: completion,
  }
}

func (cs *chatService) Exchange(ctx context.Context, userToken, message string) (string, []types.Message, error) {
  cs.log.Info("Starting Exchange now...")

  //1) Validate inputs
  if strings.TrimSpace(userToken) == "" || strings.TrimSpace(message) == "" {
    cs.log.Warn("Exchange called with missing message or userId, cannot proceed further. Returning error.")
    return "", nil, apperrors.Validation("message and userId are required")
  }

  //2) Locate the conversation, or build an unsaved empty one. Nothing is
  //   persisted until the provider call has succeeded.
  conv, err := cs.convRepo.GetByUserToken(ctx, nil, userToken)
  if err != nil {
    return "", nil, err
  }
  if conv == nil {
    cs.log.Debug("No conversation found for user, starting a fresh one", "userId", userToken)
    conv = types.NewConversation(userToken)
  }
  msgs, err := conv.MessageLog()
  if err != nil {
    cs.log.Error("Stored message log is unreadable", "error", err)
    return "", nil, apperrors.Persistence("failed to decode conversation", err)
  }

  //3) Append the user's message in memory
  msgs = append(msgs, types.Message{Role: types.RoleUser, Content: message})

  //4) Replay the entire history against the provider. On failure the
  //   conversation is left untouched in the store; the user retries by
  //   resubmitting.
  reply, err := cs.completion.Complete(ctx, msgs)
  if err != nil {
    return "", nil, err
  }

  //5) Append the assistant's reply
  msgs = append(msgs, types.Message{Role: types.RoleAssistant, Content: reply})

  //6) Persist the full document
  if err := conv.SetMessageLog(msgs); err != nil {
    return "", nil, apperrors.Persistence("failed to encode conversation", err)
  }
  if _, err := cs.convRepo.Save(ctx, nil, conv); err != nil {
    return "", nil, err
  }

  //7) Return the reply and the full updated log
  cs.log.Info("Exchange completed successfully :)", "userId", userToken, "messages", len(msgs))
  return reply, msgs, nil
}

func (cs *chatService) GetHistory(ctx context.Context, userToken string) ([]types.Message, error) {
  conv, err := cs.convRepo.GetByUserToken(ctx, nil, userToken)
  if err != nil {
    return nil, err
  }
  if conv == nil {
    return nil, apperrors.NotFound("conversation not found")
  }
  msgs, err := conv.MessageLog()
  if err != nil {
    cs.log.Error("Stored message log is unreadable", "error", err)
    return nil, apperrors.Persistence("failed to decode conversation", err)
  }
  return msgs, nil
}
