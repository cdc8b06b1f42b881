package services

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/chatloop-org/chatloop-backend/internal/apperrors"
  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/repos"
  "github.com/chatloop-org/chatloop-backend/internal/types"
  "github.com/chatloop-org/chatloop-backend/internal/utils"
)

const recentConversationLimit = 20

type UserService interface {
  Register(ctx context.Context, name string) (*types.User, error)
  // Login looks a user up by the exact (name, userId) pair. The token is
  // client-supplied and acts as the credential, which is faithful to the
  // original design and deliberately not hardened here.
  Login(ctx context.Context, name, userToken string) (*types.User, []*types.Conversation, error)
}

type userService struct {
  db               *gorm.DB
  log              *logger.Logger
  userRepo         repos.UserRepo
  conversationRepo repos.ConversationRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, conversationRepo repos.ConversationRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{
    db:               db,
    log:              serviceLog,
    userRepo:         userRepo,
    conversationRepo: conversationRepo,
  }
}

func (us *userService) Register(ctx context.Context, name string) (*types.User, error) {
  us.log.Info("Starting Register User now...")

  //1) Validate the trimmed name
  trimmed := strings.TrimSpace(name)
  if trimmed == "" {
    us.log.Warn("Register called with an empty name, cannot proceed further. Returning error.")
    return nil, apperrors.Validation("name is required and must be a non-empty string")
  }

  //2) Reject duplicates (case-sensitive exact match)
  exists, err := us.userRepo.NameExists(ctx, nil, trimmed)
  if err != nil {
    return nil, err
  }
  if exists {
    us.log.Warn("Register called with a name that already exists", "name", trimmed)
    return nil, apperrors.DuplicateUser("a user with this name already exists")
  }

  //3) Generate the public token and persist
  user := &types.User{
    Name:      trimmed,
    UserToken: utils.GenerateUserToken(),
  }
  created, err := us.userRepo.Create(ctx, nil, user)
  if err != nil {
    return nil, err
  }
  us.log.Info("Successfully registered user :)", "name", created.Name)
  return created, nil
}

func (us *userService) Login(ctx context.Context, name, userToken string) (*types.User, []*types.Conversation, error) {
  us.log.Info("Starting Login now...")

  user, err := us.userRepo.GetByNameAndToken(ctx, nil, name, userToken)
  if err != nil {
    return nil, nil, err
  }

  conversations, err := us.conversationRepo.GetRecentByUserToken(ctx, nil, user.UserToken, recentConversationLimit)
  if err != nil {
    return nil, nil, err
  }
  if conversations == nil {
    conversations = []*types.Conversation{}
  }
  us.log.Info("Successfully logged user in :)", "name", user.Name, "conversations", len(conversations))
  return user, conversations, nil
}
