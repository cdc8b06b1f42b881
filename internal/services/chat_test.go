package services

import (
  "context"
  "errors"
  "testing"

  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/chatloop-org/chatloop-backend/internal/apperrors"
  "github.com/chatloop-org/chatloop-backend/internal/logger"
  "github.com/chatloop-org/chatloop-backend/internal/types"
)

// fakeConversationRepo keeps conversation documents in memory, returning
// copies so callers cannot mutate the stored state without Save.
type fakeConversationRepo struct {
  byToken map[string]*types.Conversation
  saves   int
}

func newFakeConversationRepo() *fakeConversationRepo {
  return &fakeConversationRepo{byToken: map[string]*types.Conversation{}}
}

func copyConversation(c *types.Conversation) *types.Conversation {
  dup := *c
  dup.Messages = datatypes.JSON(append([]byte(nil), c.Messages...))
  return &dup
}

func (f *fakeConversationRepo) GetByUserToken(ctx context.Context, tx *gorm.DB, userToken string) (*types.Conversation, error) {
  conv, ok := f.byToken[userToken]
  if !ok {
    return nil, nil
  }
  return copyConversation(conv), nil
}

func (f *fakeConversationRepo) GetRecentByUserToken(ctx context.Context, tx *gorm.DB, userToken string, limit int) ([]*types.Conversation, error) {
  conv, ok := f.byToken[userToken]
  if !ok {
    return []*types.Conversation{}, nil
  }
  return []*types.Conversation{copyConversation(conv)}, nil
}

func (f *fakeConversationRepo) Create(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error) {
  f.byToken[conv.UserToken] = copyConversation(conv)
  f.saves++
  return conv, nil
}

func (f *fakeConversationRepo) Save(ctx context.Context, tx *gorm.DB, conv *types.Conversation) (*types.Conversation, error) {
  f.byToken[conv.UserToken] = copyConversation(conv)
  f.saves++
  return conv, nil
}

// fakeCompletion answers with a canned reply or a canned error.
type fakeCompletion struct {
  reply string
  err   error
  calls int
}

func (f *fakeCompletion) Configured() bool {
  return f.err == nil
}

func (f *fakeCompletion) Complete(ctx context.Context, messages []types.Message) (string, error) {
  f.calls++
  if f.err != nil {
    return "", f.err
  }
  return f.reply, nil
}

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("failed to build logger: %v", err)
  }
  return log
}

func TestExchangeFreshUserAppendsTwoMessages(t *testing.T) {
  repo := newFakeConversationRepo()
  completion := &fakeCompletion{reply: "hi there"}
  svc := NewChatService(nil, newTestLogger(t), repo, completion)

  reply, msgs, err := svc.Exchange(context.Background(), "user-1", "hello")
  if err != nil {
    t.Fatalf("Exchange failed: %v", err)
  }
  if reply != "hi there" {
    t.Fatalf("expected reply %q, got %q", "hi there", reply)
  }
  if len(msgs) != 2 {
    t.Fatalf("expected 2 messages, got %d", len(msgs))
  }
  if msgs[0].Role != types.RoleUser || msgs[0].Content != "hello" {
    t.Fatalf("unexpected first message: %+v", msgs[0])
  }
  if msgs[1].Role != types.RoleAssistant || msgs[1].Content != "hi there" {
    t.Fatalf("unexpected second message: %+v", msgs[1])
  }
  if len(repo.byToken) != 1 {
    t.Fatalf("expected exactly one stored conversation, got %d", len(repo.byToken))
  }
}

func TestExchangeTwiceKeepsFullOrderedHistory(t *testing.T) {
  repo := newFakeConversationRepo()
  completion := &fakeCompletion{reply: "reply"}
  svc := NewChatService(nil, newTestLogger(t), repo, completion)

  if _, _, err := svc.Exchange(context.Background(), "user-1", "first"); err != nil {
    t.Fatalf("first Exchange failed: %v", err)
  }
  _, msgs, err := svc.Exchange(context.Background(), "user-1", "second")
  if err != nil {
    t.Fatalf("second Exchange failed: %v", err)
  }
  if len(msgs) != 4 {
    t.Fatalf("expected 4 messages, got %d", len(msgs))
  }
  wantContents := []string{"first", "reply", "second", "reply"}
  wantRoles := []string{types.RoleUser, types.RoleAssistant, types.RoleUser, types.RoleAssistant}
  for i := range msgs {
    if msgs[i].Role != wantRoles[i] || msgs[i].Content != wantContents[i] {
      t.Fatalf("message %d = %+v, want role %q content %q", i, msgs[i], wantRoles[i], wantContents[i])
    }
  }
  // The provider must have seen the full history on the second turn.
  if completion.calls != 2 {
    t.Fatalf("expected 2 provider calls, got %d", completion.calls)
  }
}

func TestExchangeProviderFailureLeavesStoreUntouched(t *testing.T) {
  repo := newFakeConversationRepo()
  completion := &fakeCompletion{err: apperrors.Provider("completion provider call failed", errors.New("boom"))}
  svc := NewChatService(nil, newTestLogger(t), repo, completion)

  _, _, err := svc.Exchange(context.Background(), "user-1", "hello")
  if err == nil {
    t.Fatal("expected Exchange to fail")
  }
  if !apperrors.IsKind(err, apperrors.KindProvider) {
    t.Fatalf("expected a provider error, got %v", err)
  }
  if repo.saves != 0 {
    t.Fatalf("expected no saves on provider failure, got %d", repo.saves)
  }
  if len(repo.byToken) != 0 {
    t.Fatalf("expected store to stay empty, got %d conversations", len(repo.byToken))
  }
}

func TestExchangeUnconfiguredProvider(t *testing.T) {
  repo := newFakeConversationRepo()
  completion := &fakeCompletion{err: apperrors.Configuration("chat completion is not configured (missing API key)")}
  svc := NewChatService(nil, newTestLogger(t), repo, completion)

  _, _, err := svc.Exchange(context.Background(), "user-1", "hello")
  if !apperrors.IsKind(err, apperrors.KindConfiguration) {
    t.Fatalf("expected a configuration error, got %v", err)
  }
  if repo.saves != 0 {
    t.Fatalf("expected no saves, got %d", repo.saves)
  }
}

func TestExchangeValidatesInputs(t *testing.T) {
  repo := newFakeConversationRepo()
  svc := NewChatService(nil, newTestLogger(t), repo, &fakeCompletion{reply: "x"})

  cases := []struct {
    name      string
    userToken string
    message   string
  }{
    {"missing message", "user-1", ""},
    {"missing userId", "", "hello"},
    {"blank message", "user-1", "   "},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, _, err := svc.Exchange(context.Background(), tc.userToken, tc.message)
      if !apperrors.IsKind(err, apperrors.KindValidation) {
        t.Fatalf("expected a validation error, got %v", err)
      }
    })
  }
}

func TestGetHistory(t *testing.T) {
  repo := newFakeConversationRepo()
  svc := NewChatService(nil, newTestLogger(t), repo, &fakeCompletion{reply: "pong"})

  if _, err := svc.GetHistory(context.Background(), "user-1"); !apperrors.IsKind(err, apperrors.KindNotFound) {
    t.Fatalf("expected not found before any exchange, got %v", err)
  }

  if _, _, err := svc.Exchange(context.Background(), "user-1", "ping"); err != nil {
    t.Fatalf("Exchange failed: %v", err)
  }
  msgs, err := svc.GetHistory(context.Background(), "user-1")
  if err != nil {
    t.Fatalf("GetHistory failed: %v", err)
  }
  if len(msgs) != 2 {
    t.Fatalf("expected 2 messages, got %d", len(msgs))
  }
  if msgs[0].Content != "ping" || msgs[1].Content != "pong" {
    t.Fatalf("unexpected history: %+v", msgs)
  }
}
