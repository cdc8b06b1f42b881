package types

import (
  "encoding/json"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  RoleUser      = "user"
  RoleAssistant = "assistant"
)

// Message is a single entry in a conversation log.
type Message struct {
  Role      string      `json:"role"`
  Content   string      `json:"content"`
}

// Conversation holds the full message log for one user as a single JSONB
// document. Saving overwrites the whole document, so the last writer wins.
// The unique index on user_token keeps it to one conversation per user.
type Conversation struct {
  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
  UserToken   string            `gorm:"uniqueIndex;not null;column:user_token" json:"userId"`
  Messages    datatypes.JSON    `gorm:"column:messages" json:"messages"`
  LastUpdated time.Time         `gorm:"column:last_updated" json:"lastUpdated"`

  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Conversation) TableName() string {
  return "conversation"
}

// NewConversation builds an unsaved conversation with an empty message log.
func NewConversation(userToken string) *Conversation {
  return &Conversation{
    UserToken: userToken,
    Messages:  datatypes.JSON([]byte("[]")),
  }
}

// MessageLog decodes the stored document into an ordered message slice.
func (c *Conversation) MessageLog() ([]Message, error) {
  if len(c.Messages) == 0 {
    return []Message{}, nil
  }
  var msgs []Message
  if err := json.Unmarshal(c.Messages, &msgs); err != nil {
    return nil, err
  }
  if msgs == nil {
    msgs = []Message{}
  }
  return msgs, nil
}

// SetMessageLog re-encodes the full ordered log back into the document.
func (c *Conversation) SetMessageLog(msgs []Message) error {
  raw, err := json.Marshal(msgs)
  if err != nil {
    return err
  }
  c.Messages = datatypes.JSON(raw)
  return nil
}
