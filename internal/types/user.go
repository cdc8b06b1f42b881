package types

import (
  "time"

  "github.com/google/uuid"
)

// User is a registered chat user. The public identifier handed back to the
// client at registration is UserToken, not the row ID. Users are never
// mutated or deleted once created.
type User struct {
  ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
  Name        string          `gorm:"uniqueIndex;not null;column:name" json:"name"`
  UserToken   string          `gorm:"uniqueIndex;not null;column:user_token" json:"userId"`

  CreatedAt   time.Time       `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string {
  return "user"
}
