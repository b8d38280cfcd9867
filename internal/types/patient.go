package types

import (
  "time"
  "github.com/google/uuid"
)

type Patient struct {
  ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email             string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password          string          `gorm:"not null;column:password" json:"-"`
  FirstName         string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName          string          `gorm:"not null;column:last_name" json:"last_name"`
  AvatarPath        string          `gorm:"column:avatar_path" json:"-"`
  AvatarURL         string          `gorm:"column:avatar_url" json:"avatar_url"`
  Active            bool            `gorm:"not null;column:active" json:"active"`
  EnrolledAt        time.Time       `gorm:"not null;column:enrolled_at" json:"enrolled_at"`
  CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (Patient) TableName() string {
  return "patient"
}
