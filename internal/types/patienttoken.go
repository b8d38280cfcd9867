package types

import (
  "time"
  "github.com/google/uuid"
)

type PatientToken struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID       `gorm:"index;not null;column:patient_id" json:"patient_id"`
  Patient       *Patient        `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  RefreshToken  string          `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
  ExpiresAt     time.Time       `gorm:"column:expires_at" json:"expires_at"`
  CreatedAt     time.Time       `gorm:"not null"`
  UpdatedAt     time.Time       `gorm:"not null"`
}

func (PatientToken) TableName() string {
  return "patient_token"
}
