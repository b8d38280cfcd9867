package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type IntakeForm struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null;column:patient_id" json:"patient_id"`
  Patient       *Patient        `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  Answers       datatypes.JSON  `gorm:"type:jsonb;column:answers" json:"answers"`
  CompletedAt   *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (IntakeForm) TableName() string {
  return "intake_form"
}
