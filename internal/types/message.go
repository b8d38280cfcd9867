package types

import (
  "time"
  "github.com/google/uuid"
)

type Message struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID   `gorm:"type:uuid;not null;index;column:patient_id" json:"patient_id"`
  Patient       *Patient    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  SenderID      uuid.UUID   `gorm:"type:uuid;not null;column:sender_id" json:"sender_id"`
  SenderRole    string      `gorm:"not null;column:sender_role" json:"sender_role"`
  Body          string      `gorm:"not null;column:body" json:"body"`
  ReadAt        *time.Time  `gorm:"column:read_at" json:"read_at,omitempty"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}

func (Message) TableName() string {
  return "message"
}
