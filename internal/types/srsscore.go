package types

import (
  "time"
  "github.com/google/uuid"
)

// SRSScore is a clinician-entered composite Signature Recovery Score reading
// (0-11). Buffer credit is reported alongside but only folded into the score
// by a clinician during re-assessment.
type SRSScore struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID   `gorm:"type:uuid;not null;index;column:patient_id" json:"patient_id"`
  Patient       *Patient    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  Score         float64     `gorm:"not null;column:score" json:"score"`
  EnteredBy     string      `gorm:"not null;column:entered_by" json:"entered_by"`
  Notes         string      `gorm:"column:notes" json:"notes,omitempty"`
  RecordedAt    time.Time   `gorm:"not null;column:recorded_at" json:"recorded_at"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}

func (SRSScore) TableName() string {
  return "srs_score"
}
