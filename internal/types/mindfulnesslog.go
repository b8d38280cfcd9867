package types

import (
  "time"
  "github.com/google/uuid"
)

// MindfulnessLog marks a completed mindfulness session. At most one row exists
// per patient per calendar day (the Mindset once-per-day rule); the mood label
// is attached later by the patient if they choose to.
type MindfulnessLog struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_mindfulness_patient_day,unique,priority:1;column:patient_id" json:"patient_id"`
  Patient       *Patient    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  LogDate       string      `gorm:"not null;index:idx_mindfulness_patient_day,unique,priority:2;column:log_date" json:"log_date"`
  Mood          string      `gorm:"column:mood" json:"mood,omitempty"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (MindfulnessLog) TableName() string {
  return "mindfulness_log"
}

// MindfulnessLogDate formats a timestamp as the calendar-day key used by the
// unique (patient, day) index.
func MindfulnessLogDate(t time.Time) string {
  return t.Format("2006-01-02")
}
