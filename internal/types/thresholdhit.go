package types

import (
  "time"
  "github.com/google/uuid"
)

// ThresholdHit records one evaluation of the 28-day rolling point total for a
// patient/domain pair. Rows are upserted per evaluation window so re-running
// the check is safe.
type ThresholdHit struct {
  ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_threshold_patient_domain,priority:1;column:patient_id" json:"patient_id"`
  Patient       *Patient    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  Domain        Domain      `gorm:"not null;index:idx_threshold_patient_domain,priority:2;column:domain" json:"domain"`
  WindowEnd     time.Time   `gorm:"not null;column:window_end" json:"window_end"`
  RPTotal       int         `gorm:"not null;column:rp_total" json:"rp_total"`
  Met           bool        `gorm:"not null;column:met" json:"met"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (ThresholdHit) TableName() string {
  return "threshold_hit"
}
