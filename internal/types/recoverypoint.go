package types

import (
  "time"
  "github.com/google/uuid"
)

// RecoveryPointEntry is one accepted point award. The ledger is append-only;
// rows are only ever removed by a full administrative reset of the patient.
type RecoveryPointEntry struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_rp_patient_created,priority:1;column:patient_id" json:"patient_id"`
  Patient       *Patient        `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  Category      Category        `gorm:"not null;column:category" json:"category"`
  Action        string          `gorm:"not null;column:action" json:"action"`
  Points        int             `gorm:"not null;column:points" json:"points"`
  CreatedAt     time.Time       `gorm:"not null;index:idx_rp_patient_created,priority:2" json:"created_at"`
}

func (RecoveryPointEntry) TableName() string {
  return "recovery_point_entry"
}
