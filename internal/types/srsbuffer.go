package types

import (
  "fmt"
  "time"
  "github.com/google/uuid"
)

// SRSBuffer is the one-row-per-patient conversion state. Carried fields hold
// the point remainder not yet converted for a category (always below that
// category's quantum); buffer fields hold the fractional SRS credit already
// earned per domain (always within [0, max] for the domain).
type SRSBuffer struct {
  ID                    uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  PatientID             uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null;column:patient_id" json:"patient_id"`
  Patient               *Patient    `gorm:"constraint:OnDelete:CASCADE;foreignKey:PatientID;references:ID" json:"-"`
  MovementPointsCarried int         `gorm:"not null;default:0;column:movement_points_carried" json:"movement_points_carried"`
  LifestylePointsCarried int        `gorm:"not null;default:0;column:lifestyle_points_carried" json:"lifestyle_points_carried"`
  MindsetPointsCarried  int         `gorm:"not null;default:0;column:mindset_points_carried" json:"mindset_points_carried"`
  EducationPointsCarried int        `gorm:"not null;default:0;column:education_points_carried" json:"education_points_carried"`
  FunctionBuffer        float64     `gorm:"not null;default:0;column:function_buffer" json:"function_buffer"`
  PainBuffer            float64     `gorm:"not null;default:0;column:pain_buffer" json:"pain_buffer"`
  ConfidenceBuffer      float64     `gorm:"not null;default:0;column:confidence_buffer" json:"confidence_buffer"`
  BeliefsBuffer         float64     `gorm:"not null;default:0;column:beliefs_buffer" json:"beliefs_buffer"`
  CreatedAt             time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt             time.Time   `gorm:"not null" json:"updated_at"`
}

func (SRSBuffer) TableName() string {
  return "srs_buffer"
}

// Field access is an explicit switch per category/domain so an unmapped value
// is a hard error instead of a silently missing column.

func (b *SRSBuffer) CarriedFor(category Category) (int, error) {
  switch category {
  case CategoryMovement:
    return b.MovementPointsCarried, nil
  case CategoryLifestyle:
    return b.LifestylePointsCarried, nil
  case CategoryMindset:
    return b.MindsetPointsCarried, nil
  case CategoryEducation:
    return b.EducationPointsCarried, nil
  default:
    return 0, fmt.Errorf("category %q carries no points", category)
  }
}

func (b *SRSBuffer) SetCarriedFor(category Category, carried int) error {
  switch category {
  case CategoryMovement:
    b.MovementPointsCarried = carried
  case CategoryLifestyle:
    b.LifestylePointsCarried = carried
  case CategoryMindset:
    b.MindsetPointsCarried = carried
  case CategoryEducation:
    b.EducationPointsCarried = carried
  default:
    return fmt.Errorf("category %q carries no points", category)
  }
  return nil
}

func (b *SRSBuffer) BufferFor(domain Domain) (float64, error) {
  switch domain {
  case DomainFunction:
    return b.FunctionBuffer, nil
  case DomainPain:
    return b.PainBuffer, nil
  case DomainConfidence:
    return b.ConfidenceBuffer, nil
  case DomainBeliefs:
    return b.BeliefsBuffer, nil
  default:
    return 0, fmt.Errorf("unknown buffer domain %q", domain)
  }
}

func (b *SRSBuffer) SetBufferFor(domain Domain, value float64) error {
  switch domain {
  case DomainFunction:
    b.FunctionBuffer = value
  case DomainPain:
    b.PainBuffer = value
  case DomainConfidence:
    b.ConfidenceBuffer = value
  case DomainBeliefs:
    b.BeliefsBuffer = value
  default:
    return fmt.Errorf("unknown buffer domain %q", domain)
  }
  return nil
}

// TotalBufferCredit is the summed fractional credit across all four domains.
func (b *SRSBuffer) TotalBufferCredit() float64 {
  return b.FunctionBuffer + b.PainBuffer + b.ConfidenceBuffer + b.BeliefsBuffer
}
