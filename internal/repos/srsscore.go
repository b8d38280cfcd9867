package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type SRSScoreRepo interface {
  Create(ctx context.Context, tx *gorm.DB, row *types.SRSScore) (*types.SRSScore, error)
  ListForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.SRSScore, error)
}

type srsScoreRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSRSScoreRepo(db *gorm.DB, baseLog *logger.Logger) SRSScoreRepo {
  repoLog := baseLog.With("repo", "SRSScoreRepo")
  return &srsScoreRepo{db: db, log: repoLog}
}

func (r *srsScoreRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SRSScore) (*types.SRSScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil, nil
  }
  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
    return nil, err
  }
  return row, nil
}

func (r *srsScoreRepo) ListForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.SRSScore, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.SRSScore
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("recorded_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
