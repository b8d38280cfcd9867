package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type ThresholdHitRepo interface {
  UpsertForWindow(ctx context.Context, tx *gorm.DB, row *types.ThresholdHit) error
  LatestForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.ThresholdHit, error)
  DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error)
}

type thresholdHitRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewThresholdHitRepo(db *gorm.DB, baseLog *logger.Logger) ThresholdHitRepo {
  repoLog := baseLog.With("repo", "ThresholdHitRepo")
  return &thresholdHitRepo{db: db, log: repoLog}
}

// UpsertForWindow overwrites the row keyed by (patient, domain, window end) so
// re-running a check for the same window never duplicates rows.
func (r *thresholdHitRepo) UpsertForWindow(ctx context.Context, tx *gorm.DB, row *types.ThresholdHit) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }
  if row.ID == uuid.Nil {
    row.ID = uuid.New()
  }

  var existing types.ThresholdHit
  err := transaction.WithContext(ctx).
    Where("patient_id = ? AND domain = ? AND window_end = ?", row.PatientID, row.Domain, row.WindowEnd).
    First(&existing).Error
  if err == nil {
    return transaction.WithContext(ctx).
      Model(&existing).
      Updates(map[string]interface{}{
        "rp_total":   row.RPTotal,
        "met":        row.Met,
        "updated_at": time.Now(),
      }).Error
  }
  if err != gorm.ErrRecordNotFound {
    return err
  }
  return transaction.WithContext(ctx).Create(row).Error
}

func (r *thresholdHitRepo) LatestForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) ([]*types.ThresholdHit, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ThresholdHit
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("window_end DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *thresholdHitRepo) DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  res := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Delete(&types.ThresholdHit{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
