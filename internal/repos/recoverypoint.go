package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
)

type RecoveryPointRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entry *types.RecoveryPointEntry) (*types.RecoveryPointEntry, error)
  SumForCategorySince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, category types.Category, since time.Time) (int, error)
  SumForActionSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, category types.Category, action string, since time.Time) (int, error)
  BreakdownSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time) (map[types.Category]int, error)
  DailyTotalsSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time) (map[string]int, error)
  RecentForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.RecoveryPointEntry, error)
  DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error)
}

type recoveryPointRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecoveryPointRepo(db *gorm.DB, baseLog *logger.Logger) RecoveryPointRepo {
  repoLog := baseLog.With("repo", "RecoveryPointRepo")
  return &recoveryPointRepo{db: db, log: repoLog}
}

func (r *recoveryPointRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.RecoveryPointEntry) (*types.RecoveryPointEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if entry == nil {
    return nil, nil
  }
  if entry.ID == uuid.Nil {
    entry.ID = uuid.New()
  }

  if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
    return nil, err
  }
  return entry, nil
}

func (r *recoveryPointRepo) SumForCategorySince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, category types.Category, since time.Time) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var total int64
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryPointEntry{}).
    Where("patient_id = ? AND category = ? AND created_at >= ?", patientID, category, since).
    Select("COALESCE(SUM(points), 0)").
    Scan(&total).Error; err != nil {
    return 0, err
  }
  return int(total), nil
}

func (r *recoveryPointRepo) SumForActionSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, category types.Category, action string, since time.Time) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var total int64
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryPointEntry{}).
    Where("patient_id = ? AND category = ? AND action = ? AND created_at >= ?", patientID, category, action, since).
    Select("COALESCE(SUM(points), 0)").
    Scan(&total).Error; err != nil {
    return 0, err
  }
  return int(total), nil
}

func (r *recoveryPointRepo) BreakdownSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time) (map[types.Category]int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []struct {
    Category types.Category
    Total    int64
  }
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryPointEntry{}).
    Where("patient_id = ? AND created_at >= ?", patientID, since).
    Select("category, COALESCE(SUM(points), 0) AS total").
    Group("category").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  out := make(map[types.Category]int, len(rows))
  for _, row := range rows {
    out[row.Category] = int(row.Total)
  }
  return out, nil
}

func (r *recoveryPointRepo) DailyTotalsSince(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, since time.Time) (map[string]int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var rows []struct {
    CreatedAt time.Time
    Points    int
  }
  // Grouped in Go rather than with DATE() so the day boundary is the server's
  // local calendar day on both postgres and the sqlite test driver.
  if err := transaction.WithContext(ctx).
    Model(&types.RecoveryPointEntry{}).
    Where("patient_id = ? AND created_at >= ?", patientID, since).
    Select("created_at, points").
    Scan(&rows).Error; err != nil {
    return nil, err
  }

  out := make(map[string]int, len(rows))
  for _, row := range rows {
    day := row.CreatedAt.Local().Format("2006-01-02")
    out[day] += row.Points
  }
  return out, nil
}

func (r *recoveryPointRepo) RecentForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID, limit int) ([]*types.RecoveryPointEntry, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if limit <= 0 {
    limit = 20
  }

  var results []*types.RecoveryPointEntry
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *recoveryPointRepo) DeleteForPatient(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  res := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Delete(&types.RecoveryPointEntry{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
