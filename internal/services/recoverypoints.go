package services

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "go.opentelemetry.io/otel"
  "go.opentelemetry.io/otel/attribute"
  "gorm.io/gorm"
  "github.com/backtolife/backtolife-backend/internal/catalog"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/repos"
  "github.com/backtolife/backtolife-backend/internal/types"
)

// RecoveryPointsService is the engagement engine: it accepts point awards
// against daily and weekly caps, converts accepted points into bounded SRS
// buffer credit, flags 28-day thresholds for clinical re-assessment and
// assembles the patient dashboard summary.
type RecoveryPointsService interface {
  Award(ctx context.Context, patientID uuid.UUID, category types.Category, action string, requestedPoints int) (*types.AwardResult, error)
  Catalog() []catalog.Entry
  CheckThresholds(ctx context.Context, patientID uuid.UUID) (map[types.Domain]types.ThresholdResult, error)
  GetPatientSummary(ctx context.Context, patientID uuid.UUID) (*types.Summary, error)
  GetWeekly(ctx context.Context, patientID uuid.UUID) (*types.WeeklySummary, error)
  GetBuffer(ctx context.Context, patientID uuid.UUID) (*types.SRSBuffer, error)
  GetActivity(ctx context.Context, patientID uuid.UUID, limit int) ([]*types.RecoveryPointEntry, error)
  Reset(ctx context.Context, patientID uuid.UUID) (*types.ResetResult, error)
  Initialize(ctx context.Context, patientID uuid.UUID) (*types.SRSBuffer, error)
  LogMood(ctx context.Context, patientID uuid.UUID, mood string) error
}

type recoveryPointsService struct {
  db              *gorm.DB
  log             *logger.Logger
  rpRepo          repos.RecoveryPointRepo
  bufferRepo      repos.SRSBufferRepo
  thresholdRepo   repos.ThresholdHitRepo
  mindfulnessRepo repos.MindfulnessLogRepo
  cat             *catalog.Catalog
  cache           SummaryCache
}

func NewRecoveryPointsService(
  db *gorm.DB,
  log *logger.Logger,
  rpRepo repos.RecoveryPointRepo,
  bufferRepo repos.SRSBufferRepo,
  thresholdRepo repos.ThresholdHitRepo,
  mindfulnessRepo repos.MindfulnessLogRepo,
  cat *catalog.Catalog,
  cache SummaryCache,
) RecoveryPointsService {
  serviceLog := log.With("service", "RecoveryPointsService")
  return &recoveryPointsService{
    db:              db,
    log:             serviceLog,
    rpRepo:          rpRepo,
    bufferRepo:      bufferRepo,
    thresholdRepo:   thresholdRepo,
    mindfulnessRepo: mindfulnessRepo,
    cat:             cat,
    cache:           cache,
  }
}

const (
  weeklyWindow    = 7 * 24 * time.Hour
  thresholdWindow = 28 * 24 * time.Hour
  streakLookbackDays = 30
)

func startOfDay(t time.Time) time.Time {
  t = t.Local()
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Award runs the full accumulator pass. The cap reads, ledger insert, buffer
// update and (Mindset) mindfulness-log insert all happen inside one
// transaction holding a lock on the patient's buffer row, so two concurrent
// awards for the same patient cannot both read "under cap" and both insert.
func (s *recoveryPointsService) Award(ctx context.Context, patientID uuid.UUID, category types.Category, action string, requestedPoints int) (*types.AwardResult, error) {
  tracer := otel.Tracer("recoverypoints")
  ctx, span := tracer.Start(ctx, "RecoveryPoints.Award")
  defer span.End()
  span.SetAttributes(attribute.String("rp.category", string(category)))

  if _, err := types.ParseCategory(string(category)); err != nil {
    return nil, ErrInvalidCategory
  }

  // The catalog value wins for known actions; the caller-supplied value is
  // only trusted for custom tasks the catalog has never heard of.
  points := requestedPoints
  if catalogPoints, known := s.cat.LookupAction(category, action); known {
    points = catalogPoints
  }
  if points <= 0 {
    return nil, ErrInvalidPoints
  }

  weeklyCap, err := s.cat.WeeklyCap(category)
  if err != nil {
    return nil, ErrInvalidCategory
  }

  now := time.Now()
  today := startOfDay(now)
  weekAgo := now.Add(-weeklyWindow)
  dailyCap := s.cat.DailyCap(category, action, points)

  var result *types.AwardResult
  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    buffer, bErr := s.lockOrCreateBuffer(ctx, tx, patientID)
    if bErr != nil {
      return bErr
    }

    weeklyTotal, wErr := s.rpRepo.SumForCategorySince(ctx, tx, patientID, category, weekAgo)
    if wErr != nil {
      return fmt.Errorf("Failed to read weekly total: %w", wErr)
    }
    dailyTotal, dErr := s.rpRepo.SumForActionSince(ctx, tx, patientID, category, action, today)
    if dErr != nil {
      return fmt.Errorf("Failed to read daily total: %w", dErr)
    }

    result = &types.AwardResult{
      Kind:            types.AwardAccepted,
      Category:        category,
      Action:          action,
      PointsRequested: points,
      DailyTotal:      dailyTotal,
      DailyCap:        dailyCap,
      WeeklyTotal:     weeklyTotal,
      WeeklyCap:       weeklyCap,
      Buffer:          buffer,
    }

    // Mindset allows one award per calendar day, whatever the action.
    if category == types.CategoryMindset {
      existing, mErr := s.mindfulnessRepo.GetForDay(ctx, tx, patientID, types.MindfulnessLogDate(now))
      if mErr != nil {
        return fmt.Errorf("Failed to read mindfulness log: %w", mErr)
      }
      if existing != nil {
        result.Kind = types.AwardAlreadyLoggedToday
        return nil
      }
    }

    if dailyTotal >= dailyCap {
      result.Kind = types.AwardDailyCapReached
      return nil
    }
    if weeklyTotal >= weeklyCap {
      result.Kind = types.AwardWeeklyCapReached
      return nil
    }

    award := points
    if remaining := dailyCap - dailyTotal; award > remaining {
      award = remaining
    }

    entry := &types.RecoveryPointEntry{
      PatientID: patientID,
      Category:  category,
      Action:    action,
      Points:    award,
      CreatedAt: now,
    }
    if _, cErr := s.rpRepo.Create(ctx, tx, entry); cErr != nil {
      return fmt.Errorf("Failed to create ledger entry: %w", cErr)
    }

    if category == types.CategoryMindset {
      if _, mErr := s.mindfulnessRepo.CreateForDay(ctx, tx, patientID, types.MindfulnessLogDate(now)); mErr != nil {
        return fmt.Errorf("Failed to create mindfulness log: %w", mErr)
      }
    }

    delta, aErr := s.applyPoints(buffer, category, award)
    if aErr != nil {
      return aErr
    }
    if sErr := s.bufferRepo.Save(ctx, tx, buffer); sErr != nil {
      return fmt.Errorf("Failed to save buffer: %w", sErr)
    }

    result.PointsAdded = award
    result.DailyTotal = dailyTotal + award
    result.WeeklyTotal = weeklyTotal + award
    result.Buffer = buffer
    result.BufferDelta = delta
    return nil
  })
  if err != nil {
    return nil, err
  }

  if result.PointsAdded > 0 {
    s.invalidateSummary(ctx, patientID)
  }
  s.log.Debug("Award processed",
    "patient_id", patientID,
    "category", category,
    "kind", result.Kind,
    "points_added", result.PointsAdded,
  )
  return result, nil
}

// Catalog lists the known self-care actions and their point values so the
// client can render the task picker without hardcoding them.
func (s *recoveryPointsService) Catalog() []catalog.Entry {
  return s.cat.Entries()
}

// applyPoints is the buffer converter. It folds accepted points into the
// carried remainder for the category, converts whole quanta into 0.25 buffer
// increments and clamps the target domain at its ceiling. Excess above the
// ceiling is discarded, never carried.
func (s *recoveryPointsService) applyPoints(buffer *types.SRSBuffer, category types.Category, points int) (*types.BufferDelta, error) {
  rule, ok := s.cat.BufferRule(category)
  if !ok {
    return nil, nil
  }

  carried, err := buffer.CarriedFor(category)
  if err != nil {
    return nil, err
  }
  current, err := buffer.BufferFor(rule.Domain)
  if err != nil {
    return nil, err
  }

  total := carried + points
  quanta := total / rule.PointsPerQuantum
  remainder := total % rule.PointsPerQuantum

  increment := float64(quanta) * catalog.QuantumIncrement
  newBuffer := current + increment
  if newBuffer > rule.MaxBuffer {
    newBuffer = rule.MaxBuffer
  }

  if err := buffer.SetCarriedFor(category, remainder); err != nil {
    return nil, err
  }
  if err := buffer.SetBufferFor(rule.Domain, newBuffer); err != nil {
    return nil, err
  }

  return &types.BufferDelta{
    Domain:     rule.Domain,
    Increment:  newBuffer - current,
    NewBuffer:  newBuffer,
    NewCarried: remainder,
  }, nil
}

func (s *recoveryPointsService) lockOrCreateBuffer(ctx context.Context, tx *gorm.DB, patientID uuid.UUID) (*types.SRSBuffer, error) {
  buffer, err := s.bufferRepo.GetByPatientIDForUpdate(ctx, tx, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to lock buffer row: %w", err)
  }
  if buffer != nil {
    return buffer, nil
  }
  buffer, err = s.bufferRepo.Create(ctx, tx, &types.SRSBuffer{PatientID: patientID})
  if err != nil {
    return nil, fmt.Errorf("Failed to create buffer row: %w", err)
  }
  return buffer, nil
}

// CheckThresholds evaluates the 28-day rolling totals against each domain's
// re-assessment threshold and upserts one hit row per domain for today's
// window. It records eligibility only; the clinical award itself is a manual
// action elsewhere.
func (s *recoveryPointsService) CheckThresholds(ctx context.Context, patientID uuid.UUID) (map[types.Domain]types.ThresholdResult, error) {
  now := time.Now()
  windowStart := now.Add(-thresholdWindow)
  windowEnd := startOfDay(now)

  out := make(map[types.Domain]types.ThresholdResult, 4)
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, domain := range types.AllDomains() {
      threshold, ok := s.cat.Threshold(domain)
      if !ok {
        continue
      }
      total, sErr := s.rpRepo.SumForCategorySince(ctx, tx, patientID, threshold.Category, windowStart)
      if sErr != nil {
        return fmt.Errorf("Failed to sum %s points: %w", threshold.Category, sErr)
      }
      met := total >= threshold.Points
      hit := &types.ThresholdHit{
        PatientID: patientID,
        Domain:    domain,
        WindowEnd: windowEnd,
        RPTotal:   total,
        Met:       met,
      }
      if uErr := s.thresholdRepo.UpsertForWindow(ctx, tx, hit); uErr != nil {
        return fmt.Errorf("Failed to upsert threshold hit: %w", uErr)
      }
      out[domain] = types.ThresholdResult{
        Domain:      domain,
        RPTotal:     total,
        Threshold:   threshold.Points,
        Met:         met,
        Flag:        threshold.Flag,
        Description: threshold.Description,
      }
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return out, nil
}

func (s *recoveryPointsService) GetWeekly(ctx context.Context, patientID uuid.UUID) (*types.WeeklySummary, error) {
  breakdown, err := s.rpRepo.BreakdownSince(ctx, nil, patientID, time.Now().Add(-weeklyWindow))
  if err != nil {
    return nil, fmt.Errorf("Failed to read weekly breakdown: %w", err)
  }
  total := 0
  for _, category := range types.AllCategories() {
    if _, ok := breakdown[category]; !ok {
      breakdown[category] = 0
    }
    total += breakdown[category]
  }
  return &types.WeeklySummary{
    Breakdown: breakdown,
    Total:     total,
    Caps:      s.cat.WeeklyCaps(),
  }, nil
}

func (s *recoveryPointsService) GetBuffer(ctx context.Context, patientID uuid.UUID) (*types.SRSBuffer, error) {
  buffer, err := s.bufferRepo.GetByPatientID(ctx, nil, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to read buffer: %w", err)
  }
  if buffer != nil {
    return buffer, nil
  }
  return s.Initialize(ctx, patientID)
}

func (s *recoveryPointsService) GetActivity(ctx context.Context, patientID uuid.UUID, limit int) ([]*types.RecoveryPointEntry, error) {
  entries, err := s.rpRepo.RecentForPatient(ctx, nil, patientID, limit)
  if err != nil {
    return nil, fmt.Errorf("Failed to read activity: %w", err)
  }
  return entries, nil
}

// GetPatientSummary assembles the dashboard payload: weekly breakdown, buffer
// snapshot, consecutive-day streak, 30-day completion rate and week-over-week
// trend. A short-lived cached copy is served when available since the
// dashboard tolerates a few seconds of staleness.
func (s *recoveryPointsService) GetPatientSummary(ctx context.Context, patientID uuid.UUID) (*types.Summary, error) {
  if s.cache != nil {
    cached, err := s.cache.Get(ctx, patientID)
    if err != nil {
      s.log.Warn("Summary cache read failed", "patient_id", patientID, "error", err)
    } else if cached != nil {
      return cached, nil
    }
  }

  now := time.Now()
  weekly, err := s.GetWeekly(ctx, patientID)
  if err != nil {
    return nil, err
  }
  buffer, err := s.GetBuffer(ctx, patientID)
  if err != nil {
    return nil, err
  }

  lookbackStart := startOfDay(now).AddDate(0, 0, -(streakLookbackDays - 1))
  dailyTotals, err := s.rpRepo.DailyTotalsSince(ctx, nil, patientID, lookbackStart)
  if err != nil {
    return nil, fmt.Errorf("Failed to read daily totals: %w", err)
  }

  streak := 0
  for i := 0; i < streakLookbackDays; i++ {
    day := startOfDay(now).AddDate(0, 0, -i).Format("2006-01-02")
    if dailyTotals[day] <= 0 {
      break
    }
    streak++
  }

  activeDays := 0
  for _, total := range dailyTotals {
    if total > 0 {
      activeDays++
    }
  }
  completionRate := float64(activeDays) / float64(streakLookbackDays) * 100

  twoWeekBreakdown, err := s.rpRepo.BreakdownSince(ctx, nil, patientID, now.Add(-2*weeklyWindow))
  if err != nil {
    return nil, fmt.Errorf("Failed to read trailing fortnight: %w", err)
  }
  twoWeekTotal := 0
  for _, points := range twoWeekBreakdown {
    twoWeekTotal += points
  }
  lastWeekTotal := twoWeekTotal - weekly.Total

  trend := types.TrendStable
  switch {
  case float64(weekly.Total) > float64(lastWeekTotal)*1.1:
    trend = types.TrendImproving
  case float64(weekly.Total) < float64(lastWeekTotal)*0.9:
    trend = types.TrendDeclining
  }

  summary := &types.Summary{
    PatientID:      patientID,
    Weekly:         *weekly,
    Buffer:         buffer,
    StreakDays:     streak,
    CompletionRate: completionRate,
    Trend:          trend,
    GeneratedAt:    now,
  }

  if s.cache != nil {
    if err := s.cache.Set(ctx, patientID, summary); err != nil {
      s.log.Warn("Summary cache write failed", "patient_id", patientID, "error", err)
    }
  }
  return summary, nil
}

// Reset wipes the patient's engagement data: ledger, threshold hits,
// mindfulness logs, and the buffer back to zero. Safe to call repeatedly.
func (s *recoveryPointsService) Reset(ctx context.Context, patientID uuid.UUID) (*types.ResetResult, error) {
  result := &types.ResetResult{PatientID: patientID}
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    ledgerDeleted, err := s.rpRepo.DeleteForPatient(ctx, tx, patientID)
    if err != nil {
      return fmt.Errorf("Failed to delete ledger entries: %w", err)
    }
    thresholdsDeleted, err := s.thresholdRepo.DeleteForPatient(ctx, tx, patientID)
    if err != nil {
      return fmt.Errorf("Failed to delete threshold hits: %w", err)
    }
    mindfulnessDeleted, err := s.mindfulnessRepo.DeleteForPatient(ctx, tx, patientID)
    if err != nil {
      return fmt.Errorf("Failed to delete mindfulness logs: %w", err)
    }
    if err := s.bufferRepo.ZeroForPatient(ctx, tx, patientID); err != nil {
      return fmt.Errorf("Failed to zero buffer: %w", err)
    }
    result.LedgerDeleted = ledgerDeleted
    result.ThresholdsDeleted = thresholdsDeleted
    result.MindfulnessDeleted = mindfulnessDeleted
    return nil
  })
  if err != nil {
    return nil, err
  }

  s.invalidateSummary(ctx, patientID)
  s.log.Info("Patient engagement data reset",
    "patient_id", patientID,
    "ledger_deleted", result.LedgerDeleted,
    "thresholds_deleted", result.ThresholdsDeleted,
  )
  return result, nil
}

// Initialize creates the zeroed buffer row at enrollment. Calling it again for
// the same patient returns the existing row.
func (s *recoveryPointsService) Initialize(ctx context.Context, patientID uuid.UUID) (*types.SRSBuffer, error) {
  buffer, err := s.bufferRepo.Create(ctx, nil, &types.SRSBuffer{PatientID: patientID})
  if err == nil {
    return buffer, nil
  }
  if !repos.IsUniqueViolation(err) {
    return nil, fmt.Errorf("Failed to create buffer row: %w", err)
  }
  existing, gErr := s.bufferRepo.GetByPatientID(ctx, nil, patientID)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to read existing buffer row: %w", gErr)
  }
  return existing, nil
}

func (s *recoveryPointsService) LogMood(ctx context.Context, patientID uuid.UUID, mood string) error {
  today := types.MindfulnessLogDate(time.Now())
  entry, err := s.mindfulnessRepo.GetForDay(ctx, nil, patientID, today)
  if err != nil {
    return fmt.Errorf("Failed to read mindfulness log: %w", err)
  }
  if entry == nil {
    return ErrNoMindfulnessToday
  }
  if err := s.mindfulnessRepo.SetMood(ctx, nil, entry.ID, mood); err != nil {
    return fmt.Errorf("Failed to set mood: %w", err)
  }
  return nil
}

func (s *recoveryPointsService) invalidateSummary(ctx context.Context, patientID uuid.UUID) {
  if s.cache == nil {
    return
  }
  if err := s.cache.Invalidate(ctx, patientID); err != nil {
    s.log.Warn("Summary cache invalidation failed", "patient_id", patientID, "error", err)
  }
}
