package types

import (
  "time"
  "github.com/google/uuid"
)

// AwardKind classifies the outcome of an award attempt. Cap and already-logged
// outcomes are domain results, not errors; the HTTP layer still returns 200
// for them and the UI explains the outcome from Kind plus the totals below.
type AwardKind string

const (
  AwardAccepted          AwardKind = "accepted"
  AwardDailyCapReached   AwardKind = "daily_cap_reached"
  AwardWeeklyCapReached  AwardKind = "weekly_cap_reached"
  AwardAlreadyLoggedToday AwardKind = "already_logged_today"
)

type AwardResult struct {
  Kind          AwardKind     `json:"kind"`
  Category      Category      `json:"category"`
  Action        string        `json:"action"`
  PointsRequested int         `json:"points_requested"`
  PointsAdded   int           `json:"points_added"`
  DailyTotal    int           `json:"daily_total"`
  DailyCap      int           `json:"daily_cap"`
  WeeklyTotal   int           `json:"weekly_total"`
  WeeklyCap     int           `json:"weekly_cap"`
  Buffer        *SRSBuffer    `json:"buffer,omitempty"`
  BufferDelta   *BufferDelta  `json:"buffer_delta,omitempty"`
}

// BufferDelta reports what a single conversion pass did. Informational only;
// the persisted state lives on the SRSBuffer row.
type BufferDelta struct {
  Domain        Domain        `json:"domain"`
  Increment     float64       `json:"increment"`
  NewBuffer     float64       `json:"new_buffer"`
  NewCarried    int           `json:"new_carried"`
}

type ThresholdResult struct {
  Domain        Domain        `json:"domain"`
  RPTotal       int           `json:"rp_total"`
  Threshold     int           `json:"threshold"`
  Met           bool          `json:"met"`
  Flag          string        `json:"flag"`
  Description   string        `json:"description"`
}

type WeeklySummary struct {
  Breakdown     map[Category]int  `json:"breakdown"`
  Total         int               `json:"total"`
  Caps          map[Category]int  `json:"caps"`
}

type Trend string

const (
  TrendImproving Trend = "improving"
  TrendDeclining Trend = "declining"
  TrendStable    Trend = "stable"
)

type Summary struct {
  PatientID       uuid.UUID         `json:"patient_id"`
  Weekly          WeeklySummary     `json:"weekly"`
  Buffer          *SRSBuffer        `json:"buffer"`
  StreakDays      int               `json:"streak_days"`
  CompletionRate  float64           `json:"completion_rate"`
  Trend           Trend             `json:"trend"`
  GeneratedAt     time.Time         `json:"generated_at"`
}

type ResetResult struct {
  PatientID           uuid.UUID   `json:"patient_id"`
  LedgerDeleted       int64       `json:"ledger_deleted"`
  ThresholdsDeleted   int64       `json:"thresholds_deleted"`
  MindfulnessDeleted  int64       `json:"mindfulness_deleted"`
}

type SweepResult struct {
  Patients      int       `json:"patients"`
  Succeeded     int       `json:"succeeded"`
  Failed        int       `json:"failed"`
  StartedAt     time.Time `json:"started_at"`
  FinishedAt    time.Time `json:"finished_at"`
}
