package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/backtolife/backtolife-backend/internal/catalog"
	"github.com/backtolife/backtolife-backend/internal/repos"
	"github.com/backtolife/backtolife-backend/internal/repos/testutil"
	"github.com/backtolife/backtolife-backend/internal/types"
)

func newRPService(t *testing.T, db *gorm.DB) RecoveryPointsService {
	t.Helper()
	log := testutil.Logger(t)
	return NewRecoveryPointsService(
		db,
		log,
		repos.NewRecoveryPointRepo(db, log),
		repos.NewSRSBufferRepo(db, log),
		repos.NewThresholdHitRepo(db, log),
		repos.NewMindfulnessLogRepo(db, log),
		catalog.Default(),
		nil,
	)
}

func seedLedger(t *testing.T, ctx context.Context, db *gorm.DB, patientID uuid.UUID, category types.Category, action string, points int, at time.Time) {
	t.Helper()
	entry := &types.RecoveryPointEntry{
		ID:        uuid.New(),
		PatientID: patientID,
		Category:  category,
		Action:    action,
		Points:    points,
		CreatedAt: at,
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
}

func TestAwardAccepted(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "award@example.com")
	svc := newRPService(t, db)

	result, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Daily walk", 0)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if result.Kind != types.AwardAccepted {
		t.Fatalf("kind = %s, want accepted", result.Kind)
	}
	if result.PointsAdded != 2 {
		t.Fatalf("points added = %d, want catalog value 2", result.PointsAdded)
	}
	if result.DailyTotal != 2 || result.WeeklyTotal != 2 {
		t.Fatalf("totals = %d/%d, want 2/2", result.DailyTotal, result.WeeklyTotal)
	}

	entries, err := svc.GetActivity(ctx, p.ID, 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("GetActivity: err=%v len=%d", err, len(entries))
	}
	if entries[0].Points != 2 || entries[0].Action != "Daily walk" {
		t.Fatalf("ledger entry = %+v", entries[0])
	}
}

func TestAwardCatalogValueWins(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "catalogwins@example.com")
	svc := newRPService(t, db)

	// Known action: the caller-supplied 50 must be ignored.
	result, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Daily walk", 50)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if result.PointsAdded != 2 {
		t.Fatalf("points added = %d, want 2", result.PointsAdded)
	}

	// Unknown action: caller value is trusted.
	result, err = svc.Award(ctx, p.ID, types.CategoryMovement, "Aquatic therapy", 4)
	if err != nil {
		t.Fatalf("Award custom: %v", err)
	}
	if result.Kind != types.AwardAccepted || result.PointsAdded != 4 {
		t.Fatalf("custom award = %s/%d, want accepted/4", result.Kind, result.PointsAdded)
	}
}

func TestAwardRejectsInvalidInput(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "invalid@example.com")
	svc := newRPService(t, db)

	if _, err := svc.Award(ctx, p.ID, types.Category("sleep"), "x", 2); err != ErrInvalidCategory {
		t.Fatalf("bad category err = %v, want ErrInvalidCategory", err)
	}
	if _, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Custom thing", 0); err != ErrInvalidPoints {
		t.Fatalf("zero points err = %v, want ErrInvalidPoints", err)
	}
	if _, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Custom thing", -3); err != ErrInvalidPoints {
		t.Fatalf("negative points err = %v, want ErrInvalidPoints", err)
	}
}

func TestAwardDailyCap(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "dailycap@example.com")
	svc := newRPService(t, db)

	first, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Daily walk", 0)
	if err != nil || first.Kind != types.AwardAccepted {
		t.Fatalf("first award: kind=%v err=%v", first.Kind, err)
	}
	second, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Daily walk", 0)
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if second.Kind != types.AwardDailyCapReached {
		t.Fatalf("second kind = %s, want daily_cap_reached", second.Kind)
	}
	if second.PointsAdded != 0 {
		t.Fatalf("second points added = %d, want 0", second.PointsAdded)
	}

	// A different movement action is still open today.
	third, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Stretching session", 0)
	if err != nil || third.Kind != types.AwardAccepted {
		t.Fatalf("third award: kind=%v err=%v", third.Kind, err)
	}
}

func TestAwardTruncatesToRemainingDailyAllowance(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "truncate@example.com")
	svc := newRPService(t, db)

	// 2 of the micro-lesson's 5-point daily allowance already used today.
	seedLedger(t, ctx, db, p.ID, types.CategoryEducation, catalog.EducationMicroLessonAction, 2, time.Now().Add(-time.Hour))

	result, err := svc.Award(ctx, p.ID, types.CategoryEducation, catalog.EducationMicroLessonAction, 0)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if result.Kind != types.AwardAccepted {
		t.Fatalf("kind = %s, want accepted", result.Kind)
	}
	if result.PointsAdded != 3 {
		t.Fatalf("points added = %d, want truncated 3", result.PointsAdded)
	}
	if result.DailyTotal != 5 {
		t.Fatalf("daily total = %d, want 5", result.DailyTotal)
	}
}

func TestAwardMindsetOncePerDay(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "mindset@example.com")
	svc := newRPService(t, db)

	first, err := svc.Award(ctx, p.ID, types.CategoryMindset, "Mindfulness session", 0)
	if err != nil || first.Kind != types.AwardAccepted {
		t.Fatalf("first mindset award: kind=%v err=%v", first.Kind, err)
	}

	// Any other mindset action the same calendar day is refused.
	second, err := svc.Award(ctx, p.ID, types.CategoryMindset, "Gratitude journal", 0)
	if err != nil {
		t.Fatalf("second mindset award: %v", err)
	}
	if second.Kind != types.AwardAlreadyLoggedToday {
		t.Fatalf("second kind = %s, want already_logged_today", second.Kind)
	}
	if second.PointsAdded != 0 {
		t.Fatalf("second points added = %d, want 0", second.PointsAdded)
	}
}

func TestAwardWeeklyCap(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "weeklycap@example.com")
	svc := newRPService(t, db)

	// 39 lifestyle points earlier this week: next award may overshoot the cap.
	seedLedger(t, ctx, db, p.ID, types.CategoryLifestyle, "seed", 39, time.Now().AddDate(0, 0, -2))

	overshoot, err := svc.Award(ctx, p.ID, types.CategoryLifestyle, "Sleep 7+ hours", 0)
	if err != nil {
		t.Fatalf("overshoot award: %v", err)
	}
	if overshoot.Kind != types.AwardAccepted || overshoot.PointsAdded != 2 {
		t.Fatalf("overshoot = %s/%d, want accepted/2", overshoot.Kind, overshoot.PointsAdded)
	}
	if overshoot.WeeklyTotal != 41 {
		t.Fatalf("weekly total = %d, want 41", overshoot.WeeklyTotal)
	}

	// At or above the cap, further awards are refused outright.
	blocked, err := svc.Award(ctx, p.ID, types.CategoryLifestyle, "Hydration goal", 0)
	if err != nil {
		t.Fatalf("blocked award: %v", err)
	}
	if blocked.Kind != types.AwardWeeklyCapReached || blocked.PointsAdded != 0 {
		t.Fatalf("blocked = %s/%d, want weekly_cap_reached/0", blocked.Kind, blocked.PointsAdded)
	}
}

func TestAwardIgnoresPointsOutsideWindows(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "windows@example.com")
	svc := newRPService(t, db)

	// Eight days old: outside the rolling week entirely.
	seedLedger(t, ctx, db, p.ID, types.CategoryLifestyle, "seed", 40, time.Now().AddDate(0, 0, -8))

	result, err := svc.Award(ctx, p.ID, types.CategoryLifestyle, "Sleep 7+ hours", 0)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if result.Kind != types.AwardAccepted || result.WeeklyTotal != 2 {
		t.Fatalf("result = %s weekly=%d, want accepted weekly=2", result.Kind, result.WeeklyTotal)
	}
}

func TestApplyPointsQuantaAndCarry(t *testing.T) {
	svc := &recoveryPointsService{cat: catalog.Default()}

	tests := []struct {
		name          string
		category      types.Category
		carried       int
		current       float64
		points        int
		wantIncrement float64
		wantBuffer    float64
		wantCarried   int
	}{
		{"movement below quantum", types.CategoryMovement, 0, 0, 10, 0, 0, 10},
		{"movement completes quantum", types.CategoryMovement, 20, 0, 10, 0.25, 0.25, 5},
		{"movement two quanta at once", types.CategoryMovement, 0, 0.5, 50, 0.5, 1.0, 0},
		{"lifestyle quantum is 30", types.CategoryLifestyle, 28, 0, 2, 0.25, 0.25, 0},
		{"education quantum is 15", types.CategoryEducation, 0, 0.75, 16, 0.25, 1.0, 1},
		{"clamped at domain max", types.CategoryMovement, 0, 1.9, 100, 0.1, 2.0, 0},
		{"already at max discards", types.CategoryMovement, 0, 2.0, 25, 0, 2.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := &types.SRSBuffer{}
			if err := buffer.SetCarriedFor(tt.category, tt.carried); err != nil {
				t.Fatalf("SetCarriedFor: %v", err)
			}
			rule, _ := svc.cat.BufferRule(tt.category)
			if err := buffer.SetBufferFor(rule.Domain, tt.current); err != nil {
				t.Fatalf("SetBufferFor: %v", err)
			}

			delta, err := svc.applyPoints(buffer, tt.category, tt.points)
			if err != nil {
				t.Fatalf("applyPoints: %v", err)
			}
			// The clamped increment is a float subtraction; compare within an
			// epsilon instead of bit-for-bit.
			if math.Abs(delta.Increment-tt.wantIncrement) > 1e-9 {
				t.Fatalf("increment = %v, want %v", delta.Increment, tt.wantIncrement)
			}
			if math.Abs(delta.NewBuffer-tt.wantBuffer) > 1e-9 {
				t.Fatalf("buffer = %v, want %v", delta.NewBuffer, tt.wantBuffer)
			}
			if delta.NewCarried != tt.wantCarried {
				t.Fatalf("carried = %v, want %v", delta.NewCarried, tt.wantCarried)
			}
		})
	}
}

func TestApplyPointsAdherenceHasNoRule(t *testing.T) {
	svc := &recoveryPointsService{cat: catalog.Default()}
	buffer := &types.SRSBuffer{}
	delta, err := svc.applyPoints(buffer, types.CategoryAdherence, 10)
	if err != nil {
		t.Fatalf("applyPoints: %v", err)
	}
	if delta != nil {
		t.Fatalf("delta = %+v, want nil for adherence", delta)
	}
	if buffer.TotalBufferCredit() != 0 {
		t.Fatalf("buffer credit = %v, want 0", buffer.TotalBufferCredit())
	}
}

func TestAwardAccumulatesBufferAcrossAwards(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "buffer@example.com")
	svc := newRPService(t, db)

	// Two custom 20-point sessions: 40 movement points = one 25-point quantum
	// plus 15 carried.
	if _, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Session A", 20); err != nil {
		t.Fatalf("award A: %v", err)
	}
	result, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Session B", 20)
	if err != nil {
		t.Fatalf("award B: %v", err)
	}
	if result.BufferDelta == nil || result.BufferDelta.Domain != types.DomainFunction {
		t.Fatalf("buffer delta = %+v, want function domain", result.BufferDelta)
	}

	buffer, err := svc.GetBuffer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if buffer.FunctionBuffer != 0.25 {
		t.Fatalf("function buffer = %v, want 0.25", buffer.FunctionBuffer)
	}
	if buffer.MovementPointsCarried != 15 {
		t.Fatalf("carried = %d, want 15", buffer.MovementPointsCarried)
	}
}

func TestCheckThresholds(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "thresholds@example.com")
	svc := newRPService(t, db)

	// 100 movement points inside the 28-day window, 39 education points (one
	// short of the beliefs threshold).
	for i := 0; i < 4; i++ {
		seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 25, time.Now().AddDate(0, 0, -i*5))
	}
	seedLedger(t, ctx, db, p.ID, types.CategoryEducation, "seed", 39, time.Now().AddDate(0, 0, -3))

	results, err := svc.CheckThresholds(ctx, p.ID)
	if err != nil {
		t.Fatalf("CheckThresholds: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results len = %d, want 4", len(results))
	}
	if !results[types.DomainFunction].Met {
		t.Fatalf("function not met: %+v", results[types.DomainFunction])
	}
	if results[types.DomainFunction].Flag != "psfs_recheck" {
		t.Fatalf("function flag = %q", results[types.DomainFunction].Flag)
	}
	if results[types.DomainBeliefs].Met {
		t.Fatalf("beliefs met at 39/40: %+v", results[types.DomainBeliefs])
	}
	if results[types.DomainPain].Met || results[types.DomainConfidence].Met {
		t.Fatalf("pain/confidence met with no points")
	}
}

func TestCheckThresholdsUpsertsSameWindow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "upsert@example.com")
	svc := newRPService(t, db)

	seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 100, time.Now().AddDate(0, 0, -1))
	if _, err := svc.CheckThresholds(ctx, p.ID); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if _, err := svc.CheckThresholds(ctx, p.ID); err != nil {
		t.Fatalf("second check: %v", err)
	}

	var count int64
	if err := db.Model(&types.ThresholdHit{}).Where("patient_id = ?", p.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("threshold hit rows = %d, want 4 (one per domain)", count)
	}
}

func TestGetWeeklyCoversAllCategories(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "weekly@example.com")
	svc := newRPService(t, db)

	seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 7, time.Now().AddDate(0, 0, -1))
	seedLedger(t, ctx, db, p.ID, types.CategoryAdherence, "seed", 1, time.Now().AddDate(0, 0, -2))

	weekly, err := svc.GetWeekly(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetWeekly: %v", err)
	}
	if len(weekly.Breakdown) != len(types.AllCategories()) {
		t.Fatalf("breakdown len = %d, want every category present", len(weekly.Breakdown))
	}
	if weekly.Breakdown[types.CategoryMovement] != 7 || weekly.Breakdown[types.CategoryMindset] != 0 {
		t.Fatalf("breakdown = %+v", weekly.Breakdown)
	}
	if weekly.Total != 8 {
		t.Fatalf("total = %d, want 8", weekly.Total)
	}
	if weekly.Caps[types.CategoryMovement] != 40 {
		t.Fatalf("caps = %+v", weekly.Caps)
	}
}

func TestGetPatientSummaryStreakAndTrend(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "summary@example.com")
	svc := newRPService(t, db)

	// Active today and yesterday, then a gap, then one more active day.
	seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 3, time.Now().Add(-time.Hour))
	seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 2, time.Now().AddDate(0, 0, -1))
	seedLedger(t, ctx, db, p.ID, types.CategoryLifestyle, "seed", 2, time.Now().AddDate(0, 0, -4))

	summary, err := svc.GetPatientSummary(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatientSummary: %v", err)
	}
	if summary.StreakDays != 2 {
		t.Fatalf("streak = %d, want 2", summary.StreakDays)
	}
	wantRate := float64(3) / 30 * 100
	if summary.CompletionRate != wantRate {
		t.Fatalf("completion rate = %v, want %v", summary.CompletionRate, wantRate)
	}
	// All points fall in the current week, so the prior week is zero.
	if summary.Trend != types.TrendImproving {
		t.Fatalf("trend = %s, want improving", summary.Trend)
	}
	if summary.Buffer == nil {
		t.Fatalf("summary missing buffer")
	}
}

func TestGetPatientSummaryNoActivity(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "quiet@example.com")
	svc := newRPService(t, db)

	summary, err := svc.GetPatientSummary(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatientSummary: %v", err)
	}
	if summary.StreakDays != 0 || summary.CompletionRate != 0 {
		t.Fatalf("streak=%d rate=%v, want zeroes", summary.StreakDays, summary.CompletionRate)
	}
	if summary.Trend != types.TrendStable {
		t.Fatalf("trend = %s, want stable", summary.Trend)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "reset@example.com")
	svc := newRPService(t, db)

	if _, err := svc.Award(ctx, p.ID, types.CategoryMindset, "Mindfulness session", 0); err != nil {
		t.Fatalf("award: %v", err)
	}
	seedLedger(t, ctx, db, p.ID, types.CategoryMovement, "seed", 100, time.Now().AddDate(0, 0, -1))
	if _, err := svc.CheckThresholds(ctx, p.ID); err != nil {
		t.Fatalf("check: %v", err)
	}

	first, err := svc.Reset(ctx, p.ID)
	if err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if first.LedgerDeleted != 2 || first.ThresholdsDeleted != 4 || first.MindfulnessDeleted != 1 {
		t.Fatalf("first reset = %+v", first)
	}

	second, err := svc.Reset(ctx, p.ID)
	if err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if second.LedgerDeleted != 0 || second.ThresholdsDeleted != 0 || second.MindfulnessDeleted != 0 {
		t.Fatalf("second reset = %+v, want all zero", second)
	}

	buffer, err := svc.GetBuffer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if buffer.TotalBufferCredit() != 0 || buffer.MindsetPointsCarried != 0 {
		t.Fatalf("buffer not zeroed: %+v", buffer)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "init@example.com")
	svc := newRPService(t, db)

	first, err := svc.Initialize(ctx, p.ID)
	if err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	second, err := svc.Initialize(ctx, p.ID)
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("initialize created a second row: %s vs %s", first.ID, second.ID)
	}
}

func TestLogMood(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "mood@example.com")
	svc := newRPService(t, db)

	if err := svc.LogMood(ctx, p.ID, "calm"); err != ErrNoMindfulnessToday {
		t.Fatalf("mood without log err = %v, want ErrNoMindfulnessToday", err)
	}

	if _, err := svc.Award(ctx, p.ID, types.CategoryMindset, "Mindfulness session", 0); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := svc.LogMood(ctx, p.ID, "calm"); err != nil {
		t.Fatalf("LogMood: %v", err)
	}

	var entry types.MindfulnessLog
	if err := db.Where("patient_id = ?", p.ID).First(&entry).Error; err != nil {
		t.Fatalf("read log: %v", err)
	}
	if entry.Mood != "calm" {
		t.Fatalf("mood = %q, want calm", entry.Mood)
	}
}

func TestAwardMovementQuantumProgression(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "quantum@example.com")
	svc := newRPService(t, db)

	// Distinct custom actions so each carries its own daily cap. Four 3-point
	// awards stay below the 25-point quantum: everything is carried, nothing
	// converts yet.
	warmups := []string{"Resistance band row", "Step-ups", "Heel raises", "Wall sit"}
	for _, action := range warmups {
		result, err := svc.Award(ctx, p.ID, types.CategoryMovement, action, 3)
		if err != nil {
			t.Fatalf("Award %q: %v", action, err)
		}
		if result.Kind != types.AwardAccepted || result.PointsAdded != 3 {
			t.Fatalf("award %q = %s/%d, want accepted/3", action, result.Kind, result.PointsAdded)
		}
	}

	buffer, err := svc.GetBuffer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if buffer.FunctionBuffer != 0 {
		t.Fatalf("function buffer = %v, want 0 before a full quantum", buffer.FunctionBuffer)
	}
	if buffer.MovementPointsCarried != 12 {
		t.Fatalf("carried = %d, want 12", buffer.MovementPointsCarried)
	}

	// The next 13 points complete the quantum: one 0.25 increment, carry
	// drained to zero.
	result, err := svc.Award(ctx, p.ID, types.CategoryMovement, "Pool session", 13)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if result.BufferDelta == nil {
		t.Fatalf("missing buffer delta")
	}
	if math.Abs(result.BufferDelta.Increment-0.25) > 1e-9 {
		t.Fatalf("increment = %v, want 0.25", result.BufferDelta.Increment)
	}
	if result.BufferDelta.NewCarried != 0 {
		t.Fatalf("carried after quantum = %d, want 0", result.BufferDelta.NewCarried)
	}

	buffer, err = svc.GetBuffer(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	if buffer.FunctionBuffer != 0.25 || buffer.MovementPointsCarried != 0 {
		t.Fatalf("buffer = %v carried = %d, want 0.25/0", buffer.FunctionBuffer, buffer.MovementPointsCarried)
	}
}

func TestCatalogListsKnownActions(t *testing.T) {
	db := testutil.DB(t)
	svc := newRPService(t, db)

	entries := svc.Catalog()
	if len(entries) != 12 {
		t.Fatalf("entries = %d, want 12", len(entries))
	}
	found := false
	for _, entry := range entries {
		if entry.Category == types.CategoryMovement && entry.Action == "Daily walk" && entry.Points == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("Daily walk missing from catalog entries")
	}

	// Mutating the returned slice must not leak into the shared catalog.
	entries[0].Points = 999
	again := svc.Catalog()
	if again[0].Points == 999 {
		t.Fatalf("catalog entries are not copied")
	}
}
