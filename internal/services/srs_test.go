package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/backtolife/backtolife-backend/internal/repos"
	"github.com/backtolife/backtolife-backend/internal/repos/testutil"
	"github.com/backtolife/backtolife-backend/internal/types"
)

func newSRSService(t *testing.T, db *gorm.DB) SRSService {
	t.Helper()
	log := testutil.Logger(t)
	return NewSRSService(db, log, repos.NewSRSScoreRepo(db, log), repos.NewSRSBufferRepo(db, log))
}

func TestRecordScoreValidation(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "srs@example.com")
	svc := newSRSService(t, db)

	if _, err := svc.RecordScore(ctx, p.ID, 12, "dr.lee", ""); err == nil {
		t.Fatalf("score above ceiling accepted")
	}
	if _, err := svc.RecordScore(ctx, p.ID, -1, "dr.lee", ""); err == nil {
		t.Fatalf("negative score accepted")
	}
	if _, err := svc.RecordScore(ctx, p.ID, 5, "", ""); err == nil {
		t.Fatalf("missing clinician accepted")
	}
	score, err := svc.RecordScore(ctx, p.ID, 5.5, "dr.lee", "post-op week 6")
	if err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	if score.Score != 5.5 || score.EnteredBy != "dr.lee" {
		t.Fatalf("score = %+v", score)
	}
}

func TestGetStatusProjectsBufferCredit(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	p := testutil.SeedPatient(t, ctx, db, "srsstatus@example.com")
	svc := newSRSService(t, db)
	log := testutil.Logger(t)
	bufferRepo := repos.NewSRSBufferRepo(db, log)

	// No scores, no buffer: everything zero.
	status, err := svc.GetStatus(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Latest != nil || status.BufferCredit != 0 || status.Projected != 0 {
		t.Fatalf("empty status = %+v", status)
	}

	if _, err := svc.RecordScore(ctx, p.ID, 6, "dr.lee", ""); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	if _, err := bufferRepo.Create(ctx, nil, &types.SRSBuffer{PatientID: p.ID, FunctionBuffer: 1.5, PainBuffer: 0.75}); err != nil {
		t.Fatalf("seed buffer: %v", err)
	}

	status, err = svc.GetStatus(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Latest == nil || status.Latest.Score != 6 {
		t.Fatalf("latest = %+v", status.Latest)
	}
	if status.BufferCredit != 2.25 {
		t.Fatalf("buffer credit = %v, want 2.25", status.BufferCredit)
	}
	if status.Projected != 8.25 {
		t.Fatalf("projected = %v, want 8.25", status.Projected)
	}

	// Projection clamps at the scale ceiling.
	if _, err := svc.RecordScore(ctx, p.ID, 10, "dr.lee", ""); err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	status, err = svc.GetStatus(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Projected != 11.0 {
		t.Fatalf("projected = %v, want clamped 11.0", status.Projected)
	}
}
