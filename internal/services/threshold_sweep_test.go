package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/backtolife/backtolife-backend/internal/repos"
	"github.com/backtolife/backtolife-backend/internal/repos/testutil"
	"github.com/backtolife/backtolife-backend/internal/types"
)

func TestRunSweepCoversActivePatients(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	p1 := testutil.SeedPatient(t, ctx, db, "sweep1@example.com")
	p2 := testutil.SeedPatient(t, ctx, db, "sweep2@example.com")
	inactive := &types.Patient{ID: uuid.New(), Email: "gone@example.com", Password: "pw", FirstName: "C", LastName: "D", Active: false}
	if err := db.WithContext(ctx).Create(inactive).Error; err != nil {
		t.Fatalf("seed inactive: %v", err)
	}

	rpService := newRPService(t, db)
	seedLedger(t, ctx, db, p1.ID, types.CategoryMovement, "seed", 100, time.Now().AddDate(0, 0, -1))

	sweep := NewThresholdSweepService(log, repos.NewPatientRepo(db, log), rpService, 2)
	result, err := sweep.RunSweep(ctx)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if result.Patients != 2 {
		t.Fatalf("patients = %d, want 2 active", result.Patients)
	}
	if result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("succeeded/failed = %d/%d", result.Succeeded, result.Failed)
	}
	if !result.FinishedAt.After(result.StartedAt) && !result.FinishedAt.Equal(result.StartedAt) {
		t.Fatalf("timestamps out of order: %+v", result)
	}

	// The sweep upserted hit rows for both active patients.
	var count int64
	if err := db.Model(&types.ThresholdHit{}).Where("patient_id IN ?", []uuid.UUID{p1.ID, p2.ID}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 8 {
		t.Fatalf("hit rows = %d, want 8", count)
	}
	var met int64
	if err := db.Model(&types.ThresholdHit{}).Where("patient_id = ? AND met = ?", p1.ID, true).Count(&met).Error; err != nil {
		t.Fatalf("count met: %v", err)
	}
	if met != 1 {
		t.Fatalf("met rows for seeded patient = %d, want 1", met)
	}
}
