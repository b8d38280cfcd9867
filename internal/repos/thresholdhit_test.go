package repos

import (
	"context"
	"testing"
	"time"

	"github.com/backtolife/backtolife-backend/internal/repos/testutil"
	"github.com/backtolife/backtolife-backend/internal/types"
)

func TestThresholdHitRepoUpsertForWindow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewThresholdHitRepo(db, testutil.Logger(t))
	p := testutil.SeedPatient(t, ctx, db, "hits@example.com")

	window := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	first := &types.ThresholdHit{PatientID: p.ID, Domain: types.DomainFunction, WindowEnd: window, RPTotal: 80, Met: false}
	if err := repo.UpsertForWindow(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same window again with a higher total overwrites in place.
	second := &types.ThresholdHit{PatientID: p.ID, Domain: types.DomainFunction, WindowEnd: window, RPTotal: 105, Met: true}
	if err := repo.UpsertForWindow(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.LatestForPatient(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("LatestForPatient: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].RPTotal != 105 || !rows[0].Met {
		t.Fatalf("row = %+v, want updated totals", rows[0])
	}

	// A new window creates a second row, newest first.
	next := &types.ThresholdHit{PatientID: p.ID, Domain: types.DomainFunction, WindowEnd: window.AddDate(0, 0, 1), RPTotal: 110, Met: true}
	if err := repo.UpsertForWindow(ctx, nil, next); err != nil {
		t.Fatalf("next upsert: %v", err)
	}
	rows, err = repo.LatestForPatient(ctx, nil, p.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("rows after new window: err=%v len=%d", err, len(rows))
	}
	if !rows[0].WindowEnd.After(rows[1].WindowEnd) {
		t.Fatalf("rows not ordered newest first")
	}
}

func TestThresholdHitRepoDifferentDomainsSameWindow(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewThresholdHitRepo(db, testutil.Logger(t))
	p := testutil.SeedPatient(t, ctx, db, "domains@example.com")

	window := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	for _, domain := range types.AllDomains() {
		hit := &types.ThresholdHit{PatientID: p.ID, Domain: domain, WindowEnd: window, RPTotal: 10}
		if err := repo.UpsertForWindow(ctx, nil, hit); err != nil {
			t.Fatalf("upsert %s: %v", domain, err)
		}
	}
	rows, err := repo.LatestForPatient(ctx, nil, p.ID)
	if err != nil || len(rows) != 4 {
		t.Fatalf("rows: err=%v len=%d, want 4", err, len(rows))
	}
}
