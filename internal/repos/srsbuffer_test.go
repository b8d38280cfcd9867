package repos

import (
	"context"
	"testing"

	"github.com/backtolife/backtolife-backend/internal/repos/testutil"
	"github.com/backtolife/backtolife-backend/internal/types"
)

func TestSRSBufferRepoUniquePerPatient(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSRSBufferRepo(db, testutil.Logger(t))
	p := testutil.SeedPatient(t, ctx, db, "buffer@example.com")

	if _, err := repo.Create(ctx, nil, &types.SRSBuffer{PatientID: p.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(ctx, nil, &types.SRSBuffer{PatientID: p.ID})
	if err == nil {
		t.Fatalf("second Create succeeded, want unique violation")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("IsUniqueViolation(%v) = false", err)
	}
}

func TestSRSBufferRepoSaveAndZero(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSRSBufferRepo(db, testutil.Logger(t))
	p := testutil.SeedPatient(t, ctx, db, "bufferzero@example.com")

	row, err := repo.Create(ctx, nil, &types.SRSBuffer{PatientID: p.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	row.MovementPointsCarried = 12
	row.FunctionBuffer = 0.75
	if err := repo.Save(ctx, nil, row); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByPatientID(ctx, nil, p.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByPatientID: row=%v err=%v", got, err)
	}
	if got.MovementPointsCarried != 12 || got.FunctionBuffer != 0.75 {
		t.Fatalf("saved row = %+v", got)
	}

	if err := repo.ZeroForPatient(ctx, nil, p.ID); err != nil {
		t.Fatalf("ZeroForPatient: %v", err)
	}
	got, err = repo.GetByPatientID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("GetByPatientID after zero: %v", err)
	}
	if got.MovementPointsCarried != 0 || got.FunctionBuffer != 0 {
		t.Fatalf("row not zeroed: %+v", got)
	}
}

func TestSRSBufferRepoMissingRowIsNil(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSRSBufferRepo(db, testutil.Logger(t))
	p := testutil.SeedPatient(t, ctx, db, "buffermissing@example.com")

	row, err := repo.GetByPatientID(ctx, nil, p.ID)
	if err != nil || row != nil {
		t.Fatalf("GetByPatientID: row=%v err=%v, want nil/nil", row, err)
	}
	row, err = repo.GetByPatientIDForUpdate(ctx, db, p.ID)
	if err != nil || row != nil {
		t.Fatalf("GetByPatientIDForUpdate: row=%v err=%v, want nil/nil", row, err)
	}
}
