package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

func TestCurrentToothStatusIsLatestRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Chaabane", "Walid")

	for _, st := range []models.ToothStatus{models.ToothNormal, models.ToothDecay, models.ToothFilling} {
		require.NoError(t, s.SaveTooth(ctx, &models.ToothRecord{PatientID: p.ID, ToothNumber: 36, Status: st, ExamDate: "2025-01-01"}))
	}
	require.NoError(t, s.SaveTooth(ctx, &models.ToothRecord{PatientID: p.ID, ToothNumber: 11, Status: models.ToothCrown}))

	chart, err := s.CurrentChart(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.Equal(t, models.ToothFilling, chart[36].Status)
	assert.Equal(t, models.ToothCrown, chart[11].Status)
	assert.Equal(t, models.Today(), chart[11].ExamDate)

	hist, err := s.ToothHistory(ctx, p.ID, 36)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, models.ToothFilling, hist[0].Status)
	assert.Equal(t, models.ToothNormal, hist[2].Status)

	require.NoError(t, s.SaveTooth(ctx, &models.ToothRecord{PatientID: p.ID, ToothNumber: 36, Status: models.ToothExtraction}))
	chart, err = s.CurrentChart(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToothExtraction, chart[36].Status)
}

func TestSaveToothValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Mejri", "Amel")

	err := s.SaveTooth(ctx, &models.ToothRecord{PatientID: p.ID, ToothNumber: 19, Status: "cassée"})
	require.Error(t, err)
	fields := errs.FieldsOf(err)
	assert.Equal(t, "invalid_tooth", fields["tooth_number"])
	assert.Equal(t, "invalid_choice", fields["status"])

	err = s.SaveTooth(ctx, &models.ToothRecord{PatientID: 999, ToothNumber: 11, Status: models.ToothNormal})
	assert.True(t, errs.IsNotFound(err))
}

func TestExamHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Rekik", "Sonia")

	require.NoError(t, s.AddExam(ctx, &models.ExamHistoryEntry{PatientID: p.ID, ExamDate: "2025-01-01", ExamType: "Contrôle", Description: "Bilan"}))
	require.NoError(t, s.AddExam(ctx, &models.ExamHistoryEntry{PatientID: p.ID, ExamDate: "2025-04-01", ExamType: "Soin", Tooth: "26", Description: "Composite"}))

	hist, err := s.ExamHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2025-04-01", hist[0].ExamDate)
	assert.Equal(t, "26", hist[0].Tooth)

	err = s.AddExam(ctx, &models.ExamHistoryEntry{PatientID: p.ID, ExamType: "Soin", Description: "   "})
	assert.Equal(t, "required", errs.FieldsOf(err)["description"])

	// An older exam does not move the last visit backwards.
	require.NoError(t, s.AddExam(ctx, &models.ExamHistoryEntry{PatientID: p.ID, ExamDate: "2024-12-01", ExamType: "Contrôle", Description: "Ancien"}))
	got, err := s.GetPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", got.LastVisit)
}
