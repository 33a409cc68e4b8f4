package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

func TestAppointmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Dridi", "Yassine")

	a := &models.Appointment{PatientID: p.ID, Date: "2025-05-20", Time: "10:30", Category: "Soin"}
	require.NoError(t, s.CreateAppointment(ctx, a))
	assert.Equal(t, models.AppointmentPlanned, a.Status)

	early := &models.Appointment{PatientID: p.ID, Date: "2025-05-20", Time: "08:00", Category: "Contrôle"}
	require.NoError(t, s.CreateAppointment(ctx, early))

	day, err := s.AppointmentsByDay(ctx, "2025-05-20")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "08:00", day[0].Time)
	assert.Equal(t, "Dridi, Yassine", day[0].PatientName())
	assert.Equal(t, "71 000 000", day[0].Patient.Phone)

	a.Status = models.AppointmentDone
	a.Time = "11:00"
	require.NoError(t, s.UpdateAppointment(ctx, a))
	got, err := s.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentDone, got.Status)
	assert.Equal(t, "11:00", got.Time)

	require.NoError(t, s.DeleteAppointment(ctx, a.ID))
	_, err = s.GetAppointment(ctx, a.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteMissingAppointmentIsNotFound(t *testing.T) {
	s := newTestStore(t)
	var err error
	assert.NotPanics(t, func() { err = s.DeleteAppointment(context.Background(), 12345) })
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAppointmentValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Saidi", "Rim")

	err := s.CreateAppointment(ctx, &models.Appointment{PatientID: p.ID, Date: "2025-13-01", Time: "9h", Category: "", Status: "confirme"})
	require.Error(t, err)
	fields := errs.FieldsOf(err)
	assert.Equal(t, "invalid_date", fields["date"])
	assert.Equal(t, "invalid_time", fields["time"])
	assert.Equal(t, "required", fields["category"])
	assert.Equal(t, "invalid_choice", fields["status"])

	err = s.CreateAppointment(ctx, &models.Appointment{PatientID: 999, Date: "2025-01-01", Time: "09:00", Category: "Soin"})
	assert.True(t, errs.IsNotFound(err))
}

func TestAppointmentsByPatientAndRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Amri", "Ines")
	other := seedPatient(t, s, "Baccar", "Adel")

	for _, a := range []models.Appointment{
		{PatientID: p.ID, Date: "2025-01-05", Time: "09:00", Category: "Soin"},
		{PatientID: p.ID, Date: "2025-02-05", Time: "09:00", Category: "Soin"},
		{PatientID: p.ID, Date: "2025-02-05", Time: "15:00", Category: "Urgence"},
		{PatientID: other.ID, Date: "2025-02-06", Time: "09:00", Category: "Contrôle"},
	} {
		a := a
		require.NoError(t, s.CreateAppointment(ctx, &a))
	}

	mine, err := s.AppointmentsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "2025-02-05", mine[0].Date)
	assert.Equal(t, "15:00", mine[0].Time)
	assert.Equal(t, "2025-01-05", mine[2].Date)

	feb, err := s.AppointmentsInRange(ctx, "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	assert.Len(t, feb, 3)

	_, err = s.AppointmentsInRange(ctx, "feb", "2025-02-28")
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestSlotConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Ferchichi", "Meriem")
	q := seedPatient(t, s, "Hamdi", "Karim")

	first := &models.Appointment{PatientID: p.ID, Date: "2025-06-01", Time: "10:00", Category: "Soin"}
	require.NoError(t, s.CreateAppointment(ctx, first))
	cancelled := &models.Appointment{PatientID: q.ID, Date: "2025-06-01", Time: "10:00", Category: "Soin", Status: models.AppointmentCancelled}
	require.NoError(t, s.CreateAppointment(ctx, cancelled))
	second := &models.Appointment{PatientID: q.ID, Date: "2025-06-01", Time: "10:00", Category: "Urgence"}
	require.NoError(t, s.CreateAppointment(ctx, second), "overlaps are allowed")

	conflicts, err := s.SlotConflicts(ctx, "2025-06-01", "10:00", second.ID)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, first.ID, conflicts[0].ID)

	none, err := s.SlotConflicts(ctx, "2025-06-01", "11:00", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
