package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/dentalsoft/internal/documents"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/metrics"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/store"
)

// PrescriptionService creates prescriptions and renders them.
type PrescriptionService struct {
	store   *store.Store
	clinic  ClinicSource
	dir     string
	metrics *metrics.Metrics
	log     *logrus.Entry
	now     func() time.Time
}

func NewPrescriptionService(st *store.Store, cs ClinicSource, prescriptionsDir string, m *metrics.Metrics, log *logging.Logger) *PrescriptionService {
	if log == nil {
		log = logging.Discard()
	}
	return &PrescriptionService{
		store:   st,
		clinic:  cs,
		dir:     prescriptionsDir,
		metrics: m,
		log:     log.WithComponent("prescriptions"),
		now:     time.Now,
	}
}

// Create stores the prescription then renders its PDF. The row is kept when
// rendering fails and the error is returned with it.
func (s *PrescriptionService) Create(ctx context.Context, p *models.Prescription) (*models.Prescription, error) {
	if err := s.store.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}
	path, _, err := s.Render(ctx, p.ID)
	if err != nil {
		s.log.WithError(err).WithField("prescription_id", p.ID).Warn("prescription pdf not rendered")
		return p, err
	}
	p.PDFPath = path
	return p, nil
}

// Data loads everything a prescription document shows.
func (s *PrescriptionService) Data(ctx context.Context, id uint) (*models.Prescription, *models.Patient, documents.PrescriptionData, error) {
	p, err := s.store.GetPrescription(ctx, id)
	if err != nil {
		return nil, nil, documents.PrescriptionData{}, err
	}
	patient, err := s.store.GetPatient(ctx, p.PatientID)
	if err != nil {
		return nil, nil, documents.PrescriptionData{}, err
	}
	return p, patient, documents.PrescriptionData{
		Clinic:          s.clinic.Get(),
		PatientName:     patient.DisplayName(),
		Age:             documents.AgeLabel(patient.AgeAt(s.now())),
		Date:            p.Date,
		Medications:     p.Medications,
		Recommendations: p.Recommendations,
	}, nil
}

// Render writes the prescription PDF into the prescriptions folder and
// records the path on the row.
func (s *PrescriptionService) Render(ctx context.Context, id uint) (string, []byte, error) {
	const op = "services.RenderPrescription"
	p, patient, doc, err := s.Data(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := documents.PrescriptionPDF(doc)
	s.metrics.DocumentRendered("prescription", err)
	if err != nil {
		return "", nil, err
	}
	name := documents.PrescriptionFileName(patient.LastName, patient.FirstName, p.Date)
	path, err := writeDocument(op, s.dir, name, data)
	if err != nil {
		return "", nil, err
	}
	if err := s.store.SetPrescriptionPDF(ctx, id, path); err != nil {
		return "", nil, err
	}
	return path, data, nil
}
