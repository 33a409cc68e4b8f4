// Package imaging stores patient image files in the data folder and keeps
// their rows in sync.
package imaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/models"
)

// Records is the subset of the store used by the library.
type Records interface {
	CreateImage(ctx context.Context, img *models.Image) error
	GetImage(ctx context.Context, id uint) (*models.Image, error)
	DeleteImage(ctx context.Context, id uint) (*models.Image, error)
}

// Library copies imported files into the images folder.
type Library struct {
	records    Records
	imagesDir  string
	exportsDir string
	log        *logrus.Entry
	now        func() time.Time

	// OnImport, when set, runs after each successful import.
	OnImport func(format string)
}

// New returns a library writing to imagesDir and exporting to exportsDir.
func New(records Records, imagesDir, exportsDir string, log *logging.Logger) *Library {
	if log == nil {
		log = logging.Discard()
	}
	return &Library{
		records:    records,
		imagesDir:  imagesDir,
		exportsDir: exportsDir,
		log:        log.WithComponent("imaging"),
		now:        time.Now,
	}
}

// ImportRequest describes a file to attach to a patient.
type ImportRequest struct {
	PatientID   uint
	Category    string
	Description string
	// Name is the label typed by the user; it defaults to the source file
	// name without extension.
	Name string
	// SourceName is the original file name, used for its extension.
	SourceName string
	Source     io.Reader
}

// FileName builds "<patient>_<yyyymmdd>_<name>_<suffix><ext>" with spaces
// replaced by underscores.
func FileName(patientID uint, day time.Time, name, suffix, ext string) string {
	n := fmt.Sprintf("%d_%s_%s_%s%s", patientID, day.Format("20060102"), name, suffix, strings.ToLower(ext))
	return strings.ReplaceAll(n, " ", "_")
}

func cleanName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if name == "." || name == "" {
		return "image"
	}
	return name
}

// Import copies the source into the images folder, detects its format and
// records the row. The copied file is removed if the row cannot be written.
func (l *Library) Import(ctx context.Context, req ImportRequest) (*models.Image, error) {
	const op = "imaging.Import"
	if req.Source == nil {
		return nil, errs.Validation(op, map[string]string{"file": "required"})
	}
	ext := filepath.Ext(req.SourceName)
	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(req.SourceName), ext)
	}
	name = cleanName(name)

	if err := os.MkdirAll(l.imagesDir, 0o755); err != nil {
		return nil, errs.IO(op, err)
	}
	fileName := FileName(req.PatientID, l.now(), name, uuid.NewString()[:8], ext)
	dest := filepath.Join(l.imagesDir, fileName)

	info, err := l.copyAndSniff(dest, req.Source)
	if err != nil {
		_ = os.Remove(dest)
		return nil, errs.IO(op, err)
	}

	img := &models.Image{
		PatientID:   req.PatientID,
		FileName:    fileName,
		Category:    req.Category,
		FilePath:    dest,
		Description: req.Description,
		Format:      info.Format,
		Width:       info.Width,
		Height:      info.Height,
		Modality:    info.Modality,
	}
	if err := l.records.CreateImage(ctx, img); err != nil {
		if rmErr := os.Remove(dest); rmErr != nil {
			l.log.WithError(rmErr).WithField("path", dest).Warn("could not remove orphan image file")
		}
		return nil, err
	}
	l.log.WithFields(logrus.Fields{"patient_id": img.PatientID, "file": fileName, "format": info.Format}).Info("image imported")
	if l.OnImport != nil {
		l.OnImport(info.Format)
	}
	return img, nil
}

// ImportFile imports a file from disk.
func (l *Library) ImportFile(ctx context.Context, req ImportRequest, srcPath string) (*models.Image, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, errs.IO("imaging.ImportFile", err)
	}
	defer f.Close()
	req.Source = f
	if req.SourceName == "" {
		req.SourceName = filepath.Base(srcPath)
	}
	return l.Import(ctx, req)
}

func (l *Library) copyAndSniff(dest string, src io.Reader) (Info, error) {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return Info{}, err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return Info{}, err
	}
	if err := out.Sync(); err != nil {
		return Info{}, err
	}
	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	return Sniff(dest, out)
}

// Open returns the image row and its file for reading.
func (l *Library) Open(ctx context.Context, id uint) (*models.Image, *os.File, error) {
	img, err := l.records.GetImage(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(img.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, errs.NotFound("imaging.Open", err)
		}
		return nil, nil, errs.IO("imaging.Open", err)
	}
	return img, f, nil
}

// Delete removes the row, then the file. A missing file is fine; any other
// file error is logged and reported through fileWarning.
func (l *Library) Delete(ctx context.Context, id uint) (img *models.Image, fileWarning bool, err error) {
	img, err = l.records.DeleteImage(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := os.Remove(img.FilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log.WithError(err).WithField("path", img.FilePath).Warn("image row deleted but file removal failed")
		return img, true, nil
	}
	return img, false, nil
}

// Export copies an image into the exports folder and returns the new path.
// An existing export with the same name is overwritten.
func (l *Library) Export(ctx context.Context, id uint) (string, error) {
	const op = "imaging.Export"
	img, src, err := l.Open(ctx, id)
	if err != nil {
		return "", err
	}
	defer src.Close()
	if err := os.MkdirAll(l.exportsDir, 0o755); err != nil {
		return "", errs.IO(op, err)
	}
	dest := filepath.Join(l.exportsDir, img.FileName)
	tmp, err := os.CreateTemp(l.exportsDir, ".export-*")
	if err != nil {
		return "", errs.IO(op, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", errs.IO(op, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errs.IO(op, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", errs.IO(op, err)
	}
	return dest, nil
}
