package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

type memRecords struct {
	mu     sync.Mutex
	rows   map[uint]*models.Image
	nextID uint
	fail   error
}

func newMemRecords() *memRecords { return &memRecords{rows: map[uint]*models.Image{}} }

func (m *memRecords) CreateImage(_ context.Context, img *models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.nextID++
	img.ID = m.nextID
	cp := *img
	m.rows[img.ID] = &cp
	return nil
}

func (m *memRecords) GetImage(_ context.Context, id uint) (*models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.rows[id]
	if !ok {
		return nil, errs.NotFound("mem.GetImage", nil)
	}
	cp := *img
	return &cp, nil
}

func (m *memRecords) DeleteImage(_ context.Context, id uint) (*models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.rows[id]
	if !ok {
		return nil, errs.NotFound("mem.DeleteImage", nil)
	}
	delete(m.rows, id)
	return img, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLibrary(t *testing.T, rec Records) (*Library, string) {
	t.Helper()
	root := t.TempDir()
	lib := New(rec, filepath.Join(root, "images"), filepath.Join(root, "exports"), nil)
	lib.now = func() time.Time { return time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC) }
	return lib, root
}

func TestFileName(t *testing.T) {
	got := FileName(12, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), "radio panoramique", "ab12cd34", ".PNG")
	assert.Equal(t, "12_20250102_radio_panoramique_ab12cd34.png", got)
}

func TestImportPNG(t *testing.T) {
	rec := newMemRecords()
	lib, root := newLibrary(t, rec)
	var imported []string
	lib.OnImport = func(format string) { imported = append(imported, format) }

	img, err := lib.Import(context.Background(), ImportRequest{
		PatientID: 3, Category: "Photo Intra-orale", SourceName: "photo bouche.png",
		Source: bytes.NewReader(pngBytes(t, 40, 20)),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.FileName, "3_20250709_photo_bouche_"), img.FileName)
	assert.True(t, strings.HasSuffix(img.FileName, ".png"))
	assert.Equal(t, filepath.Join(root, "images", img.FileName), img.FilePath)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.Equal(t, []string{"png"}, imported)
	assert.FileExists(t, img.FilePath)
}

func TestImportUnknownFormatIsStored(t *testing.T) {
	lib, _ := newLibrary(t, newMemRecords())
	img, err := lib.Import(context.Background(), ImportRequest{
		PatientID: 1, Category: "Autre", Name: "notes", SourceName: "scan.stl",
		Source: strings.NewReader("solid mesh"),
	})
	require.NoError(t, err)
	assert.Empty(t, img.Format)
	assert.Contains(t, img.FileName, "_notes_")
}

func TestImportRemovesFileWhenRowFails(t *testing.T) {
	rec := newMemRecords()
	rec.fail = errors.New("disk full")
	lib, root := newLibrary(t, rec)

	_, err := lib.Import(context.Background(), ImportRequest{
		PatientID: 1, Category: "Autre", SourceName: "a.png", Source: bytes.NewReader(pngBytes(t, 2, 2)),
	})
	require.Error(t, err)
	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportDICOM(t *testing.T) {
	src := filepath.Join(t.TempDir(), "pano.dcm")
	writeDICOM(t, src, "PX")

	lib, _ := newLibrary(t, newMemRecords())
	img, err := lib.ImportFile(context.Background(), ImportRequest{PatientID: 5, Category: "Radiographie Panoramique"}, src)
	require.NoError(t, err)
	assert.Equal(t, FormatDICOM, img.Format)
	assert.Equal(t, "PX", img.Modality)
	assert.True(t, strings.HasSuffix(img.FileName, ".dcm"))
}

func TestDeleteAndExport(t *testing.T) {
	rec := newMemRecords()
	lib, root := newLibrary(t, rec)
	ctx := context.Background()

	img, err := lib.Import(ctx, ImportRequest{PatientID: 2, Category: "Autre", SourceName: "x.png", Source: bytes.NewReader(pngBytes(t, 4, 4))})
	require.NoError(t, err)

	dest, err := lib.Export(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "exports", img.FileName), dest)
	want, _ := os.ReadFile(img.FilePath)
	got, _ := os.ReadFile(dest)
	assert.Equal(t, want, got)

	deleted, warn, err := lib.Delete(ctx, img.ID)
	require.NoError(t, err)
	assert.False(t, warn)
	assert.Equal(t, img.ID, deleted.ID)
	assert.NoFileExists(t, img.FilePath)

	_, _, err = lib.Delete(ctx, img.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteWithMissingFileIsNotAWarning(t *testing.T) {
	rec := newMemRecords()
	lib, _ := newLibrary(t, rec)
	ctx := context.Background()
	img, err := lib.Import(ctx, ImportRequest{PatientID: 2, Category: "Autre", SourceName: "x.png", Source: bytes.NewReader(pngBytes(t, 4, 4))})
	require.NoError(t, err)
	require.NoError(t, os.Remove(img.FilePath))

	_, warn, err := lib.Delete(ctx, img.ID)
	require.NoError(t, err)
	assert.False(t, warn)

	_, _, err = lib.Open(ctx, img.ID)
	assert.True(t, errs.IsNotFound(err))
}

func writeDICOM(t *testing.T, path, modality string) {
	t.Helper()
	el := func(tg tag.Tag, v any) *dicom.Element {
		e, err := dicom.NewElement(tg, v)
		require.NoError(t, err)
		return e
	}
	ds := dicom.Dataset{Elements: []*dicom.Element{
		el(tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		el(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.3"}),
		el(tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		el(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		el(tag.ImplementationClassUID, []string{"1.2.826.0.1.3680043.8.498"}),
		el(tag.Modality, []string{modality}),
		el(tag.PatientName, []string{"TEST^PATIENT"}),
	}}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, dicom.Write(f, ds))
}
