package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesSubfolders(t *testing.T) {
	root := t.TempDir()
	l, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "images"), l.Images)
	assert.Equal(t, filepath.Join(root, "ordonnances"), l.Prescriptions)
	assert.Equal(t, filepath.Join(root, "factures"), l.Invoices)
	assert.Equal(t, filepath.Join(root, DatabaseFile), l.DatabasePath())
	assert.Equal(t, filepath.Join(root, ClinicConfigFile), l.ClinicConfigPath())
}

func TestNewDoesNotTouchDisk(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet")
	_, err := New(root)
	require.NoError(t, err)
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureIsIdempotent(t *testing.T) {
	l, err := New(filepath.Join(t.TempDir(), "DentalSoft"))
	require.NoError(t, err)

	require.NoError(t, l.Ensure())
	require.NoError(t, l.Ensure())

	for _, dir := range l.Dirs() {
		fi, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, fi.IsDir(), dir)
	}
}

func TestDefaultRootUnderDocuments(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, AppFolder, filepath.Base(root))
	assert.Equal(t, "Documents", filepath.Base(filepath.Dir(root)))
}
