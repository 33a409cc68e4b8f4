package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := db.Open("sqlite", dsn, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.Migrate(conn, "auto"))
	return New(conn, nil)
}

func seedPatient(t *testing.T, s *Store, last, first string) *models.Patient {
	t.Helper()
	p := &models.Patient{LastName: last, FirstName: first, Phone: "71 000 000"}
	require.NoError(t, s.CreatePatient(context.Background(), p))
	return p
}
