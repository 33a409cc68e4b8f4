package selection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLoader struct {
	mu    sync.Mutex
	calls int
	rows  map[uint]*models.Patient
}

func (f *fakeLoader) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.rows[id]
	if !ok {
		return nil, errs.NotFound("fake.GetPatient", nil)
	}
	cp := *p
	return &cp, nil
}

func newLoader() *fakeLoader {
	return &fakeLoader{rows: map[uint]*models.Patient{
		1: {ID: 1, LastName: "Slama", FirstName: "Ons"},
		2: {ID: 2, LastName: "Tlili", FirstName: "Fares"},
	}}
}

func TestSetNotifiesOnceInOrder(t *testing.T) {
	sel := New(newLoader(), time.Minute)
	ctx := context.Background()

	var got []string
	sel.Subscribe(func(id uint, p *models.Patient) { got = append(got, "a:"+p.LastName) })
	sel.Subscribe(func(id uint, p *models.Patient) { got = append(got, "b:"+p.LastName) })

	changed, err := sel.Set(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a:Slama", "b:Slama"}, got)

	changed, err = sel.Set(ctx, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, got, 2, "same id is a no-op")

	id, snap := sel.Current()
	assert.Equal(t, uint(1), id)
	assert.Equal(t, "Slama, Ons", snap.DisplayName())
}

func TestClearAndUnsubscribe(t *testing.T) {
	sel := New(newLoader(), time.Minute)
	ctx := context.Background()

	var ids []uint
	var nilSnap bool
	unsub := sel.Subscribe(func(id uint, p *models.Patient) {
		ids = append(ids, id)
		nilSnap = p == nil
	})

	_, err := sel.Set(ctx, 2)
	require.NoError(t, err)
	changed, err := sel.Clear(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []uint{2, 0}, ids)
	assert.True(t, nilSnap)

	unsub()
	_, err = sel.Set(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 0}, ids)
}

func TestUnknownPatientLeavesSelection(t *testing.T) {
	sel := New(newLoader(), time.Minute)
	ctx := context.Background()
	_, err := sel.Set(ctx, 1)
	require.NoError(t, err)

	notified := false
	sel.Subscribe(func(uint, *models.Patient) { notified = true })
	_, err = sel.Set(ctx, 99)
	assert.True(t, errs.IsNotFound(err))
	assert.False(t, notified)
	id, _ := sel.Current()
	assert.Equal(t, uint(1), id)
}

func TestSnapshotsAreCached(t *testing.T) {
	loader := newLoader()
	sel := New(loader, time.Minute)
	ctx := context.Background()

	for _, id := range []uint{1, 2, 1, 2} {
		_, err := sel.Set(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, loader.calls)

	loader.rows[1].Phone = "55 555 555"
	require.NoError(t, sel.Invalidate(ctx, 2))
	_, snap := sel.Current()
	assert.Equal(t, 3, loader.calls)
	assert.Equal(t, "Tlili", snap.LastName)

	require.NoError(t, sel.Invalidate(ctx, 1))
	_, err := sel.Set(ctx, 1)
	require.NoError(t, err)
	_, snap = sel.Current()
	assert.Equal(t, "55 555 555", snap.Phone)
}

func TestListenerMayReadSelection(t *testing.T) {
	sel := New(newLoader(), time.Minute)
	var seen uint
	sel.Subscribe(func(uint, *models.Patient) {
		seen, _ = sel.Current()
	})
	_, err := sel.Set(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), seen)
}

func TestConcurrentSetIsSafe(t *testing.T) {
	sel := New(newLoader(), time.Minute)
	var mu sync.Mutex
	count := 0
	sel.Subscribe(func(uint, *models.Patient) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sel.Set(context.Background(), uint(i%2+1))
		}()
	}
	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, count)
	assert.LessOrEqual(t, count, 20)
}
