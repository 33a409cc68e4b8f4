// Package selection holds the active patient shared by the panels of one
// session.
package selection

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/diewo77/dentalsoft/internal/models"
)

// Loader fetches a patient snapshot.
type Loader interface {
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
}

// Listener is notified with the new active patient id and its snapshot. The
// snapshot is nil when the selection is cleared.
type Listener func(id uint, p *models.Patient)

type subscriber struct {
	id int
	fn Listener
}

// Context is the active-patient holder. The zero value is not usable; call
// New.
type Context struct {
	loader Loader
	cache  *cache.Cache

	mu       sync.Mutex
	current  uint
	snapshot *models.Patient
	subs     []subscriber
	nextSub  int
}

// New returns an empty selection. Snapshots are cached for ttl.
func New(loader Loader, ttl time.Duration) *Context {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// No janitor goroutine: expired entries are skipped on read and
	// overwritten on the next load.
	return &Context{loader: loader, cache: cache.New(ttl, 0)}
}

// Current returns the active patient id (0 when none) and its snapshot.
func (c *Context) Current() (uint, *models.Patient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.snapshot
}

// Set makes id the active patient. Setting the current id again does
// nothing. Otherwise every subscriber is called once, in subscription
// order, after the lock is released. changed reports whether a
// notification happened.
func (c *Context) Set(ctx context.Context, id uint) (changed bool, err error) {
	c.mu.Lock()
	if id == c.current {
		c.mu.Unlock()
		return false, nil
	}
	var snap *models.Patient
	if id != 0 {
		snap, err = c.load(ctx, id)
		if err != nil {
			c.mu.Unlock()
			return false, err
		}
	}
	c.current = id
	c.snapshot = snap
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(id, snap)
	}
	return true, nil
}

// Clear deselects the active patient.
func (c *Context) Clear(ctx context.Context) (bool, error) {
	return c.Set(ctx, 0)
}

// Subscribe registers fn and returns a function removing it.
func (c *Context) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() { c.unsubscribe(id) }
}

func (c *Context) unsubscribe(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Invalidate drops the cached snapshot of a patient after it was edited and
// reloads it when it is the active one. Subscribers are not notified.
func (c *Context) Invalidate(ctx context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Delete(key(id))
	if id == 0 || id != c.current {
		return nil
	}
	snap, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	c.snapshot = snap
	return nil
}

// load must be called with mu held.
func (c *Context) load(ctx context.Context, id uint) (*models.Patient, error) {
	if v, ok := c.cache.Get(key(id)); ok {
		return v.(*models.Patient), nil
	}
	p, err := c.loader.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key(id), p)
	return p, nil
}

func key(id uint) string { return strconv.FormatUint(uint64(id), 10) }
