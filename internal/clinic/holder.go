package clinic

import "sync"

// Holder keeps the current configuration in memory and persists updates.
type Holder struct {
	path string
	mu   sync.RWMutex
	cfg  Config
}

// NewHolder loads path once. A load error is returned with a usable holder
// carrying the defaults.
func NewHolder(path string) (*Holder, error) {
	cfg, err := Load(path)
	return &Holder{path: path, cfg: cfg}, err
}

// Get returns a copy of the current configuration.
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Update saves cfg and makes it current. On failure the previous
// configuration is kept.
func (h *Holder) Update(cfg Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := Save(h.path, cfg); err != nil {
		return err
	}
	h.cfg = cfg
	return nil
}
