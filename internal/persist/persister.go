package persist

import (
	"context"
	"sort"
	"sync"
	"time"

	"venuecal/internal/metrics"

	"github.com/rs/zerolog"
)

// SnapshotFunc serializes a store's current contents.
type SnapshotFunc func() ([]byte, error)

// Persister flushes dirty stores to the snapshot database in the
// background. Mutations stay optimistic: the in-memory change is already
// applied when the flush runs, and a failed flush leaves the store marked
// dirty so the divergence between memory and disk is visible instead of
// silent.
type Persister struct {
	db     *DB
	logger *zerolog.Logger
	retry  RetryPolicy

	mu      sync.Mutex
	sources map[string]SnapshotFunc
	dirty   map[string]bool
	wake    chan struct{}
}

func NewPersister(db *DB, retry RetryPolicy, logger *zerolog.Logger) *Persister {
	return &Persister{
		db:      db,
		logger:  logger,
		retry:   retry,
		sources: make(map[string]SnapshotFunc),
		dirty:   make(map[string]bool),
		wake:    make(chan struct{}, 1),
	}
}

// Register binds a store name to its snapshot source. Must be called
// before MarkDirty for that store.
func (p *Persister) Register(store string, fn SnapshotFunc) {
	p.mu.Lock()
	p.sources[store] = fn
	p.mu.Unlock()
}

// MarkDirty schedules a flush for the store. Safe to call from any
// goroutine; it never blocks, so it can serve as a store ChangeFunc.
func (p *Persister) MarkDirty(store string) {
	p.mu.Lock()
	p.dirty[store] = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Dirty returns the stores whose in-memory state is ahead of disk.
func (p *Persister) Dirty() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.dirty))
	for name, d := range p.dirty {
		if d {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Run flushes dirty stores until the context is cancelled, then makes a
// final flush attempt so a clean shutdown loses nothing.
func (p *Persister) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.flushDirty(context.Background())
			return
		case <-p.wake:
			p.flushDirty(ctx)
		}
	}
}

// Flush synchronously flushes everything currently dirty.
func (p *Persister) Flush(ctx context.Context) {
	p.flushDirty(ctx)
}

func (p *Persister) flushDirty(ctx context.Context) {
	for _, store := range p.takeDirty() {
		if !p.flushStore(ctx, store) {
			// Leave the dirty flag set; next mutation or Flush retries.
			p.mu.Lock()
			p.dirty[store] = true
			p.mu.Unlock()
		}
	}
}

func (p *Persister) takeDirty() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for name, d := range p.dirty {
		if d {
			out = append(out, name)
			p.dirty[name] = false
		}
	}
	sort.Strings(out)
	return out
}

func (p *Persister) flushStore(ctx context.Context, store string) bool {
	p.mu.Lock()
	source := p.sources[store]
	p.mu.Unlock()
	if source == nil {
		p.logger.Error().Str("store", store).Msg("no snapshot source registered")
		return false
	}

	max := p.retry.MaxRetries
	if max <= 0 {
		max = DefaultRetryPolicy().MaxRetries
	}
	for attempt := 1; attempt <= max; attempt++ {
		payload, err := source()
		if err != nil {
			p.logger.Error().Err(err).Str("store", store).Msg("snapshot serialization failed")
			metrics.IncSnapshotFlush("error")
			return false
		}
		if err := p.db.SaveSnapshot(ctx, store, payload); err == nil {
			metrics.IncSnapshotFlush("ok")
			return true
		} else if attempt < max {
			p.logger.Warn().Err(err).Str("store", store).Int("attempt", attempt).Msg("snapshot flush failed, retrying")
			select {
			case <-ctx.Done():
				return false
			case <-time.After(p.retry.NextDelay(attempt)):
			}
		} else {
			p.logger.Error().Err(err).Str("store", store).Msg("snapshot flush failed, store left dirty")
		}
	}
	metrics.IncSnapshotFlush("error")
	return false
}
