package pagestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/metadata"
	"github.com/rohmanhakim/consents/internal/pagestore/cache"
	"github.com/rohmanhakim/consents/internal/recordsvc"
	"github.com/rs/zerolog"
)

/*
Store is the single authority for pagination state and the page cache.

Every operation takes a sequence number when it is issued. A fetch that
settles after a later operation was issued is superseded: its result may
fill an absent cache key, but it never touches CurrentPage, Total or Err.

The exception is a superseded SubmitAndRefresh that succeeded. The append
made its landing page and the total stale, so it still overwrites the
landing page and records the fresh total, unless a later-issued operation
has already set one.

Loading is true while at least one fetch is in flight, so a superseded fetch
still closes its own loading bracket.

Network calls run outside the lock; state transitions happen under it.
*/
type Store struct {
	client       recordsvc.Service
	cache        cache.PageCache
	metadataSink metadata.MetadataSink
	logger       zerolog.Logger
	pageSize     int

	mu          sync.Mutex
	currentPage int
	total       int
	inFlight    int
	err         string
	seq         uint64
	totalSeq    uint64

	listenersMu  sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

type Option func(*Store)

func WithCache(c cache.PageCache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

func WithMetadataSink(sink metadata.MetadataSink) Option {
	return func(s *Store) {
		s.metadataSink = sink
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.With().Str("component", "pagestore").Logger()
	}
}

// WithInitialPage sets the page shown before the first request.
func WithInitialPage(page int) Option {
	return func(s *Store) {
		s.currentPage = page
	}
}

// WithInitialData pre-seeds the cache, typically with a server-rendered
// first page.
func WithInitialData(pages map[int][]consent.Record) Option {
	return func(s *Store) {
		for page, records := range pages {
			s.cache.Put(page, records)
		}
	}
}

func WithInitialTotal(total int) Option {
	return func(s *Store) {
		s.total = total
	}
}

// New creates a store. Options are applied in order, so WithCache must come
// before WithInitialData when both are given.
func New(client recordsvc.Service, pageSize int, opts ...Option) (*Store, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}

	s := &Store{
		client:       client,
		cache:        cache.NewMemoryCache(),
		metadataSink: &metadata.NoopSink{},
		logger:       zerolog.Nop(),
		pageSize:     pageSize,
		currentPage:  1,
		listeners:    make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.currentPage < 1 {
		return nil, invalidPage(s.currentPage)
	}
	if s.total < 0 {
		s.total = 0
	}

	return s, nil
}

// State returns a snapshot of the pagination state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		CurrentPage: s.currentPage,
		PageSize:    s.pageSize,
		Total:       s.total,
		Loading:     s.inFlight > 0,
		Err:         s.err,
	}
}

// Page returns a copy of a cached page.
func (s *Store) Page(page int) ([]consent.Record, bool) {
	return s.cache.Get(page)
}

// CurrentRecords returns the records of the current page, or an empty
// slice when that page has not been loaded yet.
func (s *Store) CurrentRecords() []consent.Record {
	s.mu.Lock()
	page := s.currentPage
	s.mu.Unlock()

	if records, ok := s.cache.Get(page); ok {
		return records
	}
	return []consent.Record{}
}

// CachedPages lists the page numbers currently held in the cache.
func (s *Store) CachedPages() []int {
	return s.cache.Pages()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not block.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify(state State) {
	s.listenersMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// RequestPage shows page n, fetching it only on a cache miss.
//
// The only error returned is ErrInvalidPage. Service failures are reported
// through State.Err and leave CurrentPage and the cache untouched.
func (s *Store) RequestPage(ctx context.Context, n int) error {
	if n < 1 {
		return invalidPage(n)
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq

	if _, hit := s.cache.Get(n); hit {
		s.currentPage = n
		state := s.stateLocked()
		s.mu.Unlock()

		s.metadataSink.RecordCacheAccess(n, true)
		s.notify(state)
		return nil
	}

	s.inFlight++
	s.err = ""
	state := s.stateLocked()
	s.mu.Unlock()

	s.metadataSink.RecordCacheAccess(n, false)
	s.notify(state)

	result, err := s.client.List(ctx, n, s.pageSize)

	s.mu.Lock()
	s.inFlight--
	latest := seq == s.seq

	switch {
	case err != nil && latest:
		s.err = errorMessage(err, MsgFetchFailed)
		s.logger.Debug().Err(err).Int("page", n).Msg("page fetch failed")

	case err != nil:
		s.logger.Debug().Err(err).Int("page", n).Msg("superseded page fetch failed")

	case latest:
		s.cache.Put(n, result.Records())
		s.setTotalLocked(result.Total(), seq)
		s.currentPage = n

	default:
		s.cache.PutIfAbsent(n, result.Records())
		s.logger.Debug().Int("page", n).Msg("superseded page fetch discarded")
	}

	state = s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return nil
}

// SubmitAndRefresh appends record, then moves to the page that now holds
// it: page 1 is listed for the fresh total, and the landing page is fetched
// and overwrites its cache entry.
//
// It reports whether the record was appended. A refresh failure after a
// successful append still returns true; the failure is in State.Err.
func (s *Store) SubmitAndRefresh(ctx context.Context, record consent.Record) bool {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inFlight++
	s.err = ""
	state := s.stateLocked()
	s.mu.Unlock()

	s.notify(state)

	appended, landing, records, total, err := s.appendAndLocate(ctx, record)

	s.mu.Lock()
	s.inFlight--
	latest := seq == s.seq

	switch {
	case err != nil && latest:
		s.err = errorMessage(err, MsgRefreshFailed)
		s.logger.Debug().Err(err).Bool("appended", appended).Msg("submit and refresh failed")

	case err != nil:
		s.logger.Debug().Err(err).Bool("appended", appended).Msg("superseded submit and refresh failed")

	case latest:
		s.cache.Put(landing, records)
		s.setTotalLocked(total, seq)
		s.currentPage = landing

	default:
		s.cache.Put(landing, records)
		s.setTotalLocked(total, seq)
		s.logger.Debug().Int("page", landing).Msg("superseded refresh kept landing page")
	}

	state = s.stateLocked()
	s.mu.Unlock()

	s.notify(state)
	return appended
}

// setTotalLocked records total unless a later-issued operation already
// set one.
func (s *Store) setTotalLocked(total int, seq uint64) {
	if seq < s.totalSeq {
		return
	}
	s.total = total
	s.totalSeq = seq
}

// appendAndLocate performs the three service calls of SubmitAndRefresh
// without touching store state.
func (s *Store) appendAndLocate(
	ctx context.Context,
	record consent.Record,
) (appended bool, landing int, records []consent.Record, total int, err error) {
	if _, submitErr := s.client.Append(ctx, record); submitErr != nil {
		return false, 0, nil, 0, submitErr
	}

	first, fetchErr := s.client.List(ctx, 1, s.pageSize)
	if fetchErr != nil {
		return true, 0, nil, 0, fetchErr
	}

	total = first.Total()
	landing = LandingPage(total, s.pageSize)
	if landing == 1 {
		return true, landing, first.Records(), total, nil
	}

	last, fetchErr := s.client.List(ctx, landing, s.pageSize)
	if fetchErr != nil {
		return true, 0, nil, 0, fetchErr
	}

	return true, landing, last.Records(), total, nil
}
