package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobex-scraper/internal/config"
	"jobex-scraper/internal/scraper"
	"jobex-scraper/pkg/models"
)

type memStore struct {
	mu      sync.Mutex
	values  map[string]uint64
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	getHits int
}

func newMemStore() *memStore {
	return &memStore{values: map[string]uint64{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(ctx context.Context, key string) (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	v, ok := m.values[key]
	if ok {
		m.getHits++
	}
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key string, value uint64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Close() error { return nil }

type countingScraper struct {
	count models.JobCount
	err   error
	calls int
}

func (s *countingScraper) Name() string { return "indeed" }

func (s *countingScraper) JobCount(ctx context.Context, title string) (models.JobCount, error) {
	s.calls++
	return s.count, s.err
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("indeed", "software engineer"), Key("indeed", "software engineer"))
	assert.NotEqual(t, Key("indeed", "Software Engineer "), Key("indeed", "software engineer"),
		"titles that encode to different queries keep separate entries")
	assert.NotEqual(t, Key("indeed", "chef"), Key("seek", "chef"))
	assert.Regexp(t, `^jobex:count:indeed:[0-9a-f]{16}$`, Key("indeed", "chef"))
}

// TestWrap_CachesPresentCounts verifies a found count is served from the store on the next call
func TestWrap_CachesPresentCounts(t *testing.T) {
	store := newMemStore()
	inner := &countingScraper{count: models.CountOf(42)}
	s := Wrap(inner, store, time.Minute, nil)

	for i := 0; i < 3; i++ {
		count, err := s.JobCount(context.Background(), "chef")
		require.NoError(t, err)
		assert.Equal(t, models.CountOf(42), count)
	}

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 2, store.getHits)
	assert.Equal(t, time.Minute, store.ttls[Key("indeed", "chef")])
	assert.Equal(t, "indeed", s.Name())
}

// TestWrap_DistinctTitlesMiss verifies a differently written title is scraped, not served
func TestWrap_DistinctTitlesMiss(t *testing.T) {
	store := newMemStore()
	inner := &countingScraper{count: models.CountOf(5)}
	s := Wrap(inner, store, time.Minute, nil)

	_, err := s.JobCount(context.Background(), "software engineer")
	require.NoError(t, err)
	_, err = s.JobCount(context.Background(), "Software Engineer ")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Len(t, store.values, 2)
}

// TestWrap_SkipsAbsentAndFailed verifies absences and errors are never stored
func TestWrap_SkipsAbsentAndFailed(t *testing.T) {
	store := newMemStore()

	absent := &countingScraper{count: models.NoCount}
	s := Wrap(absent, store, time.Minute, nil)
	for i := 0; i < 2; i++ {
		count, err := s.JobCount(context.Background(), "chef")
		require.NoError(t, err)
		assert.False(t, count.Found)
	}
	assert.Equal(t, 2, absent.calls)

	failing := &countingScraper{err: scraper.NewError(scraper.ErrParse, "indeed", "bad", nil)}
	s = Wrap(failing, store, time.Minute, nil)
	_, err := s.JobCount(context.Background(), "chef")
	assert.True(t, errors.Is(err, scraper.ErrParse))

	assert.Empty(t, store.values)
}

// TestWrap_StoreFailuresFallThrough verifies a broken store never fails a scrape
func TestWrap_StoreFailuresFallThrough(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")

	inner := &countingScraper{count: models.CountOf(7)}
	count, err := Wrap(inner, store, time.Minute, nil).JobCount(context.Background(), "chef")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), count.Value)
	assert.Equal(t, 1, inner.calls)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "not-a-redis-url"

	_, err := NewRedisStore(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
