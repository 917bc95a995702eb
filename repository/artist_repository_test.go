package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memNameDriver is a minimal database/sql driver backing the get-or-create
// tests. Its Exec of the ON DUPLICATE KEY UPDATE statement is atomic per
// store, the same guarantee the UNIQUE(name) constraint provides in MySQL, so
// the repository's single-statement path is exercised under real concurrency.

type memNameStore struct {
	mu   sync.Mutex
	next int64
	ids  map[string]int64
}

func (s *memNameStore) getOrCreate(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[name]; ok {
		return id
	}
	s.next++
	s.ids[name] = s.next
	return s.next
}

var (
	memStoresMu     sync.Mutex
	memStores       = make(map[string]*memNameStore)
	registerMemOnce sync.Once
)

type memNameDriver struct{}

func (memNameDriver) Open(dsn string) (driver.Conn, error) {
	memStoresMu.Lock()
	defer memStoresMu.Unlock()
	store, ok := memStores[dsn]
	if !ok {
		store = &memNameStore{ids: make(map[string]int64)}
		memStores[dsn] = store
	}
	return &memNameConn{store: store}, nil
}

type memNameConn struct {
	store *memNameStore
}

func (c *memNameConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepared statements not supported")
}

func (c *memNameConn) Close() error { return nil }

func (c *memNameConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("transactions not supported")
}

func (c *memNameConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if !strings.Contains(query, "ON DUPLICATE KEY UPDATE") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	name, ok := args[0].Value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string name argument, got %T", args[0].Value)
	}
	return memExecResult{id: c.store.getOrCreate(name)}, nil
}

type memExecResult struct {
	id int64
}

func (r memExecResult) LastInsertId() (int64, error) { return r.id, nil }
func (r memExecResult) RowsAffected() (int64, error) { return 1, nil }

func openMemNameDB(t *testing.T) *sql.DB {
	t.Helper()
	registerMemOnce.Do(func() { sql.Register("memname", memNameDriver{}) })
	db, err := sql.Open("memname", t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetOrCreateArtistConcurrentSameName(t *testing.T) {
	repo := NewMySQLArtistRepository(openMemNameDB(t))

	const workers = 32
	ids := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			artist, err := repo.GetOrCreateArtist("Charlie Parker")
			if assert.NoError(t, err) {
				ids <- artist.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	// Every caller introducing the same new name converges on one row.
	seen := make(map[int64]int)
	total := 0
	for id := range ids {
		seen[id]++
		total++
	}
	require.Equal(t, workers, total)
	assert.Len(t, seen, 1)
}

func TestGetOrCreateArtistDistinctNames(t *testing.T) {
	repo := NewMySQLArtistRepository(openMemNameDB(t))

	a, err := repo.GetOrCreateArtist("Miles Davis")
	require.NoError(t, err)
	b, err := repo.GetOrCreateArtist("John Coltrane")
	require.NoError(t, err)
	again, err := repo.GetOrCreateArtist("Miles Davis")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ID, again.ID)
	assert.Equal(t, "Miles Davis", again.Name)
}

func TestGetOrCreateAlbumConcurrentSameName(t *testing.T) {
	repo := NewMySQLAlbumRepository(openMemNameDB(t))

	const workers = 32
	ids := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			album, err := repo.GetOrCreateAlbum("Kind of Blue")
			if assert.NoError(t, err) {
				ids <- album.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]int)
	total := 0
	for id := range ids {
		seen[id]++
		total++
	}
	require.Equal(t, workers, total)
	assert.Len(t, seen, 1)
}
