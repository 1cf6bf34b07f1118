// Package cache is the persisted snapshot cache. One entry survives process
// restarts and is served instantly on startup while a fresh fetch runs.
package cache

import (
	"encoding/json"
	"time"

	"go-pipeline/internal/config"
	"go-pipeline/internal/models"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// SnapshotKey is the single key the sync controller uses.
const SnapshotKey = "initialData"

type entry struct {
	Timestamp int64           `json:"timestamp"` // unix millis at write time
	Data      models.Snapshot `json:"data"`
}

type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *zap.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewStore opens the cache at the configured path.
func NewStore(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(cfg.CachePath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, ttl: cfg.CacheTTL, logger: logger, now: time.Now}, nil
}

// NewInMemory opens a non-persistent store, used by tests.
func NewInMemory(ttl time.Duration, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, ttl: ttl, logger: logger, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached snapshot, or absent when no entry exists, the entry
// is older than the TTL, or the payload no longer deserializes. Expired and
// corrupt entries are dropped on read; Get itself never fails.
func (s *Store) Get(key string) (models.Snapshot, bool) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return models.Snapshot{}, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.logger.Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		s.delete(key)
		return models.Snapshot{}, false
	}

	age := s.now().UnixMilli() - e.Timestamp
	if age > s.ttl.Milliseconds() {
		s.delete(key)
		return models.Snapshot{}, false
	}

	return e.Data, true
}

// Set writes the snapshot under key, stamped with the current time.
func (s *Store) Set(key string, snapshot models.Snapshot) error {
	raw, err := json.Marshal(entry{
		Timestamp: s.now().UnixMilli(),
		Data:      snapshot,
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
}

// SetRaw writes an arbitrary payload under key. Tests use it to plant
// corrupt entries; the gateway itself only writes through Set.
func (s *Store) SetRaw(key string, raw []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
}

func (s *Store) delete(key string) {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		s.logger.Warn("failed to drop cache entry", zap.String("key", key), zap.Error(err))
	}
}
