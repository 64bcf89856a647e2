package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KV is a key-value view of the store under a key prefix. Each player gets
// its own namespace; it implements sim.Persistence.
type KV struct {
	store  *Store
	prefix string
}

// Namespace returns the key-value view for prefix.
func (s *Store) Namespace(prefix string) *KV {
	return &KV{store: s, prefix: prefix + "/"}
}

func (kv *KV) key(k string) string {
	return kv.prefix + k
}

// Get returns the raw value of a key, or ErrNotFound.
func (kv *KV) Get(key string) ([]byte, error) {
	s := kv.store
	var value []byte
	err := s.db.QueryRow(s.rebind("SELECT value FROM kv WHERE key = ?"), kv.key(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, nil
}

// Put stores the raw value of a key.
func (kv *KV) Put(key string, value []byte) error {
	s := kv.store
	_, err := s.db.Exec(s.rebind(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`),
		kv.key(key), value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// LoadState returns the blob of key; ok is false when it is absent.
func (kv *KV) LoadState(key string) ([]byte, bool, error) {
	value, err := kv.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// SaveState stores a blob.
func (kv *KV) SaveState(key string, blob []byte) error {
	return kv.Put(key, blob)
}

// RemoveState deletes a key. Missing keys are not an error.
func (kv *KV) RemoveState(key string) error {
	s := kv.store
	if _, err := s.db.Exec(s.rebind("DELETE FROM kv WHERE key = ?"), kv.key(key)); err != nil {
		return fmt.Errorf("storage: cannot remove %s: %w", key, err)
	}
	return nil
}

// GetNumber reads a number, returning def when it is missing or unreadable.
func (kv *KV) GetNumber(key string, def float64) float64 {
	value, err := kv.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.ParseFloat(string(value), 64)
	if err != nil {
		return def
	}
	return n
}

// SetNumber stores a number.
func (kv *KV) SetNumber(key string, v float64) error {
	return kv.Put(key, []byte(strconv.FormatFloat(v, 'g', -1, 64)))
}

// Keys lists the keys of the namespace, without the prefix.
func (kv *KV) Keys() ([]string, error) {
	s := kv.store
	rows, err := s.db.Query(s.rebind("SELECT key FROM kv WHERE key LIKE ? ORDER BY key"), likePrefix(kv.prefix))
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan key: %w", err)
		}
		if strings.HasPrefix(k, kv.prefix) {
			keys = append(keys, strings.TrimPrefix(k, kv.prefix))
		}
	}
	return keys, rows.Err()
}

// Clear deletes every key of the namespace.
func (kv *KV) Clear() error {
	keys, err := kv.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := kv.RemoveState(k); err != nil {
			return err
		}
	}
	return nil
}

// likePrefix returns a LIKE pattern matching at least every key starting
// with prefix. Callers filter the rows again.
func likePrefix(prefix string) string {
	if i := strings.IndexAny(prefix, "%_"); i >= 0 {
		prefix = prefix[:i]
	}
	return prefix + "%"
}
