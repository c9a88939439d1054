// Package store persists agent state snapshots in a bbolt database, keyed by
// a caller-chosen label, optionally sealed with a password.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/btcagentorg/libbtcagent-go/agent"
)

var bucketStates = []byte("agent_states")

// Flag byte prefixing each stored record.
const (
	flagPlain     byte = 0x00
	flagEncrypted byte = 0x01
)

// BoltStore wraps a bbolt database holding gob-encoded agent snapshots.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath. The parent directory is
// created if it does not exist.
func Open(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketStates)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// SaveState stores a snapshot under label, overwriting any previous snapshot
// with that label. A non-empty password seals the record at rest.
func (s *BoltStore) SaveState(label string, state *agent.AgentState, password string) error {
	if label == "" {
		return ErrEmptyLabel
	}

	payload, err := encodeGob(state)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	record := []byte{flagPlain}
	if password != "" {
		sealed, err := seal(payload, password)
		if err != nil {
			return err
		}
		record[0] = flagEncrypted
		payload = sealed
	}
	record = append(record, payload...)

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketStates).Put([]byte(label), record); err != nil {
			return fmt.Errorf("store: put state: %w", err)
		}
		return nil
	})
}

// LoadState retrieves the snapshot stored under label. The password must
// match the one used to save an encrypted record and must be empty for a
// plain one.
func (s *BoltStore) LoadState(label string, password string) (*agent.AgentState, error) {
	if label == "" {
		return nil, ErrEmptyLabel
	}

	var record []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStates).Get([]byte(label))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrStateNotFound, label)
		}
		record = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(record) < 1 {
		return nil, fmt.Errorf("store: empty record for %s", label)
	}

	payload := record[1:]
	if record[0] == flagEncrypted {
		if password == "" {
			return nil, fmt.Errorf("%w: %s", ErrPasswordRequired, label)
		}
		payload, err = open(payload, password)
		if err != nil {
			return nil, err
		}
	}

	var state agent.AgentState
	if err := decodeGob(payload, &state); err != nil {
		return nil, fmt.Errorf("store: decode state: %w", err)
	}
	return &state, nil
}

// DeleteState removes the snapshot stored under label.
func (s *BoltStore) DeleteState(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStates)
		if b.Get([]byte(label)) == nil {
			return fmt.Errorf("%w: %s", ErrStateNotFound, label)
		}
		return b.Delete([]byte(label))
	})
}

// ListLabels returns every stored snapshot label in key order.
func (s *BoltStore) ListLabels() ([]string, error) {
	var labels []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStates).ForEach(func(k, v []byte) error {
			labels = append(labels, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list labels: %w", err)
	}
	return labels, nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
