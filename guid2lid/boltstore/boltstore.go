// Package boltstore backs guid2lid.Store with go.etcd.io/bbolt: one
// bucket, big-endian 8-byte GUID keys, 4-byte (min_lid, max_lid) values.
// This is the concrete persistent database engine the rest of the LID
// Manager treats as an opaque external collaborator (spec §1, §6).
package boltstore

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/ib-subnet/lidmgr/fault"
	"github.com/ib-subnet/lidmgr/lid"
)

var bucketName = []byte("guid2lid")

// Store is a bbolt-backed guid2lid.Store.
type Store struct {
	mu   sync.RWMutex
	db   *bolt.DB
	live map[uint64]lid.Range
}

// Open opens (creating if necessary) a bbolt database at path and returns
// a Store over it. The caller owns the returned Store's lifetime and
// should call Close when done.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fault.FaultStoreOpenFailed(path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(fault.FaultStoreOpenFailed(path, err), "create guid2lid bucket")
	}
	return &Store{db: db, live: make(map[uint64]lid.Range)}, nil
}

// Close releases the underlying bbolt database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeKey(guid uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, guid)
	return k
}

func decodeKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k)
}

func encodeValue(r lid.Range) []byte {
	v := make([]byte, 4)
	binary.BigEndian.PutUint16(v[0:2], uint16(r.Min))
	binary.BigEndian.PutUint16(v[2:4], uint16(r.Max))
	return v
}

func decodeValue(v []byte) lid.Range {
	return lid.Range{
		Min: lid.LID(binary.BigEndian.Uint16(v[0:2])),
		Max: lid.LID(binary.BigEndian.Uint16(v[2:4])),
	}
}

// Load reads every (guid, range) pair from the bucket into memory,
// replacing whatever was there. A successful Store followed by Load
// round-trips all Set entries exactly (spec §6).
func (s *Store) Load(_ context.Context) error {
	live := make(map[uint64]lid.Range)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(k) != 8 || len(v) != 4 {
				return errors.Errorf("guid2lid: malformed record (key=%d bytes, value=%d bytes)", len(k), len(v))
			}
			live[decodeKey(k)] = decodeValue(v)
			return nil
		})
	})
	if err != nil {
		return errors.Wrap(err, "load guid2lid database")
	}

	s.mu.Lock()
	s.live = live
	s.mu.Unlock()
	return nil
}

// Store flushes the in-memory map to the bucket, replacing its contents.
func (s *Store) Store(_ context.Context) error {
	s.mu.RLock()
	snapshot := make(map[uint64]lid.Range, len(s.live))
	for g, r := range s.live {
		snapshot[g] = r
	}
	s.mu.RUnlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketName)
		if err != nil {
			return err
		}
		for g, r := range snapshot {
			if err := b.Put(encodeKey(g), encodeValue(r)); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "store guid2lid database")
}

// Clear empties both the in-memory map and the backing bucket.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.live = make(map[uint64]lid.Range)
	s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
	return errors.Wrap(err, "clear guid2lid database")
}

// Get returns guid's assignment from the in-memory map, if any.
func (s *Store) Get(guid uint64) (lid.Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.live[guid]
	return r, ok
}

// Set assigns r to guid in memory. Callers flush with Store at the end of
// a sweep (spec §4.2: "Lifecycle: ... flushed at end of each full sweep").
func (s *Store) Set(guid uint64, r lid.Range) error {
	if guid == 0 {
		return errors.New("boltstore: refusing to set zero guid")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live[guid] = r
	return nil
}

// Delete removes guid's in-memory assignment, if any.
func (s *Store) Delete(guid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.live, guid)
	return nil
}

// IterateGUIDs visits every in-memory (guid, range) pair.
func (s *Store) IterateGUIDs(fn func(guid uint64, r lid.Range) error) error {
	s.mu.RLock()
	snapshot := make(map[uint64]lid.Range, len(s.live))
	for g, r := range s.live {
		snapshot[g] = r
	}
	s.mu.RUnlock()

	for g, r := range snapshot {
		if err := fn(g, r); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of in-memory assignments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.live)
}
