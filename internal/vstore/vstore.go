// Package vstore persists the known legacy verification values HUTs are
// checked against, in a single bbolt bucket keyed by HUT name.
package vstore

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

const bucketName = "LegacyVerification"

// Store is a bbolt-backed table of HUT name -> expected verification value.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the verification-value database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open verification store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create verification bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put records the expected verification value for a HUT name.
func (s *Store) Put(name string, value uint32) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], value)
		return b.Put([]byte(name), buf[:])
	})
}

// Lookup returns the expected verification value for a HUT name and
// whether an entry exists at all. A zero value with ok==true is the
// documented "untested, skip" sentinel rather than an absent entry.
func (s *Store) Lookup(name string) (value uint32, ok bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		v := b.Get([]byte(name))
		if v == nil {
			ok = false
			return nil
		}
		ok = true
		value = binary.LittleEndian.Uint32(v)
		return nil
	})
	return value, ok, err
}

// All returns every recorded HUT name -> expected verification value.
func (s *Store) All() (map[string]uint32, error) {
	out := make(map[string]uint32)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		return b.ForEach(func(k, v []byte) error {
			out[string(k)] = binary.LittleEndian.Uint32(v)
			return nil
		})
	})
	return out, err
}

// Verdict classifies an observed verification value against the store.
type Verdict int

const (
	// Unknown means the HUT has no recorded expected value.
	Unknown Verdict = iota
	// Skip means the expected value is the documented zero sentinel.
	Skip
	// Match means observed equals the recorded expected value.
	Match
	// Mismatch means observed differs from a non-zero expected value.
	Mismatch
)

// Check compares an observed verification value against the stored
// expectation for name, applying the zero-sentinel skip convention.
func (s *Store) Check(name string, observed uint32) (Verdict, error) {
	expected, ok, err := s.Lookup(name)
	if err != nil {
		return Unknown, err
	}
	if !ok {
		return Unknown, nil
	}
	if expected == 0 {
		return Skip, nil
	}
	if expected == observed {
		return Match, nil
	}
	return Mismatch, nil
}
