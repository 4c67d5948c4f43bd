package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/zkchannel-org/zkchannel/types"
)

var bucketSubmissions = []byte("submissions")

// Store persists submissions so tracking can resume across process
// restarts. Keys are (requester, execution id) pairs, matching the
// uniqueness rule of execution ids.
type Store struct {
	db *bolt.DB
}

func NewStore(dbFile string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbFile), 0700); err != nil { // ensure dirs exist
		return nil, err
	}
	db, err := bolt.Open(dbFile, 0600, &bolt.Options{Timeout: 3 * time.Second}) // -rw-------
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt DB %s: %w", dbFile, err)
	}
	s := &Store{db: db}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSubmissions)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create db buckets: %w", err)
	}
	return s, nil
}

func (s *Store) Put(sub *Submission) error {
	if sub == nil {
		return errors.New("submission is nil")
	}
	if sub.ExecutionID == "" {
		return errors.New("submission is missing execution id")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := cbor.Marshal(sub)
		if err != nil {
			return fmt.Errorf("failed to serialize submission: %w", err)
		}
		return tx.Bucket(bucketSubmissions).Put(submissionKey(sub.Requester, sub.ExecutionID), data)
	})
}

// Get returns the stored submission or nil when none exists.
func (s *Store) Get(requester types.Address, executionID string) (*Submission, error) {
	var sub *Submission
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSubmissions).Get(submissionKey(requester, executionID))
		if data == nil {
			return nil
		}
		if err := cbor.Unmarshal(data, &sub); err != nil {
			return fmt.Errorf("failed to deserialize submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Store) List() ([]*Submission, error) {
	var subs []*Submission
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSubmissions).ForEach(func(k, v []byte) error {
			var sub *Submission
			if err := cbor.Unmarshal(v, &sub); err != nil {
				return fmt.Errorf("failed to deserialize submission: %w", err)
			}
			subs = append(subs, sub)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) Delete(requester types.Address, executionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSubmissions).Delete(submissionKey(requester, executionID))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func submissionKey(requester types.Address, executionID string) []byte {
	key := make([]byte, 0, types.AddressLength+len(executionID))
	key = append(key, requester[:]...)
	return append(key, executionID...)
}
