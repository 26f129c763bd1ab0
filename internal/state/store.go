package state

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketState    = "state"
	bucketVersions = "versions"

	keyCurrent = "current"
)

// Store persists the schedule state in a bbolt file: the current state blob
// under one key, plus every recorded version under its own id so superseded
// schedules stay retrievable.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketState, bucketVersions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("creating %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the state blob and mirrors each version into the versions
// bucket.
func (s *Store) Save(st *State) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshaling state: %w", err)
		}
		if err := tx.Bucket([]byte(bucketState)).Put([]byte(keyCurrent), data); err != nil {
			return err
		}

		versions := tx.Bucket([]byte(bucketVersions))
		for _, v := range st.Schedules {
			vdata, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshaling version %s: %w", v.ID, err)
			}
			if err := versions.Put([]byte(v.ID), vdata); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the current state, or a fresh empty state when none has been
// saved yet.
func (s *Store) Load() (*State, error) {
	st := &State{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketState)).Get([]byte(keyCurrent))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, st)
	})
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return st, nil
}

// GetVersion looks a version up by id, returning nil when absent.
func (s *Store) GetVersion(id string) (*Version, error) {
	var v Version
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketVersions)).Get([]byte(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &v)
	})
	if err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, nil
	}
	return &v, nil
}

// Reset drops all saved state and versions.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketState, bucketVersions} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}
