package runlog

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"
)

func (s *Store) Get(id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, ErrNotFound
	}
	var r Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return getRun(tx, id, &r)
	})
	return r, err
}

func getRun(tx *bolt.Tx, id string, r *Run) error {
	b := tx.Bucket(bRuns)
	if b == nil {
		return ErrNotFound
	}
	v := b.Get([]byte(id))
	if v == nil {
		return ErrNotFound
	}
	return json.Unmarshal(v, r)
}

func normalizeLimit(n int) int {
	if n <= 0 {
		n = 20
	}
	if n > 100 {
		n = 100
	}
	return n
}

// Recent returns up to n runs, newest first. n is clamped to [1, 100]
// with 20 for non-positive values.
func (s *Store) Recent(n int) ([]Run, error) {
	n = normalizeLimit(n)
	out := []Run{}
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxTime)
		if idx == nil {
			return nil
		}
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			id := idFromTimeIDKey(k)
			if id == "" {
				continue
			}
			var r Run
			if err := getRun(tx, id, &r); err != nil {
				continue
			}
			out = append(out, r)
			if len(out) >= n {
				break
			}
		}
		return nil
	})
	return out, err
}

// LookupDay returns the run that claimed the day key, if any.
func (s *Store) LookupDay(key string) (Run, bool, error) {
	var (
		r     Run
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bDay)
		if b == nil {
			return nil
		}
		id := b.Get([]byte(key))
		if id == nil {
			return nil
		}
		if err := getRun(tx, string(id), &r); err != nil {
			if err == ErrNotFound {
				return nil
			}
			return err
		}
		found = true
		return nil
	})
	return r, found, err
}
