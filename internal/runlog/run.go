package runlog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Run is one pipeline execution that produced an article.
type Run struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Day         string    `json:"day"`
	Topic       string    `json:"topic"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	FilePath    string    `json:"filePath"`
	ContentHash string    `json:"contentHash"`
	Written     bool      `json:"written"`
	Committed   bool      `json:"committed"`
	CommitSHA   string    `json:"commitSha,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Append stores r, assigning an ID and time when missing, and claims the
// day key for r.Day and r.Topic. A later run on the same day overwrites
// the claim.
func (s *Store) Append(r Run) (Run, error) {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	if r.Time.IsZero() {
		r.Time = s.now()
	}
	r.Time = r.Time.UTC()

	rb, err := json.Marshal(r)
	if err != nil {
		return r, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bRuns).Put([]byte(r.ID), rb); err != nil {
			return err
		}
		if err := tx.Bucket(bIdxTime).Put(makeTimeIDKey(r.Time.UnixNano(), r.ID), []byte{1}); err != nil {
			return err
		}
		if r.Day != "" {
			return tx.Bucket(bDay).Put([]byte(DayKey(r.Day, r.Topic)), []byte(r.ID))
		}
		return nil
	})
	return r, err
}
