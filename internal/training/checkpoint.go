package training

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var generatedBucket = []byte("GeneratedAnalyses")

// Checkpoint remembers which analyses already have an eval generation.
type Checkpoint struct {
	db *bbolt.DB
}

// OpenCheckpoint opens or creates the checkpoint database at path.
func OpenCheckpoint(path string) (*Checkpoint, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(generatedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Checkpoint{db: db}, nil
}

func (c *Checkpoint) Close() error {
	return c.db.Close()
}

func analysisKey(analysis string) []byte {
	sum := sha256.Sum256([]byte(analysis))
	return []byte(hex.EncodeToString(sum[:]))
}

// Done reports whether analysis was already generated.
func (c *Checkpoint) Done(analysis string) (bool, error) {
	var done bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		done = tx.Bucket(generatedBucket).Get(analysisKey(analysis)) != nil
		return nil
	})
	return done, err
}

// MarkDone records analysis as generated.
func (c *Checkpoint) MarkDone(analysis string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		stamp := time.Now().UTC().Format(time.RFC3339)
		return tx.Bucket(generatedBucket).Put(analysisKey(analysis), []byte(stamp))
	})
}

// Count returns the number of recorded analyses.
func (c *Checkpoint) Count() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(generatedBucket).Stats().KeyN
		return nil
	})
	return n, err
}
