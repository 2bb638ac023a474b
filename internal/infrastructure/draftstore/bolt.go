package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/domain/chargeversion"
)

const bucketName = "drafts"

// boltRecord is the stored value of a draft
type boltRecord struct {
	Draft     chargeversion.Draft `json:"draft"`
	UpdatedAt time.Time           `json:"updated_at"`
	ExpiresAt time.Time           `json:"expires_at,omitempty"`
}

// BoltStore is a DraftRepository backed by a BoltDB file, so drafts survive restarts
type BoltStore struct {
	db     *bolt.DB
	opts   options
	logger *zap.Logger
}

// NewBoltStore opens (or creates) the database at path and ensures the drafts bucket exists
func NewBoltStore(path string, logger *zap.Logger, opts ...Option) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts bucket: %w", err)
	}

	logger.Info("Draft store opened", zap.String("path", path))
	return &BoltStore{db: db, opts: newOptions(opts), logger: logger}, nil
}

// Close releases the database file lock
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get returns the stored draft, or nil when there is none or it has expired
func (s *BoltStore) Get(ctx context.Context, key port.Key) (*chargeversion.Draft, error) {
	var rec boltRecord
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key.String()))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		s.logger.Error("Failed to read draft", zap.String("key", key.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	if !found {
		return nil, nil
	}

	if s.opts.expired(rec.ExpiresAt) {
		s.logger.Debug("Draft expired", zap.String("key", key.String()), zap.Time("expires_at", rec.ExpiresAt))
		if err := s.Clear(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &rec.Draft, nil
}

// Set stores the draft, replacing whatever was there
func (s *BoltStore) Set(ctx context.Context, key port.Key, draft *chargeversion.Draft) error {
	if draft == nil {
		return s.Clear(ctx, key)
	}

	data, err := json.Marshal(boltRecord{
		Draft:     *draft,
		UpdatedAt: s.opts.now().UTC(),
		ExpiresAt: s.opts.expiry(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key.String()), data)
	})
	if err != nil {
		s.logger.Error("Failed to write draft", zap.String("key", key.String()), zap.Error(err))
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// Clear removes the draft; clearing a missing key is not an error
func (s *BoltStore) Clear(ctx context.Context, key port.Key) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key.String()))
	})
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// Purge deletes every expired draft and returns how many were removed
func (s *BoltStore) Purge(ctx context.Context) (int, error) {
	removed := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		var expired [][]byte

		err := b.ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if s.opts.expired(rec.ExpiresAt) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}

	if removed > 0 {
		s.logger.Info("Purged expired drafts", zap.Int("count", removed))
	}
	return removed, nil
}

var (
	_ port.DraftRepository = (*BoltStore)(nil)
	_ Purger               = (*BoltStore)(nil)
)
