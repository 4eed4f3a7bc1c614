package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ablackcat04/software-studio-final/internal/domain"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

var bucketFolders = []byte("folders")

// BoltStore implements port.DocStore on a BoltDB file. Layout mirrors the
// folders hierarchy: bucket "folders" -> nested bucket per partition id ->
// nested bucket per sub-collection name -> document id -> JSON document.
type BoltStore struct {
	db    *bbolt.DB
	retry port.RetryPolicy
}

// NewBoltStore opens (or creates) the database at path. BoltDB holds an
// exclusive file lock, so a second process surfaces as a lock timeout here.
func NewBoltStore(path string, retry port.RetryPolicy) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: database locked by another process: %v", domain.ErrStoreContention, err)
		}
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFolders)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create folders bucket: %w", err)
	}

	if retry.MaxRetries <= 0 {
		retry.MaxRetries = 5
	}
	if retry.Backoff == nil {
		retry.Backoff = port.ExponentialBackoff
	}

	return &BoltStore{db: db, retry: retry}, nil
}

func (s *BoltStore) Exists(partition, subCollection, key string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		sub := subBucket(tx, partition, subCollection)
		if sub == nil {
			return nil
		}
		found = sub.Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("existence check for %s/%s/%s: %w", partition, subCollection, key, err)
	}
	return found, nil
}

// StreamAll visits matching documents partition by partition, document keys
// in byte order within each partition. Corrupted entries are skipped.
func (s *BoltStore) StreamAll(subCollection string, partitions []string, fn func(partition string, doc domain.MemeDocument) error) error {
	resolved, err := s.resolve(partitions)
	if err != nil {
		return err
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		for _, p := range resolved {
			sub := subBucket(tx, p, subCollection)
			if sub == nil {
				continue
			}
			partition := p
			err := sub.ForEach(func(k, v []byte) error {
				var doc domain.MemeDocument
				if err := json.Unmarshal(v, &doc); err != nil {
					return nil
				}
				return fn(partition, doc)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CommitBatch writes the whole batch in one transaction, retrying contention
// under the store's policy.
func (s *BoltStore) CommitBatch(partition, subCollection string, docs []domain.MemeDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return CommitWithRetry(s.retry, func() error {
		return s.commitOnce(partition, subCollection, docs)
	})
}

func (s *BoltStore) commitOnce(partition, subCollection string, docs []domain.MemeDocument) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		part, err := tx.Bucket(bucketFolders).CreateBucketIfNotExists([]byte(partition))
		if err != nil {
			return fmt.Errorf("failed to create partition bucket %s: %w", partition, err)
		}
		sub, err := part.CreateBucketIfNotExists([]byte(subCollection))
		if err != nil {
			return fmt.Errorf("failed to create sub-collection bucket %s: %w", subCollection, err)
		}
		for _, doc := range docs {
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to marshal document %s: %w", doc.ID, err)
			}
			if err := sub.Put([]byte(doc.ID), data); err != nil {
				return fmt.Errorf("failed to write document %s: %w", doc.ID, err)
			}
		}
		return nil
	})
	return classify(err)
}

func (s *BoltStore) Partitions() ([]string, error) {
	var partitions []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFolders).ForEachBucket(func(k []byte) error {
			partitions = append(partitions, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	sort.Strings(partitions)
	return partitions, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// resolve expands an empty filter, or one carrying the "all" sentinel, to the
// full known partition set.
func (s *BoltStore) resolve(partitions []string) ([]string, error) {
	if len(partitions) == 0 {
		return s.Partitions()
	}
	for _, p := range partitions {
		if p == port.PartitionAll {
			return s.Partitions()
		}
	}
	return partitions, nil
}

func subBucket(tx *bbolt.Tx, partition, subCollection string) *bbolt.Bucket {
	part := tx.Bucket(bucketFolders).Bucket([]byte(partition))
	if part == nil {
		return nil
	}
	return part.Bucket([]byte(subCollection))
}

// classify maps a raw store error onto the contention/unrecoverable split.
// BoltDB serializes writers on a file lock, so contention shows up as a lock
// timeout; everything else fails the batch for good.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrStoreContention) || errors.Is(err, domain.ErrStoreUnrecoverable) {
		return err
	}
	if errors.Is(err, bbolt.ErrTimeout) {
		return fmt.Errorf("%w: %v", domain.ErrStoreContention, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnrecoverable, err)
}
