package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"romdex/internal/domain"
)

var (
	bucketBuilds    = []byte("builds")
	bucketDownloads = []byte("downloads")
)

const keyTimeLayout = "20060102T150405.000000000Z"

// BoltStore keeps the history of index builds and downloads.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketBuilds, bucketDownloads} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// historyKey orders records by platform, then time, then name.
func historyKey(platform string, at time.Time, name string) []byte {
	key := platform + "/" + at.UTC().Format(keyTimeLayout)
	if name != "" {
		key += "/" + name
	}
	return []byte(key)
}

func (s *BoltStore) RecordBuild(rec domain.BuildRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketBuilds).Put(historyKey(rec.Platform, rec.BuiltAt, ""), data)
	})
}

func (s *BoltStore) Builds(platform string) ([]domain.BuildRecord, error) {
	var builds []domain.BuildRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return scanPrefix(tx.Bucket(bucketBuilds), platform, func(v []byte) error {
			var rec domain.BuildRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			builds = append(builds, rec)
			return nil
		})
	})
	return builds, err
}

// LastBuild returns the most recent build of a platform.
func (s *BoltStore) LastBuild(platform string) (domain.BuildRecord, bool, error) {
	builds, err := s.Builds(platform)
	if err != nil || len(builds) == 0 {
		return domain.BuildRecord{}, false, err
	}
	return builds[len(builds)-1], true, nil
}

// RecordDownloads stores a whole batch in one transaction.
func (s *BoltStore) RecordDownloads(recs []domain.DownloadRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDownloads)
		for _, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(historyKey(rec.Platform, rec.FinishedAt, rec.Filename), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Downloads(platform string) ([]domain.DownloadRecord, error) {
	var downloads []domain.DownloadRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return scanPrefix(tx.Bucket(bucketDownloads), platform, func(v []byte) error {
			var rec domain.DownloadRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			downloads = append(downloads, rec)
			return nil
		})
	})
	return downloads, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func scanPrefix(b *bbolt.Bucket, platform string, fn func(v []byte) error) error {
	prefix := []byte(platform + "/")
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}
