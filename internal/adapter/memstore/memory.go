package memstore

import (
	"sort"
	"sync"

	"romdex/internal/domain"
)

// MemoryStore is a HistoryStore that forgets everything on exit.
type MemoryStore struct {
	mu        sync.RWMutex
	builds    map[string][]domain.BuildRecord
	downloads map[string][]domain.DownloadRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		builds:    make(map[string][]domain.BuildRecord),
		downloads: make(map[string][]domain.DownloadRecord),
	}
}

func (s *MemoryStore) RecordBuild(rec domain.BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[rec.Platform] = append(s.builds[rec.Platform], rec)
	sort.SliceStable(s.builds[rec.Platform], func(i, j int) bool {
		return s.builds[rec.Platform][i].BuiltAt.Before(s.builds[rec.Platform][j].BuiltAt)
	})
	return nil
}

func (s *MemoryStore) Builds(platform string) ([]domain.BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.BuildRecord(nil), s.builds[platform]...), nil
}

func (s *MemoryStore) LastBuild(platform string) (domain.BuildRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	builds := s.builds[platform]
	if len(builds) == 0 {
		return domain.BuildRecord{}, false, nil
	}
	return builds[len(builds)-1], true, nil
}

func (s *MemoryStore) RecordDownloads(recs []domain.DownloadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.downloads[rec.Platform] = append(s.downloads[rec.Platform], rec)
	}
	return nil
}

func (s *MemoryStore) Downloads(platform string) ([]domain.DownloadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DownloadRecord(nil), s.downloads[platform]...), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
