package port

import "romdex/internal/domain"

type HistoryStore interface {
	RecordBuild(rec domain.BuildRecord) error

	Builds(platform string) ([]domain.BuildRecord, error)

	LastBuild(platform string) (domain.BuildRecord, bool, error)

	RecordDownloads(recs []domain.DownloadRecord) error

	Downloads(platform string) ([]domain.DownloadRecord, error)

	Close() error
}
