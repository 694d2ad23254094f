package port

import "romdex/internal/domain"

// Searcher ranks and filters index entries for a query.
type Searcher interface {
	Search(idx *domain.Index, q domain.Query) []domain.Match
}
