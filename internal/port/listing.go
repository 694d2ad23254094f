package port

import "context"

// ListingFetcher returns the candidate hrefs of a directory listing page.
type ListingFetcher interface {
	FetchListing(ctx context.Context, pageURL string) ([]string, error)
}
