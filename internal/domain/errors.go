package domain

import "errors"

var (
	ErrMalformedQuery       = errors.New("malformed query")
	ErrUnknownTag           = errors.New("unknown tag")
	ErrCandidateUnavailable = errors.New("candidate unavailable")
	ErrDownloadFailed       = errors.New("download failed")
	ErrOutOfRange           = errors.New("selection out of range")
	ErrUnknownFile          = errors.New("file not in index")
	ErrNoIndex              = errors.New("no index found")
	ErrInvalidTaxonomy      = errors.New("invalid taxonomy")
)
