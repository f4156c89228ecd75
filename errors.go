package pagewindow

import "errors"

var (
	// ErrInvalidConfiguration is returned when a Window cannot be constructed
	// from the supplied arguments, e.g. a non-positive page size.
	ErrInvalidConfiguration = errors.New("invalid window configuration")

	// ErrIndexOutOfRange is returned by Get when the source holds fewer records
	// than the requested index requires.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotCached is returned by RefreshRecord when the page containing the
	// index is not cached. Callers should treat it as "nothing to refresh".
	ErrNotCached = errors.New("page is not cached")
)
