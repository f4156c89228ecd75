package pagewindow

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
)

// Patcher applies a single refreshed record to whatever displays the window,
// e.g. a grid row, without re-rendering everything.
type Patcher[T any] func(ctx context.Context, index int, record T) error

type Option[T any] func(*Window[T])

// WithLogger sets the logger used for fetch tracing. Without it the logger
// attached to the request context (zerolog.Ctx) is used.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(w *Window[T]) {
		w.logger = &logger
	}
}

// WithSort sets the initial sort order.
func WithSort[T any](spec ...OrderBy) Option[T] {
	return func(w *Window[T]) {
		w.sort = slices.Clone(Orderings(spec))
	}
}

// WithPatcher sets the collaborator RefreshRecord hands refreshed records to.
func WithPatcher[T any](patcher Patcher[T]) Option[T] {
	return func(w *Window[T]) {
		w.patcher = patcher
	}
}

// WithPrefetch makes every page miss also load up to pages following pages in
// the background. Read-ahead stops at the first short page.
func WithPrefetch[T any](pages int) Option[T] {
	return func(w *Window[T]) {
		w.prefetch = pages
	}
}
