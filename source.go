package pagewindow

import (
	"context"
	"fmt"
)

// PageRequest describes a single page fetch issued by a Window.
type PageRequest struct {
	// Offset is the position of the first requested record. It is always a
	// multiple of the window page size.
	Offset int
	// Limit is the maximum number of records to return.
	Limit int
	// Sort is the ordering the records must follow. Empty means the source's
	// default order.
	Sort Orderings
}

// Source is the data access layer a Window reads from.
//
// FetchPage returning fewer than PageRequest.Limit records signals the end of
// the data set. FetchCount is allowed to be expensive: the Window caches its
// result until invalidated.
type Source[T any] interface {
	FetchPage(ctx context.Context, req PageRequest) ([]T, error)
	FetchCount(ctx context.Context, sort Orderings) (int64, error)
}

// Resetter is implemented by sources that keep their own per-sort state
// (sorted copies, keyset hints). Window.Invalidate calls Reset.
type Resetter interface {
	Reset()
}

// PageFetcherFunc adapts a plain function to the page half of Source.
type PageFetcherFunc[T any] func(ctx context.Context, req PageRequest) ([]T, error)

// CountFetcherFunc adapts a plain function to the count half of Source.
type CountFetcherFunc func(ctx context.Context, sort Orderings) (int64, error)

// Funcs is a Source built from a pair of callbacks.
type Funcs[T any] struct {
	Page  PageFetcherFunc[T]
	Count CountFetcherFunc
}

// FetchPage - implements Source.
func (f Funcs[T]) FetchPage(ctx context.Context, req PageRequest) ([]T, error) {
	return f.Page(ctx, req)
}

// FetchCount - implements Source.
func (f Funcs[T]) FetchCount(ctx context.Context, sort Orderings) (int64, error) {
	return f.Count(ctx, sort)
}

func (f Funcs[T]) validate() error {
	if f.Page == nil {
		return fmt.Errorf("%w: page fetcher is nil", ErrInvalidConfiguration)
	}
	if f.Count == nil {
		return fmt.Errorf("%w: count fetcher is nil", ErrInvalidConfiguration)
	}

	return nil
}

var _ Source[any] = Funcs[any]{}
