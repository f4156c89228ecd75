package pagewindow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

// Window is an index-addressable, lazily populated view over records fetched
// page by page from a Source. Pages and the total count are cached until the
// sort order changes or Invalidate is called.
//
// A Window is safe for concurrent use. Concurrent requests for the same page
// share a single fetch.
type Window[T any] struct {
	source   Source[T]
	pageSize int
	prefetch int
	patcher  Patcher[T]
	logger   *zerolog.Logger

	// mu guards everything below it.
	mu         sync.Mutex
	sort       Orderings
	count      *int64
	pages      map[int][]T
	generation uint64

	flight singleflight.Group
	stats  counters
}

// New creates a Window over the given page and count callbacks.
func New[T any](
	fetchPage PageFetcherFunc[T],
	fetchCount CountFetcherFunc,
	pageSize int,
	opts ...Option[T],
) (*Window[T], error) {
	funcs := Funcs[T]{Page: fetchPage, Count: fetchCount}
	if err := funcs.validate(); err != nil {
		return nil, err
	}

	return NewFromSource[T](funcs, pageSize, opts...)
}

// NewFromSource creates a Window reading from src.
func NewFromSource[T any](src Source[T], pageSize int, opts ...Option[T]) (*Window[T], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source is nil", ErrInvalidConfiguration)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfiguration, pageSize)
	}

	w := &Window[T]{
		source:   src,
		pageSize: pageSize,
		pages:    make(map[int][]T),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.prefetch < 0 {
		return nil, fmt.Errorf("%w: prefetch must not be negative, got %d", ErrInvalidConfiguration, w.prefetch)
	}

	return w, nil
}

// PageSize returns the page size fixed at construction.
func (w *Window[T]) PageSize() int {
	return w.pageSize
}

// Sort returns a copy of the current sort order.
func (w *Window[T]) Sort() Orderings {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.sort)
}

// Get returns the record at index, fetching its page if it is not cached.
//
// A page fetch that completes after an Invalidate or SetSort still answers the
// call that started it, but its result is not cached. When ctx ends first, Get
// returns ctx.Err() while the fetch goes on for other callers of the page.
func (w *Window[T]) Get(ctx context.Context, index int) (T, error) {
	if index < 0 {
		return lo.Empty[T](), fmt.Errorf("%w: negative index %d", ErrIndexOutOfRange, index)
	}

	offset := w.pageOffset(index)
	page, err := w.page(ctx, offset)
	if err != nil {
		return lo.Empty[T](), err
	}

	pos := index - offset
	if pos >= len(page) {
		return lo.Empty[T](), fmt.Errorf(
			"%w: index %d, page at offset %d holds %d records",
			ErrIndexOutOfRange, index, offset, len(page),
		)
	}

	return page[pos], nil
}

// Size returns the total number of records, as reported by the source. The
// value is cached until the next SetSort with a different order or Invalidate.
//
// The count is a hint: a short page ends the data set regardless of it.
func (w *Window[T]) Size(ctx context.Context) (int64, error) {
	w.mu.Lock()
	if w.count != nil {
		count := *w.count
		w.mu.Unlock()
		return count, nil
	}
	gen, sort := w.generation, w.sort
	w.mu.Unlock()

	v, _, err := w.share(ctx, countKey(gen), func(ctx context.Context) (any, error) {
		w.stats.countFetches.Add(1)
		w.log(ctx).Debug().Uint64("generation", gen).Msg("fetching count")

		count, err := w.source.FetchCount(ctx, sort)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch count: %w", err)
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.generation != gen {
			w.stats.discarded.Add(1)
			w.log(ctx).Debug().Uint64("generation", gen).Msg("discarding stale count")
			return count, nil
		}
		w.count = &count

		return count, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(int64), nil
}

// SetSort changes the sort order. When spec differs from the current order all
// cached pages and the cached count are dropped; nothing is fetched until the
// next Get or Size.
func (w *Window[T]) SetSort(spec Orderings) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sort.Equal(spec) {
		return
	}

	w.sort = slices.Clone(spec)
	w.resetLocked()
	w.log(context.Background()).Debug().Str("sort", w.sort.ToSQL()).Uint64("generation", w.generation).Msg("sort changed")
}

// Invalidate drops all cached pages and the cached count but keeps the sort
// order. Use it when the underlying data changed.
func (w *Window[T]) Invalidate() {
	w.mu.Lock()
	w.resetLocked()
	w.log(context.Background()).Debug().Uint64("generation", w.generation).Msg("window invalidated")
	w.mu.Unlock()

	if r, ok := w.source.(Resetter); ok {
		r.Reset()
	}
}

// RefreshRecord re-fetches the cached page containing index and replaces it,
// then hands the fresh record to the Patcher, if one is configured. It returns
// ErrNotCached when the page is not cached; the window is left untouched.
func (w *Window[T]) RefreshRecord(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrIndexOutOfRange, index)
	}

	offset := w.pageOffset(index)

	w.mu.Lock()
	_, cached := w.pages[offset]
	gen, sort := w.generation, w.sort
	w.mu.Unlock()

	if !cached {
		return fmt.Errorf("%w: index %d, offset %d", ErrNotCached, index, offset)
	}

	page, err := w.load(ctx, gen, offset, sort)
	if err != nil {
		return err
	}

	pos := index - offset
	if pos >= len(page) {
		return fmt.Errorf("%w: index %d is gone after refresh", ErrIndexOutOfRange, index)
	}

	if w.patcher == nil {
		return nil
	}

	if err = w.patcher(ctx, index, page[pos]); err != nil {
		return fmt.Errorf("cannot patch record %d: %w", index, err)
	}

	return nil
}

// Stats returns a snapshot of the window counters.
func (w *Window[T]) Stats() Stats {
	return w.stats.snapshot()
}

// pageOffset returns the offset of the page containing index.
func (w *Window[T]) pageOffset(index int) int {
	return index / w.pageSize * w.pageSize
}

func (w *Window[T]) page(ctx context.Context, offset int) ([]T, error) {
	w.mu.Lock()
	if page, ok := w.pages[offset]; ok {
		w.mu.Unlock()
		w.stats.hits.Add(1)
		return page, nil
	}
	gen, sort := w.generation, w.sort
	w.mu.Unlock()

	w.stats.misses.Add(1)

	page, err := w.load(ctx, gen, offset, sort)
	if err != nil {
		return nil, err
	}

	if w.prefetch > 0 && len(page) == w.pageSize {
		go w.prefetchAfter(context.WithoutCancel(ctx), gen, offset, sort)
	}

	return page, nil
}

// load fetches the page at offset, sharing the fetch with any concurrent
// caller asking for the same offset in the same generation. The result is
// cached only if the generation is still current when it arrives.
func (w *Window[T]) load(ctx context.Context, gen uint64, offset int, sort Orderings) ([]T, error) {
	v, shared, err := w.share(ctx, pageKey(gen, offset), func(ctx context.Context) (any, error) {
		w.stats.pageFetches.Add(1)
		w.log(ctx).Debug().
			Int("offset", offset).
			Int("limit", w.pageSize).
			Uint64("generation", gen).
			Msg("fetching page")

		page, err := w.source.FetchPage(ctx, PageRequest{
			Offset: offset,
			Limit:  w.pageSize,
			Sort:   sort,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot fetch page at offset %d: %w", offset, err)
		}

		// Never keep more than a page, whatever the source returned.
		if len(page) > w.pageSize {
			page = page[:w.pageSize]
		}

		w.store(ctx, gen, offset, page)

		return page, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		w.stats.shared.Add(1)
	}

	return v.([]T), nil
}

// share runs fn once per key for all concurrent callers. fn gets ctx without
// its cancellation; each caller stops waiting when its own ctx is done, which
// leaves the fetch running for the others.
func (w *Window[T]) share(
	ctx context.Context,
	key string,
	fn func(ctx context.Context) (any, error),
) (any, bool, error) {
	detached := context.WithoutCancel(ctx)
	ch := w.flight.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (w *Window[T]) store(ctx context.Context, gen uint64, offset int, page []T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generation != gen {
		w.stats.discarded.Add(1)
		w.log(ctx).Debug().
			Int("offset", offset).
			Uint64("generation", gen).
			Uint64("current", w.generation).
			Msg("discarding stale page")
		return
	}

	w.pages[offset] = page
}

func (w *Window[T]) prefetchAfter(ctx context.Context, gen uint64, offset int, sort Orderings) {
	for i := 0; i < w.prefetch; i++ {
		offset += w.pageSize

		w.mu.Lock()
		_, cached := w.pages[offset]
		stale := w.generation != gen
		w.mu.Unlock()

		if stale {
			return
		}
		if cached {
			continue
		}

		page, err := w.load(ctx, gen, offset, sort)
		if err != nil {
			w.log(ctx).Debug().Err(err).Int("offset", offset).Msg("prefetch failed")
			return
		}
		if len(page) < w.pageSize {
			return
		}
	}
}

// resetLocked drops cached state and starts a new generation. Must be called
// with mu held.
func (w *Window[T]) resetLocked() {
	w.generation++
	w.count = nil
	clear(w.pages)
}

func (w *Window[T]) log(ctx context.Context) *zerolog.Logger {
	if w.logger != nil {
		return w.logger
	}

	return zerolog.Ctx(ctx)
}

func pageKey(gen uint64, offset int) string {
	return "page:" + strconv.FormatUint(gen, 10) + ":" + strconv.Itoa(offset)
}

func countKey(gen uint64) string {
	return "count:" + strconv.FormatUint(gen, 10)
}
