// Package pagewindow provides a lazily populated, index-addressable window
// over records fetched page by page from an external source.
//
// Overview
//
// A Window answers Get(index) and Size() for a possibly unbounded, ordered
// collection while fetching as little as possible:
//   - pages of a fixed size are fetched on demand and cached by offset;
//   - the total count is fetched once and cached;
//   - concurrent requests for the same page share one fetch;
//   - changing the sort order (SetSort) or calling Invalidate drops the cache,
//     and results of fetches still in flight at that moment are not cached.
//
// Key concepts
//   - Source: the data access layer, FetchPage + FetchCount. Funcs adapts a
//     pair of callbacks, GormSource reads a GORM model, SliceSource serves an
//     in-memory list.
//   - Orderings: multi-column sort spec with explicit directions.
//   - Patcher: receives single records re-fetched by RefreshRecord, so the
//     consumer can update one row instead of redrawing everything.
//
// Usage
//
//	src := pagewindow.NewGormSource[Person](db,
//		pagewindow.WithTieBreaker[Person](pagewindow.OrderBy{Column: "id", Direction: pagewindow.DirectionASC}),
//	)
//	w, err := pagewindow.NewFromSource[Person](src, pagewindow.DefaultPageSize)
//	if err != nil {
//		return err
//	}
//	total, err := w.Size(ctx)
//	first, err := w.Get(ctx, 0)
package pagewindow
