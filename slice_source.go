package pagewindow

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Comparators maps sortable columns to three-way comparison functions of
// records, in the manner of cmp.Compare.
type Comparators[T any] map[string]func(a, b T) int

// SliceSource is an in-memory Source over a fixed list of records. Sorted
// views are computed once per distinct sort spec and kept until Set or Reset.
type SliceSource[T any] struct {
	comparators Comparators[T]

	mu     sync.RWMutex
	items  []T
	sorted map[uint64][]T
}

func NewSliceSource[T any](items []T, comparators Comparators[T]) *SliceSource[T] {
	return &SliceSource[T]{
		comparators: comparators,
		items:       slices.Clone(items),
		sorted:      make(map[uint64][]T),
	}
}

// Set replaces the records. Windows reading the source should be invalidated
// afterwards.
func (s *SliceSource[T]) Set(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Clone(items)
	clear(s.sorted)
}

// FetchPage - implements Source. The end of the page is clamped to the
// number of records; an offset past the end yields an empty page.
func (s *SliceSource[T]) FetchPage(_ context.Context, req PageRequest) ([]T, error) {
	if req.Offset < 0 || req.Limit < 0 {
		return nil, fmt.Errorf("invalid page request: offset %d, limit %d", req.Offset, req.Limit)
	}

	view, err := s.view(req.Sort)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	if req.Offset >= len(view) {
		return []T{}, nil
	}
	end := min(req.Offset+req.Limit, len(view))

	return slices.Clone(view[req.Offset:end]), nil
}

// FetchCount - implements Source.
func (s *SliceSource[T]) FetchCount(_ context.Context, _ Orderings) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.items)), nil
}

// Reset - implements Resetter. Drops sorted views.
func (s *SliceSource[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.sorted)
}

func (s *SliceSource[T]) view(sort Orderings) ([]T, error) {
	if len(sort) == 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()

		return s.items, nil
	}

	fingerprint := sort.Fingerprint()

	s.mu.RLock()
	view, ok := s.sorted[fingerprint]
	s.mu.RUnlock()
	if ok {
		return view, nil
	}

	compare, err := s.compareFunc(sort)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view = slices.Clone(s.items)
	slices.SortStableFunc(view, compare)
	s.sorted[fingerprint] = view

	return view, nil
}

func (s *SliceSource[T]) compareFunc(sort Orderings) (func(a, b T) int, error) {
	comparators := make([]func(a, b T) int, 0, len(sort))
	for _, orderBy := range sort {
		if !orderBy.Direction.Valid() {
			return nil, fmt.Errorf("invalid ordering direction '%s'", orderBy.Direction)
		}

		compare, ok := s.comparators[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf(
				"unknown sort column '%s'. closest: '%s'",
				orderBy.Column, closestAlias(orderBy.Column, lo.Keys(s.comparators)),
			)
		}

		desc := orderBy.Direction == DirectionDESC
		comparators = append(comparators, func(a, b T) int {
			return lo.Ternary(desc, compare(b, a), compare(a, b))
		})
	}

	return func(a, b T) int {
		for _, compare := range comparators {
			if c := compare(a, b); c != 0 {
				return c
			}
		}

		return 0
	}, nil
}

var (
	_ Source[any] = (*SliceSource[any])(nil)
	_ Resetter    = (*SliceSource[any])(nil)
)
