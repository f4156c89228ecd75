package pagewindow

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// GormSource is a Source reading model T through GORM with LIMIT/OFFSET
// pagination. T must be a GORM model struct (not a pointer).
//
// With keyset hints enabled (WithKeyset and WithTieBreaker) the source
// remembers where every full page ended, and a request starting exactly there
// is answered with a keyset condition instead of OFFSET. This keeps sequential
// scrolling cheap on large tables. Hints are dropped by Reset, which
// Window.Invalidate calls.
type GormSource[T any] struct {
	db          *gorm.DB
	defaultSort Orderings
	tieBreaker  *OrderBy
	getters     Getters[T]

	mu         sync.Mutex
	hints      map[keysetHintKey]*keysetCursor
	generation uint64
}

type keysetHintKey struct {
	sort   uint64
	offset int
}

type GormSourceOption[T any] func(*GormSource[T])

// WithDefaultSort sets the ordering used when a request carries no sort.
func WithDefaultSort[T any](orderBy ...OrderBy) GormSourceOption[T] {
	return func(s *GormSource[T]) {
		s.defaultSort = slices.Clone(Orderings(orderBy))
	}
}

// WithTieBreaker appends orderBy to every sort that does not already order by
// its column. Use a unique column, usually the primary key.
func WithTieBreaker[T any](orderBy OrderBy) GormSourceOption[T] {
	return func(s *GormSource[T]) {
		s.tieBreaker = &orderBy
	}
}

// WithKeyset enables keyset hints. getters must cover every column the source
// may sort by. Hints are only used together with WithTieBreaker: a keyset over
// non-unique columns skips records sharing the page boundary values.
func WithKeyset[T any](getters Getters[T]) GormSourceOption[T] {
	return func(s *GormSource[T]) {
		s.getters = getters
	}
}

// WithScope narrows the queried data set, e.g. with a WHERE condition. The
// scope is applied once, at construction.
func WithScope[T any](scope func(*gorm.DB) *gorm.DB) GormSourceOption[T] {
	return func(s *GormSource[T]) {
		s.db = scope(s.db).Session(&gorm.Session{})
	}
}

func NewGormSource[T any](db *gorm.DB, opts ...GormSourceOption[T]) *GormSource[T] {
	s := &GormSource[T]{
		db:    db.Session(&gorm.Session{}),
		hints: make(map[keysetHintKey]*keysetCursor),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FetchPage - implements Source.
func (s *GormSource[T]) FetchPage(ctx context.Context, req PageRequest) ([]T, error) {
	sort := s.effectiveSort(req.Sort)
	if err := sort.validate(); err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	fingerprint := sort.Fingerprint()
	query := sort.Apply(s.db.WithContext(ctx).Model(new(T)))

	cursor, gen := s.hint(fingerprint, req.Offset)
	if !cursor.isEmpty() {
		zerolog.Ctx(ctx).Debug().Int("offset", req.Offset).Msg("using keyset hint")
		query = cursor.Apply(query)
	} else if req.Offset > 0 {
		query = query.Offset(req.Offset)
	}

	var records []T
	if err := query.Limit(req.Limit).Find(&records).Error; err != nil {
		return nil, err
	}

	if s.keysetEnabled() && len(records) > 0 && len(records) == req.Limit {
		next, err := nextKeyset(sort, records, s.getters)
		if err != nil {
			return nil, fmt.Errorf("cannot build keyset hint: %w", err)
		}
		s.remember(gen, fingerprint, req.Offset+len(records), next)
	}

	return records, nil
}

// FetchCount - implements Source.
func (s *GormSource[T]) FetchCount(ctx context.Context, _ Orderings) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Reset - implements Resetter. Drops all keyset hints, including the ones
// queries still running would remember.
func (s *GormSource[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	clear(s.hints)
}

// effectiveSort returns the sort actually applied to the query: the default
// sort for an empty request sort, plus the tie-breaker when missing.
func (s *GormSource[T]) effectiveSort(sort Orderings) Orderings {
	if len(sort) == 0 {
		sort = s.defaultSort
	}
	sort = slices.Clone(sort)

	if s.tieBreaker != nil && !sort.Has(s.tieBreaker.Column) {
		sort = append(sort, *s.tieBreaker)
	}

	return sort
}

// keysetEnabled reports whether hints may be built. The tie-breaker is part of
// every effective sort, so the keyset always includes a unique column.
func (s *GormSource[T]) keysetEnabled() bool {
	return s.getters != nil && s.tieBreaker != nil
}

// hint returns the cursor remembered for offset, if any, along with the hint
// generation the caller has to pass back to remember.
func (s *GormSource[T]) hint(sort uint64, offset int) (*keysetCursor, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keysetEnabled() || offset == 0 {
		return nil, s.generation
	}

	return s.hints[keysetHintKey{sort: sort, offset: offset}], s.generation
}

// remember stores cursor unless Reset was called since gen was read.
func (s *GormSource[T]) remember(gen uint64, sort uint64, offset int, cursor *keysetCursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}

	s.hints[keysetHintKey{sort: sort, offset: offset}] = cursor
}

var (
	_ Source[any] = (*GormSource[any])(nil)
	_ Resetter    = (*GormSource[any])(nil)
)
