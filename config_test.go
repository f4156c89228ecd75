package pagewindow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var personMapping = ColumnMapping{
	"id":   "id",
	"name": "name",
	"age":  "age",
}

func Test_LoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Config
		ok       bool
	}{
		{
			name: "yaml",
			in: `
pageSize: 50
sort:
  - age desc
  - id asc
prefetch: 2
`,
			expected: Config{PageSize: 50, Sort: []string{"age desc", "id asc"}, Prefetch: 2},
			ok:       true,
		},
		{
			name:     "json",
			in:       `{"pageSize": 10, "sort": ["name asc"]}`,
			expected: Config{PageSize: 10, Sort: []string{"name asc"}},
			ok:       true,
		},
		{
			name:     "empty",
			in:       "",
			expected: Config{},
			ok:       true,
		},
		{
			name: "wrong type",
			in:   "pageSize: many",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.in))
			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, cfg)
		})
	}
}

func Test_Config_Decode(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		pageSize int
		sort     Orderings
		ok       bool
	}{
		{
			name:     "defaults",
			cfg:      Config{},
			pageSize: DefaultPageSize,
			sort:     Orderings{},
			ok:       true,
		},
		{
			name:     "clamped page size",
			cfg:      Config{PageSize: MaxPageSize + 1, Sort: []string{"age desc"}},
			pageSize: MaxPageSize,
			sort:     Orderings{{Column: "age", Direction: DirectionDESC}},
			ok:       true,
		},
		{
			name: "unknown alias",
			cfg:  Config{PageSize: 10, Sort: []string{"height asc"}},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pageSize, sort, err := tt.cfg.Decode(personMapping)
			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.pageSize, pageSize)
			require.Equal(t, tt.sort, sort)
		})
	}
}

func Test_NewFromConfig(t *testing.T) {
	src := NewSliceSource(newPeople(12), personComparators)

	w, err := NewFromConfig[person](src, Config{PageSize: 5, Sort: []string{"id desc"}}, personMapping)
	require.NoError(t, err)
	require.Equal(t, 5, w.PageSize())
	require.Equal(t, Orderings{{Column: "id", Direction: DirectionDESC}}, w.Sort())

	got, err := w.Get(context.Background(), 6)
	require.NoError(t, err)
	require.Equal(t, 6, got.ID)
}

func Test_NewFromConfig_Errors(t *testing.T) {
	src := NewSliceSource(newPeople(1), personComparators)

	_, err := NewFromConfig[person](src, Config{Sort: []string{"id"}}, personMapping)
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewFromConfig[person](src, Config{Prefetch: -1}, personMapping)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func Test_NewFromConfig_ExplicitOptionsWin(t *testing.T) {
	src := NewSliceSource(newPeople(3), personComparators)

	w, err := NewFromConfig[person](src, Config{Sort: []string{"id desc"}}, personMapping,
		WithSort[person](OrderBy{Column: "age", Direction: DirectionASC}),
	)
	require.NoError(t, err)
	require.Equal(t, Orderings{{Column: "age", Direction: DirectionASC}}, w.Sort())
}
