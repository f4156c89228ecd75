package pagewindow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Direction_Valid_And_ForOperator(t *testing.T) {
	tests := []struct {
		name     string
		in       Direction
		valid    bool
		operator Operator
		panicExp bool
	}{
		{"ASC valid maps to GT", DirectionASC, true, OperatorGT, false},
		{"DESC valid maps to LT", DirectionDESC, true, OperatorLT, false},
		{"lower case is invalid", Direction("asc"), false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Valid(); got != tt.valid {
				t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
			}
			if tt.panicExp {
				require.Panics(t, func() { tt.in.ForOperator() })
				return
			}
			if got := tt.in.ForOperator(); got != tt.operator {
				t.Errorf("%s: ForOperator=%v want %v", tt.name, got, tt.operator)
			}
		})
	}
}

func Test_Orderings_validate(t *testing.T) {
	tests := []struct {
		name string
		ord  Orderings
		ok   bool
	}{
		{"empty means default order", Orderings{}, true},
		{"invalid direction", Orderings{{Column: "id", Direction: "bad"}}, false},
		{"empty column", Orderings{{Column: "", Direction: DirectionASC}}, false},
		{"forbidden symbols", Orderings{{Column: "id; DROP TABLE people", Direction: DirectionASC}}, false},
		{"qualified column", Orderings{{Column: "p.created_at", Direction: DirectionDESC}}, true},
		{"valid list", Orderings{{Column: "id", Direction: DirectionASC}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ord.validate(); (err == nil) != tt.ok {
				t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
			}
		})
	}
}

func Test_Orderings_Equal(t *testing.T) {
	byID := Orderings{{Column: "id", Direction: DirectionASC}}

	tests := []struct {
		name  string
		a, b  Orderings
		equal bool
	}{
		{"nil and empty", nil, Orderings{}, true},
		{"same spec", byID, Orderings{{Column: "id", Direction: DirectionASC}}, true},
		{"different direction", byID, Orderings{{Column: "id", Direction: DirectionDESC}}, false},
		{"different column", byID, Orderings{{Column: "name", Direction: DirectionASC}}, false},
		{"prefix", byID, append(byID, OrderBy{Column: "name", Direction: DirectionASC}), false},
		{
			"order matters",
			Orderings{{Column: "a", Direction: DirectionASC}, {Column: "b", Direction: DirectionASC}},
			Orderings{{Column: "b", Direction: DirectionASC}, {Column: "a", Direction: DirectionASC}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.equal, tt.a.Equal(tt.b))
			require.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func Test_Orderings_Fingerprint(t *testing.T) {
	a := Orderings{{Column: "age", Direction: DirectionDESC}, {Column: "id", Direction: DirectionASC}}
	b := Orderings{{Column: "age", Direction: DirectionDESC}, {Column: "id", Direction: DirectionASC}}
	c := Orderings{{Column: "age", Direction: DirectionASC}, {Column: "id", Direction: DirectionASC}}

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	require.Zero(t, Orderings(nil).Fingerprint())
}

func Test_Orderings_ToSQL(t *testing.T) {
	ord := Orderings{{Column: "a", Direction: DirectionASC}, {Column: "b", Direction: DirectionDESC}}

	require.Equal(t, []string{"a ASC", "b DESC"}, ord.ToSQLSlice())
	require.Equal(t, "a ASC, b DESC", ord.ToSQL())
	require.Equal(t, "", Orderings(nil).ToSQL())
	require.True(t, ord.Has("b"))
	require.False(t, ord.Has("c"))
}

func Test_ParseSort(t *testing.T) {
	mapping := ColumnMapping{
		"id":   "t.id",
		"name": "t.name",
	}

	tests := []struct {
		name  string
		in    []string
		ok    bool
		first OrderBy
	}{
		{"invalid format", []string{"id"}, false, OrderBy{}},
		{"unknown alias", []string{"idx asc"}, false, OrderBy{}},
		{"unknown direction", []string{"id sideways"}, false, OrderBy{}},
		{"valid asc", []string{"id asc"}, true, OrderBy{Column: "t.id", Direction: DirectionASC}},
		{"valid desc", []string{"name desc"}, true, OrderBy{Column: "t.name", Direction: DirectionDESC}},
		{"extra spaces", []string{"  name   DESC "}, true, OrderBy{Column: "t.name", Direction: DirectionDESC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.in, mapping)
			if (err == nil) != tt.ok {
				t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
				return
			}
			if tt.ok {
				if len(got) == 0 || got[0] != tt.first {
					t.Errorf("%s: first=%v want %v", tt.name, got, tt.first)
				}
			}
		})
	}
}

func Test_ParseSort_ClosestAliasInError(t *testing.T) {
	_, err := ParseSort([]string{"nmae asc"}, ColumnMapping{"id": "id", "name": "name"})
	require.ErrorContains(t, err, "closest: 'name'")
}

func Test_ParseSort_Empty(t *testing.T) {
	got, err := ParseSort(nil, ColumnMapping{"id": "id"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func Test_closestAlias(t *testing.T) {
	aliases := []ColumnAlias{"id", "name", "created_at"}
	tests := []struct {
		name string
		in   ColumnAlias
		out  ColumnAlias
	}{
		{"closest to id", "idx", "id"},
		{"closest to name", "nme", "name"},
		{"closest to created_at", "createdat", "created_at"},
		{"no candidates", "id", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := aliases
			if tt.out == "" {
				candidates = nil
			}
			if got := closestAlias(tt.in, candidates); got != tt.out {
				t.Errorf("%s: got %s want %s", tt.name, got, tt.out)
			}
		})
	}
}
