package pagewindow

import (
	"fmt"

	"gorm.io/gorm/clause"
)

type (
	// comparison is a single "Column Operator Value" term.
	comparison struct {
		Column   string
		Value    any
		Operator Operator
	}

	// conjunction is a list of comparisons joined by AND.
	conjunction []comparison

	// disjunction is a list of conjunctions joined by OR, i.e. a logical
	// expression in disjunctive normal form:
	//
	//	(A11 AND A12 AND A13) OR (A21 AND A22) OR ...
	disjunction []conjunction
)

// expression converts the comparison into "Column Operator ?" with Value bound
// to the placeholder.
//
// Example:
//
//	comparison{Column: "id", Operator: ">", Value: 123} -> "id > ?" [123]
func (c comparison) expression() clause.Expression {
	return clause.Expr{
		SQL:  fmt.Sprintf("%s %s ?", c.Column, c.Operator),
		Vars: []any{c.Value},
	}
}

// expression joins all comparisons with AND. A single comparison is returned
// as is, an empty conjunction yields nil.
func (c conjunction) expression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(c))
	for _, cmp := range c {
		andExpressions = append(andExpressions, cmp.expression())
	}

	switch len(andExpressions) {
	case 0:
		return nil
	case 1:
		return andExpressions[0]
	default:
		return clause.And(andExpressions...)
	}
}

// expression joins all non-empty conjunctions with OR.
func (d disjunction) expression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))
	for _, conj := range d {
		if exp := conj.expression(); exp != nil {
			orExpressions = append(orExpressions, exp)
		}
	}

	switch len(orExpressions) {
	case 0:
		return nil
	case 1:
		return orExpressions[0]
	default:
		return clause.Or(orExpressions...)
	}
}
