package pagewindow

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Getters maps sort columns to functions reading the column value from a
// record. Every column a GormSource may sort by, the tie-breaker included,
// needs a getter for keyset hints to work.
//
//	pagewindow.Getters[models.Person]{
//		"id":  func(p models.Person) any { return p.ID },
//		"age": func(p models.Person) any { return p.Age },
//	}
type Getters[T any] map[string]func(T) any

// keysetCursor marks the position right after a known record. It holds one
// element per sort column:
//
//	[(C1, O1, V1), (C2, O2, V2)... (Cn, On, Vn)]
//
// IMPORTANT:
// The sort it was built for MUST contain a unique column, otherwise records
// sharing the same values are skipped. GormSource guarantees it by building
// cursors only when a tie-breaker is configured.
type keysetCursor struct {
	elements []keysetElement
}

// keysetElement is the triple (c, v, o): record field, value to compare the
// field with and the operator applied to the pair.
type keysetElement struct {
	Column   string
	Value    any
	Operator Operator
}

func (e keysetElement) equality() comparison {
	return comparison{
		Column:   e.Column,
		Value:    e.Value,
		Operator: operatorEq,
	}
}

func (c *keysetCursor) isEmpty() bool {
	return c == nil || len(c.elements) == 0
}

// Apply adds the keyset condition to a gorm query.
func (c *keysetCursor) Apply(db *gorm.DB) *gorm.DB {
	exp := c.toDNF().expression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// toDNF expands the cursor into a filter that selects everything after it:
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ...
func (c *keysetCursor) toDNF() disjunction {
	if c.isEmpty() {
		return nil
	}

	dnf := make(disjunction, 0, len(c.elements))
	for i := range c.elements {
		conj := make(conjunction, 0, i+1)
		conj = append(conj, lo.Map(c.elements[:i], func(item keysetElement, _ int) comparison {
			return item.equality()
		})...)
		conj = append(conj, comparison(c.elements[i]))

		dnf = append(dnf, conj)
	}

	return dnf
}

// nextKeyset builds the cursor pointing right after the last record of page
// for the given sort.
func nextKeyset[T any](sort Orderings, page []T, getters Getters[T]) (*keysetCursor, error) {
	if len(page) == 0 {
		return nil, fmt.Errorf("cannot build keyset from an empty page")
	}
	last := lo.LastOrEmpty(page)

	ret := &keysetCursor{elements: make([]keysetElement, 0, len(sort))}
	for _, orderBy := range sort {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		op := orderBy.Direction.ForOperator()
		if !op.Valid() {
			return nil, fmt.Errorf("invalid keyset operator '%s'", op)
		}

		ret.elements = append(ret.elements, keysetElement{
			Column:   orderBy.Column,
			Value:    getter(last),
			Operator: op,
		})
	}

	return ret, nil
}
