package logbook

import (
	"github.com/autom8ter/logbook/errors"
	"github.com/tidwall/gjson"
)

// SearchKey is the reserved selector key that routes a filter document
// to the full text query path.
const SearchKey = "search"

// SetOp is a boolean operator used to compose multiple field filters in a set query
type SetOp string

const (
	// SetOpAnd intersects the results of the composed filters
	SetOpAnd SetOp = "and"
	// SetOpOr unions the results of the composed filters
	SetOpOr SetOp = "or"
)

// WhereOp is an operator used to compare a value to a records field value in a where clause
type WhereOp string

const (
	// WhereOpEq matches on equality
	WhereOpEq WhereOp = "eq"
	// WhereOpGt matches on greater than
	WhereOpGt WhereOp = "gt"
	// WhereOpLt matches on less than
	WhereOpLt WhereOp = "lt"
	// WhereOpIn matches on an element being contained in a list
	WhereOpIn WhereOp = "in"
)

// Where is a field-level filter for queries
type Where struct {
	// Field is the record field to compare against the value
	Field string `json:"field" validate:"required"`
	// Op is the operator used to compare the field against the value
	Op WhereOp `json:"op" validate:"oneof='eq' 'gt' 'lt' 'in'"`
	// Value is the value to compare against the records field value
	Value any `json:"value" validate:"required"`
}

// OrderByDirection indicates whether results should be sorted in ascending or descending order
type OrderByDirection string

const (
	// OrderByDirectionAsc indicates ascending order
	OrderByDirectionAsc OrderByDirection = "asc"
	// OrderByDirectionDesc indicates descending order
	OrderByDirectionDesc OrderByDirection = "desc"
)

// OrderBy orders the result set by a given field in a given direction
type OrderBy struct {
	// Field is the field to sort on
	Field string `json:"field" validate:"required"`
	// Direction is the sort direction
	Direction OrderByDirection `json:"direction" validate:"oneof='asc' 'desc'"`
}

// FindOptions adjust how matching records are returned
type FindOptions struct {
	// OrderBy sorts the results by the given fields. Sort passes run in
	// the order listed and every pass is stable, so the last listed
	// field dominates and earlier fields break its ties.
	OrderBy []OrderBy `json:"order_by,omitempty" validate:"dive"`
	// Select reduces each result record to the given fields
	Select []string `json:"select,omitempty"`
}

// QueryKind discriminates the classified forms of a filter document
type QueryKind string

const (
	// QueryKindMatchAll matches every record (an empty filter document)
	QueryKindMatchAll QueryKind = "match_all"
	// QueryKindText is a full text query over the configured search fields
	QueryKindText QueryKind = "text"
	// QueryKindSet is a boolean composition of field filters
	QueryKindSet QueryKind = "set"
	// QueryKindField is one or more field filters, implicitly intersected
	QueryKindField QueryKind = "field"
)

// Query is the classified form of a filter document. Exactly one of the
// variant fields is populated, according to Kind.
type Query struct {
	// Kind is the query form chosen during classification
	Kind QueryKind `json:"kind"`
	// Search is the phrase of a full text query
	Search string `json:"search,omitempty"`
	// SetOp is the boolean operator of a set query
	SetOp SetOp `json:"set_op,omitempty"`
	// Wheres are the field filters of a set or per-field query, in
	// traversal order. Set queries fold them one at a time; per-field
	// queries intersect them.
	Wheres []Where `json:"wheres,omitempty"`
}

// ClassifyQuery converts a filter document into its classified Query
// form, dispatching on the document's first entry: the search key routes
// to a full text query, a set operator to a set query and a known field
// to a per-field query. Anything else fails with a validation error.
func ClassifyQuery(filter *Document, fields map[string]struct{}) (*Query, error) {
	var entries []queryEntry
	if filter != nil {
		filter.result.ForEach(func(key, value gjson.Result) bool {
			entries = append(entries, queryEntry{key: key.String(), value: value})
			return true
		})
	}
	if len(entries) == 0 {
		return &Query{Kind: QueryKindMatchAll}, nil
	}
	first := entries[0]
	switch {
	case first.key == SearchKey && len(entries) == 1:
		return &Query{Kind: QueryKindText, Search: first.value.String()}, nil
	case first.key == string(SetOpAnd) || first.key == string(SetOpOr):
		wheres, err := setQueryWheres(first.value)
		if err != nil {
			return nil, err
		}
		return &Query{Kind: QueryKindSet, SetOp: SetOp(first.key), Wheres: wheres}, nil
	default:
		if _, ok := fields[first.key]; !ok {
			return nil, errors.New(errors.Validation, "unhandled query format: '%s'", first.key)
		}
		var wheres []Where
		for _, e := range entries {
			ws, err := subQueryWheres(e.key, e.value)
			if err != nil {
				return nil, err
			}
			wheres = append(wheres, ws...)
		}
		return &Query{Kind: QueryKindField, Wheres: wheres}, nil
	}
}

type queryEntry struct {
	key   string
	value gjson.Result
}

// setQueryWheres flattens a set query's array of filter documents into
// the ordered field filters to fold, outer array order first, then each
// inner document's entry order.
func setQueryWheres(value gjson.Result) ([]Where, error) {
	if !value.IsArray() {
		return nil, errors.New(errors.Validation, "set operator expects an array of filters, got: %s", value.Raw)
	}
	var (
		wheres []Where
		err    error
	)
	value.ForEach(func(_, branch gjson.Result) bool {
		if !branch.IsObject() {
			err = errors.New(errors.Validation, "set operator branch must be a filter document, got: %s", branch.Raw)
			return false
		}
		branch.ForEach(func(field, sub gjson.Result) bool {
			var ws []Where
			ws, err = subQueryWheres(field.String(), sub)
			if err != nil {
				return false
			}
			wheres = append(wheres, ws...)
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return wheres, nil
}

// subQueryWheres converts a single field sub-query ({op: value}) into
// where clauses, one per operator entry.
func subQueryWheres(field string, sub gjson.Result) ([]Where, error) {
	if !sub.IsObject() {
		return nil, errors.New(errors.Validation, "filter for field '%s' must map an operator to a value, got: %s", field, sub.Raw)
	}
	var (
		wheres []Where
		err    error
	)
	sub.ForEach(func(op, value gjson.Result) bool {
		var w Where
		w, err = newWhere(field, op.String(), value)
		if err != nil {
			return false
		}
		wheres = append(wheres, w)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(wheres) == 0 {
		return nil, errors.New(errors.Validation, "empty filter for field '%s'", field)
	}
	return wheres, nil
}

func newWhere(field, op string, value gjson.Result) (Where, error) {
	switch WhereOp(op) {
	case WhereOpEq, WhereOpGt, WhereOpLt, WhereOpIn:
	default:
		return Where{}, errors.New(errors.Validation, "unhandled query operator: '%s'", op)
	}
	if value.Type == gjson.Null {
		return Where{}, errors.New(errors.Validation, "missing comparison value for field '%s' operator '%s'", field, op)
	}
	if WhereOp(op) == WhereOpIn && !value.IsArray() {
		return Where{}, errors.New(errors.Validation, "the '%s' operator expects an array of candidate values, got: %s", WhereOpIn, value.Raw)
	}
	return Where{Field: field, Op: WhereOp(op), Value: value.Value()}, nil
}
