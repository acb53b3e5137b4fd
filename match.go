package logbook

import (
	"reflect"

	"github.com/autom8ter/logbook/errors"
	"github.com/spf13/cast"
)

// Where executes the where clauses against the document and returns true if it passes every clause
func (d *Document) Where(wheres []Where) (bool, error) {
	for _, w := range wheres {
		pass, err := d.passes(w)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

func (d *Document) passes(w Where) (bool, error) {
	fieldVal := d.Get(w.Field)
	// absent and null field values match no operator
	if fieldVal == nil {
		return false, nil
	}
	switch w.Op {
	case WhereOpEq:
		return equalValues(fieldVal, w.Value), nil
	case WhereOpGt:
		return compareValues(fieldVal, w.Value) > 0, nil
	case WhereOpLt:
		return compareValues(fieldVal, w.Value) < 0, nil
	case WhereOpIn:
		for _, candidate := range cast.ToSlice(w.Value) {
			if equalValues(fieldVal, candidate) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, errors.New(errors.Validation, "unhandled query operator: '%s'", w.Op)
	}
}

// equalValues reports strict equality of two json values. Numbers are
// compared as one numeric type since json carries a single number kind.
func equalValues(this, that any) bool {
	if isNumber(this) && isNumber(that) {
		return cast.ToFloat64(this) == cast.ToFloat64(that)
	}
	return reflect.DeepEqual(this, that)
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
