package logbook

import (
	"fmt"
	"strings"

	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/util"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// AggregateFunction is a reduction applied to a field across a set of records
type AggregateFunction string

const (
	// AggregateSum calculates the sum
	AggregateSum AggregateFunction = "sum"
	// AggregateMin calculates the min
	AggregateMin AggregateFunction = "min"
	// AggregateMax calculates the max
	AggregateMax AggregateFunction = "max"
	// AggregateAvg calculates the avg
	AggregateAvg AggregateFunction = "avg"
	// AggregateCount counts the records with the field present
	AggregateCount AggregateFunction = "count"
)

// Aggregate is an aggregate function applied to a field
type Aggregate struct {
	// Function reduces the field's values to a single value
	Function AggregateFunction `json:"function" validate:"oneof='sum' 'min' 'max' 'avg' 'count'"`
	// Field is the field to reduce
	Field string `json:"field" validate:"required"`
	// Alias names the reduced value on the output document (defaults to field.function)
	Alias string `json:"alias,omitempty"`
}

func (a Aggregate) alias() string {
	if a.Alias != "" {
		return a.Alias
	}
	return fmt.Sprintf("%s.%s", a.Field, a.Function)
}

// AggregateQuery reduces records to grouped aggregate documents
type AggregateQuery struct {
	// GroupBy groups records by the given fields before reducing
	GroupBy []string `json:"group_by,omitempty"`
	// Aggregates are the reductions applied per group
	Aggregates []Aggregate `json:"aggregates" validate:"min=1,dive"`
}

// ApplyAggregates reduces the documents to a single document holding one
// value per aggregate, keyed by the aggregate's alias.
func ApplyAggregates(documents Documents, aggregates ...Aggregate) (*Document, error) {
	result := NewDocument()
	for _, agg := range aggregates {
		if err := util.ValidateStruct(&agg); err != nil {
			return nil, err
		}
		value, err := reduce(agg, documents)
		if err != nil {
			return nil, err
		}
		if err := result.Set(agg.alias(), value); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func reduce(agg Aggregate, documents Documents) (any, error) {
	switch agg.Function {
	case AggregateSum:
		return sumDocs(agg.Field, documents), nil
	case AggregateAvg:
		if len(documents) == 0 {
			return float64(0), nil
		}
		return sumDocs(agg.Field, documents) / float64(len(documents)), nil
	case AggregateCount:
		return lo.CountBy[*Document](documents, func(t *Document) bool {
			return t.Get(agg.Field) != nil
		}), nil
	case AggregateMin:
		document := lo.MinBy[*Document](documents, func(this *Document, that *Document) bool {
			return compareValues(this.Get(agg.Field), that.Get(agg.Field)) < 0
		})
		if document == nil {
			return nil, nil
		}
		return document.Get(agg.Field), nil
	case AggregateMax:
		document := lo.MaxBy[*Document](documents, func(this *Document, that *Document) bool {
			return compareValues(this.Get(agg.Field), that.Get(agg.Field)) > 0
		})
		if document == nil {
			return nil, nil
		}
		return document.Get(agg.Field), nil
	default:
		return nil, errors.New(errors.Validation, "unsupported aggregate function: '%s'", agg.Function)
	}
}

func sumDocs(field string, documents Documents) float64 {
	return lo.SumBy[*Document, float64](documents, func(t *Document) float64 {
		return cast.ToFloat64(t.Get(field))
	})
}

// groupDocs partitions the documents by the joined string form of their
// group by field values.
func groupDocs(documents Documents, groupBy []string) map[string]Documents {
	grouped := map[string]Documents{}
	for key, group := range lo.GroupBy[*Document, string](documents, func(t *Document) string {
		var values []string
		for _, field := range groupBy {
			values = append(values, cast.ToString(t.Get(field)))
		}
		return strings.Join(values, ".")
	}) {
		grouped[key] = group
	}
	return grouped
}
