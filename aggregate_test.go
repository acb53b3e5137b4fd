package logbook_test

import (
	"context"
	"testing"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/testutil"
	"github.com/stretchr/testify/assert"
)

func TestApplyAggregates(t *testing.T) {
	docs := testutil.Fixtures()
	t.Run("sum min max avg count", func(t *testing.T) {
		result, err := logbook.ApplyAggregates(docs,
			logbook.Aggregate{Function: logbook.AggregateSum, Field: "population", Alias: "sum"},
			logbook.Aggregate{Function: logbook.AggregateMin, Field: "population", Alias: "min"},
			logbook.Aggregate{Function: logbook.AggregateMax, Field: "population", Alias: "max"},
			logbook.Aggregate{Function: logbook.AggregateAvg, Field: "population", Alias: "avg"},
			logbook.Aggregate{Function: logbook.AggregateCount, Field: "population", Alias: "count"},
		)
		assert.Nil(t, err)
		assert.Equal(t, float64(865000), result.GetFloat("sum"))
		assert.Equal(t, float64(25000), result.GetFloat("min"))
		assert.Equal(t, float64(500000), result.GetFloat("max"))
		assert.Equal(t, float64(173000), result.GetFloat("avg"))
		assert.Equal(t, float64(5), result.GetFloat("count"))
	})
	t.Run("count skips absent fields", func(t *testing.T) {
		result, err := logbook.ApplyAggregates(docs,
			logbook.Aggregate{Function: logbook.AggregateCount, Field: "wingspan", Alias: "count"},
		)
		assert.Nil(t, err)
		assert.Equal(t, float64(0), result.GetFloat("count"))
	})
	t.Run("default alias is field.function", func(t *testing.T) {
		result, err := logbook.ApplyAggregates(docs,
			logbook.Aggregate{Function: logbook.AggregateMax, Field: "population"},
		)
		assert.Nil(t, err)
		assert.Equal(t, float64(500000), result.GetFloat("population.max"))
	})
	t.Run("empty input", func(t *testing.T) {
		result, err := logbook.ApplyAggregates(logbook.Documents{},
			logbook.Aggregate{Function: logbook.AggregateSum, Field: "population", Alias: "sum"},
			logbook.Aggregate{Function: logbook.AggregateAvg, Field: "population", Alias: "avg"},
		)
		assert.Nil(t, err)
		assert.Equal(t, float64(0), result.GetFloat("sum"))
		assert.Equal(t, float64(0), result.GetFloat("avg"))
	})
	t.Run("unsupported function", func(t *testing.T) {
		_, err := logbook.ApplyAggregates(docs,
			logbook.Aggregate{Function: "median", Field: "population"},
		)
		assert.NotNil(t, err)
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
}

func TestDBAggregate(t *testing.T) {
	assert.Nil(t, testutil.TestDB(func(ctx context.Context, db *logbook.DB) {
		t.Run("ungrouped reduces to one document", func(t *testing.T) {
			results, err := db.Aggregate(ctx, nil, logbook.AggregateQuery{
				Aggregates: []logbook.Aggregate{{Function: logbook.AggregateCount, Field: "_id", Alias: "total"}},
			})
			assert.Nil(t, err)
			assert.Len(t, results, 1)
			assert.Equal(t, float64(5), results[0].GetFloat("total"))
		})
		t.Run("group by groups and orders", func(t *testing.T) {
			results, err := db.Aggregate(ctx, nil, logbook.AggregateQuery{
				GroupBy: []string{"class"},
				Aggregates: []logbook.Aggregate{
					{Function: logbook.AggregateCount, Field: "_id", Alias: "total"},
					{Function: logbook.AggregateSum, Field: "population", Alias: "population"},
				},
			})
			assert.Nil(t, err)
			assert.Len(t, results, 3)
			assert.Equal(t, "fish", results[0].GetString("class"))
			assert.Equal(t, float64(1), results[0].GetFloat("total"))
			assert.Equal(t, "mammal", results[1].GetString("class"))
			assert.Equal(t, float64(75000), results[1].GetFloat("population"))
			assert.Equal(t, "reptile", results[2].GetString("class"))
			assert.Equal(t, float64(2), results[2].GetFloat("total"))
		})
		t.Run("aggregate respects the filter", func(t *testing.T) {
			results, err := db.Aggregate(ctx, mustDoc(t, `{"endangered":{"eq":true}}`), logbook.AggregateQuery{
				Aggregates: []logbook.Aggregate{{Function: logbook.AggregateCount, Field: "_id", Alias: "total"}},
			})
			assert.Nil(t, err)
			assert.Equal(t, float64(3), results[0].GetFloat("total"))
		})
		t.Run("aggregates are required", func(t *testing.T) {
			_, err := db.Aggregate(ctx, nil, logbook.AggregateQuery{})
			assert.NotNil(t, err)
			assert.Equal(t, errors.Validation, errors.Extract(err).Code)
		})
	}))
}
