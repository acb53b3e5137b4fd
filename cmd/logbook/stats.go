package main

import (
	"strings"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "summarize the journal and the records it holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())
			stats, err := db.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
	return cmd
}

func aggregateCmd() *cobra.Command {
	var (
		filter     string
		filterFile string
		groupBy    []string
		aggSpecs   []string
	)
	cmd := &cobra.Command{
		Use:     "aggregate",
		Aliases: []string{"agg"},
		Short:   "filter, group and reduce records to aggregate documents",
		Example: `  logbook aggregate --agg count:_id:total
  logbook aggregate --group-by class --agg sum:population --agg max:population:largest`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())
			filterDoc, err := loadFilter(filter, filterFile)
			if err != nil {
				return err
			}
			aggregates, err := parseAggregates(aggSpecs)
			if err != nil {
				return err
			}
			results, err := db.Aggregate(cmd.Context(), filterDoc, logbook.AggregateQuery{
				GroupBy:    groupBy,
				Aggregates: aggregates,
			})
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter document (inline json)")
	cmd.Flags().StringVar(&filterFile, "filter-file", "", "filter document file (json or yaml)")
	cmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "fields to group by before reducing")
	cmd.Flags().StringArrayVar(&aggSpecs, "agg", nil, "reduction as function:field[:alias] (repeatable)")
	return cmd
}

// parseAggregates parses repeated function:field[:alias] flags
func parseAggregates(specs []string) ([]logbook.Aggregate, error) {
	var aggregates []logbook.Aggregate
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		if len(parts) < 2 {
			return nil, errors.New(errors.Validation, "aggregate must be function:field[:alias], got: %s", spec)
		}
		agg := logbook.Aggregate{
			Function: logbook.AggregateFunction(strings.ToLower(parts[0])),
			Field:    parts[1],
		}
		if len(parts) == 3 {
			agg.Alias = parts[2]
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}
