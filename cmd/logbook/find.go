package main

import (
	"github.com/autom8ter/logbook"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func findCmd() *cobra.Command {
	var (
		filter     string
		filterFile string
		orderBys   []string
		selects    []string
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "evaluate a filter document against the journal",
		Example: `  logbook find --filter '{"class":{"eq":"mammal"}}'
  logbook find --filter '{"or":[{"population":{"lt":1000}},{"endangered":{"eq":true}}]}' --order-by population:desc
  logbook find -s name,class --filter '{"search":"whale shark"}' --select name`,
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
			results, err := db.Find(cmd.Context(), filterDoc, &logbook.FindOptions{
				OrderBy: parseOrderBys(orderBys),
				Select:  selects,
			})
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter document (inline json)")
	cmd.Flags().StringVar(&filterFile, "filter-file", "", "filter document file (json or yaml)")
	cmd.Flags().StringArrayVar(&orderBys, "order-by", nil, "sort pass as field:direction (repeatable, later passes dominate)")
	cmd.Flags().StringSliceVar(&selects, "select", nil, "fields to keep on each result record")
	return cmd
}

func getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "fetch the record with the given identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())
			document, err := db.Get(cmd.Context(), cast.ToInt64(args[0]))
			if err != nil {
				return err
			}
			return printJSON(document)
		},
	}
	return cmd
}
