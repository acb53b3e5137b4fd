package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/util"
	"github.com/spf13/cobra"
)

var (
	journalPath  string
	searchFields []string
	logLevel     string
)

func main() {
	root := &cobra.Command{
		Use:   "logbook",
		Short: "query a journal backed record collection",
		Long: `logbook evaluates declarative filter documents against a newline
delimited journal of json records. The journal is re-read on every
query, so results always reflect the file's current contents.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&journalPath, "journal", "j", "journal.db", "path to the journal file")
	root.PersistentFlags().StringSliceVarP(&searchFields, "search-fields", "s", nil, "record fields eligible for full text search")
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(
		findCmd(),
		getCmd(),
		statsCmd(),
		aggregateCmd(),
		serveCmd(),
		watchCmd(),
		shellCmd(),
		initCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*logbook.DB, error) {
	return logbook.Open(logbook.Config{
		Path:         journalPath,
		SearchFields: searchFields,
		LogLevel:     logLevel,
	})
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// loadFilter builds a filter document from an inline json flag or a
// json/yaml file. Both empty means match everything.
func loadFilter(filter, filterFile string) (*logbook.Document, error) {
	var raw []byte
	switch {
	case filterFile != "":
		data, err := os.ReadFile(filterFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.NotFound, "failed to read filter file: %s", filterFile)
		}
		raw, err = util.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(err, errors.Validation, "failed to parse filter file: %s", filterFile)
		}
	case filter != "":
		raw = []byte(filter)
	default:
		return nil, nil
	}
	return logbook.NewDocumentFromBytes(raw)
}

// parseOrderBys parses repeated field:direction flags (direction
// defaults to asc)
func parseOrderBys(specs []string) []logbook.OrderBy {
	var orderBys []logbook.OrderBy
	for _, spec := range specs {
		field, direction, found := strings.Cut(spec, ":")
		if !found || direction == "" {
			direction = string(logbook.OrderByDirectionAsc)
		}
		orderBys = append(orderBys, logbook.OrderBy{
			Field:     field,
			Direction: logbook.OrderByDirection(strings.ToLower(direction)),
		})
	}
	return orderBys
}
