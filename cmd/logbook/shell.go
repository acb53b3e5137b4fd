package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/autom8ter/logbook"
	"github.com/peterh/liner"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  find <filter-json>        evaluate a filter document
  get <id>                  fetch a record by identity
  stats                     summarize the journal
  agg <function> <field>    reduce a field (sum, min, max, avg, count)
  .help                     show this help
  .exit                     leave the shell`

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "interactive query shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())
			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			historyPath := filepath.Join(os.TempDir(), ".logbook_history")
			if f, err := os.Open(historyPath); err == nil {
				line.ReadHistory(f)
				f.Close()
			}
			defer func() {
				if f, err := os.Create(historyPath); err == nil {
					line.WriteHistory(f)
					f.Close()
				}
			}()
			fmt.Printf("logbook shell (journal: %s) - type '.help' for commands\n", journalPath)
			for {
				input, err := line.Prompt("logbook> ")
				if err == liner.ErrPromptAborted || err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				line.AppendHistory(input)
				done, err := execLine(cmd.Context(), db, input)
				if err != nil {
					fmt.Println("error:", err.Error())
				}
				if done {
					return nil
				}
			}
		},
	}
}

func execLine(ctx context.Context, db *logbook.DB, input string) (bool, error) {
	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	switch command {
	case ".exit", ".quit":
		return true, nil
	case ".help":
		fmt.Println(shellHelp)
		return false, nil
	case "find":
		filter, err := loadFilter(rest, "")
		if err != nil {
			return false, err
		}
		results, err := db.Find(ctx, filter, nil)
		if err != nil {
			return false, err
		}
		return false, printJSON(results)
	case "get":
		document, err := db.Get(ctx, cast.ToInt64(rest))
		if err != nil {
			return false, err
		}
		return false, printJSON(document)
	case "stats":
		stats, err := db.Stats(ctx)
		if err != nil {
			return false, err
		}
		return false, printJSON(stats)
	case "agg":
		function, field, found := strings.Cut(rest, " ")
		if !found {
			fmt.Println("usage: agg <function> <field>")
			return false, nil
		}
		results, err := db.Aggregate(ctx, nil, logbook.AggregateQuery{
			Aggregates: []logbook.Aggregate{{
				Function: logbook.AggregateFunction(function),
				Field:    strings.TrimSpace(field),
			}},
		})
		if err != nil {
			return false, err
		}
		return false, printJSON(results)
	default:
		fmt.Printf("unknown command: %s (type '.help' for commands)\n", command)
		return false, nil
	}
}
