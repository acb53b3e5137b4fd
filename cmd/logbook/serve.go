package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/autom8ter/logbook"
	transport "github.com/autom8ter/logbook/transport/http"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		title       string
		version     string
		description string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the journal over a read-only http api",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer db.Close(ctx)
			logger, err := logbook.NewLogger(logLevel, map[string]any{"journal": journalPath})
			if err != nil {
				return err
			}
			server, err := transport.New(transport.Config{
				Title:       title,
				Version:     version,
				Description: description,
				Port:        port,
			}, logger)
			if err != nil {
				return err
			}
			return server.Serve(ctx, db)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().StringVar(&title, "title", "logbook", "api title")
	cmd.Flags().StringVar(&version, "version", "v0.0.0", "api version")
	cmd.Flags().StringVar(&description, "description", "a read-only journal query api", "api description")
	return cmd
}

func watchCmd() *cobra.Command {
	var (
		filter     string
		filterFile string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "re-run a query and print its results on every journal change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer db.Close(ctx)
			filterDoc, err := loadFilter(filter, filterFile)
			if err != nil {
				return err
			}
			return db.Watch(ctx, filterDoc, nil, func(ctx context.Context, documents logbook.Documents) (bool, error) {
				return true, printJSON(documents)
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter document (inline json)")
	cmd.Flags().StringVar(&filterFile, "filter-file", "", "filter document file (json or yaml)")
	return cmd
}
