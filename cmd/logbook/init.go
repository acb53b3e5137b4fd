package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/logbook/testutil"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var mainTemplate = `package main

import (
	"context"
	"fmt"

	"github.com/autom8ter/logbook"
	transport "github.com/autom8ter/logbook/transport/http"
)

func main() {
	ctx := context.Background()
	db, err := logbook.Open(logbook.Config{
		Path:         "journal.db",
		SearchFields: []string{"name", "class"},
	})
	if err != nil {
		fmt.Println("failed to open journal: ", err.Error())
		return
	}
	defer db.Close(ctx)
	server, err := transport.New(transport.Config{
		Title:       "{{.title}}",
		Version:     "{{.version}}",
		Description: "{{.description}}",
		Port:        8080,
	}, nil)
	if err != nil {
		fmt.Println("failed to configure server: ", err.Error())
		return
	}
	fmt.Println("serving journal on port :8080")
	if err := server.Serve(ctx, db); err != nil {
		fmt.Println(err)
	}
}
`
	var (
		projectPath string
		version     string
		title       string
		description string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create a new logbook project with a starter journal",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.MkdirAll(projectPath, 0755); err != nil {
				return err
			}
			if err := testutil.WriteJournal(filepath.Join(projectPath, "journal.db"), testutil.Fixtures()); err != nil {
				return err
			}
			tmpl, err := template.New("").Funcs(sprig.FuncMap()).Parse(mainTemplate)
			if err != nil {
				return err
			}
			f, err := os.Create(filepath.Join(projectPath, "main.go"))
			if err != nil {
				return err
			}
			defer f.Close()
			if err := tmpl.Execute(f, map[string]any{
				"title":       title,
				"version":     version,
				"description": description,
			}); err != nil {
				return err
			}
			fmt.Printf("new project created: %v\n", projectPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&projectPath, "path", "p", ".", "path to project directory")
	cmd.Flags().StringVarP(&title, "title", "t", "change me", "title of project")
	cmd.Flags().StringVarP(&description, "description", "d", "change me", "description of project")
	cmd.Flags().StringVarP(&version, "version", "v", "v0.0.0", "version of project")
	return cmd
}
