package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/autom8ter/logbook"
	"github.com/brianvoe/gofakeit/v6"
)

// SearchFields are the full text fields test databases are configured with
var SearchFields = []string{"name", "class"}

// NewSpeciesDoc returns a randomized species record with the given identity
func NewSpeciesDoc(id int64) *logbook.Document {
	doc, err := logbook.NewDocumentFrom(map[string]interface{}{
		"_id":         id,
		"name":        gofakeit.Animal(),
		"class":       gofakeit.AnimalType(),
		"description": gofakeit.LoremIpsumSentence(5),
		"population":  gofakeit.IntRange(10, 1000000),
		"endangered":  gofakeit.Bool(),
		"regions":     []string{gofakeit.Country(), gofakeit.Country()},
	})
	if err != nil {
		panic(err)
	}
	return doc
}

// Species returns n randomized species records with identities 1..n
func Species(n int) logbook.Documents {
	var documents logbook.Documents
	for i := 1; i <= n; i++ {
		documents = append(documents, NewSpeciesDoc(int64(i)))
	}
	return documents
}

// Fixtures returns a small fixed set of species records used across tests
func Fixtures() logbook.Documents {
	var documents logbook.Documents
	for _, raw := range []string{
		`{"_id":1,"name":"Blue Whale","class":"mammal","population":25000,"endangered":true,"regions":["pacific","atlantic"]}`,
		`{"_id":2,"name":"Whale Shark","class":"fish","population":200000,"endangered":true,"regions":["indian","pacific"]}`,
		`{"_id":3,"name":"Orca","class":"mammal","population":50000,"endangered":false,"regions":["arctic","pacific"]}`,
		`{"_id":4,"name":"Green Sea Turtle","class":"reptile","population":90000,"endangered":true,"regions":["atlantic"]}`,
		`{"_id":5,"name":"Saltwater Crocodile","class":"reptile","population":500000,"endangered":false,"regions":["indian"]}`,
	} {
		doc, err := logbook.NewDocumentFromBytes([]byte(raw))
		if err != nil {
			panic(err)
		}
		documents = append(documents, doc)
	}
	return documents
}

// WriteJournal writes the documents to path as journal entry lines
func WriteJournal(path string, documents logbook.Documents) error {
	var lines []string
	for _, document := range documents {
		lines = append(lines, "E"+document.String())
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)
}

// AppendLine appends a raw line to the journal at path
func AppendLine(path string, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, line)
	return err
}

// TestDB seeds a temp journal with the documents (the Fixtures set when
// none are given) and runs fn against a database opened on it
func TestDB(fn func(ctx context.Context, db *logbook.DB), documents ...*logbook.Document) error {
	if len(documents) == 0 {
		documents = Fixtures()
	}
	dir, err := os.MkdirTemp("", "logbook")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "journal.db")
	if err := WriteJournal(path, documents); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := logbook.Open(logbook.Config{
		Path:         path,
		SearchFields: SearchFields,
		LogLevel:     "error",
	})
	if err != nil {
		return err
	}
	defer db.Close(ctx)
	fn(ctx, db)
	return nil
}
