package logbook_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	assert.Nil(t, testutil.TestDB(func(ctx context.Context, db *logbook.DB) {
		t.Run("any overlapping token matches", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"whale shark"}`), nil)
			assert.Nil(t, err)
			assert.Equal(t, []int64{1, 2}, results.IDs())
		})
		t.Run("matching is case insensitive", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"ORCA"}`), nil)
			assert.Nil(t, err)
			assert.Equal(t, []int64{3}, results.IDs())
		})
		t.Run("no shared token matches nothing", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"kraken"}`), nil)
			assert.Nil(t, err)
			assert.Empty(t, results)
		})
		t.Run("whole phrase containment is not required", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"saltwater kraken"}`), nil)
			assert.Nil(t, err)
			assert.Equal(t, []int64{5}, results.IDs())
		})
		t.Run("all configured fields are searched", func(t *testing.T) {
			// class is the second configured search field
			results, err := db.Find(ctx, mustDoc(t, `{"search":"reptile"}`), nil)
			assert.Nil(t, err)
			assert.Equal(t, []int64{4, 5}, results.IDs())
		})
		t.Run("tokens split on spaces without punctuation stripping", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"whale,"}`), nil)
			assert.Nil(t, err)
			assert.Empty(t, results)
		})
		t.Run("a blank phrase matches nothing", func(t *testing.T) {
			results, err := db.Find(ctx, mustDoc(t, `{"search":"   "}`), nil)
			assert.Nil(t, err)
			assert.Empty(t, results)
		})
	}))
}

func TestSearchWithoutSearchFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	assert.Nil(t, testutil.WriteJournal(path, testutil.Fixtures()))
	db, err := logbook.Open(logbook.Config{Path: path, LogLevel: "error"})
	assert.Nil(t, err)
	defer db.Close(context.Background())
	results, err := db.Find(context.Background(), mustDoc(t, `{"search":"whale"}`), nil)
	assert.Nil(t, err)
	assert.Empty(t, results)
}
