package logbook_test

import (
	"path/filepath"
	"testing"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/testutil"
	"github.com/stretchr/testify/assert"
)

func TestParseJournal(t *testing.T) {
	t.Run("entry lines load in order, others are skipped", func(t *testing.T) {
		data := []byte(`E{"_id":1,"name":"a","tag":"x"}
D{"_id":1}
E{"_id":2,"name":"b","tag":"y"}
`)
		documents, err := logbook.ParseJournal(data)
		assert.Nil(t, err)
		assert.Equal(t, []int64{1, 2}, documents.IDs())
		assert.Equal(t, "a", documents[0].GetString("name"))
		assert.Equal(t, "y", documents[1].GetString("tag"))
	})
	t.Run("blank and unmarked lines are ignored", func(t *testing.T) {
		data := []byte("\n# comment\nE{\"_id\":1}\n\nupdate {\"_id\":9}\n")
		documents, err := logbook.ParseJournal(data)
		assert.Nil(t, err)
		assert.Len(t, documents, 1)
	})
	t.Run("decode failure aborts the whole parse", func(t *testing.T) {
		data := []byte("E{\"_id\":1}\nE{\"_id\":2,\n")
		documents, err := logbook.ParseJournal(data)
		assert.Nil(t, documents)
		assert.NotNil(t, err)
		assert.Equal(t, errors.Corrupt, errors.Extract(err).Code)
		assert.Contains(t, err.Error(), "line 2")
	})
	t.Run("entries must carry an integer identity", func(t *testing.T) {
		for _, line := range []string{
			`E{"name":"a"}`,
			`E{"_id":"1"}`,
			`E{"_id":1.5}`,
		} {
			_, err := logbook.ParseJournal([]byte(line))
			assert.NotNil(t, err, line)
			assert.Equal(t, errors.Corrupt, errors.Extract(err).Code, line)
		}
	})
	t.Run("entry payload must be an object", func(t *testing.T) {
		_, err := logbook.ParseJournal([]byte("E[1,2]\n"))
		assert.NotNil(t, err)
		assert.Equal(t, errors.Corrupt, errors.Extract(err).Code)
		_, err = logbook.ParseJournal([]byte("E\n"))
		assert.NotNil(t, err)
	})
	t.Run("windows line endings", func(t *testing.T) {
		documents, err := logbook.ParseJournal([]byte("E{\"_id\":1}\r\nE{\"_id\":2}\r\n"))
		assert.Nil(t, err)
		assert.Equal(t, []int64{1, 2}, documents.IDs())
	})
	t.Run("empty journal", func(t *testing.T) {
		documents, err := logbook.ParseJournal(nil)
		assert.Nil(t, err)
		assert.Empty(t, documents)
	})
}

func TestReadJournal(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.db")
		assert.Nil(t, testutil.WriteJournal(path, testutil.Fixtures()))
		documents, err := logbook.ReadJournal(path)
		assert.Nil(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, documents.IDs())
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := logbook.ReadJournal(filepath.Join(t.TempDir(), "absent.db"))
		assert.NotNil(t, err)
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
}
