package logbook

import (
	"os"
	"strings"

	"github.com/autom8ter/logbook/errors"
)

// entryMarker prefixes journal lines that carry a live record. Lines
// with any other prefix are reserved for future entry kinds (deletions,
// updates) and are skipped.
const entryMarker = 'E'

// ParseJournal decodes journal text into the records it contains, in
// line order. A line is a record only when it starts with the entry
// marker; the rest of the line must decode into a json object carrying
// an integer identity field. A marked line that fails to decode aborts
// the whole parse with a corruption error.
func ParseJournal(data []byte) (Documents, error) {
	var documents Documents
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) == 0 || line[0] != entryMarker {
			continue
		}
		document, err := NewDocumentFromBytes([]byte(line[1:]))
		if err != nil {
			return nil, errors.Wrap(err, errors.Corrupt, "journal: bad entry at line %d", i+1)
		}
		if !document.HasID() {
			return nil, errors.New(errors.Corrupt, "journal: entry at line %d has no integer '%s'", i+1, IDField)
		}
		documents = append(documents, document)
	}
	return documents, nil
}

// ReadJournal loads and parses the journal file at the given path.
func ReadJournal(path string) (Documents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.NotFound, "journal not found: %s", path)
		}
		return nil, errors.Wrap(err, errors.Internal, "failed to read journal: %s", path)
	}
	return ParseJournal(data)
}
