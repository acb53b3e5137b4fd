package logbook

import (
	"strings"

	"github.com/autom8ter/logbook/util"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// searchDocs returns the documents where at least one token of the
// phrase appears among the tokens of the space joined concatenation of
// the configured search fields. Matching is case insensitive and token
// based: any overlapping token is a hit, whole phrase containment is
// not required.
func searchDocs(documents Documents, searchFields []string, phrase string) Documents {
	tokens := util.Tokenize(phrase)
	if len(tokens) == 0 || len(searchFields) == 0 {
		return Documents{}
	}
	return documents.Filter(func(document *Document, i int) bool {
		return lo.Some(searchTokens(document, searchFields), tokens)
	})
}

// searchTokens tokenizes a document's searchable text, the space joined
// values of its search eligible fields.
func searchTokens(document *Document, searchFields []string) []string {
	parts := make([]string, 0, len(searchFields))
	for _, field := range searchFields {
		parts = append(parts, cast.ToString(document.Get(field)))
	}
	return util.Tokenize(strings.Join(parts, " "))
}
