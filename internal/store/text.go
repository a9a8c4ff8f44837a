package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// warnDenormalized logs text that is not in Unicode NFC. Text is stored as
// given, so a decomposed spelling sorts and matches apart from its composed
// form under BINARY collation.
func (s *Store) warnDenormalized(op, text string) {
	if !norm.NFC.IsNormalString(text) {
		s.logger.Warn("word text is not NFC normalized", "op", op, "text", text)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
