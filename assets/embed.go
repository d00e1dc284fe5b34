// Package assets embeds the default word list so the server can run
// without WORDS_FILE configured.
package assets

import (
	"embed"
	"io/fs"
)

// VocabularyFile is the embedded word list, one word per line.
const VocabularyFile = "vocabulary.txt"

//go:embed vocabulary.txt
var FS embed.FS

// OpenVocabulary opens the embedded word list.
func OpenVocabulary() (fs.File, error) {
	return FS.Open(VocabularyFile)
}
