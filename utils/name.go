package utils

import "strings"

// Only these glyphs are folded. Other accented letters (â, ê, à, ü, ...) are
// left as they are, so names spelled with them only match the same spelling.
var accentFolder = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
	"ã", "a",
	"õ", "o",
	"ç", "c",
)

// NormalizeName lowercases, trims and folds the accents above.
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	return accentFolder.Replace(strings.TrimSpace(strings.ToLower(s)))
}
