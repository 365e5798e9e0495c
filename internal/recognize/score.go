package recognize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const replacementGlyph = '�'

// Score rates recognized text by signal content: letters and digits count
// for, replacement glyphs count heavily against, and a capped length bonus
// rewards longer coherent output. Empty or whitespace-only text scores 0.
func Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	var letters, digits, garbage int
	for _, r := range text {
		switch {
		case r == replacementGlyph:
			garbage++
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	bonus := min(200, utf8.RuneCountInString(text)/5)
	return letters + digits - 5*garbage + bonus
}
