package recognize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_EmptyAndWhitespace(t *testing.T) {
	assert.Equal(t, 0, Score(""))
	assert.Equal(t, 0, Score("   \n\t  "))
}

func TestScore_CountsLettersAndDigits(t *testing.T) {
	// 5 letters + 3 digits + (8/5 = 1) length bonus
	assert.Equal(t, 9, Score("abcde123"))
}

func TestScore_ReplacementGlyphPenalty(t *testing.T) {
	base := "Invoice 42 Total"
	// Appending a replacement glyph instead of a letter swings the score by
	// the full penalty: -5 for the glyph versus +1 for a letter, with the
	// same length contribution.
	withGlyph := Score(base + "�")
	withLetter := Score(base + "x")
	assert.Equal(t, 6, withLetter-withGlyph)
}

func TestScore_MoreSignalScoresHigher(t *testing.T) {
	noisy := "I?v*ice ... ###"
	clean := "Invoice No 12345 Total Due 99.00"
	assert.Greater(t, Score(clean), Score(noisy))
}

func TestScore_LengthBonusCapped(t *testing.T) {
	// Punctuation contributes only through the length bonus, which caps at 200.
	long := strings.Repeat(".", 10000)
	assert.Equal(t, 200, Score(long))
}
