// Package textproc turns raw OCR line output into paragraphs and tabular records.
//
// Both stages are heuristics tuned for OCR of single-column book pages. The
// fragment threshold and delimiter priority are approximations, exposed as
// fields so callers can tune them.
package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCompleteLineLength is the number of characters at which a line is
// considered complete rather than a wrapped fragment of a longer sentence.
const DefaultCompleteLineLength = 50

// ArabicScript matches the Arabic, Arabic Supplement and Arabic Extended-A blocks.
// Lines containing any of these code points are dropped as recognition noise.
var ArabicScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
		{Lo: 0x08A0, Hi: 0x08FF, Stride: 1},
	},
}

// Normalizer merges OCR line fragments into paragraphs.
type Normalizer struct {
	// CompleteLineLength is the minimum length, in characters, of a line that
	// stands on its own. Shorter lines are buffered and merged.
	CompleteLineLength int
	// Noise lists the code points that cause a line to be discarded.
	// Nil disables the filter.
	Noise *unicode.RangeTable
}

// NewNormalizer returns a Normalizer with the default threshold and noise filter.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		CompleteLineLength: DefaultCompleteLineLength,
		Noise:              ArabicScript,
	}
}

// Normalize runs the default Normalizer over lines.
func Normalize(lines []string) []string {
	return NewNormalizer().Normalize(lines)
}

// Normalize converts the raw lines of one page into paragraphs.
//
// Blank and noise lines are dropped without touching the buffer. Lines shorter
// than CompleteLineLength accumulate in a buffer; a complete line flushes the
// buffer as one paragraph and is then emitted as its own paragraph. The buffer
// is flushed once more after the last line.
func (n *Normalizer) Normalize(lines []string) []string {
	paragraphs := make([]string, 0, len(lines))
	var buf strings.Builder

	flush := func() {
		if p := strings.TrimSpace(buf.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
		buf.Reset()
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || n.isNoise(line) {
			continue
		}
		if utf8.RuneCountInString(line) < n.CompleteLineLength {
			buf.WriteString(line)
			buf.WriteByte(' ')
			continue
		}
		flush()
		paragraphs = append(paragraphs, line)
	}
	flush()

	return paragraphs
}

func (n *Normalizer) isNoise(line string) bool {
	if n.Noise == nil {
		return false
	}
	return strings.IndexFunc(line, func(r rune) bool {
		return unicode.Is(n.Noise, r)
	}) >= 0
}
