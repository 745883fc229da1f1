// Package normalize converts raw extracted document text into the canonical
// form used for keyword matching: folded to unaccented lower-case Latin,
// line-wrap hyphens rejoined, whitespace collapsed and everything outside
// [a-z0-9 ] removed.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text is document text in canonical matching form. Values are only
// produced by Normalize and are safe to share between goroutines.
type Text string

// String returns the underlying string
func (t Text) String() string {
	return string(t)
}

// Contains reports whether keyword occurs as a contiguous substring
func (t Text) Contains(keyword string) bool {
	return strings.Contains(string(t), keyword)
}

// stripMarks decomposes characters and drops the combining marks, leaving the base letters
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// foldTable covers letters that have no canonical decomposition to Latin.
// It is applied before NFKD so that the micro sign is not turned into Greek mu.
var foldTable = map[rune]string{
	'ß': "ss", 'ẞ': "SS",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'þ': "th", 'Þ': "TH",
	'ı': "i",

	// micro sign, as in µM
	'\u00b5': "u",

	'α': "a", 'β': "b", 'γ': "g", 'δ': "d", 'ε': "e", 'ζ': "z",
	'η': "e", 'θ': "th", 'ι': "i", 'κ': "k", 'λ': "l", '\u03bc': "m",
	'ν': "n", 'ξ': "x", 'ο': "o", 'π': "p", 'ρ': "r", 'σ': "s",
	'ς': "s", 'τ': "t", 'υ': "u", 'φ': "ph", 'χ': "ch", 'ψ': "ps",
	'ω': "o",
	'Α': "A", 'Β': "B", 'Γ': "G", 'Δ': "D", 'Κ': "K", 'Λ': "L",
	'Ω': "O",

	// soft hyphen and dashes
	'\u00ad': "-", '\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2013': "-", '\u2014': "-", '\u2015': "-", '\u2212': "-",
}

// Normalize returns the canonical matching form of raw. It never fails;
// empty input yields empty Text. Applying it twice gives the same result.
func Normalize(raw string) Text {
	s := transliterate(raw)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "- ", "")
	s = collapseWhitespace(s)
	s = strings.Map(keepMatchable, s)
	// Removing characters can leave two spaces side by side ("n = 3")
	s = collapseWhitespace(s)
	return Text(s)
}

// IsNormalized reports whether s is already in canonical form
func IsNormalized(s string) bool {
	return string(Normalize(s)) == s
}

// transliterate folds s to its closest unaccented Latin equivalent.
// Characters with no reasonable transliteration are left for the
// character filter to drop.
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := foldTable[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}

	folded, _, err := transform.String(stripMarks, b.String())
	if err != nil {
		return b.String()
	}
	return folded
}

// collapseWhitespace replaces every maximal run of whitespace with one space
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func keepMatchable(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
		return r
	default:
		return -1
	}
}
