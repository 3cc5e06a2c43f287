// package textnorm canonicalizes song titles and identifiers for lookup.
//
// Two normal forms exist side by side: [NormalizeTitle] produces the
// canonical identity form used by the catalogue indexes, while [FoldASCII]
// is a lossy ASCII-only fold used for loose comparisons. The two must never
// be mixed within one index.
package textnorm

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// GroupKey identifies the navigation bucket derived from a title's leading
// character. Letter buckets are single uppercase ASCII letters; the
// remaining buckets carry fixed names.
type GroupKey string

const (
	KeyDigit  GroupKey = "digit"
	KeyHangul GroupKey = "hangul"
	KeyHanja  GroupKey = "hanja"
	KeySymbol GroupKey = "symbol"
)

// IsLetter reports whether the key is a single A–Z bucket.
func (k GroupKey) IsLetter() bool {
	return len(k) == 1 && k[0] >= 'A' && k[0] <= 'Z'
}

// JumpChar returns the lowercase character pressed in-game to jump to this
// bucket, and false for buckets without a direct shortcut.
func (k GroupKey) JumpChar() (string, bool) {
	if k.IsLetter() {
		return strings.ToLower(string(k)), true
	}
	return "", false
}

func (k GroupKey) String() string { return string(k) }

// ErrNoLeadingKey is returned by [Classify] when a title contains no
// significant character. Callers must treat this as a data error.
var ErrNoLeadingKey = fmt.Errorf("no significant leading character")

// separators are skipped alongside whitespace when scanning for a title's
// leading character.
const separators = `-'"()[]{}.,/\|!?:~*+`

var (
	foldCaser  = cases.Fold()
	asciiStrip = regexp.MustCompile(`[^0-9a-z]+`)
	digitRuns  = regexp.MustCompile(`[0-9]+`)
	numPrefix  = regexp.MustCompile(`^([0-9]+)[\s\-:./]*(.*)$`)
)

// NormalizeTitle returns the canonical identity form of a title: NFKC,
// case-folded, whitespace collapsed and trimmed.
func NormalizeTitle(raw string) string {
	text := norm.NFKC.String(raw)
	text = foldCaser.String(text)
	return strings.Join(strings.Fields(text), " ")
}

// FoldASCII reduces a title to lowercase ASCII alphanumerics: NFKD, strip
// combining marks, "&" becomes "and", everything else outside [0-9a-z] is
// dropped. Lossy; for loose matching only.
func FoldASCII(raw string) string {
	stripped, _, err := transform.String(transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
	), raw)
	if err != nil {
		stripped = raw
	}
	stripped = strings.ToLower(stripped)
	stripped = strings.ReplaceAll(stripped, "&", "and")
	return asciiStrip.ReplaceAllString(stripped, "")
}

// NormalizeNumber extracts a canonical numeric identifier: all digit
// characters concatenated literally, leading zeros stripped. Returns false
// when the input contains no digits.
//
// Extraction is literal, not numeric: "7.0" yields "70".
func NormalizeNumber(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", false
	}
	stripped := strings.TrimLeft(digits.String(), "0")
	if stripped == "" {
		return "0", true
	}
	return stripped, true
}

// SplitTitleNumber splits free text into a numeric token and a remainder
// title. A leading digit run wins; otherwise a single digit run anywhere in
// the text is taken as the number and the full text kept as title. Either
// part may be empty.
func SplitTitleNumber(text string) (number, title string) {
	raw := strings.TrimSpace(norm.NFKC.String(text))
	if raw == "" {
		return "", ""
	}

	if m := numPrefix.FindStringSubmatch(raw); m != nil {
		number, _ = NormalizeNumber(m[1])
		return number, strings.TrimSpace(m[2])
	}

	if runs := digitRuns.FindAllString(raw, -1); len(runs) == 1 {
		number, _ = NormalizeNumber(runs[0])
	}
	return number, raw
}

// Classify buckets a title by its first significant character: whitespace
// and common separator punctuation are skipped, accented Latin letters fold
// to their base letter, and Hangul and Han are kept as distinct buckets
// because the song list groups them separately.
func Classify(title string) (GroupKey, error) {
	for _, r := range title {
		if unicode.IsSpace(r) || strings.ContainsRune(separators, r) {
			continue
		}
		return classifyRune(r), nil
	}
	return "", fmt.Errorf("%w in %q", ErrNoLeadingKey, title)
}

func classifyRune(r rune) GroupKey {
	base := baseRune(r)
	switch {
	case base >= 'a' && base <= 'z':
		return GroupKey(unicode.ToUpper(base))
	case base >= 'A' && base <= 'Z':
		return GroupKey(base)
	case unicode.IsDigit(base):
		return KeyDigit
	case unicode.Is(unicode.Hangul, r):
		return KeyHangul
	case unicode.Is(unicode.Han, r):
		return KeyHanja
	default:
		return KeySymbol
	}
}

// baseRune strips diacritics from a single rune, so "É" classifies as "E".
func baseRune(r rune) rune {
	decomposed, _, err := transform.String(transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
	), string(r))
	if err != nil || decomposed == "" {
		return r
	}
	return []rune(decomposed)[0]
}
