// package match resolves a caller-supplied query to exactly one catalogue
// entry, or fails explicitly.
//
// Resolution order is deliberate: explicit numbers are authoritative (titles
// collide far more often than numeric IDs), exact title equality beats fuzzy
// scoring, and ties are surfaced as ambiguity instead of silently picking a
// song to navigate to.
package match

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/textnorm"
	"github.com/agnivade/levenshtein"
)

// Query carries up to three ways of naming a song. Any combination may be
// set; empty fields are skipped.
type Query struct {
	Number string
	Title  string
	Text   string
}

// payload key aliases, in priority order. The companion web page has gone
// through several payload shapes; all of them are accepted.
var (
	numberKeys = []string{"titleNumber", "title_number", "songNumber", "number", "id"}
	titleKeys  = []string{"title", "songTitle", "name"}
	textKeys   = []string{"query", "text", "label", "rawText"}
)

// QueryFromPayload extracts a Query from a decoded JSON object.
func QueryFromPayload(payload map[string]any) Query {
	return Query{
		Number: firstString(payload, numberKeys),
		Title:  firstString(payload, titleKeys),
		Text:   firstString(payload, textKeys),
	}
}

// IsZero reports whether the query names nothing at all.
func (q Query) IsZero() bool {
	return q.Number == "" && q.Title == "" && q.Text == ""
}

// Resolve maps a query to exactly one entry of the snapshot.
//
// Steps, first success wins:
//  1. explicit number via the number index
//  2. exact normalized-title match for the title and free-text fields, each
//     retried after splitting off a leading numeric token
//  3. fuzzy ranking (prefix before substring) over all collected attempts;
//     a unique best entry wins, a tie is an *AmbiguousError
//
// Failure is a *NotFoundError naming every attempted string.
func Resolve(snap *catalogue.Snapshot, q Query) (catalogue.Entry, error) {
	var attempts []string

	if q.Number != "" {
		if entry, ok := byNumber(snap, q.Number); ok {
			return entry, nil
		}
		attempts = append(attempts, q.Number)
	}

	for _, candidate := range []string{q.Title, q.Text} {
		if candidate == "" {
			continue
		}
		if entry, ok := byTitle(snap, candidate); ok {
			return entry, nil
		}
		number, rest := textnorm.SplitTitleNumber(candidate)
		if number != "" {
			if entry, ok := byNumber(snap, number); ok {
				return entry, nil
			}
		}
		if rest != "" && rest != candidate {
			if entry, ok := byTitle(snap, rest); ok {
				return entry, nil
			}
		}
		attempts = append(attempts, candidate)
	}

	if entry, ok, err := fuzzy(snap, attempts); ok {
		return entry, err
	}

	return catalogue.Entry{}, &NotFoundError{
		Attempts:    attemptsOrPlaceholder(attempts),
		Suggestions: suggest(snap, attempts),
	}
}

func byNumber(snap *catalogue.Snapshot, raw string) (catalogue.Entry, bool) {
	normalized, ok := textnorm.NormalizeNumber(raw)
	if !ok {
		return catalogue.Entry{}, false
	}
	return snap.ByNumber(normalized)
}

func byTitle(snap *catalogue.Snapshot, raw string) (catalogue.Entry, bool) {
	normalized := textnorm.NormalizeTitle(raw)
	if normalized == "" {
		return catalogue.Entry{}, false
	}
	return snap.ByTitle(normalized)
}

// fuzzy scores every entry against every attempt: rank 0 when the entry's
// normalized title starts with the attempt, rank 1 when the attempt occurs
// anywhere inside it. The globally best rank wins; a tie at that rank is an
// ambiguity error rather than a guess.
func fuzzy(snap *catalogue.Snapshot, attempts []string) (catalogue.Entry, bool, error) {
	normalized := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if n := textnorm.NormalizeTitle(a); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return catalogue.Entry{}, false, nil
	}

	const noRank = 2
	bestRank := noRank
	var best []catalogue.Entry

	for _, entry := range snap.Entries() {
		rank := noRank
		for _, attempt := range normalized {
			switch {
			case strings.HasPrefix(entry.NormalizedTitle, attempt):
				rank = 0
			case rank > 1 && strings.Contains(entry.NormalizedTitle, attempt):
				rank = 1
			}
			if rank == 0 {
				break
			}
		}
		if rank == noRank {
			continue
		}
		if rank < bestRank {
			bestRank = rank
			best = best[:0]
		}
		if rank == bestRank {
			best = append(best, entry)
		}
	}

	switch len(best) {
	case 0:
		return catalogue.Entry{}, false, nil
	case 1:
		return best[0], true, nil
	default:
		return catalogue.Entry{}, true, &AmbiguousError{Candidates: best}
	}
}

// suggest returns up to three catalogue titles close to the attempts by
// edit distance, for "did you mean" messages. Purely cosmetic; never
// affects resolution.
func suggest(snap *catalogue.Snapshot, attempts []string) []string {
	type scored struct {
		label string
		dist  int
	}

	var candidates []scored
	for _, entry := range snap.Entries() {
		best := -1
		for _, a := range attempts {
			target := entry.NormalizedTitle
			attempt := textnorm.NormalizeTitle(a)
			// Accent-insensitive comparison when both sides survive folding.
			if fa, ft := textnorm.FoldASCII(a), textnorm.FoldASCII(entry.Title); fa != "" && ft != "" {
				attempt, target = fa, ft
			}
			if attempt == "" {
				continue
			}
			// Cap the distance against the compared title so wildly
			// different titles never show up.
			d := levenshtein.ComputeDistance(attempt, target)
			if d > utf8.RuneCountInString(target)/2 {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			candidates = append(candidates, scored{entry.Title, best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	var out []string
	for i := 0; i < len(candidates) && i < 3; i++ {
		out = append(out, candidates[i].label)
	}
	return out
}

func attemptsOrPlaceholder(attempts []string) []string {
	if len(attempts) == 0 {
		return []string{"<empty query>"}
	}
	return attempts
}

func firstString(payload map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// coerceString renders scalar payload values as strings, so a page sending
// a bare JSON number for a song id still resolves.
func coerceString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	}
	return ""
}
