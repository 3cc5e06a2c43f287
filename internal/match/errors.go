package match

import (
	"strings"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/shared"
)

// NotFoundError reports a query that matched nothing, naming every attempted
// string plus close-title suggestions for the caller's error message.
type NotFoundError struct {
	Attempts    []string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := "song not found: " + strings.Join(e.Attempts, "; ")
	if len(e.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(e.Suggestions, ", ") + ")"
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return shared.ErrSongNotFound }

// AmbiguousError reports a fuzzy query that tied across several entries.
// The bridge never guesses between them.
type AmbiguousError struct {
	Candidates []catalogue.Entry
}

func (e *AmbiguousError) Error() string {
	labels := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		labels[i] = c.Label()
	}
	return "ambiguous song request, candidates: " + strings.Join(labels, ", ")
}

func (e *AmbiguousError) Unwrap() error { return shared.ErrAmbiguousSong }
