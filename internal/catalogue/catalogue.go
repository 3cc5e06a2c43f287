// package catalogue loads the song order list and maintains the lookup
// indexes the matcher and planner work against.
//
// A loaded catalogue is an immutable [Snapshot]; reloading builds a complete
// new snapshot and swaps it in atomically, so concurrent readers always see
// either the old or the new state, never a mix.
package catalogue

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/textnorm"
	"github.com/charmbracelet/log"
)

// titleAliases and numberAliases are the accepted column names, in priority
// order. Matching is case-insensitive; the first alias present wins.
var (
	titleAliases  = []string{"title", "곡명", "name", "song"}
	numberAliases = []string{"title_number", "titlenumber", "곡번호", "번호", "no", "id", "index"}
)

// Entry is one immutable song row in load order.
type Entry struct {
	Index            int
	Title            string
	NormalizedTitle  string
	Number           string
	NormalizedNumber string
	Key              textnorm.GroupKey
}

// Label returns the user-facing "number title" form used in messages.
func (e Entry) Label() string {
	if e.Number != "" {
		return e.Number + " " + e.Title
	}
	return e.Title
}

// Snapshot is a fully built, read-only view of the catalogue.
type Snapshot struct {
	entries  []Entry
	byTitle  map[string]int
	byNumber map[string]int
	anchors  map[textnorm.GroupKey]int
}

// Entries returns all entries in load order.
func (s *Snapshot) Entries() []Entry { return s.entries }

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// ByTitle looks up an entry by its normalized title.
func (s *Snapshot) ByTitle(normalized string) (Entry, bool) {
	i, ok := s.byTitle[normalized]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// ByNumber looks up an entry by its normalized number.
func (s *Snapshot) ByNumber(normalized string) (Entry, bool) {
	i, ok := s.byNumber[normalized]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Anchor returns the index of the first entry carrying the given group key.
func (s *Snapshot) Anchor(key textnorm.GroupKey) (int, bool) {
	i, ok := s.anchors[key]
	return i, ok
}

// AnchorKeys returns every group key present in the catalogue, sorted.
func (s *Snapshot) AnchorKeys() []textnorm.GroupKey {
	keys := make([]textnorm.GroupKey, 0, len(s.anchors))
	for k := range s.anchors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Catalogue owns the current snapshot and swaps it wholesale on load.
type Catalogue struct {
	current atomic.Pointer[Snapshot]
	logger  *log.Logger
}

// New creates an empty catalogue. [Catalogue.Load] must succeed before the
// catalogue can serve lookups.
func New(logger *log.Logger) *Catalogue {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalogue{logger: logger}
}

// Load reads the source and atomically replaces the current snapshot. On any
// error the previous snapshot stays active untouched.
func (c *Catalogue) Load(src RowSource) error {
	table, err := src.Read()
	if err != nil {
		return err
	}

	snap, err := BuildSnapshot(table, c.logger)
	if err != nil {
		return err
	}

	c.current.Store(snap)
	c.logger.Info("catalogue loaded", "songs", snap.Len(), "groups", len(snap.anchors))
	return nil
}

// Snapshot returns the current snapshot, or false when nothing has been
// loaded yet.
func (c *Catalogue) Snapshot() (*Snapshot, bool) {
	snap := c.current.Load()
	return snap, snap != nil
}

// BuildSnapshot turns raw rows into a fully indexed snapshot.
//
// Rows without a usable title are skipped. Duplicate normalized titles and
// duplicate numbers keep their first occurrence; later ones are logged and
// dropped from the index (but remain in the ordered list, since they still
// occupy a list position in-game).
func BuildSnapshot(table Table, logger *log.Logger) (*Snapshot, error) {
	titleCol, ok := resolveColumn(table.Columns, titleAliases)
	if !ok {
		return nil, fmt.Errorf("%w: no title column among %v", shared.ErrMalformedCatalogue, table.Columns)
	}
	numberCol, _ := resolveColumn(table.Columns, numberAliases)

	snap := &Snapshot{
		byTitle:  make(map[string]int),
		byNumber: make(map[string]int),
		anchors:  make(map[textnorm.GroupKey]int),
	}

	for _, row := range table.Rows {
		title := strings.TrimSpace(rowValue(row, titleCol))
		if title == "" {
			continue
		}

		key, err := textnorm.Classify(title)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedCatalogue, err)
		}

		entry := Entry{
			Index:           len(snap.entries),
			Title:           title,
			NormalizedTitle: textnorm.NormalizeTitle(title),
			Key:             key,
		}
		if numberCol != "" {
			entry.Number = strings.TrimSpace(rowValue(row, numberCol))
			if n, ok := textnorm.NormalizeNumber(entry.Number); ok {
				entry.NormalizedNumber = n
			}
		}

		if prev, dup := snap.byTitle[entry.NormalizedTitle]; dup {
			logger.Warn("duplicate title, keeping first occurrence",
				"title", title, "first", snap.entries[prev].Label())
		} else {
			snap.byTitle[entry.NormalizedTitle] = entry.Index
		}
		if entry.NormalizedNumber != "" {
			if _, dup := snap.byNumber[entry.NormalizedNumber]; !dup {
				snap.byNumber[entry.NormalizedNumber] = entry.Index
			}
		}
		if _, claimed := snap.anchors[key]; !claimed {
			snap.anchors[key] = entry.Index
		}

		snap.entries = append(snap.entries, entry)
	}

	if len(snap.entries) == 0 {
		return nil, shared.ErrEmptyCatalogue
	}

	return snap, nil
}

// resolveColumn finds the first alias present among the declared columns,
// case-insensitively, and returns the column's declared name.
func resolveColumn(columns, aliases []string) (string, bool) {
	lower := make(map[string]string, len(columns))
	for _, col := range columns {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, taken := lower[name]; !taken {
			lower[name] = col
		}
	}
	for _, alias := range aliases {
		if col, ok := lower[strings.ToLower(alias)]; ok {
			return col, true
		}
	}
	return "", false
}

// rowValue reads a cell tolerating case differences in the row's keys.
func rowValue(row Row, column string) string {
	if v, ok := row[column]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, column) {
			return v
		}
	}
	return ""
}
