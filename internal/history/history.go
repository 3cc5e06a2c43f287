// package history persists one row per executed key sequence, so the
// companion page can show what the bridge recently navigated to.
//
// The catalogue itself is never persisted; this table records requests.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/Ckr1111/darlybot/internal/shared"
)

// Selection is one recorded navigation.
type Selection struct {
	ID          string    `json:"id"`
	TitleNumber string    `json:"titleNumber,omitempty"`
	Title       string    `json:"title"`
	JumpKey     string    `json:"jumpKey"`
	Offset      int       `json:"offset"`
	ActionCount int       `json:"actionCount"`
	DryRun      bool      `json:"dryRun"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store implements selection persistence over SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an open database connection. The caller is
// responsible for running migrations first.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts a selection row for an executed plan.
func (s *Store) Record(plan nav.Plan, dryRun bool) (*Selection, error) {
	sel := &Selection{
		ID:          shared.GenerateID(),
		TitleNumber: plan.Entry.Number,
		Title:       plan.Entry.Title,
		JumpKey:     string(plan.Anchor),
		Offset:      plan.Offset,
		ActionCount: len(plan.Actions),
		DryRun:      dryRun,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO selections (id, title_number, title, jump_key, step_offset, action_count, dry_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		sel.ID, sel.TitleNumber, sel.Title, sel.JumpKey, sel.Offset, sel.ActionCount, sel.DryRun, sel.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert selection: %w", err)
	}

	return sel, nil
}

// Recent returns the newest selections, most recent first.
func (s *Store) Recent(limit int) ([]Selection, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, title_number, title, jump_key, step_offset, action_count, dry_run, created_at
		FROM selections
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	var selections []Selection
	for rows.Next() {
		var sel Selection
		if err := rows.Scan(&sel.ID, &sel.TitleNumber, &sel.Title, &sel.JumpKey, &sel.Offset, &sel.ActionCount, &sel.DryRun, &sel.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, sel)
	}

	return selections, rows.Err()
}

// Count returns the total number of recorded selections.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM selections").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count selections: %w", err)
	}
	return count, nil
}
