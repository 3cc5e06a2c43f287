package ui

import (
	"fmt"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = songItem{}

// songItem wraps [catalogue.Entry] to implement [list.Item].
type songItem struct {
	entry catalogue.Entry
}

func (i songItem) FilterValue() string { return i.entry.Title }
func (i songItem) Title() string       { return i.entry.Label() }
func (i songItem) Description() string {
	return fmt.Sprintf("group %s • position %d", i.entry.Key, i.entry.Index+1)
}
