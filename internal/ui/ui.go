package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ckr1111/darlybot/internal/catalogue"
	"github.com/Ckr1111/darlybot/internal/input"
	"github.com/Ckr1111/darlybot/internal/nav"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the browser.
type ViewState int

const (
	SongListView ViewState = iota
	PlanView
	SendingView
	ResultView
)

// Model represents the browser application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	snapshot *catalogue.Snapshot
	planner  *nav.Planner
	sender   input.Sender
	dryRun   bool

	width    int
	height   int
	songList list.Model
	selected catalogue.Entry
	plan     nav.Plan
	sendErr  error
	err      error
	help     help.Model
	keys     keyMap
}

type sendCompleteMsg struct {
	err error
}

// NewModel creates a browser over a catalogue snapshot. sender may be nil,
// in which case plans can only be previewed.
func NewModel(ctx context.Context, snap *catalogue.Snapshot, planner *nav.Planner, sender input.Sender, dryRun bool) *Model {
	entries := snap.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = songItem{entry: e}
	}

	songList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	songList.Title = fmt.Sprintf("Songs (%d)", len(entries))

	return &Model{
		ctx:      ctx,
		view:     SongListView,
		snapshot: snap,
		planner:  planner,
		sender:   sender,
		dryRun:   dryRun,
		songList: songList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case PlanView:
			return m.handlePlanKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case sendCompleteMsg:
		m.sendErr = msg.err
		m.view = ResultView
		return m, nil
	}

	if m.view == SongListView {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SongListView:
		return m.renderSongList()
	case PlanView:
		return m.renderPlan()
	case SendingView:
		return styles.title.Render("Sending keys...")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter is active, keys belong to the filter input.
	if m.songList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.songList.SelectedItem()
		if item, ok := selected.(songItem); ok {
			plan, err := m.planner.Plan(m.snapshot, item.entry)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.selected = item.entry
			m.plan = plan
			m.view = PlanView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "n":
		m.view = SongListView
		return m, nil
	case "y":
		if m.sender == nil || m.dryRun {
			return m, nil
		}
		m.view = SendingView
		return m, m.sendPlan()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.sendErr = nil
		m.view = SongListView
		return m, nil
	}
	return m, nil
}

func (m *Model) sendPlan() tea.Cmd {
	return func() tea.Msg {
		if err := m.sender.Focus(m.ctx); err != nil {
			return sendCompleteMsg{err: err}
		}
		return sendCompleteMsg{err: m.sender.Send(m.ctx, m.plan.Actions)}
	}
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderPlan() string {
	title := styles.title.Render(m.selected.Label())
	sequence := styles.keys.Render(strings.Join(m.plan.Keys(), " "))

	info := fmt.Sprintf(
		"Group: %s\nJump:  %s\nSteps: %+d\n\nKey sequence: %s\n",
		m.selected.Key, m.plan.Anchor, m.plan.Offset, sequence,
	)

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	if m.sender != nil && !m.dryRun {
		helpKeys = []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	note := ""
	if m.dryRun {
		note = styles.warn.Render("dry-run: keys will not be sent") + "\n\n"
	}

	return fmt.Sprintf("%s\n%s\n%s%s", title, info, note, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.sendErr != nil {
		msg := styles.err.Render(fmt.Sprintf("Send failed: %v", m.sendErr))
		return fmt.Sprintf("%s\n\n%s", msg, helpView)
	}

	msg := styles.ok.Render(fmt.Sprintf("✓ Sent %d keys for %s", len(m.plan.Actions), m.selected.Label()))
	return fmt.Sprintf("%s\n\n%s", msg, helpView)
}
