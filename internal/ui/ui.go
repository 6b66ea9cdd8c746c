package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/resound-fm/resound/internal/cache"
	"github.com/resound-fm/resound/internal/formatter"
	"github.com/resound-fm/resound/internal/lists"
	"github.com/resound-fm/resound/internal/models"
)

// Tab binds one registered list tag to the parent entity it browses.
type Tab struct {
	Tag      string
	ParentID int64
}

type pageLoadedMsg struct {
	tag  string
	snap lists.Snapshot
	err  error
}

// Model represents the list browser state.
type Model struct {
	ctx      context.Context
	manager  *lists.Manager
	store    *cache.Store
	supports *lists.SupportStore
	actorID  int64

	tabs    []Tab
	active  int
	rows    list.Model
	loading bool
	err     error

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a browser over the given tabs. At least one tab is
// required; the first is active on start.
func NewModel(ctx context.Context, manager *lists.Manager, store *cache.Store, supports *lists.SupportStore, actorID int64, tabs []Tab) *Model {
	delegate := list.NewDefaultDelegate()
	rows := list.New(nil, delegate, 0, 0)
	rows.SetShowTitle(false)
	rows.SetShowHelp(false)
	rows.SetFilteringEnabled(false)

	return &Model{
		ctx:      ctx,
		manager:  manager,
		store:    store,
		supports: supports,
		actorID:  actorID,
		tabs:     tabs,
		rows:     rows,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init loads the first page of the active tab.
func (m *Model) Init() tea.Cmd {
	return m.loadPage()
}

func (m *Model) activeTab() Tab {
	return m.tabs[m.active]
}

// loadPage requests the next page for the active tab's session.
func (m *Model) loadPage() tea.Cmd {
	tab := m.activeTab()
	m.loading = true
	return func() tea.Msg {
		snap, err := m.manager.RequestPage(m.ctx, tab.Tag, tab.ParentID, 0, m.actorID)
		return pageLoadedMsg{tag: tab.Tag, snap: snap, err: err}
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.nextTab):
			m.active = (m.active + 1) % len(m.tabs)
			m.err = nil
			m.refreshRows()
			if snap, ok := m.manager.Snapshot(m.activeTab().Tag); !ok || len(snap.IDs) == 0 {
				return m, m.loadPage()
			}
			return m, nil

		case key.Matches(msg, m.keys.more):
			if m.loading {
				return m, nil
			}
			return m, m.loadPage()

		case key.Matches(msg, m.keys.reset):
			m.manager.Reset(m.activeTab().Tag)
			m.err = nil
			m.refreshRows()
			return m, m.loadPage()
		}

	case pageLoadedMsg:
		m.loading = false
		// A completion for a tab the user already tabbed away from still
		// updated that tab's session; only the active view is redrawn.
		if msg.tag != m.activeTab().Tag {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
		}
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

// refreshRows rebuilds the visible rows from the active tab's session.
func (m *Model) refreshRows() {
	snap, ok := m.manager.Snapshot(m.activeTab().Tag)
	if !ok {
		m.rows.SetItems(nil)
		return
	}

	page := formatter.BuildPage(snap, m.store, m.supports, m.actorID)
	items := make([]list.Item, len(page.Rows))
	for i, row := range page.Rows {
		items[i] = rowItem{row: row}
	}
	m.rows.SetItems(items)
}

// View renders the active tab.
func (m *Model) View() string {
	tab := m.activeTab()
	header := styles.title.Render(fmt.Sprintf("%s - parent %d", tab.Tag, tab.ParentID))

	status := ""
	snap, ok := m.manager.Snapshot(tab.Tag)
	switch {
	case m.err != nil:
		status = styles.err.Render(fmt.Sprintf("error: %v", m.err))
	case m.loading || (ok && snap.Status == models.StatusLoading):
		status = styles.warn.Render("loading...")
	case ok && snap.HasMore:
		status = styles.help.Render("more available, press enter")
	case ok && snap.Status == models.StatusSuccess:
		status = styles.ok.Render("all loaded")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, m.rows.View(), status, m.help.View(m.keys))
}
