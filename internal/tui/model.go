// Package tui is the interactive consent browser: a paginated table backed
// by a page store, with a submission form.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/logging"
	"github.com/rohmanhakim/consents/internal/pagestore"
)

const (
	tableHeight     = 8
	noticeSaved     = "Consent saved"
	loadingLabel    = "Loading…"
	submittingLabel = "Submitting…"
)

// storeChangedMsg is sent when the page store published a new snapshot.
type storeChangedMsg struct{}

// pageRequestedMsg is sent once a RequestPage call returned.
type pageRequestedMsg struct {
	page int
	err  error
}

// submittedMsg is sent once SubmitAndRefresh returned.
type submittedMsg struct {
	appended bool
}

// Model renders store snapshots. All reads go through the store; the model
// only keeps the last snapshot for rendering.
type Model struct {
	ctx         context.Context
	store       *pagestore.Store
	changed     chan struct{}
	unsubscribe func()

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    BrowseKeyMap
	form    *formModel

	state      pagestore.State
	records    []consent.Record
	notice     string
	submitting bool
}

func New(ctx context.Context, store *pagestore.Store) Model {
	changed := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(pagestore.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := Model{
		ctx:         ctx,
		store:       store,
		changed:     changed,
		unsubscribe: unsubscribe,
		table:       newStyledTable(tableHeight),
		spinner:     s,
		help:        help.New(),
		keys:        DefaultBrowseKeyMap(),
	}
	m.sync()
	return m
}

// Run starts the browser full screen and blocks until the user quits.
func Run(ctx context.Context, store *pagestore.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForChange(),
		m.requestPage(m.state.CurrentPage),
	)
}

func (m Model) waitForChange() tea.Cmd {
	changed := m.changed
	return func() tea.Msg {
		<-changed
		return storeChangedMsg{}
	}
}

func (m Model) requestPage(n int) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return pageRequestedMsg{page: n, err: store.RequestPage(ctx, n)}
	}
}

func (m Model) submit(rec consent.Record) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return submittedMsg{appended: store.SubmitAndRefresh(ctx, rec)}
	}
}

// sync copies the current store snapshot into the model.
func (m *Model) sync() {
	m.state = m.store.State()
	m.records = m.store.CurrentRecords()

	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{r.Name, r.Email, strings.Join(r.ConsentGivenFor, ", ")})
	}
	m.table.SetRows(rows)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storeChangedMsg:
		m.sync()
		return m, m.waitForChange()

	case pageRequestedMsg:
		if msg.err != nil {
			logging.FromContext(m.ctx).Debug().Err(msg.err).Int("page", msg.page).Msg("page request rejected")
		}
		m.sync()
		return m, nil

	case submittedMsg:
		m.submitting = false
		m.sync()
		if msg.appended {
			m.form = nil
			m.notice = noticeSaved
		}
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKey(msg)
		}
		return m.handleBrowseKey(msg)
	}

	if m.form != nil {
		form, cmd := m.form.update(msg)
		m.form = &form
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if m.state.CurrentPage >= m.state.PageCount() {
			return m, nil
		}
		m.notice = ""
		return m, m.requestPage(m.state.CurrentPage + 1)

	case key.Matches(msg, m.keys.Prev):
		if m.state.CurrentPage <= 1 {
			return m, nil
		}
		m.notice = ""
		return m, m.requestPage(m.state.CurrentPage - 1)

	case key.Matches(msg, m.keys.Add):
		form := newForm()
		m.form = &form
		m.notice = ""
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, m.form.keys.Cancel):
		m.form = nil
		return m, nil

	case key.Matches(msg, m.form.keys.Submit):
		// one submission at a time
		if m.submitting {
			return m, nil
		}
		form := *m.form
		rec, ok := form.validate()
		m.form = &form
		if !ok {
			return m, nil
		}
		m.submitting = true
		return m, m.submit(rec)
	}

	form, cmd := m.form.update(msg)
	m.form = &form
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Consents"))
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.form.view())
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	b.WriteString(footerStyle.Render(m.footer()))
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " " + submittingLabel + "\n")
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " " + loadingLabel + "\n")
	}
	if m.state.HasError() {
		b.WriteString(errorStyle.Render(m.state.Err) + "\n")
	}
	if m.notice != "" {
		b.WriteString(focusedStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.help.View(m.form.keys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) footer() string {
	if m.state.Total == 0 {
		return "No consents yet"
	}
	return fmt.Sprintf("Page %d of %d · %d consents", m.state.CurrentPage, m.state.PageCount(), m.state.Total)
}
