package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notifydto "octowatch/internal/modules/notify/dto"
	watchdto "octowatch/internal/modules/watch/dto"
	"octowatch/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Minimal interfaces this view requires from the use-cases.

type watchPort interface {
	Status(ctx context.Context) (watchdto.StatusOutput, error)
}

type notifyPort interface {
	History(ctx context.Context, since time.Time) ([]notifydto.DeliveryInfo, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabUpcoming
	tabPast
	tabNotifications
	tabCount
)

var tabLabels = [tabCount]string{
	"Overview", "Upcoming", "Past", "Notifications",
}

// ─── async messages ──────────────────────────────────────────────────────────

type statusLoadedMsg struct {
	status watchdto.StatusOutput
	err    error
}

type historyLoadedMsg struct {
	deliveries []notifydto.DeliveryInfo
	err        error
}

type refreshTickMsg time.Time

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

const refreshEvery = 30 * time.Second

// Model is the root Bubble Tea model: tab routing over the watcher's
// status and the notification history. It only reads; all mutation stays
// in the poll loop.
type Model struct {
	watch  watchPort
	notify notifyPort

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	spinner   spinner.Model
	loading   bool

	status     watchdto.StatusOutput
	deliveries []notifydto.DeliveryInfo
	lastErr    string

	upcoming      table.Model
	past          table.Model
	notifications table.Model

	width  int
	height int
}

func NewModel(watch watchPort, notify notifyPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		watch:         watch,
		notify:        notify,
		activeTab:     tabOverview,
		keys:          defaultKeys(),
		help:          help.New(),
		spinner:       sp,
		loading:       true,
		upcoming:      newSessionTable(),
		past:          newSessionTable(),
		notifications: newNotificationTable(),
	}
}

func newSessionTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Session", Width: 36},
			{Title: "Start", Width: 18},
			{Title: "End", Width: 18},
			{Title: "Stage", Width: 14},
		}),
		table.WithFocused(true),
	)
	styleTable(&t)
	return t
}

func newNotificationTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Sent", Width: 18},
			{Title: "Tag", Width: 16},
			{Title: "Sink", Width: 10},
			{Title: "Session", Width: 32},
			{Title: "OK", Width: 4},
		}),
		table.WithFocused(true),
	)
	styleTable(&t)
	return t
}

func styleTable(t *table.Model) {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(theme.Sapphire).
		BorderForeground(theme.Surface1).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.Base).
		Background(theme.Lavender).
		Bold(false)
	t.SetStyles(styles)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStatusCmd(), m.loadHistoryCmd(), refreshCmd())
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshTickMsg(t) })
}

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.watch.Status(context.Background())
		return statusLoadedMsg{status: status, err: err}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		deliveries, err := m.notify.History(context.Background(), time.Now().Add(-48*time.Hour))
		return historyLoadedMsg{deliveries: deliveries, err: err}
	}
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		tableHeight := max(m.height-10, 3)
		m.upcoming.SetHeight(tableHeight)
		m.past.SetHeight(tableHeight)
		m.notifications.SetHeight(tableHeight)

	case statusLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			break
		}
		m.lastErr = ""
		m.status = msg.status
		m.upcoming.SetRows(sessionRows(msg.status.Active))
		m.past.SetRows(sessionRows(msg.status.Archived))

	case historyLoadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			break
		}
		m.deliveries = msg.deliveries
		m.notifications.SetRows(notificationRows(msg.deliveries))

	case refreshTickMsg:
		return m, tea.Batch(m.loadStatusCmd(), m.loadHistoryCmd(), refreshCmd())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(m.loadStatusCmd(), m.loadHistoryCmd())
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		default:
			return m.updateActiveTable(msg)
		}
	}
	return m, nil
}

func (m Model) updateActiveTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabUpcoming:
		m.upcoming, cmd = m.upcoming.Update(msg)
	case tabPast:
		m.past, cmd = m.past.Update(msg)
	case tabNotifications:
		m.notifications, cmd = m.notifications.Update(msg)
	}
	return m, cmd
}

func sessionRows(sessions []watchdto.SessionInfo) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			s.Raw,
			s.StartTime.Format("Mon 2 Jan 15:04"),
			s.EndTime.Format("Mon 2 Jan 15:04"),
			s.Stage,
		})
	}
	return rows
}

func notificationRows(deliveries []notifydto.DeliveryInfo) []table.Row {
	rows := make([]table.Row, 0, len(deliveries))
	for i := len(deliveries) - 1; i >= 0; i-- {
		d := deliveries[i]
		ok := "yes"
		if !d.Delivered {
			ok = "no"
		}
		rows = append(rows, table.Row{
			d.SentAt.Format("Mon 2 Jan 15:04"),
			d.Tag,
			d.Sink,
			d.Session,
			ok,
		})
	}
	return rows
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabs := make([]string, 0, tabCount)
	for i, label := range tabLabels {
		if tabID(i) == m.activeTab {
			tabs = append(tabs, theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, theme.Tab.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var content string
	switch m.activeTab {
	case tabOverview:
		content = m.overviewView()
	case tabUpcoming:
		content = m.upcoming.View()
	case tabPast:
		content = m.past.View()
	case tabNotifications:
		content = m.notifications.View()
	}

	footer := m.statusLine()
	if m.showHelp {
		footer = m.help.View(m.keys)
	}

	return theme.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, theme.Pane.Render(content), footer),
	)
}

func (m Model) overviewView() string {
	if m.loading {
		return m.spinner.View() + " loading watcher state"
	}
	b := strings.Builder{}
	b.WriteString(theme.Title.Render("Free Electricity Watcher"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Active sessions:   %d\n", len(m.status.Active)))
	b.WriteString(fmt.Sprintf("Archived sessions: %d\n", len(m.status.Archived)))
	b.WriteString(fmt.Sprintf("Recent deliveries: %d\n", len(m.deliveries)))

	if next := nextSession(m.status.Active); next != nil {
		b.WriteString("\n")
		b.WriteString(theme.Soon.Render("Next: " + next.Raw))
		b.WriteString("\n")
		b.WriteString(theme.Muted.Render(fmt.Sprintf("starts %s, stage %s",
			next.StartTime.Format("Monday 2 Jan 15:04"), next.Stage)))
	} else {
		b.WriteString("\n")
		b.WriteString(theme.Muted.Render("No upcoming sessions."))
	}
	return b.String()
}

func nextSession(active []watchdto.SessionInfo) *watchdto.SessionInfo {
	var next *watchdto.SessionInfo
	for i := range active {
		s := &active[i]
		if next == nil || s.StartTime.Before(next.StartTime) {
			next = s
		}
	}
	return next
}

func (m Model) statusLine() string {
	if m.lastErr != "" {
		return theme.Hot.Render("error: " + m.lastErr)
	}
	if m.loading {
		return m.spinner.View() + theme.Muted.Render(" refreshing")
	}
	return theme.Muted.Render("tab: switch · r: refresh · ?: help · q: quit")
}
