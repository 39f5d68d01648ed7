package tui

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

	"github.com/vovakirdan/arcaderank/internal/api"
)

const leaderboardTimeout = 10 * time.Second

// LeaderboardSource fetches the global ranking.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context) ([]api.RankEntry, error)
}

type leaderboardLoadedMsg struct {
	entries []api.RankEntry
	err     error
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Refresh}, {k.Back, k.Quit}}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// LeaderboardModel shows the global ranking fetched from the backend.
type LeaderboardModel struct {
	source    LeaderboardSource
	me        string // User ID of the logged-in player, empty when logged out
	entries   []api.RankEntry
	err       error
	loading   bool
	table     table.Model
	spinner   spinner.Model
	help      help.Model
	keys      LeaderboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewLeaderboardModel creates a leaderboard view. me marks the
// logged-in player's row.
func NewLeaderboardModel(source LeaderboardSource, me string, width, height int) LeaderboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))

	m := LeaderboardModel{
		source:  source,
		me:      me,
		loading: true,
		spinner: sp,
		help:    help.New(),
		keys:    DefaultLeaderboardKeyMap(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	return m
}

// Init starts the first fetch.
func (m LeaderboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m LeaderboardModel) fetch() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
		defer cancel()
		entries, err := source.Leaderboard(ctx)
		return leaderboardLoadedMsg{entries: entries, err: err}
	}
}

func (m *LeaderboardModel) createTable() table.Model {
	playerWidth := 20
	if m.width > 70 {
		playerWidth = min(m.width-46, 32)
	}
	columns := []table.Column{
		{Title: "Rank", Width: 8},
		{Title: "Player", Width: playerWidth},
		{Title: "Level", Width: 7},
		{Title: "XP", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *LeaderboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			RankMarker(i + 1),
			playerLabel(e, m.me),
			fmt.Sprintf("%d", e.Level),
			fmt.Sprintf("%d", e.XP),
		}
	}
	m.table.SetRows(rows)

	// Start on the player's own row when it is on the board.
	m.table.GotoTop()
	for i, e := range m.entries {
		if m.me != "" && e.ID == m.me {
			m.table.SetCursor(i)
			break
		}
	}
}

// RankMarker labels a 1-based rank; the podium gets a crown and medals.
func RankMarker(rank int) string {
	switch rank {
	case 1:
		return "👑 1"
	case 2:
		return "🥈 2"
	case 3:
		return "🥉 3"
	default:
		return fmt.Sprintf("   %d", rank)
	}
}

func playerLabel(e api.RankEntry, me string) string {
	if me != "" && e.ID == me {
		return e.Username + " (you)"
	}
	return e.Username
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case leaderboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
			m.updateTableRows()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("GLOBAL LEADERBOARD"), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var body string
	switch {
	case m.loading && len(m.entries) == 0:
		body = m.spinner.View() + " Loading leaderboard..."
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).
			Render("Could not load the leaderboard:\n" + m.err.Error() + "\n\nPress r to retry.")
	case len(m.entries) == 0:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).
			Render("Nobody is ranked yet.")
	default:
		body = m.table.View()
	}
	for _, line := range strings.Split(boxStyle.Render(body), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))

	return b.String()
}

// Entries returns the ranking currently shown.
func (m LeaderboardModel) Entries() []api.RankEntry {
	return m.entries
}

// Err returns the last load error.
func (m LeaderboardModel) Err() error {
	return m.err
}

// Loading reports whether a fetch is in flight.
func (m LeaderboardModel) Loading() bool {
	return m.loading
}

// Done implements the sub-screen contract used by the session.
func (m LeaderboardModel) Done() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

// FormatLeaderboard renders the ranking as plain text for non-interactive
// output.
func FormatLeaderboard(entries []api.RankEntry, me string) string {
	if len(entries) == 0 {
		return "Nobody is ranked yet.\n"
	}

	nameWidth := len("Player")
	for _, e := range entries {
		nameWidth = max(nameWidth, len(playerLabel(e, me)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-6s  %-*s  %5s  %8s\n", "Rank", nameWidth, "Player", "Level", "XP")
	fmt.Fprintf(&b, "  %-6s  %-*s  %5s  %8s\n", "----", nameWidth, "------", "-----", "--")
	for i, e := range entries {
		fmt.Fprintf(&b, "  %-6d  %-*s  %5d  %8d\n", i+1, nameWidth, playerLabel(e, me), e.Level, e.XP)
	}
	return b.String()
}

// RunLeaderboard runs the leaderboard screen on its own.
func RunLeaderboard(source LeaderboardSource, me string, width, height int) error {
	p := tea.NewProgram(
		standalone{inner: NewLeaderboardModel(source, me, width, height)},
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
