package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/registry"
)

// profileTimeout bounds the dashboard's profile request.
const profileTimeout = 5 * time.Second

// MenuKind says what a menu entry opens.
type MenuKind int

const (
	MenuGame MenuKind = iota
	MenuLeaderboard
	MenuLocalScores
	MenuLogin
	MenuRegister
	MenuLogout
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind   MenuKind
	GameID string // Set for MenuGame
	Title  string
}

// profileLoadedMsg carries the dashboard profile fetched in the background.
type profileLoadedMsg struct {
	profile api.Profile
	err     error
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuUserStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// MenuModel is the Bubble Tea model for the main menu: the game list,
// the account entries and the dashboard header.
type MenuModel struct {
	svc       *Services
	items     []MenuItem
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem

	profile        *api.Profile
	profileErr     error
	profileLoading bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(svc *Services, cfg core.RuntimeConfig) MenuModel {
	if svc == nil {
		svc = &Services{}
	}

	games := registry.List()
	items := make([]MenuItem, 0, len(games)+4)
	for _, g := range games {
		items = append(items, MenuItem{Kind: MenuGame, GameID: g.ID, Title: g.Title})
	}

	if svc.API != nil {
		items = append(items, MenuItem{Kind: MenuLeaderboard, Title: "Leaderboard"})
	}
	if svc.Store != nil {
		items = append(items, MenuItem{Kind: MenuLocalScores, Title: "Local scores"})
	}
	if svc.Auth != nil {
		if svc.LoggedIn() {
			items = append(items, MenuItem{Kind: MenuLogout, Title: "Logout"})
		} else {
			items = append(items,
				MenuItem{Kind: MenuLogin, Title: "Login"},
				MenuItem{Kind: MenuRegister, Title: "Register"},
			)
		}
	}

	return MenuModel{
		svc:            svc,
		items:          items,
		width:          cfg.ScreenW,
		height:         cfg.ScreenH,
		config:         cfg,
		keyMapper:      NewKeyMapper(),
		profileLoading: svc.LoggedIn(),
	}
}

// Init starts loading the dashboard profile when someone is logged in.
func (m MenuModel) Init() tea.Cmd {
	if !m.svc.LoggedIn() {
		return nil
	}
	return loadProfile(m.svc)
}

func loadProfile(svc *Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), profileTimeout)
		defer cancel()
		p, err := svc.Auth.Profile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case profileLoadedMsg:
		m.profileLoading = false
		if msg.err != nil {
			m.profileErr = msg.err
			m.svc.logger().Warn("could not load profile", "error", msg.err)
			return m, nil
		}
		m.profile = &msg.profile
		m.profileErr = nil
		return m, nil

	case scoreReportedMsg:
		// A submission finished after the player left the game.
		if msg.Err == nil && m.svc.LoggedIn() {
			return m, loadProfile(m.svc)
		}
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionRefresh:
		if m.svc.LoggedIn() {
			m.profileLoading = true
			return m, loadProfile(m.svc)
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("A R C A D E   R A N K"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.dashboard(), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i > 0 && item.Kind != MenuGame && m.items[i-1].Kind == MenuGame {
			b.WriteString("\n")
		}

		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  R: Refresh  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// dashboard renders the account line under the title.
func (m MenuModel) dashboard() string {
	s, ok := m.svc.Session()
	if !ok {
		if m.svc.Auth == nil {
			return menuDimStyle.Render("Playing as " + m.svc.PlayerName())
		}
		return menuDimStyle.Render("Not logged in. Scores stay on this machine.")
	}

	user := menuUserStyle.Render(s.Username)
	switch {
	case m.profile != nil:
		return fmt.Sprintf("%s  ·  Level %d  ·  %d XP", user, m.profile.Level, m.profile.XP)
	case m.profileLoading:
		return user + menuDimStyle.Render("  ·  loading profile...")
	default:
		return user + menuDimStyle.Render("  ·  profile unavailable")
	}
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Items returns the entries in display order.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
