package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/auth"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/registry"
	"github.com/vovakirdan/arcaderank/internal/scoring"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

// guestPlayer names local scores recorded while nobody is logged in.
const guestPlayer = "guest"

// Services are the collaborators the screens use. Every field is optional:
// a nil Store keeps no local scores, a nil Auth hides the account entries,
// a nil API hides the leaderboard and a nil Reporter keeps scores local.
type Services struct {
	Store    *storage.Store
	Auth     *auth.Manager
	API      *api.Client
	Reporter *scoring.Reporter

	// Options is passed to every game factory.
	Options registry.Options
	// Player names local scores when nobody is logged in.
	Player string
	// ScreenshotDir receives ctrl+s dumps; empty disables them.
	ScreenshotDir string
	Logger        *log.Logger
}

func (s *Services) logger() *log.Logger {
	if s == nil || s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Session returns the logged-in session, if any.
func (s *Services) Session() (auth.Session, bool) {
	if s == nil || s.Auth == nil {
		return auth.Session{}, false
	}
	return s.Auth.Current()
}

// LoggedIn reports whether scores can be submitted.
func (s *Services) LoggedIn() bool {
	_, ok := s.Session()
	return ok
}

// PlayerName is the name local scores are recorded under.
func (s *Services) PlayerName() string {
	if sess, ok := s.Session(); ok && sess.Username != "" {
		return sess.Username
	}
	if s != nil && s.Player != "" {
		return s.Player
	}
	return guestPlayer
}

// subScreen is a screen the session shows on top of the menu until the
// player leaves it.
type subScreen interface {
	tea.Model
	Done() bool
}

// standalone runs a sub-screen as a whole program and quits when the
// player leaves it.
type standalone struct {
	inner subScreen
}

func (s standalone) Init() tea.Cmd {
	return s.inner.Init()
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.inner.Update(msg)
	if sub, ok := next.(subScreen); ok {
		s.inner = sub
	}
	if s.inner.Done() {
		return s, tea.Quit
	}
	return s, cmd
}

func (s standalone) View() string {
	if s.inner.Done() {
		return ""
	}
	return s.inner.View()
}

// SessionModel manages the full arcade session flow: the menu and whatever
// screen the player opened from it. It backs both `arcade menu` and every
// SSH session.
type SessionModel struct {
	svc      *Services
	config   core.RuntimeConfig
	menu     MenuModel
	active   subScreen
	notice   string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(svc *Services, cfg core.RuntimeConfig) SessionModel {
	if svc == nil {
		svc = &Services{}
	}
	return SessionModel{
		svc:    svc,
		config: cfg,
		menu:   NewMenuModel(svc, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		// The menu keeps its size even while covered.
		menu, _ := m.menu.Update(msg)
		m.menu = menu.(MenuModel)

	case profileLoadedMsg:
		menu, cmd := m.menu.Update(msg)
		m.menu = menu.(MenuModel)
		return m, cmd
	}

	if m.active != nil {
		return m.updateActive(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when the menu is on screen.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.notice = ""
	return m.open(*selected)
}

// open shows the screen behind a menu entry.
func (m SessionModel) open(item MenuItem) (tea.Model, tea.Cmd) {
	logger := m.svc.logger()
	w, h := m.config.ScreenW, m.config.ScreenH

	switch item.Kind {
	case MenuGame:
		game, err := registry.Create(item.GameID, m.svc.Options)
		if err != nil {
			logger.Error("could not start game", "game", item.GameID, "error", err)
			return m.backToMenu("Could not start " + item.Title + ": " + err.Error())
		}
		logger.Info("game started", "game", item.GameID, "player", m.svc.PlayerName())
		cfg := m.config
		cfg.Seed = 0
		m.active = NewGameModel(game, m.svc, cfg)

	case MenuLeaderboard:
		me := ""
		if s, ok := m.svc.Session(); ok {
			me = s.UserID
		}
		m.active = NewLeaderboardModel(m.svc.API, me, w, h)

	case MenuLocalScores:
		m.active = NewScoreboardModel(m.svc.Store, "", w, h)

	case MenuLogin:
		m.active = NewAuthForm(FormLogin, m.svc.Auth, w, h)

	case MenuRegister:
		m.active = NewAuthForm(FormRegister, m.svc.Auth, w, h)

	case MenuLogout:
		if err := m.svc.Auth.Logout(); err != nil {
			logger.Error("logout failed", "error", err)
			return m.backToMenu("Logout failed: " + err.Error())
		}
		return m.backToMenu("Logged out.")
	}

	return m, m.active.Init()
}

// updateActive forwards a message to the open screen.
func (m SessionModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.active.Update(msg)
	if sub, ok := next.(subScreen); ok {
		m.active = sub
	}

	if !m.active.Done() {
		return m, cmd
	}

	notice := ""
	if form, ok := m.active.(AuthFormModel); ok {
		if s, ok := form.Session(); ok {
			notice = "Welcome back, " + s.Username + "!"
		}
	}
	return m.backToMenu(notice)
}

// backToMenu rebuilds the menu so the account entries and dashboard match
// the current session.
func (m SessionModel) backToMenu(notice string) (tea.Model, tea.Cmd) {
	m.active = nil
	m.notice = notice
	m.menu = NewMenuModel(m.svc, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.active != nil {
		return m.active.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		view += "\n" + centerText(menuDimStyle.Render(m.notice), m.config.ScreenW) + "\n"
	}
	return view
}

// Notice returns the message shown under the menu.
func (m SessionModel) Notice() string {
	return m.notice
}

// Active returns the screen on top of the menu, nil when the menu shows.
func (m SessionModel) Active() tea.Model {
	return m.active
}

// Menu returns the menu model.
func (m SessionModel) Menu() MenuModel {
	return m.menu
}

// RunSession runs the menu-driven arcade until the player quits.
func RunSession(svc *Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(svc, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
