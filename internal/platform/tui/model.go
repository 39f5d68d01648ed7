package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/registry"
	"github.com/vovakirdan/arcaderank/internal/scoring"
)

// scoreReportedMsg carries the outcome of a background score submission.
type scoreReportedMsg scoring.Result

// waitForReport blocks on the reporter channel inside a command so the
// frame loop never waits for the network.
func waitForReport(ch <-chan scoring.Result) tea.Cmd {
	return func() tea.Msg {
		return scoreReportedMsg(<-ch)
	}
}

// GameModel runs one game: it collects key presses into input frames,
// steps the game once per frame, and records the score when a round ends.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	svc        *Services
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the current game over has been recorded
	notice     string
}

// NewGameModel creates a runner for the given game.
func NewGameModel(game registry.Game, svc *Services, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if svc == nil {
		svc = &Services{}
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		svc:        svc,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init resets the game and starts the frame loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.FrameDuration())
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Games lay themselves out on every Render, so a resize never
		// interrupts a round.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case scoreReportedMsg:
		m.notice = reportNotice(scoring.Result(msg))
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack {
		if m.gameState.GameOver || m.gameState.Paused || !m.gameState.Started {
			m.backToMenu = true
			return m, nil
		}
		// Leaving a live round takes two presses: the first one pauses.
		action = core.ActionPause
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick steps the game with the input collected since the last frame.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	// A restart happened inside the game.
	if wasOver && !m.gameState.GameOver {
		m.scoreSaved = false
		m.notice = ""
	}

	cmds := []tea.Cmd{tickCmd(m.config.FrameDuration())}
	if m.gameState.GameOver && !m.scoreSaved {
		if cmd := m.recordScore(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// recordScore stores the finished round locally and hands it to the
// reporter when a player is logged in. It runs once per game over.
func (m *GameModel) recordScore() tea.Cmd {
	m.scoreSaved = true
	score := m.gameState.Score
	if score <= 0 {
		return nil
	}

	logger := m.svc.logger()
	var localID int64
	if m.svc.Store != nil {
		id, err := m.svc.Store.SaveScore(m.game.ID(), m.svc.PlayerName(), score)
		if err != nil {
			logger.Warn("could not save score locally", "game", m.game.ID(), "error", err)
		} else {
			localID = id
		}
	}

	if !m.svc.LoggedIn() {
		if m.svc.Auth != nil {
			m.notice = "Saved locally. Log in to earn XP."
		}
		return nil
	}

	ch, ok := m.svc.Reporter.Report(m.game.ID(), score, localID)
	if !ok {
		return nil
	}
	m.notice = "Sending score..."
	return waitForReport(ch)
}

func reportNotice(res scoring.Result) string {
	if res.Err != nil {
		return "Score not sent: " + res.Err.Error()
	}
	return fmt.Sprintf("Score %d sent  ·  Level %d  ·  %d XP", res.Score, res.Level, res.XP)
}

// saveScreenshot saves the current screen to a text file.
func (m *GameModel) saveScreenshot() {
	if m.svc.ScreenshotDir == "" {
		return
	}
	m.game.Render(m.screen)

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.svc.ScreenshotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.svc.ScreenshotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.svc.logger().Warn("could not save screenshot", "path", path, "error", err)
		return
	}
	m.notice = "Screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.notice != "" && m.gameState.GameOver && m.screen.Height() > 0 {
		m.screen.DrawTextCenteredColor(m.screen.Height()-1, m.notice, core.ColorCyan)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Done implements the sub-screen contract used by the session.
func (m GameModel) Done() bool {
	return m.backToMenu
}

// Notice returns the status line shown under a finished round.
func (m GameModel) Notice() string {
	return m.notice
}

// State returns the game state seen on the last frame.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays a single game until the player quits or leaves it.
func Run(game registry.Game, svc *Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		standalone{inner: NewGameModel(game, svc, cfg)},
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
