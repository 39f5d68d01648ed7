package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/api/apitest"
	"github.com/vovakirdan/arcaderank/internal/auth"
	"github.com/vovakirdan/arcaderank/internal/core"
	"github.com/vovakirdan/arcaderank/internal/scoring"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

// scriptedGame ends its round when told to and restarts on R.
type scriptedGame struct {
	state  core.GameState
	endAt  int
	steps  int
	inputs []core.InputFrame
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.state = core.GameState{}
	g.steps = 0
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	switch {
	case g.state.GameOver:
		if in.Has(core.ActionRestart) {
			g.state = core.GameState{Started: true}
			g.steps = 0
		}
	case !g.state.Started:
		if in.Has(core.ActionPress) {
			g.state.Started = true
		}
	default:
		if in.Has(core.ActionPause) {
			g.state.Paused = !g.state.Paused
		}
		if !g.state.Paused {
			g.steps++
			g.state.Score += 10
			if g.steps >= g.endAt {
				g.state.GameOver = true
			}
		}
	}
	return core.StepResult{State: g.state}
}

func (g *scriptedGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "scripted")
}

func (g *scriptedGame) State() core.GameState { return g.state }

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 60, Seed: 1}
}

// send feeds a message and returns the updated runner.
func send(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok)
	return gm, cmd
}

func frames(t *testing.T, m GameModel, n int) GameModel {
	t.Helper()
	for range n {
		m, _ = send(t, m, TickMsg(time.Now()))
	}
	return m
}

func TestGameModelSavesScoreOnce(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{endAt: 3}
	m := NewGameModel(game, &Services{Store: store}, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 10)

	require.True(t, m.State().GameOver)
	scores, err := store.TopScores("scripted", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 30, scores[0].Score)
	assert.Equal(t, guestPlayer, scores[0].Player)
	assert.False(t, scores[0].Submitted)
}

func TestGameModelRestartRecordsNextRound(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{endAt: 2}
	m := NewGameModel(game, &Services{Store: store, Player: "ada"}, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 5)
	m, _ = send(t, m, keyMsg("r"))
	m = frames(t, m, 5)

	scores, err := store.TopScores("scripted", 10)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
	for _, s := range scores {
		assert.Equal(t, "ada", s.Player)
	}
}

func TestGameModelZeroScoreIsNotSaved(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{}
	game.state = core.GameState{Started: true, GameOver: true}
	m := NewGameModel(game, &Services{Store: store}, testConfig())

	m = frames(t, m, 3)

	scores, err := store.TopScores("scripted", 10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestGameModelBackPausesLiveRound(t *testing.T) {
	game := &scriptedGame{endAt: 1000}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 1)

	m, _ = send(t, m, keyMsg("esc"))
	assert.False(t, m.BackToMenu(), "first back only pauses")
	m = frames(t, m, 1)
	assert.True(t, m.State().Paused)

	m, _ = send(t, m, keyMsg("esc"))
	assert.True(t, m.BackToMenu())
	assert.True(t, m.Done())
}

func TestGameModelBackFromIdle(t *testing.T) {
	m := NewGameModel(&scriptedGame{}, nil, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg("b"))
	assert.True(t, m.BackToMenu())
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&scriptedGame{}, nil, testConfig())

	m, cmd := send(t, m, keyMsg("q"))
	assert.True(t, m.IsQuitting())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestGameModelResizeKeepsRound(t *testing.T) {
	game := &scriptedGame{endAt: 1000}
	m := NewGameModel(game, nil, testConfig())
	m.Init()
	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 3)

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = frames(t, m, 1)

	assert.Equal(t, 3, game.steps)
	assert.Contains(t, m.View(), "scripted")
}

func TestGameModelFramesCarryInput(t *testing.T) {
	game := &scriptedGame{endAt: 1000}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg(" "))
	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 1)
	m = frames(t, m, 1)

	require.Len(t, game.inputs, 2)
	assert.Equal(t, 2, game.inputs[0].Presses)
	assert.Zero(t, game.inputs[1].Presses, "input is cleared after each frame")
}

func TestGameModelReportsScoreWhenLoggedIn(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("neo", "neo@matrix.io", "correct horse battery staple")
	store := openStore(t)
	client := api.New(srv.URL)
	manager := auth.NewManager(store, client, nil)
	_, err := manager.Login(context.Background(), "neo@matrix.io", "correct horse battery staple")
	require.NoError(t, err)

	reporter := scoring.NewReporter(client, nil, scoring.WithHook(func(r scoring.Result) {
		if r.Err == nil && r.LocalID != 0 {
			store.MarkSubmitted(r.LocalID)
		}
	}))
	svc := &Services{Store: store, Auth: manager, API: client, Reporter: reporter}

	game := &scriptedGame{endAt: 5}
	game.state = core.GameState{Started: true}
	m := NewGameModel(game, svc, testConfig())
	m = frames(t, m, 4)

	require.False(t, m.State().GameOver)
	m.gameState = game.Step(core.NewInputFrame()).State
	require.True(t, m.gameState.GameOver)

	cmd := m.recordScore()
	require.NotNil(t, cmd)
	assert.Equal(t, "Sending score...", m.Notice())

	msg := cmd()
	reported, ok := msg.(scoreReportedMsg)
	require.True(t, ok)
	require.NoError(t, reported.Err)
	assert.Equal(t, 50, reported.XP)

	m, _ = send(t, m, msg)
	assert.Contains(t, m.Notice(), "Level 1")
	assert.Contains(t, m.View(), "Level 1  ·  50 XP")
	assert.NotContains(t, m.View(), "+50 XP")

	reporter.Wait()
	scores, err := store.TopScores("scripted", 1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "neo", scores[0].Player)
	assert.True(t, scores[0].Submitted)

	subs := srv.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "scripted", subs[0].GameID)
	assert.Equal(t, 50, subs[0].Score)
}

func TestGameModelOfflineNotice(t *testing.T) {
	store := openStore(t)
	manager := auth.NewManager(store, api.New("http://127.0.0.1:0"), nil)
	game := &scriptedGame{endAt: 1}
	m := NewGameModel(game, &Services{Store: store, Auth: manager}, testConfig())
	m.Init()

	m, _ = send(t, m, keyMsg(" "))
	m = frames(t, m, 2)

	assert.True(t, m.State().GameOver)
	assert.Equal(t, "Saved locally. Log in to earn XP.", m.Notice())
	assert.True(t, strings.Contains(m.View(), "Log in to earn XP"))
}

func TestReportNotice(t *testing.T) {
	// XP comes from the backend and is shown as a total, never as a gain.
	assert.Equal(t, "Score 30 sent  ·  Level 3  ·  240 XP",
		reportNotice(scoring.Result{Score: 30, Level: 3, XP: 240}))
	assert.Equal(t, "Score not sent: "+auth.ErrNotLoggedIn.Error(),
		reportNotice(scoring.Result{Err: auth.ErrNotLoggedIn}))
}
