// Package tui provides the Bubble Tea integration for the arcade platform.
// It runs the frame loop for games, the main menu with the account
// dashboard, local scoreboards, the global leaderboard, and the login and
// registration forms. The same models back the local client and the SSH
// server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick after a frame.
func tickCmd(frame time.Duration) tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
