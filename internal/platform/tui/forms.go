package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/auth"
)

const authTimeout = 15 * time.Second

// FormMode selects which account form is shown.
type FormMode int

const (
	FormLogin FormMode = iota
	FormRegister
)

type authDoneMsg struct {
	mode    FormMode
	session auth.Session
	err     error
}

var (
	formLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	formFocusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	formErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	formSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	formBoxStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("13")).
				Padding(1, 3)
)

// strengthLabels maps zxcvbn scores to words.
var strengthLabels = [...]string{"very weak", "weak", "fair", "good", "strong"}

// AuthFormModel is the login or registration form.
type AuthFormModel struct {
	mode    FormMode
	manager *auth.Manager
	labels  []string
	inputs  []textinput.Model
	focus   int
	width   int
	height  int

	submitting bool
	message    string
	failed     bool
	session    *auth.Session

	quitting  bool
	goingBack bool
}

// NewAuthForm builds an empty form.
func NewAuthForm(mode FormMode, manager *auth.Manager, width, height int) AuthFormModel {
	m := AuthFormModel{
		mode:    mode,
		manager: manager,
		width:   width,
		height:  height,
	}
	m.build("")
	return m
}

func (m *AuthFormModel) build(email string) {
	switch m.mode {
	case FormRegister:
		m.labels = []string{"Username", "Email", "Password"}
	default:
		m.labels = []string{"Email", "Password"}
	}

	m.inputs = make([]textinput.Model, len(m.labels))
	for i, label := range m.labels {
		in := textinput.New()
		in.Prompt = "› "
		in.CharLimit = 128
		in.Width = 32
		switch label {
		case "Username":
			in.Placeholder = "3-20 letters, digits or _"
			in.CharLimit = 20
		case "Email":
			in.Placeholder = "you@example.com"
			in.SetValue(email)
		case "Password":
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		m.inputs[i] = in
	}

	m.focus = 0
	if email != "" && m.mode == FormLogin {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
}

// Init starts the cursor blink.
func (m AuthFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m AuthFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authDoneMsg:
		return m.handleDone(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.goingBack = true
			return m, nil
		}
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m, m.setFocus(m.focus + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *AuthFormModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	cmds := make([]tea.Cmd, n)
	for j := range m.inputs {
		if j == m.focus {
			cmds[j] = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (m AuthFormModel) value(label string) string {
	for i, l := range m.labels {
		if l == label {
			v := m.inputs[i].Value()
			if label != "Password" {
				v = strings.TrimSpace(v)
			}
			return v
		}
	}
	return ""
}

func (m AuthFormModel) submit() (tea.Model, tea.Cmd) {
	if m.manager == nil {
		m.failed, m.message = true, "Accounts are not available here."
		return m, nil
	}

	mode, manager := m.mode, m.manager
	username, email, password := m.value("Username"), m.value("Email"), m.value("Password")

	if mode == FormRegister {
		// Checked locally so a bad form never reaches the backend.
		if err := auth.ValidateRegistration(username, email, password); err != nil {
			m.failed, m.message = true, err.Error()
			return m, nil
		}
	} else if email == "" || password == "" {
		m.failed, m.message = true, "Email and password are required."
		return m, nil
	}

	m.submitting = true
	m.failed = false
	m.message = "Contacting server..."
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		if mode == FormRegister {
			return authDoneMsg{mode: mode, err: manager.Register(ctx, username, email, password)}
		}
		s, err := manager.Login(ctx, email, password)
		return authDoneMsg{mode: mode, session: s, err: err}
	}
}

func (m AuthFormModel) handleDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		m.failed = true
		m.message = describeAuthError(msg.err)
		return m, nil
	}

	if msg.mode == FormRegister {
		// Registration does not log in; continue with the login form.
		email := m.value("Email")
		m.mode = FormLogin
		m.build(email)
		m.failed = false
		m.message = "Account created. Log in to start earning XP."
		return m, textinput.Blink
	}

	s := msg.session
	m.session = &s
	m.goingBack = true
	return m, nil
}

func describeAuthError(err error) string {
	var se *api.StatusError
	var ve *auth.ValidationError
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Wrong email or password."
	case errors.Is(err, api.ErrAlreadyRegistered):
		return "That username or email is already in use."
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &se):
		return se.Message
	default:
		return "Could not reach the server: " + err.Error()
	}
}

// View renders the form.
func (m AuthFormModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := "LOG IN"
	if m.mode == FormRegister {
		title = "CREATE ACCOUNT"
	}
	b.WriteString(formFocusStyle.Render(title))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := formLabelStyle.Render(m.labels[i])
		if i == m.focus {
			label = formFocusStyle.Render(m.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
		if m.mode == FormRegister && m.labels[i] == "Password" && in.Value() != "" {
			score := auth.PasswordScore(in.Value())
			style := formErrorStyle
			if score >= auth.MinPasswordScore {
				style = formSuccessStyle
			}
			b.WriteString(style.Render("strength: " + strengthLabels[min(max(score, 0), 4)]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.message == "":
	case m.failed:
		b.WriteString(formErrorStyle.Render(m.message))
		b.WriteString("\n")
	default:
		b.WriteString(formSuccessStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("tab: next field  |  enter: submit  |  esc: back"))

	box := formBoxStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Session returns the session created by a successful login.
func (m AuthFormModel) Session() (auth.Session, bool) {
	if m.session == nil {
		return auth.Session{}, false
	}
	return *m.session, true
}

// Mode returns the form currently shown.
func (m AuthFormModel) Mode() FormMode {
	return m.mode
}

// Message returns the status or error line.
func (m AuthFormModel) Message() string {
	return m.message
}

// Done implements the sub-screen contract used by the session.
func (m AuthFormModel) Done() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m AuthFormModel) IsQuitting() bool {
	return m.quitting
}

// RunAuthForm shows one form on its own and returns the session when the
// player logged in.
func RunAuthForm(mode FormMode, manager *auth.Manager, width, height int) (auth.Session, bool, error) {
	p := tea.NewProgram(
		standalone{inner: NewAuthForm(mode, manager, width, height)},
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return auth.Session{}, false, err
	}
	sm, ok := final.(standalone)
	if !ok {
		return auth.Session{}, false, nil
	}
	form, ok := sm.inner.(AuthFormModel)
	if !ok {
		return auth.Session{}, false, nil
	}
	s, ok := form.Session()
	return s, ok, nil
}
