// Package views contains the bubbletea views of the interactive surface.
package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/service"
	"tood/internal/ui/keys"
	"tood/internal/ui/styles"
)

// AuthMode selects between sign-in and sign-up on the login form.
type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

// AuthResultMsg reports the outcome of a sign-in or sign-up attempt.
// On success the session change also flows through the tracker; this
// message only drives the form's own feedback.
type AuthResultMsg struct {
	Err error
}

// LoginView is the email/password form with a login/signup mode toggle.
type LoginView struct {
	auth   service.Authenticator
	styles *styles.Styles
	keys   keys.KeyMap

	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password
	mode     AuthMode
	busy     bool
	errMsg   string

	width  int
	height int
}

// NewLoginView creates the login form.
func NewLoginView(auth service.Authenticator) *LoginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginView{
		auth:     auth,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
}

// Init initializes the view
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case AuthResultMsg:
		v.busy = false
		if msg.Err != nil {
			v.errMsg = msg.Err.Error()
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus()
			return v, textinput.Blink

		case msg.String() == "ctrl+t":
			if v.mode == ModeSignIn {
				v.mode = ModeSignUp
			} else {
				v.mode = ModeSignIn
			}
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx == 0 {
				v.cycleFocus()
				return v, textinput.Blink
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) cycleFocus() {
	if v.focusIdx == 0 {
		v.focusIdx = 1
		v.email.Blur()
		v.password.Focus()
	} else {
		v.focusIdx = 0
		v.password.Blur()
		v.email.Focus()
	}
}

// submit runs the auth call off the UI loop. The tracker hears about a
// successful session through the collaborator's change listener.
func (v *LoginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "email and password are required"
		return nil
	}

	v.busy = true
	v.errMsg = ""
	mode := v.mode
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == ModeSignUp {
			_, err = v.auth.SignUp(ctx, email, password)
		} else {
			_, err = v.auth.SignInWithPassword(ctx, email, password)
		}
		return AuthResultMsg{Err: err}
	}
}

// View renders the form
func (v *LoginView) View() string {
	var b strings.Builder

	title := "tood — sign in"
	action := "sign in"
	if v.mode == ModeSignUp {
		title = "tood — sign up"
		action = "sign up"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	emailStyle := v.styles.Input
	passStyle := v.styles.Input
	if v.focusIdx == 0 {
		emailStyle = v.styles.InputFocus
	} else {
		passStyle = v.styles.InputFocus
	}
	b.WriteString(emailStyle.Render(v.email.View()))
	b.WriteString("\n")
	b.WriteString(passStyle.Render(v.password.View()))
	b.WriteString("\n\n")

	if v.busy {
		b.WriteString(v.styles.Dim.Render(fmt.Sprintf("%s…", action)))
		b.WriteString("\n")
	}
	if v.errMsg != "" {
		b.WriteString(v.styles.ErrorBanner.Render(v.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter " + action + " • tab switch field • ctrl+t toggle sign in/up • ctrl+c quit"))
	return b.String()
}
