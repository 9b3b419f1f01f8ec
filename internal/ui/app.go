// Package ui is the interactive terminal surface. It wires the session
// tracker, the task controller and the views into one bubbletea program.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/service"
	"tood/internal/session"
	"tood/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewTasks
)

// sessionMsg carries a session replacement from the tracker into the
// program's update loop.
type sessionMsg struct {
	session *service.Session
}

type App struct {
	tracker *session.Tracker
	ctrl    *service.Controller
	auth    service.Authenticator

	currentView View
	login       *views.LoginView
	tasks       *views.TaskView

	sessionCh   chan *service.Session
	unsubscribe func()
	width       int
	height      int
}

// NewApp creates the application over an already-constructed tracker
// and controller. Close must be called when the program ends.
func NewApp(tracker *session.Tracker, ctrl *service.Controller, auth service.Authenticator) *App {
	a := &App{
		tracker:     tracker,
		ctrl:        ctrl,
		auth:        auth,
		currentView: ViewLogin,
		login:       views.NewLoginView(auth),
		sessionCh:   make(chan *service.Session, 8),
	}
	a.unsubscribe = tracker.Subscribe(func(s *service.Session) {
		a.sessionCh <- s
	})
	return a
}

// Close releases the tracker subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.start, a.waitForSession, a.login.Init())
}

// start resolves the initial session exactly once.
func (a *App) start() tea.Msg {
	sess, _ := a.tracker.Start(context.Background())
	return sessionMsg{session: sess}
}

// waitForSession pumps tracker replacements into the update loop. It
// re-arms itself after every receipt.
func (a *App) waitForSession() tea.Msg {
	return sessionMsg{session: <-a.sessionCh}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.Update(msg)
		if a.tasks != nil {
			a.tasks.Update(msg)
		}
		return a, nil

	case sessionMsg:
		return a, tea.Batch(a.applySession(msg.session), a.waitForSession)

	case views.LoggedOut:
		// Sign-out flows back through the auth listener as a nil
		// session, which switches the view.
		return a, func() tea.Msg {
			_ = a.auth.SignOut(context.Background())
			return nil
		}
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewTasks:
		if a.tasks != nil {
			_, cmd = a.tasks.Update(msg)
		}
	}
	return a, cmd
}

// applySession mirrors a session transition into the controller and
// the visible view. A departing session clears the collection without
// a store call; an arriving one triggers the fetch via the task view.
func (a *App) applySession(s *service.Session) tea.Cmd {
	if s == nil {
		a.ctrl.OnSessionChange(context.Background(), nil)
		a.currentView = ViewLogin
		a.tasks = nil
		a.login = views.NewLoginView(a.auth)
		return a.login.Init()
	}

	a.ctrl.SetSession(s)
	if a.currentView == ViewTasks && a.tasks != nil {
		// Token refresh while already signed in: nothing to redraw.
		return nil
	}
	a.currentView = ViewTasks
	a.tasks = views.NewTaskView(a.ctrl)
	return tea.Batch(
		a.tasks.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.tasks != nil {
			return a.tasks.View()
		}
	}
	return a.login.View()
}
