package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tood/internal/service"
	"tood/internal/ui/keys"
	"tood/internal/ui/styles"
)

// LoggedOut signals that the user asked to sign out.
type LoggedOut struct{}

// tasksRefreshedMsg arrives after any controller operation that ends in
// a refetch. The view reads the new snapshot (and the error banner)
// straight from the controller.
type tasksRefreshedMsg struct{}

// submitResultMsg reports the outcome of an edit-form submit.
type submitResultMsg struct {
	err error
}

// TaskView shows the filtered task collection and owns the edit form.
type TaskView struct {
	ctrl   *service.Controller
	styles *styles.Styles
	keys   keys.KeyMap

	cursor int
	width  int
	height int
	busy   bool

	// Edit form state: Idle (editing=false), Creating (editingNew) or
	// Editing a specific task id.
	editing      bool
	editingNew   bool
	editID       string
	editTitle    textinput.Model
	editDesc     textinput.Model
	editDue      textinput.Model
	editFocusIdx int // 0=title, 1=desc, 2=due
	formErr      string

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     service.Task
}

// NewTaskView creates the task list view.
func NewTaskView(ctrl *service.Controller) *TaskView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textinput.New()
	editDesc.Placeholder = "Description (optional)"
	editDesc.CharLimit = 1000

	editDue := textinput.New()
	editDue.Placeholder = "Due date YYYY-MM-DD (optional)"
	editDue.CharLimit = 32

	return &TaskView{
		ctrl:      ctrl,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		editTitle: editTitle,
		editDesc:  editDesc,
		editDue:   editDue,
	}
}

// Init triggers the initial fetch.
func (v *TaskView) Init() tea.Cmd {
	return v.refresh
}

// refresh refetches off the UI loop; failures land in the controller's
// error banner and the previous snapshot stays visible.
func (v *TaskView) refresh() tea.Msg {
	_ = v.ctrl.FetchAll(context.Background())
	return tasksRefreshedMsg{}
}

// Update handles messages
func (v *TaskView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksRefreshedMsg:
		v.busy = false
		v.clampCursor()
		return v, nil

	case submitResultMsg:
		v.busy = false
		if msg.err == nil {
			// Creating|Editing -> Idle only on success.
			v.closeForm()
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.busy {
		return v, nil
	}

	tasks := v.ctrl.Visible()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(tasks)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.ctrl.SetFilter(nextFilter(v.ctrl.Filter()))
		v.clampCursor()
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(tasks) > 0 {
			task := tasks[v.cursor]
			v.busy = true
			return v, func() tea.Msg {
				_ = v.ctrl.ToggleCompleted(context.Background(), task)
				return tasksRefreshedMsg{}
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(tasks) > 0 {
			v.startEditTask(tasks[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(tasks) > 0 {
			v.confirmingDelete = true
			v.deleteTarget = tasks[v.cursor]
		}
		return v, nil

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LoggedOut{} }
	}

	return v, nil
}

func (v *TaskView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := v.deleteTarget
		v.confirmingDelete = false
		v.busy = true
		return v, func() tea.Msg {
			_ = v.ctrl.Remove(context.Background(), target.ID)
			return tasksRefreshedMsg{}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		// Explicit cancel discards the draft.
		v.closeForm()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 3
		v.focusEditField()
		return v, textinput.Blink

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 2) % 3
		v.focusEditField()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Enter):
		return v, v.submitForm()
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// startNewTask opens the form in Creating state.
func (v *TaskView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editID = ""
	v.editTitle.SetValue("")
	v.editDesc.SetValue("")
	v.editDue.SetValue("")
	v.editFocusIdx = 0
	v.focusEditField()
}

// startEditTask opens the form in Editing state, pre-filled from the
// task's current fields.
func (v *TaskView) startEditTask(task service.Task) {
	v.editing = true
	v.editingNew = false
	v.editID = task.ID
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	if task.DueDate != nil {
		v.editDue.SetValue(task.DueDate.Format("2006-01-02"))
	} else {
		v.editDue.SetValue("")
	}
	v.editFocusIdx = 0
	v.focusEditField()
}

func (v *TaskView) closeForm() {
	v.editing = false
	v.editingNew = false
	v.editID = ""
	v.formErr = ""
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
}

func (v *TaskView) focusEditField() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editDue.Focus()
	}
}

// submitForm runs create or update depending on the form state.
func (v *TaskView) submitForm() tea.Cmd {
	title := v.editTitle.Value()
	desc := v.editDesc.Value()
	due, err := parseFormDue(v.editDue.Value())
	if err != nil {
		// Local rejection; the form stays open.
		v.formErr = err.Error()
		return nil
	}
	v.formErr = ""

	isNew := v.editingNew
	id := v.editID
	v.busy = true
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if isNew {
			err = v.ctrl.Create(ctx, title, desc, due)
		} else {
			err = v.ctrl.Update(ctx, id, title, desc, due)
		}
		return submitResultMsg{err: err}
	}
}

func (v *TaskView) clampCursor() {
	n := len(v.ctrl.Visible())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func nextFilter(f service.Filter) service.Filter {
	switch f {
	case service.FilterAll:
		return service.FilterActive
	case service.FilterActive:
		return service.FilterCompleted
	default:
		return service.FilterAll
	}
}

// parseFormDue parses the form's due field: empty means no due date.
func parseFormDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", s)
	}
	return &d, nil
}

// View renders the view
func (v *TaskView) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("tood"))
	b.WriteString("  ")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	if v.editing {
		b.WriteString(v.renderForm())
	} else if v.confirmingDelete {
		b.WriteString(fmt.Sprintf("delete %q? (y/n)\n", v.deleteTarget.Title))
	} else {
		b.WriteString(v.renderList())
	}

	// Single-slot error banner: latest failure only.
	if errMsg := v.ctrl.Err(); errMsg != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorBanner.Render(errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("enter save • tab next field • esc cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("space toggle • n new • e edit • d delete • f filter • L log out • q quit"))
	}
	return b.String()
}

func (v *TaskView) renderTabs() string {
	var parts []string
	for _, f := range []service.Filter{service.FilterAll, service.FilterActive, service.FilterCompleted} {
		if f == v.ctrl.Filter() {
			parts = append(parts, v.styles.TabActive.Render(string(f)))
		} else {
			parts = append(parts, v.styles.Tab.Render(string(f)))
		}
	}
	return strings.Join(parts, "")
}

func (v *TaskView) renderList() string {
	tasks := v.ctrl.Visible()
	if len(tasks) == 0 {
		return v.styles.Dim.Render("no tasks") + "\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t.Title)
		if t.DueDate != nil {
			line += v.styles.ItemDue.Render(fmt.Sprintf("  due %s", t.DueDate.Format("2006-01-02")))
		}

		style := v.styles.Item
		if t.Completed {
			style = v.styles.ItemDone
		}
		if i == v.cursor {
			style = v.styles.ItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *TaskView) renderForm() string {
	var b strings.Builder
	header := "new task"
	if !v.editingNew {
		header = "edit task"
	}
	b.WriteString(v.styles.Label.Render(header))
	b.WriteString("\n")

	fields := []struct {
		input textinput.Model
		idx   int
	}{
		{v.editTitle, 0},
		{v.editDesc, 1},
		{v.editDue, 2},
	}
	for _, f := range fields {
		style := v.styles.Input
		if v.editFocusIdx == f.idx {
			style = v.styles.InputFocus
		}
		b.WriteString(style.Render(f.input.View()))
		b.WriteString("\n")
	}
	if v.formErr != "" {
		b.WriteString(v.styles.ErrorBanner.Render(v.formErr))
		b.WriteString("\n")
	}
	return b.String()
}
