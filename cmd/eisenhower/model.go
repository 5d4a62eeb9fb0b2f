package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benjamonnguyen/eisenhower"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const commandHelp = `COMMANDS:
  <title>: add task to "Important, Not Urgent"
  /a <1-4> <title>[ | description]: add task to a quadrant
  /e <n> <title>: edit title of task n
  /m <n> <1-4>: move task n to another quadrant
  /d <n> [date]: set due date of task n; clear it if no date provided
  /c <n>: toggle completion of task n
  /x <n>: delete task n

  /s [name]: switch session; list sessions if no name provided
  /sn <name>: create and switch to a new session
  /sr <name>: rename current session
  /sd [name]: delete a session (default current)

  /t: toggle theme
  /h: show this help
`

type model struct {
	// children
	vp        viewport.Model
	userinput textinput.Model

	// supplied
	l        eisenhower.Logger
	sessions *eisenhower.SessionStore
	tasks    *eisenhower.TaskStore
	theme    *eisenhower.ThemeStore

	// state
	alerts   []string
	quitting bool
	w, h     int

	// configuration
	dateFormat string
}

func newModel(a *app) model {
	userinput := textinput.New()
	userinput.Focus()
	userinput.CharLimit = 280
	userinput.Placeholder = "enter a task or /h for help"

	return model{
		l:          a.l,
		sessions:   a.sessions,
		tasks:      a.tasks,
		theme:      a.theme,
		dateFormat: a.conf.DateFormat,
		userinput:  userinput,
		vp:         viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, cmd tea.Cmd

	m, cmd = m.updateParent(msg)
	m.userinput, tiCmd = m.userinput.Update(msg)

	switch msg.(type) {
	case tea.KeyMsg:
		// arrow keys belong to the input
	default:
		m.vp, vpCmd = m.vp.Update(msg)
	}

	return m, tea.Batch(tiCmd, vpCmd, cmd)
}

func (m model) updateParent(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.userinput.Width = msg.Width - 4
		m.vp.Width = msg.Width
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			input := strings.TrimSpace(m.userinput.Value())
			m.userinput.Reset()
			if input == "" {
				return m, nil
			}
			m.alerts = nil
			m.handleInput(input)
			m.refresh()
			return m, nil
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.vp.View(), m.renderFooter())
}

func (m *model) refresh() {
	m.vp.SetContent(m.renderMatrix())
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := lipgloss.Height(m.renderFooter())
	m.vp.Height = max(0, m.h-headerHeight-footerHeight)
}

func (m *model) addAlert(alert string, c color) {
	m.alerts = append(m.alerts, colorize(c, alert))
}

func (m model) palette() palette {
	return palettes[m.theme.Theme()]
}

func (m model) renderHeader() string {
	pal := m.palette()
	name := "(no session)"
	if curr, ok := m.sessions.CurrentSession(); ok {
		name = curr.Name
	}
	return lipgloss.NewStyle().Bold(true).Foreground(pal.title).Render("Eisenhower Matrix") +
		lipgloss.NewStyle().Foreground(pal.faint).Render(fmt.Sprintf("  session: %s  theme: %s", name, m.theme.Theme()))
}

func (m model) renderMatrix() string {
	pal := m.palette()
	width := max(20, m.w/2-4)

	var boxes []string
	number := 1
	for _, p := range eisenhower.Priorities() {
		tasks := m.tasks.TasksByPriority(p)
		boxes = append(boxes, renderQuadrant(p, tasks, number, width, pal, m.dateFormat))
		number += len(tasks)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], boxes[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, boxes[2], boxes[3]),
	)
}

func (m model) renderFooter() string {
	var footer strings.Builder
	footer.WriteRune('\n')
	footer.WriteString(m.userinput.View())
	footer.WriteString("\n\n")
	if len(m.alerts) > 0 {
		footer.WriteString(strings.Join(m.alerts, "\n"))
		footer.WriteString("\n\n")
	} else {
		footer.WriteString(lipgloss.NewStyle().Foreground(m.palette().faint).Render("(ctrl+c to quit)"))
		footer.WriteRune('\n')
	}
	return footer.String()
}

// numberedTasks returns the current session's tasks in the order they are
// numbered on screen: quadrant by quadrant.
func (m model) numberedTasks() []eisenhower.Task {
	var tasks []eisenhower.Task
	for _, p := range eisenhower.Priorities() {
		tasks = append(tasks, m.tasks.TasksByPriority(p)...)
	}
	return tasks
}

func (m model) taskAt(arg string) (eisenhower.Task, bool) {
	n, err := strconv.Atoi(arg)
	tasks := m.numberedTasks()
	if err != nil || n < 1 || n > len(tasks) {
		return eisenhower.Task{}, false
	}
	return tasks[n-1], true
}

func (m *model) handleInput(input string) {
	m.l.Debug("handling input", "input", input)
	if !strings.HasPrefix(input, "/") {
		m.addTask(eisenhower.DefaultPriority, input)
		return
	}

	parts := strings.SplitN(input, " ", 2)
	arg := ""
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch parts[0] {
	case "/a":
		q, title, _ := strings.Cut(arg, " ")
		n, _ := strconv.Atoi(q)
		p, ok := eisenhower.PriorityFromQuadrant(n)
		if !ok || title == "" {
			m.addAlert("usage: /a <1-4> <title>[ | description]", colorYellow)
			return
		}
		m.addTask(p, title)
	case "/e":
		n, title, _ := strings.Cut(arg, " ")
		t, ok := m.taskAt(n)
		if !ok || strings.TrimSpace(title) == "" {
			m.addAlert("usage: /e <n> <title>", colorYellow)
			return
		}
		t.Title = title
		m.updateTask(t)
	case "/m":
		n, q, _ := strings.Cut(arg, " ")
		t, ok := m.taskAt(n)
		qn, _ := strconv.Atoi(q)
		p, pOK := eisenhower.PriorityFromQuadrant(qn)
		if !ok || !pOK {
			m.addAlert("usage: /m <n> <1-4>", colorYellow)
			return
		}
		t.Priority = p
		m.updateTask(t)
	case "/d":
		n, date, _ := strings.Cut(arg, " ")
		t, ok := m.taskAt(n)
		if !ok {
			m.addAlert("usage: /d <n> [date]", colorYellow)
			return
		}
		t.DueDate = nil
		if date = strings.TrimSpace(date); date != "" {
			due, err := time.ParseInLocation(m.dateFormat, date, time.Local)
			if err != nil {
				m.addAlert(fmt.Sprintf("date must look like %s", m.dateFormat), colorYellow)
				return
			}
			t.DueDate = &due
		}
		m.updateTask(t)
	case "/c":
		t, ok := m.taskAt(arg)
		if !ok {
			m.addAlert("usage: /c <n>", colorYellow)
			return
		}
		if _, err := m.tasks.ToggleCompletion(t.ID); err != nil {
			m.addAlert(err.Error(), colorRed)
		}
	case "/x":
		t, ok := m.taskAt(arg)
		if !ok {
			m.addAlert("usage: /x <n>", colorYellow)
			return
		}
		if err := m.tasks.DeleteTask(t.ID); err != nil {
			m.addAlert(err.Error(), colorRed)
		}
	case "/s":
		m.switchSession(arg)
	case "/sn":
		name, err := eisenhower.ValidateSessionName(m.sessions.ListSessions(), arg, "")
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return
		}
		if _, err := m.sessions.CreateSession(name); err != nil {
			m.addAlert(err.Error(), colorRed)
		}
	case "/sr":
		curr, ok := m.sessions.CurrentSession()
		if !ok {
			m.addAlert(eisenhower.ErrNoActiveSession.Error(), colorRed)
			return
		}
		name, err := eisenhower.ValidateSessionName(m.sessions.ListSessions(), arg, curr.ID)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return
		}
		if _, err := m.sessions.RenameSession(curr.ID, name); err != nil {
			m.addAlert(err.Error(), colorRed)
		}
	case "/sd":
		m.deleteSession(arg)
	case "/t":
		m.theme.Toggle()
	case "/h":
		m.addAlert(commandHelp, colorYellow)
	default:
		m.addAlert(fmt.Sprintf("unknown command %s, enter /h for help", parts[0]), colorYellow)
	}
}

func (m *model) addTask(p eisenhower.Priority, input string) {
	title, description, _ := strings.Cut(input, "|")
	if _, err := m.tasks.AddTask(eisenhower.NewTask{
		Title:       title,
		Description: description,
		Priority:    p,
	}); err != nil {
		m.addAlert(err.Error(), colorRed)
	}
}

func (m *model) updateTask(t eisenhower.Task) {
	if _, err := m.tasks.UpdateTask(t); err != nil {
		m.addAlert(err.Error(), colorRed)
	}
}

func (m *model) switchSession(name string) {
	if name == "" {
		curr, _ := m.sessions.CurrentSession()
		var lines []string
		for _, s := range m.sessions.ListSessions() {
			marker := " "
			if s.ID == curr.ID {
				marker = "*"
			}
			lines = append(lines, fmt.Sprintf("%s %s", marker, s.Name))
		}
		m.addAlert(strings.Join(lines, "\n"), colorCyan)
		return
	}

	s, err := m.sessions.SessionByName(name)
	if err == nil {
		_, err = m.sessions.SwitchSession(s.ID)
	}
	if err != nil {
		m.addAlert(err.Error(), colorRed)
	}
}

func (m *model) deleteSession(name string) {
	var (
		s   eisenhower.Session
		ok  bool
		err error
	)
	if name == "" {
		s, ok = m.sessions.CurrentSession()
		if !ok {
			err = eisenhower.ErrNoActiveSession
		}
	} else {
		s, err = m.sessions.SessionByName(name)
	}
	if err == nil {
		err = m.sessions.DeleteSession(s.ID)
	}
	if errors.Is(err, eisenhower.ErrLastSession) {
		m.addAlert("cannot delete the last session", colorYellow)
		return
	}
	if err != nil {
		m.addAlert(err.Error(), colorRed)
	}
}
