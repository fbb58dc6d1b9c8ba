package ui

import (
	"context"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tubegrab/internal/api"
	"tubegrab/internal/model"
	"tubegrab/internal/session"
)

type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	client *api.Client
	opts   model.CLIOptions
	log    zerolog.Logger

	// Components
	input textinput.Model
	spin  spinner.Model
	bar   bubblesprogress.Model

	// Presentation-only state; everything that matters lives in the controller.
	menuOpen  bool
	menuIndex int

	width, height int
	styles        Styles
}

func NewModel(ctx context.Context, ctrl *session.Controller, client *api.Client, initialURL string, opts model.CLIOptions, log zerolog.Logger) Model {
	sty := defaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Paste a YouTube link"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sty.Spinner

	bar := bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(40))

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		client: client,
		opts:   opts,
		log:    log,
		input:  ti,
		spin:   sp,
		bar:    bar,
		styles: sty,
	}

	if initialURL != "" {
		m.input.SetValue(initialURL)
		ctrl.ConfirmURL(initialURL)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.listenCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case sessionEventMsg:
		m.ctrl.Apply(msg.Ev)
		m.syncMenu()
		return m, m.listenCmd()

	case sessionClosedMsg:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var c tea.Cmd
	m.spin, c = m.spin.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	m.input, c = m.input.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.ctrl.Snapshot()

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		if m.menuOpen {
			if snap.Preview != nil && m.menuIndex < len(snap.Preview.Formats) {
				m.ctrl.SelectFormat(snap.Preview.Formats[m.menuIndex])
			}
			m.menuOpen = false
			return m, nil
		}
		m.ctrl.ConfirmURL(m.input.Value())
		return m, nil

	case "up":
		if m.menuOpen && m.menuIndex > 0 {
			m.menuIndex--
			return m, nil
		}

	case "down":
		if m.menuOpen && snap.Preview != nil && m.menuIndex < len(snap.Preview.Formats)-1 {
			m.menuIndex++
			return m, nil
		}

	case "ctrl+f":
		if snap.Preview != nil && len(snap.Preview.Formats) > 0 {
			m.menuOpen = !m.menuOpen
			if m.menuOpen {
				m.menuIndex = indexOf(snap.Preview.Formats, snap.SelectedFormat)
			}
		}
		return m, nil

	case "ctrl+d":
		m.menuOpen = false
		m.ctrl.StartJob(session.FormatVideo, "")
		return m, nil

	case "ctrl+a":
		m.menuOpen = false
		m.ctrl.StartJob(session.FormatAudio, "")
		return m, nil
	}

	// Everything else edits the URL field.
	before := m.input.Value()
	var c tea.Cmd
	m.input, c = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.ctrl.SetURL(v)
	}
	return m, c
}

// syncMenu keeps the cursor in bounds when a new preview arrives while the
// quality menu is open.
func (m *Model) syncMenu() {
	if !m.menuOpen {
		return
	}
	snap := m.ctrl.Snapshot()
	if snap.Preview == nil || len(snap.Preview.Formats) == 0 {
		m.menuOpen = false
		m.menuIndex = 0
		return
	}
	if m.menuIndex >= len(snap.Preview.Formats) {
		m.menuIndex = len(snap.Preview.Formats) - 1
	}
}

func (m Model) listenCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return sessionClosedMsg{}
		case ev := <-m.ctrl.Events():
			return sessionEventMsg{Ev: ev}
		}
	}
}

func indexOf(items []string, want string) int {
	for i, it := range items {
		if it == want {
			return i
		}
	}
	return 0
}
