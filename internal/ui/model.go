package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/queue"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/dustin/go-humanize"
)

const (
	maxLogs      = 100
	maxButtons   = 9
	refreshEvery = 100 * time.Millisecond
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)

	// labelStyle defines the style for the labels of details.
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	// selectedStyle defines the style for the selected row of a list.
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4A3A8C"))

	// warningStyle defines the style for values that need attention.
	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F5F"))
)

// Controller performs the actions requested from the user interface.
type Controller interface {
	// Progress returns the progress of the dispatched operations.
	Progress() queue.Progress

	// Activate performs the action of a button of the presentable with the
	// given id, as seen in pool. It must not block.
	Activate(pool *model.Pool, id string, button sections.ButtonID, in sections.Input)
}

// refreshMsg is a [tea.Msg] containing the latest operations [queue.Progress]
// and the latest [model.Pool] published to the [Handler].
type refreshMsg struct {
	t    time.Time
	data queue.Progress
	pool *model.Pool
}

// entry is a row of the presentables list.
type entry struct {
	p     model.Presentable
	depth int
}

// TeaModel is the principal [tea.Model] for the terminal user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler  *Handler
	controller Controller

	fullWidthWithBorders    int
	listWidthWithBorders    int
	sectionWidthWithBorders int

	pool     *model.Pool
	entries  []entry
	selected int
	section  sections.Section

	modals []modal

	opData       queue.Progress
	opProgress   progress.Model
	syncProgress progress.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, controller Controller, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		uiHandler:    uiHandler,
		controller:   controller,
		opProgress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(80)),
		syncProgress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		logsViewport: viewport.New(80, 20),
		logs:         make([]string, 0, maxLogs),
		cancel:       cancel,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		refresh(m.uiHandler, m.controller),
	)
}

// refresh produces a [tea.Cmd] for later scheduling in a [tea.Program]. When
// executed, a [refreshMsg] is returned.
func refresh(uiHandler *Handler, controller Controller) tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return refreshMsg{
			t:    t,
			data: controller.Progress(),
			pool: uiHandler.pool.Load(),
		}
	})
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,funlen,ireturn,cyclop
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()

			return m, tea.Quit
		}

		if len(m.modals) > 0 {
			top := m.modals[len(m.modals)-1]

			done, modalCmd := top.update(msg)
			if done {
				m.modals = m.modals[:len(m.modals)-1]
			}

			return m, modalCmd
		}

		switch key := msg.String(); key {
		case "q":
			return m, tea.Quit
		case "up", "k":
			m.selectEntry(m.selected - 1)
		case "down", "j":
			m.selectEntry(m.selected + 1)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			cmds = append(cmds, m.pressButton(int(key[0]-'1')))
		}

	case modalMsg:
		m.modals = append(m.modals, msg.modal)

	case activateMsg:
		if m.pool != nil {
			m.controller.Activate(m.pool, msg.id, msg.button, msg.in)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2
		m.listWidthWithBorders = (m.width / 3) - 2
		m.sectionWidthWithBorders = m.width - (m.width / 3) - 2

		m.opProgress.Width = m.fullWidthWithBorders
		m.syncProgress.Width = m.sectionWidthWithBorders / 3

		// We want upper panels to take about 60% of the height.
		upperHeight := m.height * 3 / 5
		lowerHeight := m.height - upperHeight

		// Viewport height: lower section minus operations, borders and title.
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(lowerHeight-8, 1)
		m.renderLogs()

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case refreshMsg:
		m.opData = msg.data
		if msg.pool != nil && msg.pool != m.pool {
			m.setPool(msg.pool)
		}

		cmds = append(cmds,
			m.opProgress.SetPercent(m.opData.ProgressPct/100),
			refresh(m.uiHandler, m.controller),
		)

	case LogMsg:
		if len(m.logs) >= maxLogs {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))
		m.renderLogs()

	case progress.FrameMsg:
		updated, cmd := m.opProgress.Update(msg)
		if progressModel, ok := updated.(progress.Model); ok {
			m.opProgress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TeaModel) renderLogs() {
	if len(m.logs) == 0 {
		return
	}

	logs := lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.Join(m.logs, "\n"))

	m.logsViewport.SetContent(logs)
	m.logsViewport.GotoBottom()
}

// setPool moves the model to a new snapshot, keeping the selection on the
// same presentable where it still exists.
func (m *TeaModel) setPool(pool *model.Pool) {
	var selectedID string
	if m.section != nil {
		selectedID = m.section.Presentable().ID()
	}

	m.pool = pool
	m.entries = nil

	var walk func(p model.Presentable, depth int)
	walk = func(p model.Presentable, depth int) {
		m.entries = append(m.entries, entry{p: p, depth: depth})
		for _, child := range pool.Enclosed(p) {
			walk(child, depth+1)
		}
	}
	for _, p := range pool.Toplevels() {
		walk(p, 0)
	}

	if m.section != nil && m.section.Update(pool) {
		for i, e := range m.entries {
			if e.p.ID() == selectedID {
				m.selected = i

				return
			}
		}
	}

	m.section = nil
	m.selectEntry(min(m.selected, len(m.entries)-1))
}

func (m *TeaModel) selectEntry(i int) {
	if i < 0 || i >= len(m.entries) {
		return
	}

	m.selected = i
	m.section = sections.For(m.pool, m.entries[i].p, nil)
}

// pressButton opens the form of a button, or activates it directly if it
// needs no input.
func (m *TeaModel) pressButton(i int) tea.Cmd {
	if m.section == nil {
		return nil
	}

	buttons := m.section.Buttons()
	if i < 0 || i >= len(buttons) {
		return nil
	}
	btn := buttons[i]

	form, err := formFor(m.pool, m.section, btn)
	if err != nil {
		slog.Warn("Action is not available.", "action", btn.Label, "err", err)

		return nil
	}

	if form != nil {
		m.modals = append(m.modals, form)

		return nil
	}

	id := m.section.Presentable().ID()

	return func() tea.Msg {
		return activateMsg{id: id, button: btn.ID}
	}
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the disk utility..."
	}

	if len(m.modals) > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			borderStyle.Padding(1, 2).Render(m.modals[len(m.modals)-1].view()))
	}

	upper := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(m.listWidthWithBorders).Render(m.listView()),
		borderStyle.Width(m.sectionWidthWithBorders).Render(m.sectionView()),
	)

	operationsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(m.operationsView())

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Messages"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("↑/↓: select • 1-9: actions • q: quit gui • ctrl+c: quit program")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		upper,
		operationsSection,
		logsSection,
		helpSection,
	)
}

func (m TeaModel) listView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Width(m.listWidthWithBorders).Render("Storage") + "\n")

	if len(m.entries) == 0 {
		s.WriteString(infoStyle.Render("No devices found."))
	}

	for i, e := range m.entries {
		row := fmt.Sprintf("%s%s  %s", strings.Repeat("  ", e.depth), e.p.Name(), humanize.Bytes(e.p.Size()))
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		s.WriteString(row + "\n")
	}

	return s.String()
}

func (m TeaModel) sectionView() string {
	if m.section == nil {
		return titleStyle.Width(m.sectionWidthWithBorders).Render("Details")
	}

	var s strings.Builder

	s.WriteString(titleStyle.Width(m.sectionWidthWithBorders).Render(m.section.Title()) + "\n\n")

	if warning := m.section.Warning(); warning != "" {
		s.WriteString(warningStyle.Width(m.sectionWidthWithBorders).Render(warning) + "\n\n")
	}

	for _, d := range m.section.Details() {
		value := d.Value
		if d.Highlight {
			value = warningStyle.Render(value)
		}
		if d.Progress >= 0 {
			value += " " + m.syncProgress.ViewAs(d.Progress)
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", d.Label+":")) + " " + value + "\n")
	}

	if buttons := m.section.Buttons(); len(buttons) > 0 {
		s.WriteString("\n")
		for i, btn := range buttons[:min(len(buttons), maxButtons)] {
			fmt.Fprintf(&s, "[%d] %s  %s\n", i+1, btn.Label, helpStyle.Render(btn.Description))
		}
	}

	return s.String()
}

func (m TeaModel) operationsView() string {
	details := "No operations."
	if m.opData.TotalItems > 0 {
		details = fmt.Sprintf(
			"Operations: InProgress=%d, Success=%d, Failed=%d (%d/%d)",
			m.opData.InProgressItems,
			m.opData.SuccessItems,
			m.opData.FailedItems,
			m.opData.ProcessedItems,
			m.opData.TotalItems,
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.fullWidthWithBorders).Render("Operations"),
		m.opProgress.View(),
		infoStyle.Width(m.fullWidthWithBorders).Render(details),
	)
}
