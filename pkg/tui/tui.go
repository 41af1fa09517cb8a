// Package tui provides a terminal user interface for mtrktool
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/mtrktool/pkg/smf"
	"github.com/james-see/mtrktool/pkg/trackchunk"
)

var (
	// Terminal-phosphor palette
	phosphorGreen = lipgloss.Color("#39FF14")
	amber         = lipgloss.Color("#FFBF00")
	silverGray    = lipgloss.Color("#C0C0C0")
	darkGray      = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(phosphorGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(phosphorGreen).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(phosphorGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateFilePicker State = iota
	StateLoading
	StateBrowse
	StateError
)

// Model represents the TUI model
type Model struct {
	state        State
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	file         *smf.File
	trackIndex   int
	events       []trackchunk.ChunkEvent
	cursor       int
	offset       int
	err          error
	width        int
	height       int
}

// fileLoadedMsg signals parse completion
type fileLoadedMsg struct {
	file *smf.File
	err  error
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(phosphorGreen)

	return Model{
		state:      StateFilePicker,
		filePicker: fp,
		spinner:    s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.filePicker.Init())
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadFile())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateBrowse:
			return m.updateBrowse(msg)
		case StateError:
			return m.updateError(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fileLoadedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.file = msg.file
		m.trackIndex = 0
		m.selectTrack(0)
		m.state = StateBrowse
		return m, nil
	}

	return m, nil
}

func (m *Model) selectTrack(i int) {
	m.trackIndex = i
	m.events = m.file.Tracks[i].Events()
	m.cursor = 0
	m.offset = 0
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.pageSize()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}
	case "pgup":
		m.cursor -= page
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "pgdown":
		m.cursor += page
		if m.cursor > len(m.events)-1 {
			m.cursor = len(m.events) - 1
		}
	case "left", "h":
		if m.trackIndex > 0 {
			m.selectTrack(m.trackIndex - 1)
		}
	case "right", "l":
		if m.trackIndex < len(m.file.Tracks)-1 {
			m.selectTrack(m.trackIndex + 1)
		}
	case "esc":
		m.state = StateFilePicker
		m.file = nil
		m.events = nil
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	return m, nil
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateFilePicker
		m.err = nil
		m.selectedFile = ""
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) loadFile() tea.Cmd {
	path := m.selectedFile
	return func() tea.Msg {
		f, err := smf.ReadFile(path)
		return fileLoadedMsg{file: f, err: err}
	}
}

func (m Model) pageSize() int {
	page := m.height - 12
	if page < 5 {
		page = 5
	}
	return page
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateLoading:
		s.WriteString(m.viewLoading())
	case StateBrowse:
		s.WriteString(m.viewBrowse())
	case StateError:
		s.WriteString(m.viewError())
	}

	return s.String()
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" MTRKTOOL — SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: open • q: quit"))

	return s.String()
}

func (m Model) viewLoading() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" PARSING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Decoding %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))

	return boxStyle.Render(s.String())
}

func (m Model) viewBrowse() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s — TRACK %d/%d ",
		strings.ToUpper(filepath.Base(m.selectedFile)), m.trackIndex+1, len(m.file.Tracks))))
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %d events, %d ticks per beat",
		len(m.events), m.file.Header.Division)))
	s.WriteString("\n\n")

	page := m.pageSize()
	end := m.offset + page
	if end > len(m.events) {
		end = len(m.events)
	}
	for i := m.offset; i < end; i++ {
		ev := m.events[i]
		marker := " "
		if ev.RunningStatus != 0 {
			marker = "*"
		}
		line := fmt.Sprintf("%4d  tick %6d  beat %8.3f  %s0x%02X  %s",
			i, ev.AbsoluteTime(), ev.Position(), marker, ev.TypeByte(), ev.Describe())
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(rowStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: scroll • ←/→: track • esc: open another file • q: quit"))

	return s.String()
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ERROR "))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
