// Package tui provides a Bubble Tea terminal user interface for cuechap.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/cuechap/internal/config"
	"github.com/handiism/cuechap/internal/convert"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateConverting
	StateComplete
	StateError
)

// Mode selects between converting one mp3+cue pair and a whole folder.
type Mode int

const (
	ModeSingle Mode = iota
	ModeFolder
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   convert.ProgressLevel
}

// eventLog collects progress events from the conversion goroutine so
// the UI can drain them on its own tick.
type eventLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *eventLog) add(event convert.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Message: event.Message, Level: event.Level})
}

func (l *eventLog) drain() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.entries
	l.entries = nil
	return entries
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	mode      Mode
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	events    *eventLog
	err       error

	// Conversion context
	ctx    context.Context
	cancel context.CancelFunc

	// Conversion manager reference
	manager *convert.Manager

	// Conversion progress
	convertedFiles  int32
	totalFiles      int32
	chaptersWritten int32

	// Options
	keepFiles bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/audiobook.mp3"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		mode:      ModeSingle,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  config.DefaultSettings(),
		logs:      make([]LogEntry, 0),
		events:    &eventLog{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ConvertDoneMsg is sent when the conversion run completes.
	ConvertDoneMsg struct {
		Converted int32
		Total     int32
		Chapters  int32
		Err       error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConverting {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateConverting
				return m, tea.Batch(m.startConversion(), m.tickProgress(), m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				if m.mode == ModeSingle {
					m.mode = ModeFolder
					m.textInput.Placeholder = "/path/to/folder"
				} else {
					m.mode = ModeSingle
					m.textInput.Placeholder = "/path/to/audiobook.mp3"
				}
			}

		case "k":
			if m.state == StateInput {
				m.keepFiles = !m.keepFiles
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another conversion
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.manager = nil
				m.convertedFiles = 0
				m.totalFiles = 0
				m.chaptersWritten = 0
				m.events = &eventLog{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ConvertDoneMsg:
		m.drainEvents()
		m.convertedFiles = msg.Converted
		m.totalFiles = msg.Total
		m.chaptersWritten = msg.Chapters
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if msg.Converted < msg.Total {
			m.state = StateError
			m.err = fmt.Errorf("%d of %d files failed", msg.Total-msg.Converted, msg.Total)
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateConverting {
			m.drainEvents()
			if m.manager != nil {
				converted, total, chapters := m.manager.GetProgress()
				m.convertedFiles = converted
				m.totalFiles = total
				m.chaptersWritten = chapters

				var percent float64
				if total > 0 {
					percent = float64(converted) / float64(total)
				}
				cmds = append(cmds, m.progress.SetPercent(percent))
			}
			cmds = append(cmds, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// drainEvents moves collected progress events into the visible log.
func (m *Model) drainEvents() {
	for _, entry := range m.events.drain() {
		if entry.Level == convert.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, entry)
	}
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎧 cuechap"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Embed cue sheet chapters into MP3 files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	if m.mode == ModeSingle {
		b.WriteString(subtitleStyle.Render("MP3 file (cue sheet is <file>.cue):"))
	} else {
		b.WriteString(subtitleStyle.Render("Folder with MP3/CUE pairs:"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	modeName := "Single file"
	if m.mode == ModeFolder {
		modeName = "Folder"
	}
	keepCheck := "[ ]"
	if m.keepFiles {
		keepCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Mode: %s (tab)\n", modeName))
	b.WriteString(fmt.Sprintf("  %s Keep cue sheet and backup (k)\n", keepCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", verboseCheck))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Embedding chapters..."))
	b.WriteString("\n\n")

	// Progress bar
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.convertedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Chapters: %d",
		m.convertedFiles,
		m.totalFiles,
		m.chaptersWritten,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Conversion Complete!\n\n"+
			"Files: %d\n"+
			"Chapters: %d",
		m.convertedFiles,
		m.chaptersWritten,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case convert.LevelError:
			style = errorStyle
			prefix = "✗"
		case convert.LevelWarning:
			style = warningStyle
			prefix = "!"
		case convert.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case convert.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: mode • k: keep files • v: verbose • esc: quit"
	case StateConverting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: convert more • q: quit"
	}
	return ""
}

// startConversion runs the conversion in the background.
func (m *Model) startConversion() tea.Cmd {
	path := m.textInput.Value()
	mode := m.mode

	settings := config.DefaultSettings()
	if m.keepFiles {
		settings.DeleteCueOnSuccess = false
		settings.DeleteBackupOnSuccess = false
	}

	events := m.events
	manager := convert.NewManager(settings, events.add)
	m.manager = manager
	ctx := m.ctx

	return func() tea.Msg {
		var err error
		if mode == ModeFolder {
			err = manager.ConvertFolder(ctx, path)
		} else {
			err = manager.ConvertPair(ctx, path+".cue", path)
		}

		converted, total, chapters := manager.GetProgress()
		return ConvertDoneMsg{
			Converted: converted,
			Total:     total,
			Chapters:  chapters,
			Err:       err,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
