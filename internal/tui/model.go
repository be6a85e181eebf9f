package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"phototag/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	// FileFailedMsg is printed above the progress bar so failures stay visible.
	FileFailedMsg struct {
		Message string
	}
	DoneMsg struct {
		Report domain.BatchReport
	}
	ErrorMsg struct {
		Err error
	}
)

// Config for the TUI
type Config struct {
	// Action labels the running batch, e.g. "Syncing".
	Action string
	Total  int
	// Cancel is called when the user quits before the batch is done.
	Cancel func()
}

// Model renders the progress of a tag or sync batch.
type Model struct {
	config      Config
	Phase       Phase
	spinner     spinner.Model
	progress    progress.Model
	current     int
	total       int
	currentFile string
	failed      int
	Report      domain.BatchReport
	Err         error
	Quitting    bool
	width       int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseRunning,
		spinner:  s,
		progress: p,
		total:    cfg.Total,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(min(msg.Width-20, 60), 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			if m.config.Cancel != nil {
				m.config.Cancel()
			}
			return m, tea.Quit
		}

	case ProgressMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.currentFile = msg.File
		if m.total > 0 {
			return m, m.progress.SetPercent(float64(m.current) / float64(m.total))
		}
		return m, nil

	case FileFailedMsg:
		m.failed++
		return m, tea.Println(errorStyle.Render(msg.Message))

	case DoneMsg:
		m.Phase = PhaseDone
		m.Report = msg.Report
		return m, tea.Quit

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseRunning:
		b.WriteString(m.renderRunning())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Press q to cancel"))
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s Error: %s", iconError, m.Err.Error())))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(iconCamera + " phototag")
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s %d file(s)", m.config.Action, m.total))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.current) / float64(m.total)
}

func (m Model) renderRunning() string {
	var b strings.Builder
	percent := m.percent()

	b.WriteString(fmt.Sprintf("  %s %s...\n\n", m.spinner.View(), m.config.Action))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.current, m.total)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	if m.failed > 0 {
		b.WriteString(" " + errorStyle.Render(fmt.Sprintf("%s %d failed", iconError, m.failed)))
	}
	b.WriteString("\n")

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(shortenPath(m.currentFile))))
	}
	return b.String()
}

func (m Model) renderDone() string {
	icon := successStyle.Render(iconSuccess)
	if m.Report.Failed > 0 {
		icon = errorStyle.Render(iconError)
	}
	return fmt.Sprintf("  %s %s", icon, dimStyle.Render(fmt.Sprintf("%d/%d files done", m.Report.Succeeded, m.Report.Total())))
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
