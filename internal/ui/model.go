package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pivotprep/internal/config"
	"pivotprep/internal/pipeline"
	"pivotprep/internal/report"
	"pivotprep/internal/validation"
)

type state int

const (
	stateFilePicker state = iota
	stateOptions
	stateProcessing
	stateComplete
	stateError
)

// option row indices: 0 is the sheet input, 1 the output path input and
// everything above firstReportRow a report checkbox
const firstReportRow = 2

type Model struct {
	state state

	cfg     *config.Config
	reports []reportChoice

	filepicker   filepicker.Model
	selectedFile string

	sheetInput  textinput.Model
	outputInput textinput.Model
	cursor      int

	progress     progress.Model
	progressChan chan progressUpdate
	resultChan   chan runResultMsg
	currentStep  string

	result *pipeline.Result
	err    error

	width  int
	height int
}

type reportChoice struct {
	spec     report.Specification
	selected bool
}

type runResultMsg struct {
	result *pipeline.Result
	err    error
}

type progressUpdate struct {
	step      string
	completed int
	total     int
}

type progressMsg progressUpdate

type waitForProgressMsg struct{}

func New(cfg *config.Config, catalog report.Catalog) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xlsm"}
	fp.CurrentDirectory, _ = os.Getwd()
	if cfg.Paths.InputDir != "" {
		fp.CurrentDirectory = cfg.Paths.InputDir
	}

	// Match the filepicker to the theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A8A8"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD1D1"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD1D1"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A8A8")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	sheet := textinput.New()
	sheet.Placeholder = "Необязательно"
	sheet.Width = 40
	sheet.PromptStyle = BlurredInputStyle

	output := textinput.New()
	output.Width = 56
	output.PromptStyle = BlurredInputStyle

	choices := make([]reportChoice, len(catalog.Reports))
	for i, spec := range catalog.Reports {
		choices[i] = reportChoice{spec: spec, selected: true}
	}

	prog := progress.New(progress.WithGradient("#00A8A8", "#7FD1D1"))

	return Model{
		state:       stateFilePicker,
		cfg:         cfg,
		reports:     choices,
		filepicker:  fp,
		sheetInput:  sheet,
		outputInput: output,
		progress:    prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help line
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateOptions:
			return m.updateOptions(msg)

		case stateProcessing:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			m.currentStep = msg.step
			cmd := m.progress.SetPercent(float64(msg.completed) / float64(msg.total))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)

	case runResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.outputInput.SetValue(defaultOutputPath(path))
			m.state = stateOptions
			m.cursor = 0
			return m, tea.Batch(cmd, m.syncFocus())
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) updateOptions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := firstReportRow + len(m.reports)

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateFilePicker
		m.selectedFile = ""
		m.cursor = 0
		m.sheetInput.Blur()
		m.outputInput.Blur()
		return m, nil
	case "up", "shift+tab":
		m.cursor = (m.cursor - 1 + total) % total
		return m, m.syncFocus()
	case "down", "tab":
		m.cursor = (m.cursor + 1) % total
		return m, m.syncFocus()
	case "enter":
		if m.hasSelectedReports() {
			return m.startRun()
		}
		return m, nil
	case " ":
		if m.cursor >= firstReportRow {
			idx := m.cursor - firstReportRow
			m.reports[idx].selected = !m.reports[idx].selected
			return m, nil
		}
	}

	// Unhandled keys go to whichever input has focus
	var cmd tea.Cmd
	switch m.cursor {
	case 0:
		m.sheetInput, cmd = m.sheetInput.Update(msg)
	case 1:
		m.outputInput, cmd = m.outputInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncFocus() tea.Cmd {
	m.sheetInput.Blur()
	m.outputInput.Blur()
	m.sheetInput.PromptStyle = BlurredInputStyle
	m.outputInput.PromptStyle = BlurredInputStyle

	switch m.cursor {
	case 0:
		m.sheetInput.PromptStyle = FocusedInputStyle
		return m.sheetInput.Focus()
	case 1:
		m.outputInput.PromptStyle = FocusedInputStyle
		return m.outputInput.Focus()
	}
	return nil
}

func (m Model) hasSelectedReports() bool {
	for _, choice := range m.reports {
		if choice.selected {
			return true
		}
	}
	return false
}

func (m Model) selectedSpecs() []report.Specification {
	var specs []report.Specification
	for _, choice := range m.reports {
		if choice.selected {
			specs = append(specs, choice.spec)
		}
	}
	return specs
}

func (m Model) startRun() (Model, tea.Cmd) {
	m.state = stateProcessing
	m.currentStep = ""
	m.progressChan = make(chan progressUpdate, 16)
	m.resultChan = make(chan runResultMsg, 1)

	output := validation.EnsureWorkbookExt(strings.TrimSpace(m.outputInput.Value()))
	params := pipeline.NewParams(m.cfg, m.selectedFile, output,
		strings.TrimSpace(m.sheetInput.Value()), m.selectedSpecs())

	// Capture the channels for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	params.OnProgress = func(step string, completed, total int) {
		progressChan <- progressUpdate{step: step, completed: completed, total: total}
	}

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := pipeline.Run(context.Background(), params)
				resultChan <- runResultMsg{result: result, err: err}
				close(progressChan)
				close(resultChan)
			}()
			return waitForProgressMsg{}
		},
		waitForProgress(progressChan, resultChan),
		m.progress.Init(),
	)
	return m, cmd
}

func waitForProgress(progressChan chan progressUpdate, resultChan chan runResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		update, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(update)
	}
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_отчет.xlsx"
}
