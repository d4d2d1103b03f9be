package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/osor/tray-weather/internal/settings"
	"github.com/osor/tray-weather/internal/weather"
)

// Searcher looks up places by name.
type Searcher interface {
	SearchLocation(ctx context.Context, name, language string) ([]weather.Location, error)
}

// Store persists the chosen settings.
type Store interface {
	Load() (settings.Settings, error)
	Save(settings.Settings) error
}

type phase int

const (
	phaseInput phase = iota
	phaseSearching
	phaseResults
	phaseSaving
	phaseDone
)

type searchResultMsg struct {
	results []weather.Location
	err     error
}

type savedMsg struct {
	settings settings.Settings
	err      error
}

// Model is the bubbletea model of the setup command.
type Model struct {
	ctx      context.Context
	searcher Searcher
	store    Store
	language string
	base     settings.Settings

	phase   phase
	input   textinput.Model
	spinner spinner.Model
	results []weather.Location
	cursor  int
	status  string
	saved   *settings.Settings

	styles styles
}

// New builds the model. Settings already on disk provide the values the
// command does not ask for; otherwise the defaults are used.
func New(ctx context.Context, searcher Searcher, store Store, language string) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if language == "" {
		language = "en"
	}
	base, err := store.Load()
	if err != nil {
		base = settings.Default()
	}

	input := textinput.New()
	input.Placeholder = "City or place name"
	input.CharLimit = 100
	input.Width = 40
	input.Prompt = "> "
	input.Focus()
	if !base.Location.IsZero() {
		input.SetValue(base.Location.Name)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		searcher: searcher,
		store:    store,
		language: language,
		base:     base,
		input:    input,
		spinner:  sp,
		styles:   defaultStyles(),
	}
}

// Saved returns the settings written to the store, or nil if the user quit
// before picking a place.
func (m Model) Saved() *settings.Settings {
	return m.saved
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchResultMsg:
		return m.handleResults(msg)

	case savedMsg:
		if msg.err != nil {
			m.phase = phaseResults
			m.status = fmt.Sprintf("Settings could not be saved: %v", msg.err)
			return m, nil
		}
		s := msg.settings
		m.saved = &s
		m.phase = phaseDone
		return m, tea.Quit

	case spinner.TickMsg:
		if m.phase != phaseSearching && m.phase != phaseSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.phase == phaseInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseInput:
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				m.status = "Type a place name to search."
				return m, nil
			}
			m.phase = phaseSearching
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.search(query))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseResults:
		switch msg.String() {
		case "esc":
			m.phase = phaseInput
			m.results = nil
			m.status = ""
			return m, m.input.Focus()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "enter":
			m.phase = phaseSaving
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.save(m.results[m.cursor]))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	m.phase = phaseInput
	switch {
	case msg.err != nil:
		m.status = weather.Message(msg.err)
	case len(msg.results) == 0:
		m.status = "No places found."
	default:
		m.phase = phaseResults
		m.results = msg.results
		m.cursor = 0
		m.status = ""
	}
	return m, nil
}

func (m Model) search(query string) tea.Cmd {
	ctx, searcher, language := m.ctx, m.searcher, m.language
	return func() tea.Msg {
		results, err := searcher.SearchLocation(ctx, query, language)
		return searchResultMsg{results: results, err: err}
	}
}

func (m Model) save(loc weather.Location) tea.Cmd {
	base, store := m.base, m.store
	return func() tea.Msg {
		next, err := settings.New(loc, base.IconTheme, base.AutorunEnabled, base.UpdateInterval)
		if err != nil {
			return savedMsg{err: err}
		}
		if err := store.Save(next); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{settings: next}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	st := m.styles
	var b strings.Builder
	b.WriteString(st.Title.Render("Tray Weather setup"))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseInput:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(st.Help.Render("enter search • esc quit"))
	case phaseSearching:
		b.WriteString(m.spinner.View() + " Searching...")
	case phaseResults:
		for i, loc := range m.results {
			line := describe(loc)
			if i == m.cursor {
				b.WriteString(st.Selected.Render("▸ " + line))
			} else {
				b.WriteString(st.Item.Render("  " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString(st.Help.Render("↑/↓ choose • enter save • esc search again"))
	case phaseSaving:
		b.WriteString(m.spinner.View() + " Saving...")
	case phaseDone:
		if m.saved != nil {
			b.WriteString(st.Success.Render("Saved " + m.saved.Location.HumanReadable()))
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(st.Error.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func describe(loc weather.Location) string {
	text := loc.HumanReadable()
	if loc.Timezone != "" {
		text += " (" + loc.Timezone + ")"
	}
	return text
}

// Run starts the setup program on the terminal and returns the saved
// settings, or nil when the user quit.
func Run(ctx context.Context, searcher Searcher, store Store, language string) (*settings.Settings, error) {
	program := tea.NewProgram(New(ctx, searcher, store, language), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("run setup: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Saved(), nil
	}
	return nil, nil
}

type styles struct {
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#719cd6")).Bold(true),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("#cdcecf")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#cdcecf")).Background(lipgloss.Color("#2b3b51")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#738091")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")),
	}
}
