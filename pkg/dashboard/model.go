package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultSubjects are offered when no subject list is configured.
var DefaultSubjects = []string{"ai-ml-course", "maths", "web-dev", "cs-theory", "history"}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Dec     key.Binding
	Inc     key.Binding
	DecFast key.Binding
	IncFast key.Binding
	Predict key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:    key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next")),
		Dec:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Inc:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		DecFast: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "decrease ×10")),
		IncFast: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "increase ×10")),
		Predict: key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter", "predict")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Inc, k.Predict, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Dec, k.Inc, k.DecFast, k.IncFast},
		{k.Predict, k.Reset, k.Help, k.Quit},
	}
}

// ─── sliders ─────────────────────────────────────────────────────────────────

type slider struct {
	label string
	min   int
	max   int
	def   int
	value int
}

func (s *slider) add(d int) {
	s.value = min(s.max, max(s.min, s.value+d))
}

func defaultSliders() []slider {
	return []slider{
		{label: "Duration (minutes)", min: 1, max: 120, def: 30},
		{label: "Tab Switches", min: 0, max: 20, def: 5},
		{label: "Keystroke Rate (per minute)", min: 0, max: 25, def: 10},
		{label: "Mouse Movements", min: 0, max: 500, def: 150},
		{label: "Inactivity Periods", min: 0, max: 10, def: 2},
		{label: "Scroll Events", min: 0, max: 200, def: 50},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the Bubble Tea model of the predictor dashboard. The cursor walks
// the sliders and then the subject selector.
type Model struct {
	predictor *Predictor
	sliders   []slider
	subjects  []string
	subject   int
	cursor    int

	score    float64
	scored   bool
	insights []string

	keys     keyMap
	help     help.Model
	showHelp bool
	bar      progress.Model
	status   string
	width    int
	height   int
}

// NewModel builds the dashboard around p. Empty subjects fall back to
// DefaultSubjects.
func NewModel(p *Predictor, subjects []string) Model {
	if len(subjects) == 0 {
		subjects = DefaultSubjects
	}
	m := Model{
		predictor: p,
		sliders:   defaultSliders(),
		subjects:  append([]string(nil), subjects...),
		keys:      defaultKeys(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		status:    "enter your session parameters and press enter",
	}
	m.reset()
	return m
}

func (m *Model) reset() {
	for i := range m.sliders {
		m.sliders[i].value = m.sliders[i].def
	}
	m.subject = 0
	m.scored = false
	m.insights = nil
}

// Input returns the session currently described by the sliders.
func (m Model) Input() Input {
	v := func(i int) int { return m.sliders[i].value }
	return Input{
		DurationMinutes:   v(0),
		TabSwitches:       v(1),
		KeystrokeRate:     v(2),
		MouseMovements:    v(3),
		InactivityPeriods: v(4),
		ScrollEvents:      v(5),
		Subject:           m.subjects[m.subject],
	}
}

// Score returns the last prediction and whether one was made.
func (m Model) Score() (float64, bool) { return m.score, m.scored }

func (m Model) rows() int { return len(m.sliders) + 1 }

func (m Model) Init() tea.Cmd { return nil }

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor + m.rows() - 1) % m.rows()
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % m.rows()
		case key.Matches(msg, m.keys.Dec):
			m.adjust(-1)
		case key.Matches(msg, m.keys.Inc):
			m.adjust(1)
		case key.Matches(msg, m.keys.DecFast):
			m.adjust(-10)
		case key.Matches(msg, m.keys.IncFast):
			m.adjust(10)
		case key.Matches(msg, m.keys.Reset):
			m.reset()
			m.status = "inputs reset"
		case key.Matches(msg, m.keys.Predict):
			m.predict()
		}
	}
	return m, nil
}

func (m *Model) adjust(d int) {
	if m.cursor < len(m.sliders) {
		m.sliders[m.cursor].add(d)
		return
	}
	n := len(m.subjects)
	step := 1
	if d < 0 {
		step = -1
	}
	m.subject = (m.subject + step + n) % n
}

func (m *Model) predict() {
	in := m.Input()
	score, err := m.predictor.Predict(in)
	if err != nil {
		m.status = "predict: " + err.Error()
		return
	}
	m.score = score
	m.scored = true
	m.insights = Insights(in, score)
	m.status = fmt.Sprintf("predicted %.1f for %s", score, in.Subject)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := titleStyle.Render("Focus Productivity Predictor") + "\n" +
		mutedStyle.Render("Predict your study session productivity from behavioural metrics")

	inputs := paneActiveStyle.Render(m.renderInputs())
	result := paneStyle.Render(m.renderResult())
	body := lipgloss.JoinHorizontal(lipgloss.Top, inputs, " ", result)

	footer := mutedStyle.Render(m.status) + "\n" + m.help.View(m.keys)
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
}

func (m Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Session Input") + "\n\n")
	for i, s := range m.sliders {
		line := fmt.Sprintf("%-28s %4d  %s", s.label, s.value, mutedStyle.Render(fmt.Sprintf("[%d-%d]", s.min, s.max)))
		b.WriteString(m.cursorLine(i, line) + "\n")
	}
	line := fmt.Sprintf("%-28s < %s >", "Subject", m.subjects[m.subject])
	b.WriteString(m.cursorLine(len(m.sliders), line))
	return b.String()
}

func (m Model) cursorLine(i int, line string) string {
	if i == m.cursor {
		return selectedStyle.Render("› " + line)
	}
	return "  " + line
}

func (m Model) renderResult() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Prediction Result") + "\n\n")
	if !m.scored {
		b.WriteString(mutedStyle.Render("press enter to predict productivity") + "\n\n")
	} else {
		level := FocusLevel(m.score)
		b.WriteString(fmt.Sprintf("Productivity Score  %s\n", hotStyle.Render(fmt.Sprintf("%.1f/100", m.score))))
		b.WriteString("Focus Level         " + levelStyle(level).Render(string(level)) + "\n")
		b.WriteString(m.bar.ViewAs(m.score/MaxScore) + "\n\n")
		b.WriteString(titleStyle.Render("Insights") + "\n")
		for _, s := range m.insights {
			b.WriteString("• " + s + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(titleStyle.Render("Focus Thresholds") + "\n")
	b.WriteString(levelStyle(LevelAttentive).Render("Attentive") + "     70-100\n")
	b.WriteString(levelStyle(LevelSemiFocused).Render("Semi-Focused") + "  40-69\n")
	b.WriteString(levelStyle(LevelDistracted).Render("Distracted") + "    10-39")
	return b.String()
}
