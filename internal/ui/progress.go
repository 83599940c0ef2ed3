package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"polyc/internal/driver"
	"polyc/internal/sched"
)

type progressModel struct {
	title     string
	events    <-chan sched.Event
	spinner   spinner.Model
	prog      progress.Model
	steps     map[string]int // goal kind -> position in the pipeline
	terminal  string
	items     []jobItem
	index     map[string]int
	kindLabel string
	width     int
	done      bool
}

type jobItem struct {
	path   string
	status string
	step   int
	final  bool
}

type eventMsg sched.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders goal progress per
// job. kinds lists the registered goal kinds in pipeline order, the last one
// being the terminal goal. Jobs discovered during the run are appended.
func NewProgressModel(title string, files []string, kinds []string, events <-chan sched.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	steps := make(map[string]int, len(kinds))
	for i, k := range kinds {
		steps[k] = i
	}
	terminal := ""
	if len(kinds) > 0 {
		terminal = kinds[len(kinds)-1]
	}
	m := &progressModel{
		title:    title,
		events:   events,
		spinner:  sp,
		prog:     prog,
		steps:    steps,
		terminal: terminal,
		index:    make(map[string]int, len(files)),
		width:    80,
	}
	for _, file := range files {
		m.item(file)
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(sched.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.kindLabel != "" && !m.done {
		header = fmt.Sprintf("%s (%s)", header, m.kindLabel)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 14
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) item(path string) *jobItem {
	idx, ok := m.index[path]
	if !ok {
		idx = len(m.items)
		m.items = append(m.items, jobItem{path: path, status: "queued"})
		m.index[path] = idx
	}
	return &m.items[idx]
}

func (m *progressModel) applyEvent(ev sched.Event) tea.Cmd {
	it := m.item(ev.Path)
	switch ev.State {
	case sched.StateRunning:
		m.kindLabel = kindLabel(ev.Kind)
		if !it.final {
			it.status = m.kindLabel
		}
	case sched.StateSuccess:
		it.step = max(it.step, m.steps[ev.Kind]+1)
		if ev.Kind == m.terminal {
			it.status, it.final = "done", true
		}
	case sched.StateFailed:
		it.status, it.final = "error", true
	case sched.StateUnreachable:
		if !it.final {
			it.status, it.final = "skipped", true
		}
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 || len(m.steps) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		if it.final {
			total++
			continue
		}
		total += float64(it.step) / float64(len(m.steps))
	}
	return total / float64(len(m.items))
}

func kindLabel(kind string) string {
	switch kind {
	case driver.KindParsed:
		return "parsing"
	case driver.KindTypesBuilt:
		return "building types"
	case driver.KindDisambiguated:
		return "resolving"
	case driver.KindTypeChecked:
		return "type checking"
	case driver.KindExceptionChecked:
		return "exceptions"
	case driver.KindTranslated:
		return "translating"
	case driver.KindCompiled:
		return "exporting"
	default:
		return strings.ToLower(kind)
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "skipped":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
