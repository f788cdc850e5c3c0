package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "tempo/internal/modules/analytics/dto"
	"tempo/internal/platform/timefmt"
	"tempo/internal/ui/theme"
)

type Port interface {
	Overview(ctx context.Context) (analyticsdto.OverviewOutput, error)
	Suggest(ctx context.Context, all bool) ([]analyticsdto.SuggestionOutput, error)
}

// ReloadMsg asks the view to recompute after a mutation.
type ReloadMsg struct{}

type LoadedMsg struct {
	Overview    analyticsdto.OverviewOutput
	Suggestions []analyticsdto.SuggestionOutput
	Err         error
}

type Model struct {
	port   Port
	now    func() time.Time
	data   LoadedMsg
	body   viewport.Model
	width  int
	height int
}

func New(port Port, now func() time.Time) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, now: now, body: vp}
}

func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width - 2
		m.body.Height = msg.Height - 2
		m.body.SetContent(m.render())
		return m, nil
	case ReloadMsg:
		return m, m.loadCmd()
	case LoadedMsg:
		m.data = msg
		m.body.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.body.View())
}

func (m Model) render() string {
	d := m.data
	if d.Err != nil {
		return theme.Muted.Render("insights unavailable: " + d.Err.Error())
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("This week") + "\n")
	peak := 0
	for _, day := range d.Overview.Week {
		peak = max(peak, day.Count)
	}
	barW := max(m.width/2, 10)
	for _, day := range d.Overview.Week {
		n := 0
		if peak > 0 {
			n = day.Count * barW / peak
		}
		sb.WriteString(fmt.Sprintf("%s %s %d\n",
			theme.Muted.Render(day.Day.Format("Mon")),
			lipgloss.NewStyle().Foreground(theme.Green).Render(strings.Repeat("█", n)),
			day.Count))
	}

	sb.WriteString("\n" + theme.Title.Render("Distribution") + "\n")
	if len(d.Overview.Distribution) == 0 {
		sb.WriteString(theme.Muted.Render("no records yet") + "\n")
	}
	for _, s := range d.Overview.Distribution {
		sb.WriteString(fmt.Sprintf("%s %-20s %4d  %5.1f%%\n",
			theme.Swatch(s.Color).Render("●"), s.Name, s.Count, s.Percent))
	}

	sb.WriteString("\n" + theme.Title.Render("Not yet today") + "\n")
	if len(d.Suggestions) == 0 {
		sb.WriteString(theme.Muted.Render("everything tracked today") + "\n")
	}
	now := m.now()
	for _, s := range d.Suggestions {
		last := "never tracked"
		if !s.LastTracked.IsZero() {
			last = "last " + timefmt.Relative(s.LastTracked, now)
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n", theme.Swatch(s.Color).Render("●"), s.Name, theme.Muted.Render(last)))
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		overview, err := m.port.Overview(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		suggestions, err := m.port.Suggest(ctx, true)
		return LoadedMsg{Overview: overview, Suggestions: suggestions, Err: err}
	}
}
