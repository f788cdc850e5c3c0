package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "tempo/internal/modules/analytics/dto"
	trackerdto "tempo/internal/modules/tracker/dto"
	"tempo/internal/platform/timefmt"
	"tempo/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type TrackerPort interface {
	ListActivities(ctx context.Context) []trackerdto.ActivityOutput
}

type AnalyticsPort interface {
	Stats(ctx context.Context, activityID string) ([]analyticsdto.StatisticsOutput, error)
	Trends(ctx context.Context, activityID string, days int) ([]analyticsdto.TrendOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// ReloadMsg asks the view to re-read activities after a mutation.
type ReloadMsg struct{}

type ActivitiesLoadedMsg struct {
	Activities []trackerdto.ActivityOutput
}

type DetailLoadedMsg struct {
	ActivityID string
	Stats      analyticsdto.StatisticsOutput
	Week       []analyticsdto.TrendOutput
	Err        error
}

// ─── list item ───────────────────────────────────────────────────────────────

type activityItem struct {
	activity trackerdto.ActivityOutput
	now      time.Time
}

func (i activityItem) Title() string {
	swatch := theme.Swatch(i.activity.Color).Render("●")
	return swatch + " " + i.activity.Name
}

func (i activityItem) Description() string {
	a := i.activity
	switch {
	case a.Tracking:
		return "tracking " + timefmt.Elapsed(i.now.Sub(a.TrackingStartedAt))
	case a.LastTracked.IsZero():
		return a.Type + "  never tracked"
	default:
		return a.Type + "  " + timefmt.Relative(a.LastTracked, i.now)
	}
}

func (i activityItem) FilterValue() string { return i.activity.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	tracker   TrackerPort
	analytics AnalyticsPort
	now       func() time.Time

	list    list.Model
	detail  DetailLoadedMsg
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(tracker TrackerPort, analytics AnalyticsPort, now func() time.Time) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Activities"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		tracker:   tracker,
		analytics: analytics,
		now:       now,
		list:      l,
		preview:   vp,
		spinner:   sp,
		loading:   true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadActivitiesCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ReloadMsg:
		return m, m.loadActivitiesCmd()

	case ActivitiesLoadedMsg:
		m.loading = false
		cmds = append(cmds, m.list.SetItems(m.items(msg.Activities)))
		if id, ok := m.SelectedID(); ok {
			cmds = append(cmds, m.loadDetailCmd(id))
		} else {
			m.detail = DetailLoadedMsg{}
			m.preview.SetContent(m.renderDetail())
		}
		return m, tea.Batch(cmds...)

	case DetailLoadedMsg:
		if id, ok := m.SelectedID(); ok && id == msg.ActivityID {
			m.detail = msg
			m.preview.SetContent(m.renderDetail())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedID(); ok {
				cmds = append(cmds, m.loadDetailCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading activities…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted activity.
func (m Model) Selected() (trackerdto.ActivityOutput, bool) {
	if item, ok := m.list.SelectedItem().(activityItem); ok {
		return item.activity, true
	}
	return trackerdto.ActivityOutput{}, false
}

func (m Model) SelectedID() (string, bool) {
	a, ok := m.Selected()
	return a.ID, ok
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Refresh re-renders descriptions so running timers stay current.
func (m *Model) Refresh() tea.Cmd {
	if m.loading {
		return nil
	}
	current := make([]trackerdto.ActivityOutput, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if item, ok := it.(activityItem); ok {
			current = append(current, item.activity)
		}
	}
	return m.list.SetItems(m.items(current))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) items(activities []trackerdto.ActivityOutput) []list.Item {
	now := m.now()
	items := make([]list.Item, len(activities))
	for i, a := range activities {
		items[i] = activityItem{activity: a, now: now}
	}
	return items
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	a, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No activities yet. Press : and run new <name>")
	}
	var sb strings.Builder
	sb.WriteString(theme.Swatch(a.Color).Bold(true).Render(a.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("type:     ") + a.Type + "\n")
	if a.Tracking {
		sb.WriteString(theme.Muted.Render("tracking: ") +
			theme.Hot.Render(timefmt.Elapsed(m.now().Sub(a.TrackingStartedAt))) + "\n")
	}
	if n := a.Notification; n != nil && n.Enabled {
		sb.WriteString(fmt.Sprintf("%s%dh %dm %ds\n", theme.Muted.Render("reminder: "), n.Hours, n.Minutes, n.Seconds))
	}

	d := m.detail
	if d.ActivityID != a.ID {
		return sb.String()
	}
	if d.Err != nil {
		sb.WriteString("\n" + theme.Muted.Render("stats unavailable: "+d.Err.Error()) + "\n")
		return sb.String()
	}
	s := d.Stats
	sb.WriteString("\n" + theme.Title.Render("Statistics") + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("records:  "), s.RecordCount))
	sb.WriteString(fmt.Sprintf("%s%d day(s)\n", theme.Muted.Render("streak:   "), s.Streak))
	sb.WriteString(fmt.Sprintf("%s%.2f/day\n", theme.Muted.Render("weekly:   "), s.CompletionRate))
	if s.TotalDuration > 0 {
		sb.WriteString(theme.Muted.Render("total:    ") + timefmt.Duration(s.TotalDuration) + "\n")
		sb.WriteString(theme.Muted.Render("average:  ") + timefmt.Clock(s.AverageDuration) + "\n")
		sb.WriteString(theme.Muted.Render("longest:  ") + timefmt.Clock(s.LongestSession) + "\n")
	}
	if len(d.Week) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Last 7 days") + "\n")
		for _, t := range d.Week {
			bar := theme.Swatch(a.Color).Render(strings.Repeat("█", t.Count))
			sb.WriteString(fmt.Sprintf("%s %s %d\n", theme.Muted.Render(t.Day.Format("Mon")), bar, t.Count))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter/t: track or stop  :: commands"))
	return sb.String()
}

func (m Model) loadActivitiesCmd() tea.Cmd {
	return func() tea.Msg {
		return ActivitiesLoadedMsg{Activities: m.tracker.ListActivities(context.Background())}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out := DetailLoadedMsg{ActivityID: id}
		stats, err := m.analytics.Stats(ctx, id)
		if err != nil {
			out.Err = err
			return out
		}
		if len(stats) > 0 {
			out.Stats = stats[0]
		}
		out.Week, out.Err = m.analytics.Trends(ctx, id, 7)
		return out
	}
}
