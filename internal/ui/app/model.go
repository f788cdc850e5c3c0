package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "tempo/internal/modules/analytics/dto"
	"tempo/internal/modules/tracker/dto"
	"tempo/internal/ui/components"
	"tempo/internal/ui/theme"
	activitiesview "tempo/internal/ui/views/activities"
	insightsview "tempo/internal/ui/views/insights"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type trackerPort interface {
	ListActivities(ctx context.Context) []dto.ActivityOutput
	AddActivity(ctx context.Context, name, activityType, color, icon string, notify *dto.NotificationConfig) (dto.ActivityOutput, error)
	UpdateActivity(ctx context.Context, input dto.UpdateActivityInput) (dto.ActivityOutput, error)
	DeleteActivity(ctx context.Context, id string) error
	Track(ctx context.Context, activityID string, at *time.Time) (dto.TrackOutput, error)
	Stop(ctx context.Context, activityID string, at *time.Time) (dto.TrackOutput, error)
	SetReminder(ctx context.Context, activityID string, config dto.NotificationConfig) (dto.ActivityOutput, error)
	LastError(ctx context.Context) (dto.ErrorReport, bool)
	Flush(ctx context.Context) error
}

type analyticsPort interface {
	Stats(ctx context.Context, activityID string) ([]analyticsdto.StatisticsOutput, error)
	Trends(ctx context.Context, activityID string, days int) ([]analyticsdto.TrendOutput, error)
	Overview(ctx context.Context) (analyticsdto.OverviewOutput, error)
	Suggest(ctx context.Context, all bool) ([]analyticsdto.SuggestionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabActivities tabID = iota
	tabInsights
	tabCount
)

var tabLabels = [tabCount]string{"Activities", "Insights"}

// ─── async messages ───────────────────────────────────────────────────────────

type mutationMsg struct {
	status string
	err    error
}

type noticeMsg struct{ text string }

type tickMsg time.Time

const noticeTTL = 10 * time.Second

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Track   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Track:   key.NewBinding(key.WithKeys("enter", "t"), key.WithHelp("enter/t", "track or stop")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Track, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Track},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the reminder
// notice line, the global help overlay, and the command palette. All
// business logic is delegated to port interfaces; all rendering of lists
// and charts is delegated to sub-views.
type Model struct {
	tracker trackerPort
	notices <-chan string
	now     func() time.Time

	actView     activitiesview.Model
	insightView insightsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	notice    string
	noticeAt  time.Time
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(tracker trackerPort, analytics analyticsPort, notices <-chan string, now func() time.Time) Model {
	return Model{
		tracker:     tracker,
		notices:     notices,
		now:         now,
		actView:     activitiesview.New(tracker, analytics, now),
		insightView: insightsview.New(analytics, now),
		activeTab:   tabActivities,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.actView.Init(),
		m.insightView.Init(),
		m.waitNoticeCmd(),
		tickCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts key input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		if m.notice != "" && m.now().Sub(m.noticeAt) > noticeTTL {
			m.notice = ""
		}
		return m, tea.Batch(m.actView.Refresh(), tickCmd())

	case noticeMsg:
		m.notice = msg.text
		m.noticeAt = m.now()
		return m, tea.Batch(m.waitNoticeCmd(), reload)

	case mutationMsg:
		switch {
		case msg.err != nil:
			m.status = "error: " + msg.err.Error()
		default:
			m.status = msg.status
			if report, ok := m.tracker.LastError(context.Background()); ok {
				m.status += "  " + theme.Hot.Render("("+report.Kind+": "+report.Message+")")
			}
		}
		return m, reload

	case activitiesview.ReloadMsg:
		var a, b tea.Cmd
		m.actView, a = m.actView.Update(msg)
		m.insightView, b = m.insightView.Update(insightsview.ReloadMsg{})
		return m, tea.Batch(a, b)

	case activitiesview.ActivitiesLoadedMsg, activitiesview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.actView, cmd = m.actView.Update(msg)
		return m, cmd

	case insightsview.LoadedMsg:
		var cmd tea.Cmd
		m.insightView, cmd = m.insightView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabActivities && m.actView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			target := ""
			if a, ok := m.actView.Selected(); ok {
				target = a.Name
			}
			return m, m.palette.Open(target)
		case "enter", "t":
			if m.activeTab == tabActivities {
				if a, ok := m.actView.Selected(); ok {
					return m, m.toggleCmd(a)
				}
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabActivities:
		m.actView, tabCmd = m.actView.Update(msg)
	case tabInsights:
		m.insightView, tabCmd = m.insightView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabInsights:
		content = m.insightView.View()
	default:
		content = m.actView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tempo  " + strings.Join(parts, sep)
	if m.notice != "" {
		bar += "  " + theme.Notice.Render("⏰ "+m.notice)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

type command struct {
	name string
	args []string
	rest string
}

// parseCommand splits palette input into a verb, its fields, and the raw
// text after the verb.
func parseCommand(input string) (command, bool) {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return command{}, false
	}
	return command{
		name: parts[0],
		args: parts[1:],
		rest: strings.TrimSpace(strings.TrimPrefix(input, parts[0])),
	}, true
}

// reminderConfig parses "<hours> <minutes> <seconds> [message]".
func reminderConfig(args []string) (dto.NotificationConfig, error) {
	if len(args) < 3 {
		return dto.NotificationConfig{}, errors.New("usage: remind <hours> <minutes> <seconds> [message]")
	}
	var values [3]int
	for i := range values {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return dto.NotificationConfig{}, fmt.Errorf("invalid number %q", args[i])
		}
		values[i] = v
	}
	return dto.NotificationConfig{
		Enabled:       true,
		Hours:         values[0],
		Minutes:       values[1],
		Seconds:       values[2],
		CustomMessage: strings.Join(args[3:], " "),
	}, nil
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	cmd, ok := parseCommand(input)
	if !ok {
		return m, nil
	}
	selected, hasSelected := m.actView.Selected()
	needsSelection := cmd.name != "new" && cmd.name != "flush"
	if needsSelection && !hasSelected {
		m.status = "no activity selected"
		return m, nil
	}

	switch cmd.name {
	case "track":
		return m, m.mutate(func(ctx context.Context) (string, error) {
			out, err := m.tracker.Track(ctx, selected.ID, nil)
			return selected.Name + ": " + out.Outcome, err
		})

	case "stop":
		return m, m.mutate(func(ctx context.Context) (string, error) {
			out, err := m.tracker.Stop(ctx, selected.ID, nil)
			return selected.Name + ": " + out.Outcome, err
		})

	case "new":
		if len(cmd.args) == 0 {
			m.status = "usage: new <name> [instant|duration]"
			return m, nil
		}
		name, activityType := cmd.rest, "instant"
		if last := cmd.args[len(cmd.args)-1]; len(cmd.args) > 1 && (last == "instant" || last == "duration") {
			activityType = last
			name = strings.TrimSpace(strings.TrimSuffix(cmd.rest, last))
		}
		return m, m.mutate(func(ctx context.Context) (string, error) {
			out, err := m.tracker.AddActivity(ctx, name, activityType, "#007AFF", "heart", nil)
			return "added " + out.Name, err
		})

	case "rename", "color":
		if cmd.rest == "" {
			m.status = "usage: " + cmd.name + " <value>"
			return m, nil
		}
		update := dto.UpdateActivityInput{
			ID:           selected.ID,
			Name:         selected.Name,
			Color:        selected.Color,
			Icon:         selected.Icon,
			Notification: selected.Notification,
		}
		if cmd.name == "rename" {
			update.Name = cmd.rest
		} else {
			update.Color = cmd.rest
		}
		return m, m.mutate(func(ctx context.Context) (string, error) {
			out, err := m.tracker.UpdateActivity(ctx, update)
			return "updated " + out.Name, err
		})

	case "remind":
		cfg, err := reminderConfig(cmd.args)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.mutate(func(ctx context.Context) (string, error) {
			_, err := m.tracker.SetReminder(ctx, selected.ID, cfg)
			return "reminder set for " + selected.Name, err
		})

	case "remind:off":
		return m, m.mutate(func(ctx context.Context) (string, error) {
			_, err := m.tracker.SetReminder(ctx, selected.ID, dto.NotificationConfig{})
			return "reminder off for " + selected.Name, err
		})

	case "delete":
		return m, m.mutate(func(ctx context.Context) (string, error) {
			return "deleted " + selected.Name, m.tracker.DeleteActivity(ctx, selected.ID)
		})

	case "flush":
		return m, m.mutate(func(ctx context.Context) (string, error) {
			return "saved", m.tracker.Flush(ctx)
		})

	default:
		m.status = "unknown command: " + cmd.name
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.actView, _ = m.actView.Update(sz)
	m.insightView, _ = m.insightView.Update(sz)
}

func reload() tea.Msg { return activitiesview.ReloadMsg{} }

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) toggleCmd(a dto.ActivityOutput) tea.Cmd {
	return m.mutate(func(ctx context.Context) (string, error) {
		var (
			out dto.TrackOutput
			err error
		)
		if a.Tracking {
			out, err = m.tracker.Stop(ctx, a.ID, nil)
		} else {
			out, err = m.tracker.Track(ctx, a.ID, nil)
		}
		return a.Name + ": " + out.Outcome, err
	})
}

func (m Model) mutate(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := fn(context.Background())
		return mutationMsg{status: status, err: err}
	}
}

func (m Model) waitNoticeCmd() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices
	return func() tea.Msg {
		text, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{text: text}
	}
}
