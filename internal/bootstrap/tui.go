package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	uiapp "tempo/internal/ui/app"
)

// RunTUI blocks until the dashboard exits.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TrackerCLI, app.AnalyticsCLI, app.Notices, app.Clock.Now)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
