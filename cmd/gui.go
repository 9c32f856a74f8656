package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modfinder/installer"
	"modfinder/logger"
	"modfinder/mod"
	"modfinder/ui"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive interface to manage mods",
	Long:  `Launch an interactive TUI to browse, install, update and remove mods.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGUI(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

// Model represents the state of the TUI
type Model struct {
	ctx           context.Context
	app           *app
	inst          *installer.Installer // nil when no game path is configured
	records       []*mod.Record
	selectedIndex int
	busy          string // Description of the running action, empty when idle
	error         string
	message       string
	spinner       spinner.Model
	width         int
	height        int
}

func newModel(ctx context.Context, a *app, inst *installer.Installer) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return Model{
		ctx:     ctx,
		app:     a,
		inst:    inst,
		spinner: s,
		width:   80,
		height:  24,
	}
}

// Init loads the mod list
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadMods(), m.spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case modsLoadedMsg:
		m.records = msg.records
		if m.selectedIndex >= len(m.records) {
			m.selectedIndex = max(len(m.records)-1, 0)
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case actionDoneMsg:
		m.busy = ""
		m.message = msg.message
		m.error = msg.err
		return m, tea.Batch(
			m.loadMods(),
			tea.Tick(3*time.Second, func(time.Time) tea.Msg {
				return clearMessageMsg{}
			}),
		)
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	// Records are mutated by the running action
	if m.busy != "" {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < len(m.records)-1 {
			m.selectedIndex++
		}
	case "i":
		return m.start("Installing", m.installSelected(false))
	case "u":
		return m.start("Updating", m.installSelected(true))
	case "x":
		return m.start("Uninstalling", m.uninstallSelected())
	case "r":
		return m.start("Rolling back", m.rollbackSelected())
	case "e":
		return m.start("Saving", m.toggleSelected())
	}
	return m, nil
}

func (m Model) selected() *mod.Record {
	if len(m.records) == 0 {
		return nil
	}
	return m.records[m.selectedIndex]
}

func (m Model) start(verb string, action tea.Cmd) (tea.Model, tea.Cmd) {
	rec := m.selected()
	if rec == nil || action == nil {
		return m, nil
	}
	m.busy = fmt.Sprintf("%s %s...", verb, rec.Name())
	m.message = ""
	m.error = ""
	return m, action
}

// View renders the UI
func (m Model) View() string {
	if m.busy != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).
			Render(fmt.Sprintf("%s %s", m.spinner.View(), m.busy)) + "\n"
	}

	if len(m.records) == 0 {
		return "No mods found. Set CATALOG_URL or install a mod with install-file.\n\n" + renderFooter()
	}

	var b strings.Builder
	b.WriteString(renderHeader())
	b.WriteString("\n")
	for i, rec := range m.records {
		b.WriteString(m.renderModRow(i, rec))
		b.WriteString("\n")
	}
	b.WriteString("\n" + renderFooter())

	if m.message != "" {
		b.WriteString("\n" + ui.Colorize(m.message, ui.StatusUpToDate))
	}
	if m.error != "" {
		b.WriteString("\n" + ui.Colorize("Error: "+m.error, ui.StatusFailed))
	}
	return b.String()
}

func renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("  %-37s %-14s %-14s %-17s", "Mod Name", "Installed", "Available", "Status"))
}

func renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render("↑/k ↓/j: move  i: install  u: update  x: uninstall  r: rollback  e: enable/disable  q: quit")
}

func (m Model) renderModRow(index int, rec *mod.Record) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	enabled := " "
	if rec.Enabled {
		enabled = "✓"
	}

	status := ui.Status(rec)
	// Pad status before applying color to maintain column alignment
	coloredStatus := ui.Colorize(fmt.Sprintf("%-17s", status), status)

	row := fmt.Sprintf("%s %-37s %-14s %-14s %s",
		enabled,
		truncate(rec.Name(), 37),
		truncate(orDash(rec.InstalledString()), 14),
		truncate(orDash(rec.Latest().String()), 14),
		coloredStatus,
	)
	return rowStyle.Render(row)
}

// Message types
type modsLoadedMsg struct {
	records []*mod.Record
}

type actionDoneMsg struct {
	message string
	err     string
}

type clearMessageMsg struct{}

func done(message string, err error) tea.Msg {
	if err != nil {
		return actionDoneMsg{err: err.Error()}
	}
	return actionDoneMsg{message: message}
}

func (m Model) loadMods() tea.Cmd {
	registry := m.app.registry
	return func() tea.Msg {
		return modsLoadedMsg{records: registry.All()}
	}
}

func (m Model) installSelected(isUpdate bool) tea.Cmd {
	rec := m.selected()
	if rec == nil {
		return nil
	}
	a, inst, ctx := m.app, m.inst, m.ctx
	return func() tea.Msg {
		if inst == nil {
			return done("", fmt.Errorf("game path is not set, run 'modfinder settings --game-path <dir>'"))
		}
		if isUpdate && rec.State != mod.Installed {
			return done("", fmt.Errorf("%s is not installed", rec.Name()))
		}
		// Reinstalling over existing files snapshots them like an update
		if err := a.runInstall(ctx, inst, rec, isUpdate || rec.State == mod.Installed); err != nil {
			return done("", err)
		}
		return done(fmt.Sprintf("Installed %s %s", rec.Name(), rec.InstalledString()), nil)
	}
}

func (m Model) uninstallSelected() tea.Cmd {
	rec := m.selected()
	if rec == nil {
		return nil
	}
	a, inst := m.app, m.inst
	return func() tea.Msg {
		if inst == nil {
			return done("", fmt.Errorf("game path is not set"))
		}
		if err := inst.Uninstall(rec); err != nil {
			logger.Log.Errorw("Uninstall failed", zap.String("mod", rec.ID().String()), zap.Error(err))
			return done("", err)
		}
		if err := persistRecord(a.db, rec); err != nil {
			logger.Log.Warnw("Failed to remove mod from database", zap.String("mod", rec.ID().String()), zap.Error(err))
		}
		return done(fmt.Sprintf("Uninstalled %s", rec.Name()), nil)
	}
}

func (m Model) rollbackSelected() tea.Cmd {
	rec := m.selected()
	if rec == nil {
		return nil
	}
	a := m.app
	return func() tea.Msg {
		if err := a.rollback(rec); err != nil {
			return done("", err)
		}
		return done(fmt.Sprintf("Rolled back %s to %s", rec.Name(), rec.InstalledString()), nil)
	}
}

func (m Model) toggleSelected() tea.Cmd {
	rec := m.selected()
	if rec == nil {
		return nil
	}
	enabled := m.app.enabled
	return func() tea.Msg {
		id := rec.ID().ID
		var err error
		if rec.Enabled {
			_, err = enabled.Remove(id)
		} else {
			_, err = enabled.Add(id)
		}
		if err != nil {
			logger.Log.Errorw("Failed to save enabled modifications", zap.String("mod", id), zap.Error(err))
			return done("", err)
		}
		rec.Enabled = enabled.Contains(id)
		if rec.Enabled {
			return done(fmt.Sprintf("Enabled %s", rec.Name()), nil)
		}
		return done(fmt.Sprintf("Disabled %s", rec.Name()), nil)
	}
}

func runGUI(ctx context.Context) error {
	a := bootstrap(ctx, configPath)

	inst, err := a.newInstaller()
	if err != nil {
		logger.Log.Warnw("Installing is disabled", zap.Error(err))
	}

	p := tea.NewProgram(newModel(ctx, a, inst), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Errorw("Failed to run GUI", zap.Error(err))
		return err
	}
	return nil
}
