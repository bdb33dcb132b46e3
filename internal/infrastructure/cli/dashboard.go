package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/cadence/pkg/application"
)

var dashboardStart string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <plan>",
	Short: "Interactive TUI dashboard for a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		ref, err := parseStart(dashboardStart)
		if err != nil {
			return err
		}
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		report, err := application.NewReportService(ws.Logger).Build(*plan, ref)
		if err != nil {
			return err
		}

		if os.Getenv("CADENCE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(newDashboardModel(report, ws.Config.DateFormat))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardStart, "start", "", "Reference date YYYY-MM-DD (defaults to today)")
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

type dashboardPane int

const (
	paneTasks dashboardPane = iota
	paneWorkload
)

type dashboardModel struct {
	tasks    table.Model
	workload table.Model
	focus    dashboardPane
	report   application.Report
	format   string
}

func newDashboardModel(report application.Report, dateFormat string) dashboardModel {
	if dateFormat == "" {
		dateFormat = "Jan 02"
	}

	taskRows := make([]table.Row, 0, len(report.Plan.Tasks))
	for i, t := range report.Plan.Tasks {
		entry := report.Schedule.Entries[i]
		taskRows = append(taskRows, table.Row{
			strconv.Itoa(t.ID),
			t.Name,
			t.Owner,
			entry.StartDate.Format(dateFormat),
			entry.EndDate.Format(dateFormat),
			ganttBar(t, report.Plan.TotalDays()),
			flagCell(entry.IsCritical, "●"),
			flagCell(entry.IsMilestone, "◆"),
		})
	}

	tasks := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Task", Width: 28},
			{Title: "Owner", Width: 14},
			{Title: "Start", Width: 8},
			{Title: "End", Width: 8},
			{Title: "Timeline", Width: maxBarWidth},
			{Title: "Crit", Width: 4},
			{Title: "Mile", Width: 4},
		}),
		table.WithRows(taskRows),
		table.WithFocused(true),
		table.WithHeight(min(max(len(taskRows), 1), 15)),
	)

	workloadRows := make([]table.Row, 0, len(report.Workload))
	for _, e := range report.Workload {
		workloadRows = append(workloadRows, table.Row{
			e.Owner,
			strconv.Itoa(e.TaskCount),
			strconv.Itoa(e.TotalDuration),
			fmt.Sprintf("%d%%", report.Utilization[e.Owner]),
		})
	}
	workload := table.New(
		table.WithColumns([]table.Column{
			{Title: "Owner", Width: 16},
			{Title: "Tasks", Width: 6},
			{Title: "Days", Width: 6},
			{Title: "Load", Width: 6},
		}),
		table.WithRows(workloadRows),
		table.WithHeight(min(max(len(workloadRows), 1), 8)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	tasks.SetStyles(s)
	workload.SetStyles(s)

	return dashboardModel{
		tasks:    tasks,
		workload: workload,
		focus:    paneTasks,
		report:   report,
		format:   dateFormat,
	}
}

func flagCell(set bool, mark string) string {
	if set {
		return mark
	}
	return ""
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == paneTasks {
				m.focus = paneWorkload
				m.tasks.Blur()
				m.workload.Focus()
			} else {
				m.focus = paneTasks
				m.workload.Blur()
				m.tasks.Focus()
			}
			return m, nil
		}
	}
	if m.focus == paneTasks {
		m.tasks, cmd = m.tasks.Update(msg)
	} else {
		m.workload, cmd = m.workload.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) View() string {
	plan := m.report.Plan
	schedule := m.report.Schedule

	header := headerStyle.Render(plan.ProjectName)
	span := fmt.Sprintf("%s → %s", schedule.ReferenceDate.Format(m.format), schedule.ProjectEnd.Format(m.format))
	if total, ok := plan.Duration(); ok {
		span += fmt.Sprintf(" · %d days", total)
	} else {
		span += " · no total duration"
	}
	summary := fmt.Sprintf("%s critical · %s milestones",
		criticalStyle.Render(strconv.Itoa(m.report.Summary.CriticalCount)),
		milestoneStyle.Render(strconv.Itoa(m.report.Summary.MilestoneCount)))

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			span,
			summary,
			"\nTasks:",
			m.tasks.View(),
			"\nWorkload:",
			m.workload.View(),
			mutedStyle.Render("\ntab: switch pane · q: quit"),
		),
	) + "\n"
}
