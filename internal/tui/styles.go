package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/surveyboard/internal/loading"
	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/survey"
)

var (
	brand     = lipgloss.Color("#0075BE")
	muted     = lipgloss.Color("241")
	danger    = lipgloss.Color("#DC2626")
	warning   = lipgloss.Color("#D97706")
	successC  = lipgloss.Color("#16A34A")
	infoC     = lipgloss.Color("#2563EB")
	secondary = lipgloss.Color("245")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(brand)
	subtleStyle    = lipgloss.NewStyle().Foreground(muted)
	activeTab      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(brand).Padding(0, 1)
	inactiveTab    = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedRow    = lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(muted)
	errorText      = lipgloss.NewStyle().Foreground(danger)
	focusedField   = lipgloss.NewStyle().Foreground(brand).Bold(true)
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(brand).Padding(1, 2)
	fadingCard     = cardStyle.BorderForeground(muted).Faint(true)
	confirmCard    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(1, 2)
	buttonStyle    = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder())
	buttonSelected = buttonStyle.Bold(true).Reverse(true)
)

// statusColor follows the badge variants: success, warning, secondary, primary.
func statusColor(s survey.Status) lipgloss.Color {
	switch s {
	case survey.StatusPublished:
		return successC
	case survey.StatusDraft:
		return warning
	case survey.StatusScheduled:
		return brand
	default:
		return secondary
	}
}

func badge(s survey.Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Bold(true).Render(string(s))
}

func toastColor(c notify.Category) lipgloss.Color {
	switch c {
	case notify.Success:
		return successC
	case notify.Danger:
		return danger
	case notify.Warning:
		return warning
	default:
		return infoC
	}
}

func loadingColor(c loading.Color) lipgloss.Color {
	switch c {
	case loading.Purple:
		return lipgloss.Color("#7C3AED")
	case loading.Green:
		return successC
	case loading.Orange:
		return lipgloss.Color("#EA580C")
	case loading.Pink:
		return lipgloss.Color("#DB2777")
	case loading.Indigo:
		return lipgloss.Color("#4F46E5")
	default:
		return brand
	}
}
