package backtest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quanthelper/internal/metrics"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	reportSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	reportLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Width(20)

	reportRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Reporter renders backtest results for humans. The rendering is purely
// presentational; nothing downstream consumes it.
type Reporter struct{}

// NewReporter creates a new reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Format generates a formatted text report for a result.
func (r *Reporter) Format(result *Result) string {
	var sb strings.Builder

	rule := reportRuleStyle.Render(strings.Repeat("─", 56))

	sb.WriteString(reportTitleStyle.Render(fmt.Sprintf("BACKTEST SUMMARY: %s", strings.ToUpper(result.Symbol))))
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("\n")

	writeRow(&sb, "Period", fmt.Sprintf("%s to %s",
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02")))
	writeRow(&sb, "Initial Capital", fmt.Sprintf("$%s", result.InitialCapital.StringFixed(2)))
	writeRow(&sb, "Final Value", fmt.Sprintf("$%s", result.FinalValue.StringFixed(2)))
	if !result.TotalCosts().IsZero() {
		writeRow(&sb, "Total Costs", fmt.Sprintf("$%s", result.TotalCosts().StringFixed(2)))
	}
	sb.WriteString(rule)
	sb.WriteString("\n\n")

	sb.WriteString(reportSectionStyle.Render("STRATEGY PERFORMANCE"))
	sb.WriteString("\n")
	writeSummary(&sb, result.StrategySummary)

	sb.WriteString("\n")
	sb.WriteString(reportSectionStyle.Render("BUY & HOLD BENCHMARK"))
	sb.WriteString("\n")
	writeSummary(&sb, result.BenchmarkSummary)

	sb.WriteString("\n")
	sb.WriteString(reportSectionStyle.Render("OUTPERFORMANCE"))
	sb.WriteString("\n")
	writeRow(&sb, "vs Buy & Hold", formatPercent(result.Outperformance()))
	sb.WriteString(rule)
	sb.WriteString("\n")

	return sb.String()
}

// Summary generates a one-line summary of a result.
func (r *Reporter) Summary(result *Result) string {
	s := result.StrategySummary
	return fmt.Sprintf("%s: return %s | sharpe %.2f | max dd %s | win rate %s | vs hold %s",
		result.Symbol,
		formatPercent(s.TotalReturn),
		s.SharpeRatio,
		formatPercent(s.MaxDrawdown),
		formatPercent(s.WinRate),
		formatPercent(result.Outperformance()),
	)
}

func writeSummary(sb *strings.Builder, s metrics.Summary) {
	writeRow(sb, "Total Return", formatPercent(s.TotalReturn))
	writeRow(sb, "Sharpe Ratio", fmt.Sprintf("%.2f", s.SharpeRatio))
	writeRow(sb, "Max Drawdown", formatPercent(s.MaxDrawdown))
	writeRow(sb, "Volatility", formatPercent(s.Volatility))
	writeRow(sb, "Win Rate", formatPercent(s.WinRate))
	writeRow(sb, "Mean Period Return", formatPercent(s.MeanReturn))
	writeRow(sb, "Best / Worst Period", fmt.Sprintf("%s / %s", formatPercent(s.BestPeriod), formatPercent(s.WorstPeriod)))
	writeRow(sb, "Periods", fmt.Sprintf("%d", s.Periods))
}

func writeRow(sb *strings.Builder, label, value string) {
	sb.WriteString(reportLabelStyle.Render(label + ":"))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
