package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webbridge/internal/cli/simulator"
	"github.com/bnema/webbridge/internal/domain/build"
	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/infrastructure/monitoring"
)

// ReportRenderer renders simulation reports.
type ReportRenderer struct {
	theme *Theme
}

// NewReportRenderer creates a report renderer.
func NewReportRenderer(theme *Theme) *ReportRenderer {
	return &ReportRenderer{theme: theme}
}

// Render renders a report with its host traffic and outcomes.
func (r *ReportRenderer) Render(report *simulator.Report) string {
	t := r.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Scenario " + report.Scenario))
	b.WriteString("\n\n")

	if len(report.Events) > 0 {
		b.WriteString(t.Subtitle.Render("Steps"))
		b.WriteString("\n")
		for _, e := range report.Events {
			kind := t.MutedBadge(e.Kind)
			if e.Kind == "error" {
				kind = t.StatusBadge(e.Kind, t.Background, t.Error)
			}
			fmt.Fprintf(&b, "  %s %s %s\n", t.Subtle.Render(fmt.Sprintf("#%d", e.Step)), kind, e.Detail)
		}
		b.WriteString("\n")
	}

	b.WriteString(t.Subtitle.Render("Host traffic"))
	b.WriteString("\n")
	for _, c := range report.Calls {
		fmt.Fprintf(&b, "  %s %s %s\n", t.HelpKey.Render("invoke"), c.Method, t.Subtle.Render(string(c.Mode)))
	}
	for _, n := range report.Notifications {
		fmt.Fprintf(&b, "  %s %s %s\n", t.HelpKey.Render("notify"), n.Method, t.Subtle.Render(notificationDetail(n.Args)))
	}
	if len(report.Calls)+len(report.Notifications) == 0 {
		b.WriteString(t.Subtle.Render("  none"))
		b.WriteString("\n")
	}

	if len(report.Outcomes) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Subtitle.Render("Outcomes"))
		b.WriteString("\n")
		for _, o := range report.Outcomes {
			fmt.Fprintf(&b, "  %s %s %s\n", t.ResultBadge(o.Result), o.Method, t.Subtle.Render(FormatLatency(o.Latency)))
		}
	}

	if len(report.Console) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Subtitle.Render("Console"))
		b.WriteString("\n")
		for _, line := range report.Console {
			b.WriteString("  " + line + "\n")
		}
	}

	return t.Box.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderMetrics renders the per-method outcome counters.
func (r *ReportRenderer) RenderMetrics(rows []monitoring.OutcomeCount) string {
	if len(rows) == 0 {
		return ""
	}
	t := r.theme
	lines := []string{t.Subtitle.Render("Round trips")}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %-40s %s %d",
			row.Method, t.ResultBadge(entity.OutcomeResult(row.Result)), row.Count))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderVersion renders build information.
func (r *ReportRenderer) RenderVersion(info build.Info) string {
	t := r.theme
	version := info.Version
	if version == "" {
		version = "dev"
	}
	lines := []string{
		t.Title.Render("webbridge") + " " + t.Badge.Render(version),
		"",
		t.HelpDesc.Render("commit  ") + orUnknown(info.Commit),
		t.HelpDesc.Render("built   ") + orUnknown(info.BuildDate),
		t.HelpDesc.Render("go      ") + orUnknown(info.GoVersion),
		t.HelpDesc.Render("repo    ") + build.RepoURL(),
	}
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func notificationDetail(args any) string {
	switch a := args.(type) {
	case entity.ConsoleNotification:
		return a.Level.String() + " " + a.Message
	case entity.PortMessageNotification:
		return fmt.Sprintf("%s[%d] %s", a.ChannelID, a.Index, deref(a.Message))
	case entity.ListenerMessageNotification:
		return fmt.Sprintf("%s from %s: %s", a.JSObjectName, a.SourceOrigin, deref(a.Message))
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
