package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webbridge/internal/domain/entity"
)

// ResultBadge renders an outcome result in a color matching its path.
func (t *Theme) ResultBadge(result entity.OutcomeResult) string {
	return t.StatusBadge(string(result), t.Background, t.ResultColor(result))
}

// ResultColor maps an outcome result to a semantic color.
func (t *Theme) ResultColor(result entity.OutcomeResult) lipgloss.Color {
	switch result {
	case entity.OutcomeHandled:
		return t.Success
	case entity.OutcomeError:
		return t.Error
	case entity.OutcomeExpired, entity.OutcomeOrphaned:
		return t.Warning
	default:
		return t.Muted
	}
}

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// StatusBadge renders a status badge with custom colors.
func (t *Theme) StatusBadge(text string, fg, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1)
	return style.Render(text)
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	return relativeTo(time.Now(), tm)
}

func relativeTo(now, tm time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return tm.Format("2006-01-02")
	}
}

// FormatLatency renders a round trip duration with a unit suited to its size.
func FormatLatency(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
