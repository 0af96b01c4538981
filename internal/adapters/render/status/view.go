package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/jobgate/internal/application"
	"github.com/bnema/jobgate/internal/domain"
)

type RenderOptions struct {
	StaleAfter time.Duration
}

func renderView(status application.Status, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Job Quota Status"),
		s.header.Render(fmt.Sprintf("account: %s", status.AccountID)),
		s.section.Render(renderPlan(status, s)),
		s.section.Render(renderJobs(status, opts, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPlan(status application.Status, s styles) string {
	parts := []string{s.plan.Render(planTitle(status))}

	if status.PlanExpired {
		parts = append(parts, s.warning.Render(fmt.Sprintf("%s plan expired, %s limits apply",
			strings.ToUpper(string(status.PlanState.StoredTier())), strings.ToUpper(string(status.Effective.ID)))))
	}

	tier := status.Effective
	parts = append(parts,
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.key.Render("slots:"), " ",
			renderSlotBar(len(status.ActiveJobs), tier.MaxConcurrent, 12, s), " ",
			s.detail.Render(fmt.Sprintf("%d/%d running, %d free", len(status.ActiveJobs), tier.MaxConcurrent, status.SlotsFree())),
		),
		s.detail.Render(fmt.Sprintf("max duration: %s", formatSeconds(tier.MaxDurationSeconds))),
		s.detail.Render(fmt.Sprintf("methods: %s", tier.Methods)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func planTitle(status application.Status) string {
	if !status.PlanLoaded {
		return fmt.Sprintf("Plan: %s (plan unavailable, using most restrictive limits)", strings.ToUpper(string(status.Effective.ID)))
	}

	title := fmt.Sprintf("Plan: %s", strings.ToUpper(string(status.Effective.ID)))
	expiresAt := status.PlanState.ExpiresAt
	if status.PlanExpired || expiresAt.IsZero() || status.Effective.ID == domain.PlanFree {
		return title
	}

	return fmt.Sprintf("%s (%s)", title, formatExpiry(expiresAt, status.Now))
}

func renderJobs(status application.Status, opts RenderOptions, s styles) string {
	heading := s.title.Render(fmt.Sprintf("Running jobs (%d)", len(status.ActiveJobs)))
	if stale := snapshotMarker(status, opts, s); stale != "" {
		heading += " " + stale
	}

	if !status.JobsLoaded {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("Job list unavailable."))
	}
	if len(status.ActiveJobs) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("No running jobs."))
	}

	lines := []string{heading}
	for _, job := range status.ActiveJobs {
		lines = append(lines, jobLine(job, status.Now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func snapshotMarker(status application.Status, opts RenderOptions, s styles) string {
	if !status.JobsLoaded || opts.StaleAfter <= 0 {
		return ""
	}
	if status.SnapshotAge() > opts.StaleAfter {
		return s.warning.Render("[stale]")
	}
	return ""
}

func jobLine(job domain.Job, now time.Time, s styles) string {
	remaining := job.Remaining(now)
	endStyle := lipgloss.NewStyle().Foreground(remainingColor(remaining, time.Duration(job.DurationSeconds)*time.Second))
	ends := "ends: unknown"
	if _, ok := job.Expiry(); ok {
		ends = fmt.Sprintf("ends in %s", formatDuration(remaining))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render(fmt.Sprintf("#%s", job.ID)),
		" ",
		s.detail.Render(strings.ToUpper(job.Method)),
		" ",
		s.detail.Render(fmt.Sprintf("%s:%d", job.Target, job.Port)),
		" ",
		endStyle.Render(fmt.Sprintf("(%s)", ends)),
	)
}

func renderSlotBar(used, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * float64(used) / float64(total)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatExpiry(expiresAt, now time.Time) string {
	if now.IsZero() {
		return "expires " + expiresAt.Format(time.RFC3339)
	}

	remaining := expiresAt.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("expires in %d %s (%s)", hours, suffix, expiresAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}

	return fmt.Sprintf("expires in %d %s (%s)", days, suffix, expiresAt.Format("15:04 on 02 Jan"))
}

func formatSeconds(seconds int) string {
	return formatDuration(time.Duration(seconds) * time.Second)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%02ds", minutes, seconds)
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// 256-colour greyscale ramp from faded (240) to bright (255).
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}

// remainingColor brightens as a job approaches its end.
func remainingColor(remaining, total time.Duration) lipgloss.Color {
	if total <= 0 {
		return lipgloss.Color("255")
	}
	return interpolateColor(total.Seconds()-remaining.Seconds(), 0, total.Seconds())
}
