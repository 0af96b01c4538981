package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/jobgate/internal/domain"
)

// RenderPlans lists the catalog tiers, highlighting current.
func RenderPlans(tiers []domain.PlanTier, current domain.PlanID) string {
	s := newStyles()
	lines := []string{
		s.title.Render("Plans"),
		s.header.Render(fmt.Sprintf("tiers: %d", len(tiers))),
	}

	for _, tier := range tiers {
		name := strings.ToUpper(string(tier.ID))
		nameStyle := s.plan
		if tier.ID == current {
			name += " (current)"
			nameStyle = s.current
		}

		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			nameStyle.Render(name),
			s.detail.Render(fmt.Sprintf("concurrent jobs: %d", tier.MaxConcurrent)),
			s.detail.Render(fmt.Sprintf("max duration: %s", formatSeconds(tier.MaxDurationSeconds))),
			s.meta.Render(fmt.Sprintf("methods: %s", tier.Methods)),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
