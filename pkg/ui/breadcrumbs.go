package ui

import (
	"strings"

	"github.com/matzehuels/adminstack/pkg/stack"
)

// BackLabel is the text of the back button.
const BackLabel = "Zurück"

// Separator between breadcrumb titles.
const Separator = " › "

// Breadcrumbs renders the trail of visible pages. The last page is the
// current one and is highlighted.
func Breadcrumbs(pages []stack.Breadcrumb, theme Theme) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		title := p.Title
		if title == "" {
			title = p.URL
		}
		if i == len(pages)-1 {
			parts[i] = theme.TitleStyle().Render(title)
		} else {
			parts[i] = theme.MutedStyle().Render(title)
		}
	}
	return strings.Join(parts, theme.DimStyle().Render(Separator))
}

// BackButton renders the back button, dimmed when there is nowhere to go.
func BackButton(canGoBack bool, theme Theme) string {
	label := ArrowPrevious + " " + BackLabel
	if !canGoBack {
		return theme.DimStyle().Render(label)
	}
	return theme.ActiveStyle().Render(label)
}

// Header renders the back button and the breadcrumb trail of s on one line.
func Header(s *stack.Stack, theme Theme) (string, error) {
	pages, err := s.VisibleBreadcrumbs()
	if err != nil {
		return "", err
	}
	return BackButton(s.CanGoBack(), theme) + "  " + Breadcrumbs(pages, theme), nil
}
