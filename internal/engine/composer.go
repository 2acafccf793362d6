package engine

import (
	"fmt"
	"strings"

	"dataset-agent/internal/domain"
)

// Compose renders the reply for a classified message. It is total: every
// intent and match combination yields exactly one string, and identical
// inputs always yield identical output.
func (e *Engine) Compose(intent domain.Intent, matches []domain.DatasetRecord) string {
	switch intent {
	case domain.IntentGreeting:
		return e.tpl.Greeting
	case domain.IntentThanks:
		return e.tpl.Thanks
	case domain.IntentIdentity:
		return e.tpl.Identity
	case domain.IntentListCategories:
		return e.composeCategoryList()
	case domain.IntentInformation:
		return e.composeInformation(matches)
	}
	// Unreachable while the switch above covers every Intent value.
	return e.tpl.NoData
}

// Sources returns the citations for a reply. Informational replies cite one
// source per match, or the general portal when nothing matched. Every other
// intent carries no citations.
func (e *Engine) Sources(intent domain.Intent, matches []domain.DatasetRecord) []domain.Source {
	if intent != domain.IntentInformation {
		return nil
	}
	if len(matches) == 0 {
		return []domain.Source{{Title: e.tpl.PortalTitle, URL: e.tpl.PortalURL}}
	}
	sources := make([]domain.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, domain.Source{Title: m.Title, URL: m.URL})
	}
	return sources
}

func (e *Engine) composeCategoryList() string {
	cats := domain.Categories()
	var b strings.Builder
	fmt.Fprintf(&b, e.tpl.ListHeader, len(cats))
	for i, c := range cats {
		fmt.Fprintf(&b, "\n%d. %s", i+1, c.Label())
	}
	return b.String()
}

func (e *Engine) composeInformation(matches []domain.DatasetRecord) string {
	if len(matches) == 0 {
		return e.tpl.NoData
	}
	first := matches[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Kami menemukan data %q. %s", first.Title, first.Description)
	if len(matches) > 1 {
		b.WriteString(" " + e.tpl.Related)
	}
	b.WriteString(" " + e.tpl.CallToAction)
	return b.String()
}
