package engine

import (
	"strings"

	"dataset-agent/internal/domain"
)

var (
	greetingKeywords = []string{"halo", "hai", "hello", "selamat pagi", "selamat siang", "selamat sore", "selamat malam"}
	thanksKeywords   = []string{"terima kasih", "makasih", "thanks", "thank you"}
	identityKeywords = []string{"siapa kamu", "kamu siapa", "siapa anda", "kamu itu apa"}
	listKeywords     = []string{"daftar data", "kategori", "data apa saja", "list data"}
)

// Classify labels raw input with the first intent whose keyword set appears
// in it. Rules fire in fixed priority order and short-circuit; anything else,
// including empty input, is an informational query.
func (e *Engine) Classify(text string) domain.Intent {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, greetingKeywords):
		return domain.IntentGreeting
	case containsAny(t, thanksKeywords):
		return domain.IntentThanks
	case containsAny(t, identityKeywords):
		return domain.IntentIdentity
	case containsAny(t, listKeywords):
		return domain.IntentListCategories
	}
	return domain.IntentInformation
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
