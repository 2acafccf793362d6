package domain

// Intent is the classified purpose of a user message. The zero value is
// IntentInformation, the fallthrough when no classification rule fires.
type Intent int

const (
	IntentInformation Intent = iota
	IntentGreeting
	IntentThanks
	IntentIdentity
	IntentListCategories
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentThanks:
		return "thanks"
	case IntentIdentity:
		return "identity"
	case IntentListCategories:
		return "list_categories"
	case IntentInformation:
		return "information"
	}
	return "unknown"
}
