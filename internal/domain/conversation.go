package domain

// ConversationTurn pairs a submitted question with the reply composed for it
// and the citations shown underneath. Turns belong to the presenting shell
// for display and history only; the engine never reads them back.
type ConversationTurn struct {
	Question string   `json:"question"`
	Reply    string   `json:"reply"`
	Sources  []Source `json:"sources,omitempty"`
}
