package llm

// ConversationTurn is one completed exchange: the instruction that was sent
// and the raw text the model answered with.
type ConversationTurn struct {
	Instruction string `json:"instruction"`
	Response    string `json:"response"`
}
