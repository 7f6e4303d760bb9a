package prompt

import "github.com/papercomputeco/plugingen/pkg/llm"

// History is the append-only record of a run's completed turns. A run issues
// at most five turns, so nothing is ever pruned.
type History struct {
	turns []llm.ConversationTurn
}

// Append records a completed turn.
func (h *History) Append(instruction, response string) {
	h.turns = append(h.turns, llm.ConversationTurn{Instruction: instruction, Response: response})
}

// Turns returns a copy of the recorded turns, oldest first.
func (h *History) Turns() []llm.ConversationTurn {
	out := make([]llm.ConversationTurn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	return len(h.turns)
}
