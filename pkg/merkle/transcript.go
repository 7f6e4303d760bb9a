package merkle

import (
	"context"
	"fmt"

	"github.com/papercomputeco/plugingen/pkg/llm"
)

// RecordTranscript stores a run as a chain: the system message, then each
// turn's instruction and response. It returns the hash of the last node.
// Two runs with the same system message share that root and branch below it.
func RecordTranscript(ctx context.Context, s Storer, model, system string, turns []llm.ConversationTurn) (string, error) {
	node := NewNode(MessageContent(llm.RoleSystem, system, model), nil)
	if err := s.Put(ctx, node); err != nil {
		return "", fmt.Errorf("storing system node: %w", err)
	}

	for i, turn := range turns {
		node = NewNode(MessageContent(llm.RoleUser, turn.Instruction, model), node)
		if err := s.Put(ctx, node); err != nil {
			return "", fmt.Errorf("storing instruction %d: %w", i, err)
		}

		node = NewNode(MessageContent(llm.RoleAssistant, turn.Response, model), node)
		if err := s.Put(ctx, node); err != nil {
			return "", fmt.Errorf("storing response %d: %w", i, err)
		}
	}

	return node.Hash, nil
}
