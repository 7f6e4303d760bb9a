package preview

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/plugingen/pkg/llm"
)

// handleStats counts the stored nodes. Roots are distinct system prompts;
// leaves are finished runs.
func (s *Server) handleStats(c *fiber.Ctx) error {
	ctx := c.Context()

	nodes, err := s.storer.List(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list nodes"})
	}

	roots, err := s.storer.Roots(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to get roots"})
	}

	leaves, err := s.storer.Leaves(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to get leaves"})
	}

	return c.JSON(map[string]any{
		"total_nodes": len(nodes),
		"root_count":  len(roots),
		"leaf_count":  len(leaves),
	})
}

func (s *Server) handleGetNode(c *fiber.Ctx) error {
	node, err := s.storer.Get(c.Context(), c.Params("hash"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "node not found"})
	}
	return c.JSON(node)
}

// HistoryResponse is one transcript, oldest message first.
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
	HeadHash string           `json:"head_hash"`
	Depth    int              `json:"depth"`
}

// HistoryMessage is one transcript message.
type HistoryMessage struct {
	Hash       string  `json:"hash"`
	ParentHash *string `json:"parent_hash,omitempty"`
	Role       string  `json:"role"`
	Content    string  `json:"content"`
	Model      string  `json:"model,omitempty"`
}

// handleListHistories returns one transcript per leaf node.
func (s *Server) handleListHistories(c *fiber.Ctx) error {
	ctx := c.Context()

	leaves, err := s.storer.Leaves(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to get leaves"})
	}

	histories := make([]HistoryResponse, 0, len(leaves))
	for _, leaf := range leaves {
		history, err := s.buildHistory(ctx, leaf.Hash)
		if err != nil {
			s.logger.Warn("failed to build history for leaf", zap.String("hash", leaf.Hash), zap.Error(err))
			continue
		}
		histories = append(histories, *history)
	}

	return c.JSON(map[string]any{
		"count":     len(histories),
		"histories": histories,
	})
}

func (s *Server) handleGetHistory(c *fiber.Ctx) error {
	history, err := s.buildHistory(c.Context(), c.Params("hash"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "node not found"})
	}
	return c.JSON(history)
}

// buildHistory walks from hash back to its root and returns the path in
// chronological order.
func (s *Server) buildHistory(ctx context.Context, hash string) (*HistoryResponse, error) {
	ancestry, err := s.storer.Ancestry(ctx, hash)
	if err != nil {
		return nil, err
	}

	messages := make([]HistoryMessage, len(ancestry))
	for i, node := range ancestry {
		msg := HistoryMessage{
			Hash:       node.Hash,
			ParentHash: node.ParentHash,
		}
		if m, ok := node.Message(); ok {
			msg.Role = m.Role
			msg.Content = m.Content
			msg.Model = m.Model
		}
		messages[len(ancestry)-1-i] = msg
	}

	return &HistoryResponse{
		Messages: messages,
		HeadHash: hash,
		Depth:    len(messages),
	}, nil
}
