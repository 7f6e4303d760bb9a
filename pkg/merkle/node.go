// Package merkle stores generation transcripts as a content-addressed chain
// of message nodes.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Node is one transcript entry. Its hash covers the parent hash and the
// content, so a chain's head hash identifies the whole conversation.
type Node struct {
	Hash       string  `json:"hash"`
	ParentHash *string `json:"parent_hash"`

	// Content is usually a transcript message (see MessageContent). Backends
	// return it decoded from JSON, so maps come back as map[string]any.
	Content any `json:"content"`
}

// Message is the shape of a transcript node's content.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// messageType tags message content so other node kinds can share a store.
const messageType = "message"

// MessageContent is the node content stored for one transcript message. It
// is a plain map so hashes match between freshly built and decoded nodes.
func MessageContent(role, content, model string) map[string]any {
	return map[string]any{
		"type":    messageType,
		"role":    role,
		"content": content,
		"model":   model,
	}
}

// Message returns the node's content as a transcript message. ok is false
// when the content is not a message.
func (n *Node) Message() (msg Message, ok bool) {
	fields, isMap := n.Content.(map[string]any)
	if !isMap || fields["type"] != messageType {
		return Message{}, false
	}
	msg.Role, _ = fields["role"].(string)
	msg.Content, _ = fields["content"].(string)
	msg.Model, _ = fields["model"].(string)
	return msg, true
}

type hashInput struct {
	Parent  string `json:"parent,omitempty"`
	Content any    `json:"content"`
}

// NewNode builds a node under parent, which is nil for the system message.
func NewNode(content any, parent *Node) *Node {
	n := &Node{Content: content}
	if parent != nil {
		n.ParentHash = &parent.Hash
	}
	n.Hash = hashNode(n)
	return n
}

func hashNode(n *Node) string {
	in := hashInput{Content: n.Content}
	if n.ParentHash != nil {
		in.Parent = *n.ParentHash
	}

	// encoding/json sorts map keys, so equal content hashes equally.
	data, err := json.Marshal(in)
	if err != nil {
		panic("merkle: unhashable content: " + err.Error())
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
