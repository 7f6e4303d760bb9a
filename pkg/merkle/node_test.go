package merkle_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/plugingen/pkg/merkle"
)

var _ = Describe("Node", func() {
	It("has no parent hash at the root", func() {
		node := merkle.NewNode("test", nil)

		Expect(node.ParentHash).To(BeNil())
		Expect(node.Hash).To(MatchRegexp("^[a-f0-9]{64}$"))
	})

	It("hashes equal content equally", func() {
		a := merkle.NewNode(merkle.MessageContent("user", "hi", "gpt-4"), nil)
		b := merkle.NewNode(merkle.MessageContent("user", "hi", "gpt-4"), nil)

		Expect(a.Hash).To(Equal(b.Hash))
	})

	It("links children to their parent", func() {
		parent := merkle.NewNode("parent", nil)
		child := merkle.NewNode("child", parent)

		Expect(child.ParentHash).NotTo(BeNil())
		Expect(*child.ParentHash).To(Equal(parent.Hash))
	})

	It("hashes the same content under different parents differently", func() {
		p1 := merkle.NewNode("p1", nil)
		p2 := merkle.NewNode("p2", nil)

		Expect(merkle.NewNode("same", p1).Hash).NotTo(Equal(merkle.NewNode("same", p2).Hash))
	})
})

var _ = Describe("Node.Message", func() {
	It("reads transcript message content", func() {
		node := merkle.NewNode(merkle.MessageContent("assistant", "```ts\n```", "gpt-4"), nil)

		msg, ok := node.Message()
		Expect(ok).To(BeTrue())
		Expect(msg).To(Equal(merkle.Message{Role: "assistant", Content: "```ts\n```", Model: "gpt-4"}))
	})

	It("survives a JSON round trip", func() {
		var decoded merkle.Node
		data, err := json.Marshal(merkle.NewNode(merkle.MessageContent("user", "hi", "gpt-4"), nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())

		msg, ok := decoded.Message()
		Expect(ok).To(BeTrue())
		Expect(msg.Role).To(Equal("user"))
	})

	It("rejects other content", func() {
		_, ok := merkle.NewNode("plain", nil).Message()
		Expect(ok).To(BeFalse())

		_, ok = merkle.NewNode(map[string]any{"type": "note", "role": "user"}, nil).Message()
		Expect(ok).To(BeFalse())
	})
})
