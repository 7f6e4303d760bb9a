package prompt

import (
	"strings"

	"github.com/papercomputeco/plugingen/pkg/llm"
)

const systemPreamble = "You are creating a Chat GPT plugin. You will generate the code for a Typescript and Express " +
	"server that will be called by a chatbot. You should make the api as simple as possible and only return " +
	"the minimally required information. Assume that there is no auth required and the developer will hardcode " +
	"any keys. The plugin consists of 3 parts an `index.ts` a `openapi.yaml` file, and an `ai-plugin.json` " +
	"file. Here is an example of each:\n"

// humanTemplate is the template of the final user message.
const humanTemplate = "{input}"

// Composer builds the message list for one turn. The system message is
// rendered once; Compose itself depends only on its arguments.
type Composer struct {
	system string
}

// NewComposer renders the system message from escaped references. It fails
// with ErrTemplate when a reference was not escaped, because its braces then
// parse as placeholders.
func NewComposer(refs References) (*Composer, error) {
	system, err := Format(systemTemplate(refs), nil)
	if err != nil {
		return nil, err
	}
	return &Composer{system: system}, nil
}

// System returns the rendered system message.
func (c *Composer) System() string {
	return c.system
}

// Compose returns the system message, every history turn as a user and an
// assistant message in order, and finally instruction as a user message.
func (c *Composer) Compose(history []llm.ConversationTurn, instruction string) ([]llm.Message, error) {
	input, err := Format(humanTemplate, map[string]string{"input": instruction})
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, 2+2*len(history))
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: c.system})
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Instruction},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Response},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	return messages, nil
}

func systemTemplate(refs References) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	for _, ref := range []ReferenceTemplate{refs.Index, refs.OpenAPI, refs.Manifest} {
		b.WriteString("\n")
		b.WriteString(ref.Name)
		b.WriteString(":\n```\n")
		b.WriteString(ref.Escaped)
		b.WriteString("\n```\n")
	}
	return b.String()
}
