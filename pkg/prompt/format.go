package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplate is returned for a malformed template or an unbound placeholder.
var ErrTemplate = errors.New("invalid prompt template")

// Format renders a template in which {name} is a placeholder and {{ and }}
// stand for literal braces. Substituted values are inserted as is and are
// never scanned for placeholders.
func Format(tmpl string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed { at offset %d", ErrTemplate, i)
			}
			name := tmpl[i+1 : i+1+end]
			if !isIdentifier(name) {
				return "", fmt.Errorf("%w: bad placeholder %q at offset %d", ErrTemplate, name, i)
			}
			value, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("%w: no value for {%s}", ErrTemplate, name)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single } at offset %d", ErrTemplate, i)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
