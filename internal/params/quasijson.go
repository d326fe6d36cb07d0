package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	apperr "kondate-planner/internal/common/errors"
)

// Quasi-JSON is the `{key=value, list=[{k=v}]}` rendering some agent
// integrations produce instead of JSON. It is rewritten token by token into
// JSON text and then parsed. A literal that itself contains one of the
// structural characters cannot be told apart from a delimiter, so such input
// fails instead of being guessed at.

type tokenKind int

const (
	tokLBrace tokenKind = iota
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokEquals
	tokLiteral
)

var structural = map[byte]tokenKind{
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	',': tokComma,
	'=': tokEquals,
}

func (k tokenKind) String() string {
	switch k {
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokComma:
		return "','"
	case tokEquals:
		return "'='"
	default:
		return "literal"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// maxDepth bounds nesting so hostile input cannot exhaust the stack.
const maxDepth = 32

var numericLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var errEmptyInput = errors.New("empty input")

// tokenize splits text into structural characters and trimmed literal spans.
// Structural characters are ASCII, so byte scanning leaves multi-byte text
// inside literals intact.
func tokenize(text string) []token {
	var tokens []token
	start := 0
	flush := func(end int) {
		raw := text[start:end]
		lit := strings.TrimSpace(raw)
		if lit == "" {
			return
		}
		offset := strings.Index(raw, lit)
		tokens = append(tokens, token{kind: tokLiteral, text: lit, pos: start + offset})
	}

	for i := 0; i < len(text); i++ {
		kind, ok := structural[text[i]]
		if !ok {
			continue
		}
		flush(i)
		tokens = append(tokens, token{kind: kind, text: text[i : i+1], pos: i})
		start = i + 1
	}
	flush(len(text))
	return tokens
}

type emitter struct {
	tokens []token
	pos    int
	depth  int
	out    strings.Builder
}

func (e *emitter) peek() (token, bool) {
	if e.pos >= len(e.tokens) {
		return token{}, false
	}
	return e.tokens[e.pos], true
}

func (e *emitter) next() (token, error) {
	tok, ok := e.peek()
	if !ok {
		return token{}, fmt.Errorf("unexpected end of input")
	}
	e.pos++
	return tok, nil
}

func unexpected(tok token, want string) error {
	return fmt.Errorf("unexpected %s at offset %d, want %s", tok.kind, tok.pos, want)
}

func (e *emitter) document() error {
	tok, ok := e.peek()
	if !ok {
		return errEmptyInput
	}
	if tok.kind != tokLBrace && tok.kind != tokLBracket {
		return unexpected(tok, "'{' or '['")
	}
	if err := e.value(); err != nil {
		return err
	}
	if tok, ok := e.peek(); ok {
		return unexpected(tok, "end of input")
	}
	return nil
}

func (e *emitter) value() error {
	tok, err := e.next()
	if err != nil {
		return err
	}
	switch tok.kind {
	case tokLBrace:
		return e.nested(e.object)
	case tokLBracket:
		return e.nested(e.array)
	case tokLiteral:
		e.scalar(tok.text)
		return nil
	default:
		return unexpected(tok, "a value")
	}
}

func (e *emitter) nested(fn func() error) error {
	e.depth++
	if e.depth > maxDepth {
		return fmt.Errorf("nesting deeper than %d", maxDepth)
	}
	err := fn()
	e.depth--
	return err
}

func (e *emitter) object() error {
	e.out.WriteByte('{')
	if tok, ok := e.peek(); ok && tok.kind == tokRBrace {
		e.pos++
		e.out.WriteByte('}')
		return nil
	}

	for {
		key, err := e.next()
		if err != nil {
			return err
		}
		if key.kind != tokLiteral {
			return unexpected(key, "a key")
		}
		eq, err := e.next()
		if err != nil {
			return err
		}
		if eq.kind != tokEquals {
			return unexpected(eq, "'='")
		}
		e.out.WriteString(quote(key.text))
		e.out.WriteByte(':')

		if err := e.value(); err != nil {
			return err
		}

		sep, err := e.next()
		if err != nil {
			return err
		}
		switch sep.kind {
		case tokComma:
			e.out.WriteByte(',')
		case tokRBrace:
			e.out.WriteByte('}')
			return nil
		default:
			return unexpected(sep, "',' or '}'")
		}
	}
}

func (e *emitter) array() error {
	e.out.WriteByte('[')
	if tok, ok := e.peek(); ok && tok.kind == tokRBracket {
		e.pos++
		e.out.WriteByte(']')
		return nil
	}

	for {
		if err := e.value(); err != nil {
			return err
		}
		sep, err := e.next()
		if err != nil {
			return err
		}
		switch sep.kind {
		case tokComma:
			e.out.WriteByte(',')
		case tokRBracket:
			e.out.WriteByte(']')
			return nil
		default:
			return unexpected(sep, "',' or ']'")
		}
	}
}

func (e *emitter) scalar(lit string) {
	switch {
	case lit == "true", lit == "false", lit == "null", numericLiteral.MatchString(lit):
		e.out.WriteString(lit)
	default:
		e.out.WriteString(quote(lit))
	}
}

// quote JSON-encodes s without HTML escaping so non-ASCII and <>& survive
// unchanged.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// rewrite converts quasi-JSON to JSON text. On failure the partial output is
// returned alongside the error for diagnostics.
func rewrite(text string) (string, error) {
	e := &emitter{tokens: tokenize(text)}
	err := e.document()
	return e.out.String(), err
}

func repair(text string) (interface{}, string, error) {
	transformed, err := rewrite(text)
	if err != nil {
		return nil, transformed, err
	}
	var value interface{}
	if err := json.Unmarshal([]byte(transformed), &value); err != nil {
		return nil, transformed, err
	}
	return value, transformed, nil
}

// RepairAndParse recovers a structured value from quasi-JSON text. Failures
// are UNPARSABLE_PARAMETER errors carrying the original and rewritten text.
func RepairAndParse(text string) (interface{}, error) {
	value, transformed, err := repair(text)
	if err != nil {
		return nil, apperr.NewUnparsableParameterError("value", text, transformed, err)
	}
	return value, nil
}
