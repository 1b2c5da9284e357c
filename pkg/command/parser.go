// Package command turns free-form chat text into validated animation
// commands and routes them to avatars. The language model is asked to end
// each reply with its chosen emote in square brackets ("[Jumping]"); the
// parser extracts that token and the router dispatches it to the avatar
// mapped to the message's role.
package command

import (
	"regexp"

	"github.com/autocube/cubo/pkg/anim"
)

// bracketRe matches the first non-greedy bracketed segment in a message.
// Models are prompted for a single trailing token; if one emits several
// bracket groups anyway, the first one wins and the rest are ignored.
var bracketRe = regexp.MustCompile(`\[(.*?)\]`)

// Command is a validated animation request extracted from one chat turn.
// It is ephemeral: produced by the parser, consumed by the router, never
// persisted.
type Command struct {
	SourceRole    string
	AnimationName string // canonical vocabulary casing
}

// Parser extracts animation tokens from chat text.
type Parser struct {
	vocab *anim.Vocabulary
}

// NewParser creates a parser over the given vocabulary.
func NewParser(vocab *anim.Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Parse returns the canonical animation name requested by text, or "" when
// the text carries no bracketed token or the token is not part of the
// vocabulary. An absent or unrecognized token is a normal outcome of
// free-form model output, not an error.
func (p *Parser) Parse(text string) string {
	m := bracketRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	canonical, ok := p.vocab.Resolve(m[1])
	if !ok {
		return ""
	}
	return canonical
}
