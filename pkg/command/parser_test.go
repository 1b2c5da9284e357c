package command

import (
	"testing"

	"github.com/autocube/cubo/pkg/anim"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser(anim.DefaultVocabulary())

	tests := []struct {
		name string
		text string
		want string
	}{
		{"canonical casing", "Sure, watch this! [Jumping]", "Jumping"},
		{"lowercase token", "okay [jumping]", "Jumping"},
		{"uppercase token", "OKAY [JUMPING]", "Jumping"},
		{"multi-word token", "Let's dance [wave hip hop dance]", "Wave Hip Hop Dance"},
		{"token only", "[Idle]", "Idle"},
		{"no brackets", "no brackets here", ""},
		{"unknown token", "watch me [NotAWord]", ""},
		{"empty brackets", "hm []", ""},
		{"empty text", "", ""},
		{"first of several groups wins", "[Idle] then maybe [Jumping]", "Idle"},
		{"unknown first group ignores later ones", "[nope] but [Jumping]", ""},
		{"unclosed bracket", "oops [Jumping", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Parse(tt.text); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParser_AllVocabularyEntriesRoundTrip(t *testing.T) {
	vocab := anim.DefaultVocabulary()
	p := NewParser(vocab)

	for _, name := range vocab.Names() {
		got := p.Parse("Hello there! [" + name + "]")
		if got != name {
			t.Errorf("Parse of token %q = %q, want canonical name back", name, got)
		}
	}
}
