package cli

import (
	"fmt"
	"strings"
)

// Transcript renders chat turns and engine events for the terminal.
type Transcript struct {
	styles Styles
}

// NewTranscript creates a transcript renderer.
func NewTranscript(theme Theme) *Transcript {
	return &Transcript{styles: NewStyles(theme)}
}

// Turn renders one chat turn. The bracketed animation token, if present,
// is restyled so it reads as a stage direction rather than dialogue.
func (t *Transcript) Turn(role, content string) string {
	var label string
	switch role {
	case "user":
		label = t.styles.User.Render("you")
	default:
		label = t.styles.Assistant.Render("cubo")
	}
	return label + "  " + t.styleTokens(content)
}

// Options renders a numbered reply option list.
func (t *Transcript) Options(options []string) string {
	if len(options) == 0 {
		return t.styles.Help.Render("(no reply options)")
	}
	var b strings.Builder
	for i, opt := range options {
		fmt.Fprintf(&b, "%s %s\n",
			t.styles.Option.Render(fmt.Sprintf("%d.", i+1)),
			t.styleTokens(opt))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Animation renders a dispatched animation event.
func (t *Transcript) Animation(avatarID, name string) string {
	return t.styles.Token.Render(fmt.Sprintf("* %s plays %s", avatarID, name))
}

// Progress renders an asset download progress line.
func (t *Transcript) Progress(name string, received, total int64) string {
	if total <= 0 {
		return t.styles.Help.Render(fmt.Sprintf("fetching %s: %d bytes", name, received))
	}
	pct := float64(received) / float64(total) * 100
	return t.styles.Help.Render(fmt.Sprintf("fetching %s: %3.0f%%", name, pct))
}

// Error renders a failure line. Out-of-credits errors get their own
// wording so the fix (top up the account) is obvious.
func (t *Transcript) Error(err error, outOfCredits bool) string {
	if outOfCredits {
		return t.styles.Error.Render("error: the account is out of credits") + "\n" +
			t.styles.Help.Render("top up at the provider dashboard, then try again")
	}
	return t.styles.Error.Render("error: " + err.Error())
}

// Prompt renders the input prompt.
func (t *Transcript) Prompt() string {
	return t.styles.Prompt.Render("> ")
}

// Help renders the command help footer.
func (t *Transcript) Help() string {
	return t.styles.Help.Render("type a message, /options for reply ideas, /history, /quit")
}

// styleTokens restyles bracketed animation tokens inside text.
func (t *Transcript) styleTokens(text string) string {
	open := strings.IndexByte(text, '[')
	if open < 0 {
		return text
	}
	end := strings.IndexByte(text[open:], ']')
	if end < 0 {
		return text
	}
	end += open
	return text[:open] + t.styles.Token.Render(text[open:end+1]) + t.styleTokens(text[end+1:])
}
