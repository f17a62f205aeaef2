// Package services contains domain business logic.
package services

import "strings"

const (
	partSection = "section"
	partWrap    = "wrap"
	partGood    = "good_example"
	partBad     = "bad_example"
)

type promptPart struct {
	kind  string
	title string
	text  string
	in    string
	out   string
}

// Prompt assembles a system prompt from titled sections, tagged blocks and
// one-shot examples. Examples are gathered into a trailing <examples> block
// no matter where they are added.
type Prompt struct {
	parts []promptPart
}

// NewPrompt creates an empty prompt builder.
func NewPrompt() *Prompt { return &Prompt{} }

// Section appends a titled section.
func (p *Prompt) Section(title, text string) *Prompt {
	p.parts = append(p.parts, promptPart{kind: partSection, title: title, text: text})
	return p
}

// Wrap appends content enclosed in an XML-style tag.
func (p *Prompt) Wrap(tag, content string) *Prompt {
	p.parts = append(p.parts, promptPart{kind: partWrap, title: tag, text: content})
	return p
}

// Example appends a positive input/output example.
func (p *Prompt) Example(in, out string) *Prompt {
	p.parts = append(p.parts, promptPart{kind: partGood, in: in, out: out})
	return p
}

// FailureExample appends a counter-example the model must not imitate.
func (p *Prompt) FailureExample(in, err string) *Prompt {
	p.parts = append(p.parts, promptPart{kind: partBad, in: in, out: err})
	return p
}

// Build renders the prompt text.
func (p *Prompt) Build() string {
	var b strings.Builder
	var examples []promptPart

	for _, part := range p.parts {
		switch part.kind {
		case partSection:
			b.WriteString("** " + strings.ToUpper(part.title) + " **\n")
			b.WriteString(part.text + "\n\n")
		case partWrap:
			b.WriteString("<" + part.title + ">\n")
			b.WriteString(part.text + "\n")
			b.WriteString("</" + part.title + ">\n\n")
		default:
			examples = append(examples, part)
		}
	}

	if len(examples) > 0 {
		b.WriteString("<examples>\n")
		for _, ex := range examples {
			if ex.kind == partGood {
				b.WriteString("<good_example>\n")
				b.WriteString("  <in>" + ex.in + "</in>\n")
				b.WriteString("  <out>" + ex.out + "</out>\n")
				b.WriteString("</good_example>\n")
			} else {
				b.WriteString("<bad_example DON'T DO THIS>\n")
				b.WriteString("  <in>" + ex.in + "</in>\n")
				b.WriteString("  <err>" + ex.out + "</err>\n")
				b.WriteString("</bad_example>\n")
			}
		}
		b.WriteString("</examples>\n")
	}

	return b.String()
}
