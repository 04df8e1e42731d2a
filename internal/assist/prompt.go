package assist

import (
	"strings"
)

// Request is one AI call: the selected text (empty in generate mode), the
// user's instruction and the text around the captured selection.
type Request struct {
	Text          string `json:"text"`
	Prompt        string `json:"prompt"`
	Attempt       int    `json:"attempt"`
	ContextBefore string `json:"-"`
	ContextAfter  string `json:"-"`
}

// Mode reports whether the request edits a selection or generates new text
func (r Request) Mode() Mode {
	if strings.TrimSpace(r.Text) == "" {
		return ModeGenerate
	}
	return ModeEdit
}

// Mode is the kind of AI request
type Mode int

const (
	ModeEdit Mode = iota
	ModeGenerate
)

func (m Mode) String() string {
	if m == ModeGenerate {
		return "generate"
	}
	return "edit"
}

// BuildPrompt assembles the full prompt sent to the model. With a system
// prompt the built-in assistant preamble is dropped and the system prompt
// leads instead.
func BuildPrompt(req Request, systemPrompt string) string {
	var b strings.Builder

	systemPrompt = strings.TrimSpace(systemPrompt)
	if systemPrompt != "" {
		b.WriteString(systemPrompt)
		b.WriteString("\n\n")
	}

	hasContext := req.ContextBefore != "" || req.ContextAfter != ""

	if req.Mode() == ModeGenerate {
		if systemPrompt != "" {
			b.WriteString("The user wants you to generate text based on this request: " + req.Prompt)
		} else {
			b.WriteString("You are a helpful writing assistant. The user wants you to generate text based on this request: " + req.Prompt)
			b.WriteString("\n\nPlease respond with ONLY the generated text, without any explanation or additional commentary.")
		}

		if hasContext {
			b.WriteString("\n\nHere's the context where the text should be inserted:")
			if req.ContextBefore != "" {
				b.WriteString("\n\nBEFORE: ..." + req.ContextBefore)
			}
			b.WriteString("\n\n[INSERT NEW TEXT HERE]")
			if req.ContextAfter != "" {
				b.WriteString("\n\nAFTER: " + req.ContextAfter + "...")
			}
		}
		b.WriteString("\n\nGenerated text:")
		return b.String()
	}

	if systemPrompt != "" {
		b.WriteString("The user has selected some text and wants you to: " + req.Prompt)
	} else {
		b.WriteString("You are a helpful writing assistant. The user has selected some text and wants you to: " + req.Prompt)
		b.WriteString("\n\nPlease respond with ONLY the modified text, without any explanation or additional commentary.")
	}

	if hasContext {
		b.WriteString("\n\nHere's the context around the selected text:")
		if req.ContextBefore != "" {
			b.WriteString("\n\nBEFORE: ..." + req.ContextBefore)
		}
		b.WriteString("\n\nSELECTED TEXT: " + req.Text)
		if req.ContextAfter != "" {
			b.WriteString("\n\nAFTER: " + req.ContextAfter + "...")
		}
	} else {
		b.WriteString("\n\nSelected text to modify:\n" + req.Text)
	}
	b.WriteString("\n\nModified text:")
	return b.String()
}
