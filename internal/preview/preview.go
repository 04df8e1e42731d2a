package preview

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"nbedit/internal/logger"
)

const (
	// Placeholder is shown for blank content
	Placeholder = "Start typing to see your markdown preview..."
	// Fallback replaces a preview that failed to render
	Fallback = "Error rendering markdown preview"

	DefaultStyle     = "dracula"
	DefaultFormatter = "terminal256"
)

var imageSrc = regexp.MustCompile(`src="([^"/]+\.(?:png|jpg|jpeg|gif|webp))"`)

// RewriteImageSources points relative image sources at the server's image
// route for doc. Without a document name the content is returned as is.
func RewriteImageSources(content, doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return content
	}
	return imageSrc.ReplaceAllString(content, `src="/images/`+url.PathEscape(doc)+`/$1"`)
}

// Renderer highlights markdown for display. It satisfies editor.Renderer
// and keeps the latest output for the host to draw.
type Renderer struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter

	mu       sync.Mutex
	latest   string
	listener func(string)
}

// Option configures a Renderer
type Option func(*Renderer)

// WithStyle picks a chroma style by name; unknown names fall back
func WithStyle(name string) Option {
	return func(r *Renderer) {
		if name == "" {
			return
		}
		r.style = styles.Get(name)
	}
}

// WithFormatter picks a chroma formatter by name, such as "terminal16m"
// or "noop"
func WithFormatter(name string) Option {
	return func(r *Renderer) {
		if name == "" {
			return
		}
		if f := formatters.Get(name); f != nil {
			r.formatter = f
		}
	}
}

// WithListener is called with every new preview, outside any lock
func WithListener(fn func(string)) Option {
	return func(r *Renderer) {
		r.listener = fn
	}
}

// New creates a markdown renderer
func New(opts ...Option) *Renderer {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	r := &Renderer{
		lexer:     chroma.Coalesce(lexer),
		style:     styles.Get(DefaultStyle),
		formatter: formatters.TTY256,
		latest:    Placeholder,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.style == nil {
		r.style = styles.Fallback
	}
	return r
}

// Render returns the highlighted content, the placeholder for blank
// content or the fallback message if highlighting fails.
func (r *Renderer) Render(content string) string {
	if strings.TrimSpace(content) == "" {
		return Placeholder
	}
	out, err := r.format(r.formatter, content)
	if err != nil {
		logger.Error("Error rendering preview: %v", err)
		return Fallback
	}
	return out
}

// RenderPreview renders content and publishes it
func (r *Renderer) RenderPreview(content string) {
	out := r.Render(content)

	r.mu.Lock()
	r.latest = out
	listener := r.listener
	r.mu.Unlock()

	if listener != nil {
		listener(out)
	}
}

// Latest returns the most recent preview
func (r *Renderer) Latest() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// HTML renders content as a standalone highlighted HTML fragment for
// browser front-ends, with image sources rewritten for doc.
func (r *Renderer) HTML(content, doc string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "<p><em>" + Placeholder + "</em></p>", nil
	}
	formatter := html.New(html.WithClasses(false), html.PreventSurroundingPre(false))
	return r.format(formatter, RewriteImageSources(content, doc))
}

func (r *Renderer) format(formatter chroma.Formatter, content string) (string, error) {
	it, err := r.lexer.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise: %w", err)
	}
	var b strings.Builder
	if err := formatter.Format(&b, r.style, it); err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return b.String(), nil
}
