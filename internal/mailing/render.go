package mailing

import (
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/outreach/internal/domain"
)

// Renderer previews a template with Liquid substitution, so drafts can
// carry personalization like {{ first_name }} or {{ company }}.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer with the stock Liquid filter set.
func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Preview renders a template's subject and content against the given
// bindings. Missing variables render as empty strings.
func (r *Renderer) Preview(t *domain.EmailTemplate, bindings map[string]any) (subject, content string, err error) {
	subject, err = r.render(t.Subject, bindings)
	if err != nil {
		return "", "", domain.Validationf("rendering subject: %v", err)
	}
	content, err = r.render(t.Content, bindings)
	if err != nil {
		return "", "", domain.Validationf("rendering content: %v", err)
	}
	return subject, content, nil
}

func (r *Renderer) render(source string, bindings map[string]any) (string, error) {
	if source == "" {
		return "", nil
	}

	var tmpl *liquid.Template
	if cached, ok := r.cache.Load(source); ok {
		tmpl = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(source)
		if err != nil {
			return "", err
		}
		r.cache.Store(source, parsed)
		tmpl = parsed
	}

	return tmpl.RenderString(bindings)
}
