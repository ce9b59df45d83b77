// Package prompt builds the synthesis prompt and parses the model's
// structured output against the embedded JSON schema.
package prompt

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type TemplateName string

const (
	TemplateSummary TemplateName = "summary.tmpl"
)

type Builder struct {
	mu        sync.RWMutex
	templates map[TemplateName]*template.Template
}

func NewBuilder() *Builder {
	return &Builder{
		templates: make(map[TemplateName]*template.Template),
	}
}

// SummaryVars holds the serialized upstream data embedded in the
// synthesis prompt.
type SummaryVars struct {
	Information        string
	Posts              string
	FormatInstructions string
}

// BuildSummaryPrompt serializes the profile and posts into the summary
// template, with output-format instructions derived from the schema.
func (b *Builder) BuildSummaryPrompt(profile any, posts any) (string, error) {
	information, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("serialize profile: %w", err)
	}
	serializedPosts, err := json.Marshal(posts)
	if err != nil {
		return "", fmt.Errorf("serialize posts: %w", err)
	}

	return b.Render(TemplateSummary, SummaryVars{
		Information:        string(information),
		Posts:              string(serializedPosts),
		FormatInstructions: FormatInstructions(),
	})
}

func (b *Builder) Render(name TemplateName, data any) (string, error) {
	tmpl, err := b.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

func (b *Builder) getTemplate(name TemplateName) (*template.Template, error) {
	b.mu.RLock()
	if tmpl, ok := b.templates[name]; ok {
		b.mu.RUnlock()
		return tmpl, nil
	}
	b.mu.RUnlock()

	filename := filepath.ToSlash(filepath.Join("templates", string(name)))
	content, err := templateFS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	tmpl, err := template.New(string(name)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.templates[name] = tmpl

	return tmpl, nil
}
