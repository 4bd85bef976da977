package content

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/halcyonlabs/halcyon/internal/script"
)

//go:embed about.yaml
var embeddedDocument []byte

// Loader reads, validates, and derives the About content document.
type Loader struct {
	fs       afero.Fs
	validate *validator.Validate
	engine   *script.Engine
	rules    *script.Registry
}

// NewLoader creates a loader. rulesDir is where external rule overrides live;
// empty disables overrides and the embedded rules serve alone.
func NewLoader(fs afero.Fs, rulesDir string) (*Loader, error) {
	rules := script.NewRegistry(fs, rulesDir)
	for name, src := range embeddedRules {
		rules.RegisterEmbedded(name, src)
	}
	if err := rules.LoadRules(); err != nil {
		return nil, fmt.Errorf("failed to load content rules: %w", err)
	}

	return &Loader{
		fs:       fs,
		validate: validator.New(),
		engine:   script.NewEngine(),
		rules:    rules,
	}, nil
}

// Rules exposes the rule registry so the owning module can start its watcher.
func (l *Loader) Rules() *script.Registry {
	return l.rules
}

// Load reads the document at path, or the embedded document when path is
// empty, then validates it and computes derived fields.
func (l *Loader) Load(ctx context.Context, path string) (*Document, error) {
	data := embeddedDocument
	if path != "" {
		external, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
		}
		data = external
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse content document: %w", err)
	}

	if err := l.validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("content document failed validation: %w", err)
	}

	l.derive(ctx, &doc)
	return &doc, nil
}

// derive computes Derived best-effort. A failing rule logs and leaves the
// zero value; the page renders from raw content either way.
func (l *Loader) derive(ctx context.Context, doc *Document) {
	if rule, err := l.rules.Get("years_active"); err == nil {
		out, err := l.engine.Execute(ctx, rule, map[string]interface{}{
			"current_year": time.Now().Year(),
			"founded":      doc.Company.Founded,
		})
		if err != nil {
			slog.Warn("years_active rule failed", "error", err)
		} else if years, ok := out.(int64); ok && years >= 0 {
			doc.Derived.YearsActive = int(years)
		}
	}

	rule, err := l.rules.Get("attribution")
	if err != nil {
		return
	}
	doc.Derived.Attributions = make([]string, len(doc.Testimonials))
	for i, tm := range doc.Testimonials {
		out, err := l.engine.Execute(ctx, rule, map[string]interface{}{
			"author":  tm.Author,
			"role":    tm.Role,
			"company": tm.Company,
		})
		if err != nil {
			slog.Warn("attribution rule failed", "author", tm.Author, "error", err)
			continue
		}
		if s, ok := out.(string); ok {
			doc.Derived.Attributions[i] = s
		}
	}
}
