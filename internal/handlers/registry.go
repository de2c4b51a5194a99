package handlers

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

// TemplateRegistry holds a separate template set per page so that every
// page can define its own "content" block on top of the shared layout.
type TemplateRegistry struct {
	templates map[string]*template.Template
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]*template.Template)}
}

func (tr *TemplateRegistry) Add(name string, tmpl *template.Template) {
	tr.templates[name] = tmpl
}

func (tr *TemplateRegistry) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	tmpl, ok := tr.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

// LoadTemplates parses layouts and partials together with each page under
// templatesDir/pages.
func LoadTemplates(templatesDir string) (*TemplateRegistry, error) {
	registry := NewTemplateRegistry()

	var sharedFiles []string
	for _, dir := range []string{"layouts", "partials"} {
		files, err := filepath.Glob(filepath.Join(templatesDir, dir, "*.html"))
		if err != nil {
			return nil, err
		}
		sharedFiles = append(sharedFiles, files...)
	}

	pageFiles, err := filepath.Glob(filepath.Join(templatesDir, "pages", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found in %s", templatesDir)
	}

	for _, pageFile := range pageFiles {
		pageName := filepath.Base(pageFile)
		tmpl := template.New(pageName).Funcs(TemplateFuncs())

		for _, file := range append(append([]string{}, sharedFiles...), pageFile) {
			content, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			if _, err := tmpl.Parse(string(content)); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", file, err)
			}
		}

		registry.Add(pageName, tmpl)
	}

	return registry, nil
}
