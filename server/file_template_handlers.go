package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() (fs.FS, error) {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates sub filesystem: %w", err)
	}
	return subFS, nil
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	templates, err := TemplateFilesFS()
	if err != nil {
		return nil, err
	}
	return template.New(name).ParseFS(templates, name)
}
