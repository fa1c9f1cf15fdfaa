// Package content loads the built-in site content sections.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the built-in sections keyed by name.
func Defaults() (map[string]domain.Content, error) {
	return Parse(defaultsYAML)
}

// Parse decodes a YAML document whose top-level keys are section names.
func Parse(doc []byte) (map[string]domain.Content, error) {
	var sections map[string]domain.Content
	if err := yaml.Unmarshal(doc, &sections); err != nil {
		return nil, fmt.Errorf("parse content defaults: %w", err)
	}
	for name, c := range sections {
		if c == nil {
			return nil, fmt.Errorf("content section %q is empty", name)
		}
	}
	return sections, nil
}
