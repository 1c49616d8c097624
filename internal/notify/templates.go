package notify

import (
	_ "embed"
	"fmt"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type templateFile struct {
	Templates []struct {
		Key     string `yaml:"key"`
		Name    string `yaml:"name"`
		Channel string `yaml:"channel"`
		Subject string `yaml:"subject"`
		Body    string `yaml:"body"`
	} `yaml:"templates"`
}

// DefaultTemplates returns the built-in templates shared by all branches.
func DefaultTemplates() ([]entities.NotificationTemplate, error) {
	var f templateFile
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}
	out := make([]entities.NotificationTemplate, 0, len(f.Templates))
	for _, t := range f.Templates {
		ch := entities.Channel(t.Channel)
		if !ch.Valid() {
			return nil, fmt.Errorf("default template %q: unknown channel %q", t.Key, t.Channel)
		}
		out = append(out, entities.NotificationTemplate{
			Key:      t.Key,
			Name:     t.Name,
			Channel:  ch,
			Subject:  t.Subject,
			Body:     t.Body,
			IsActive: true,
		})
	}
	return out, nil
}

// DefaultTemplate returns the built-in template for key and channel.
func DefaultTemplate(key string, ch entities.Channel) (entities.NotificationTemplate, bool) {
	all, err := DefaultTemplates()
	if err != nil {
		return entities.NotificationTemplate{}, false
	}
	for _, t := range all {
		if t.Key == key && t.Channel == ch {
			return t, true
		}
	}
	return entities.NotificationTemplate{}, false
}
