// File: internal/infra/notify/templates.go
package notify

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
)

//go:embed templates
var TemplatesFS embed.FS

// template is one renderable message variant for an event on a channel.
// Bodies interpolate {name} placeholders from the event params.
type template struct {
	Title      string `yaml:"title"`
	Body       string `yaml:"body"`
	BodyHigh   string `yaml:"body_high"` // optional high-urgency variant
	Link       string `yaml:"link"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Catalog maps event kind -> channel -> template, loaded once at startup.
type Catalog struct {
	templates map[string]map[string]template
}

func NewCatalog(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "templates/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var templates map[string]map[string]template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Catalog{templates: templates}, nil
}

// Render builds the channel-specific payload for an event. Urgency picks
// the body variant; the set of channels attempted is never affected here.
func (c *Catalog) Render(event model.NotificationEvent, channel string) (adapter.RenderedPayload, error) {
	byChannel, ok := c.templates[string(event.Kind)]
	if !ok {
		return adapter.RenderedPayload{}, fmt.Errorf("no templates for event %q", event.Kind)
	}
	tpl, ok := byChannel[channel]
	if !ok {
		return adapter.RenderedPayload{}, fmt.Errorf("no %q template for event %q", channel, event.Kind)
	}

	body := tpl.Body
	if event.Urgency == model.UrgencyHigh && tpl.BodyHigh != "" {
		body = tpl.BodyHigh
	}
	return adapter.RenderedPayload{
		Title:      interpolate(tpl.Title, event.Params),
		Body:       interpolate(body, event.Params),
		Link:       interpolate(tpl.Link, event.Params),
		TTLSeconds: tpl.TTLSeconds,
	}, nil
}

func interpolate(s string, params map[string]string) string {
	if s == "" || len(params) == 0 {
		return s
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
