package config

import (
	"fmt"
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier fills empty source and output locations.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	def := Default()
	if strings.TrimSpace(cfg.ContentDir) == "" {
		cfg.ContentDir = def.ContentDir
	}
	if strings.TrimSpace(cfg.TemplatePath) == "" {
		cfg.TemplatePath = def.TemplatePath
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = def.OutputDir
	}
	return nil
}

// ContentDefaultApplier fills the page transformation settings.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	def := Default()
	if cfg.H1SectionClass == "" {
		cfg.H1SectionClass = def.H1SectionClass
	}
	if cfg.H2SectionClass == "" {
		cfg.H2SectionClass = def.H2SectionClass
	}
	if cfg.ContentPlaceholder == "" {
		cfg.ContentPlaceholder = def.ContentPlaceholder
	}
	// An explicit empty list disables every extension; only a nil list gets the defaults.
	if cfg.MarkdownExtensions == nil {
		cfg.MarkdownExtensions = def.MarkdownExtensions
	}
	for i, ext := range cfg.MarkdownExtensions {
		cfg.MarkdownExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
	return nil
}

// SEODefaultApplier normalizes the base URL.
type SEODefaultApplier struct{}

func (s *SEODefaultApplier) Domain() string { return "seo" }

func (s *SEODefaultApplier) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = trimBaseURL(cfg.BaseURL)
	return nil
}

// IntegrationDefaultApplier fills optional integration settings.
type IntegrationDefaultApplier struct{}

func (i *IntegrationDefaultApplier) Domain() string { return "integrations" }

func (i *IntegrationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = Default().NATSSubject
	}
	return nil
}

// CompositeDefaultApplier runs a set of appliers in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier chain used by Load.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{appliers: []DefaultApplier{
		&PathsDefaultApplier{},
		&ContentDefaultApplier{},
		&SEODefaultApplier{},
		&IntegrationDefaultApplier{},
	}}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("%s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}

func trimBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
