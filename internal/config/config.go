package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// DefaultBaseURL is the placeholder base URL written by init; validation warns when it is still in use.
const DefaultBaseURL = "https://example.com"

// Config is the build configuration. It is read once and treated as immutable by the build.
type Config struct {
	ContentDir   string   `yaml:"content_dir" json:"content_dir"`
	TemplatePath string   `yaml:"template_path" json:"template_path"`
	OutputDir    string   `yaml:"output_dir" json:"output_dir"`
	StaticDirs   []string `yaml:"static_dirs" json:"static_dirs"`
	IndexPath    string   `yaml:"index_path" json:"index_path"`

	CleanOutput  bool `yaml:"clean_output" json:"clean_output"`
	Minify       bool `yaml:"minify" json:"minify"`
	WrapSections bool `yaml:"wrap_sections" json:"wrap_sections"`

	H1SectionClass        string            `yaml:"h1_section_class" json:"h1_section_class"`
	H2SectionClass        string            `yaml:"h2_section_class" json:"h2_section_class"`
	ContentPlaceholder    string            `yaml:"content_placeholder" json:"content_placeholder"`
	ImagePathReplacements map[string]string `yaml:"image_path_replacements" json:"image_path_replacements"`

	BaseURL          string `yaml:"base_url" json:"base_url"`
	GenerateSitemap  bool   `yaml:"generate_sitemap" json:"generate_sitemap"`
	GenerateRobots   bool   `yaml:"generate_robots" json:"generate_robots"`
	GenerateHtaccess bool   `yaml:"generate_htaccess" json:"generate_htaccess"`

	MarkdownExtensions []string `yaml:"markdown_extensions" json:"markdown_extensions"`
	// FrontMatter splits a leading ---/+++ block off each document and reads
	// title, description and draft from it. When false the block is rendered as Markdown.
	FrontMatter bool `yaml:"front_matter" json:"front_matter"`

	// Exclude holds doublestar patterns matched against content paths.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Workers int      `yaml:"workers,omitempty" json:"workers,omitempty"`
	// Manifest writes .build-manifest.json with per-page fingerprints.
	Manifest    bool   `yaml:"manifest,omitempty" json:"manifest,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty" json:"history_db,omitempty"`
	NATSURL     string `yaml:"nats_url,omitempty" json:"nats_url,omitempty"`
	NATSSubject string `yaml:"nats_subject,omitempty" json:"nats_subject,omitempty"`
}

// LoadResult is a loaded configuration together with non-fatal findings.
type LoadResult struct {
	Config   *Config
	Path     string
	Warnings []string
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		ContentDir:         "content",
		TemplatePath:       "template.html",
		OutputDir:          "build",
		StaticDirs:         []string{"css", "images", "js"},
		IndexPath:          "index.html",
		CleanOutput:        true,
		Minify:             true,
		WrapSections:       true,
		H1SectionClass:     "hero",
		H2SectionClass:     "section",
		ContentPlaceholder: `<div id="content-container">`,
		ImagePathReplacements: map[string]string{
			"../images/": "images/",
		},
		BaseURL:            DefaultBaseURL,
		GenerateSitemap:    true,
		GenerateRobots:     true,
		GenerateHtaccess:   true,
		MarkdownExtensions: []string{"extra", "tables", "smarty"},
		FrontMatter:        true,
		Workers:            1,
		NATSSubject:        "simplessg.builds",
	}
}

// Load reads a YAML or JSON configuration file on top of the defaults.
// An empty path yields the defaults. Unknown keys are reported as warnings.
func Load(configPath string) (*LoadResult, error) {
	loadEnvFiles()

	cfg := Default()
	res := &LoadResult{Config: cfg, Path: configPath}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
				Fatal().WithContext("path", configPath).Build()
		}
		expanded := []byte(os.ExpandEnv(string(data)))

		unknown, err := decode(configPath, expanded, cfg)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
				Fatal().WithContext("path", configPath).Build()
		}
		for _, key := range unknown {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown configuration key: %s", key))
		}
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	warnings, err := ValidateConfig(cfg)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, warnings...)
	return res, nil
}

func decode(path string, data []byte, cfg *Config) ([]string, error) {
	var raw map[string]any
	if isJSON(path) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	known := knownKeys()
	var unknown []string
	for key := range raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func knownKeys() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(Config{})
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("yaml")
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			keys[name] = true
		}
	}
	return keys
}

// Init writes the default configuration to configPath as YAML.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}
	data, err := Marshal(Default())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}
