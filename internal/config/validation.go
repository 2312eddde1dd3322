package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
)

// ValidateConfig checks the configuration. Hard problems are returned as an
// error; conditions the build can live with come back as warnings.
func ValidateConfig(cfg *Config) ([]string, error) {
	v := newConfigurationValidator(cfg)
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v.warnings, nil
}

type configurationValidator struct {
	config   *Config
	warnings []string
}

func newConfigurationValidator(cfg *Config) *configurationValidator {
	return &configurationValidator{config: cfg}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateSEO(); err != nil {
		return err
	}
	if err := cv.validateExcludes(); err != nil {
		return err
	}
	if cv.config.Workers < 1 {
		return errors.ValidationError("workers must be at least 1").
			WithContext("workers", cv.config.Workers).Build()
	}
	return nil
}

func (cv *configurationValidator) warnf(format string, args ...any) {
	cv.warnings = append(cv.warnings, fmt.Sprintf(format, args...))
}

func (cv *configurationValidator) validatePaths() error {
	if cv.config.ContentDir == cv.config.OutputDir {
		return errors.ValidationError("content_dir and output_dir must differ").
			WithContext("path", cv.config.OutputDir).Build()
	}
	for _, dir := range cv.config.StaticDirs {
		if _, err := os.Stat(dir); err != nil {
			cv.warnf("static directory %q does not exist", dir)
		}
	}
	return nil
}

func (cv *configurationValidator) validateSEO() error {
	u, err := url.Parse(cv.config.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.ValidationError("base_url must be an absolute http(s) URL").
			WithContext("base_url", cv.config.BaseURL).Build()
	}
	if cv.config.BaseURL == DefaultBaseURL {
		cv.warnf("base_url is still the default %s; sitemap and canonical links will point there", DefaultBaseURL)
	}
	return nil
}

func (cv *configurationValidator) validateExcludes() error {
	for _, pattern := range cv.config.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.ValidationError("invalid exclude pattern").
				WithContext("pattern", pattern).Build()
		}
	}
	return nil
}
