package config

// Overrides carries command-line values that take precedence over the file.
// Empty strings and false values leave the configuration untouched.
type Overrides struct {
	ContentDir   string
	OutputDir    string
	TemplatePath string
	BaseURL      string
	NoMinify     bool
	NoSitemap    bool
	NoRobots     bool
	Workers      int
}

// Apply returns a copy of cfg with the overrides applied.
func (c *Config) Apply(o Overrides) *Config {
	out := c.Clone()
	if o.ContentDir != "" {
		out.ContentDir = o.ContentDir
	}
	if o.OutputDir != "" {
		out.OutputDir = o.OutputDir
	}
	if o.TemplatePath != "" {
		out.TemplatePath = o.TemplatePath
	}
	if o.BaseURL != "" {
		out.BaseURL = trimBaseURL(o.BaseURL)
	}
	if o.NoMinify {
		out.Minify = false
	}
	if o.NoSitemap {
		out.GenerateSitemap = false
	}
	if o.NoRobots {
		out.GenerateRobots = false
	}
	if o.Workers > 0 {
		out.Workers = o.Workers
	}
	return out
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.StaticDirs = append([]string(nil), c.StaticDirs...)
	out.MarkdownExtensions = append([]string(nil), c.MarkdownExtensions...)
	out.Exclude = append([]string(nil), c.Exclude...)
	if c.ImagePathReplacements != nil {
		out.ImagePathReplacements = make(map[string]string, len(c.ImagePathReplacements))
		for k, v := range c.ImagePathReplacements {
			out.ImagePathReplacements[k] = v
		}
	}
	return &out
}
