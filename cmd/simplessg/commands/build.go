package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressdarling/simple-ssg/internal/build"
	"github.com/pressdarling/simple-ssg/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ContentDir string `name:"content-dir" help:"Override content_dir"`
	OutputDir  string `name:"output-dir" short:"o" help:"Override output_dir"`
	Template   string `name:"template" help:"Override template_path"`
	BaseURL    string `name:"base-url" help:"Override base_url"`
	NoMinify   bool   `name:"no-minify" help:"Disable HTML minification"`
	NoSitemap  bool   `name:"no-sitemap" help:"Skip sitemap.xml"`
	NoRobots   bool   `name:"no-robots" help:"Skip robots.txt"`
	Workers    int    `name:"workers" help:"Render pages with N parallel workers"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, config.Overrides{
		ContentDir:   b.ContentDir,
		OutputDir:    b.OutputDir,
		TemplatePath: b.Template,
		BaseURL:      b.BaseURL,
		NoMinify:     b.NoMinify,
		NoSitemap:    b.NoSitemap,
		NoRobots:     b.NoRobots,
		Workers:      b.Workers,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunBuild(ctx, g, cfg)
	return err
}

// RunBuild performs one build, prints the summary and converts a failed
// report into an error wrapping ErrBuildFailed.
func RunBuild(ctx context.Context, g *Global, cfg *config.Config) (*build.Report, error) {
	fmt.Fprintf(g.Out, "Building site from %s\n", cfg.ContentDir)

	sb := newSiteBuilder(cfg, nil)
	defer sb.Close()

	report, err := sb.Build(ctx)
	report.WriteSummary(g.Out)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	if report.Failed() {
		return report, fmt.Errorf("%w: %d file(s) had errors", ErrBuildFailed, report.Errors)
	}
	return report, nil
}
