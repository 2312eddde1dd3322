package commands

import (
	"fmt"

	"github.com/pressdarling/simple-ssg/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir      string `arg:"" optional:"" default:"." help:"Project directory"`
	Template string `enum:"basic,blog,portfolio" default:"basic" help:"Starter template (basic, blog, portfolio)"`
}

func (i *InitCmd) Run(g *Global, _ *CLI) error {
	res, err := scaffold.Init(i.Dir, i.Template)
	if err != nil {
		return err
	}
	for _, p := range res.Created {
		fmt.Fprintf(g.Out, "Created %s\n", p)
	}
	for _, p := range res.Skipped {
		fmt.Fprintf(g.Out, "Skipped %s (already exists)\n", p)
	}
	fmt.Fprintf(g.Out, "\nProject initialized in %s\n\nTo build your site:\n  cd %s\n  simplessg build\n\nTo preview it:\n  simplessg serve\n", i.Dir, i.Dir)
	return nil
}
