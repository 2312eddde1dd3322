package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pressdarling/simple-ssg/cmd/simplessg/commands"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("simplessg"),
		kong.Description("Build static HTML sites from Markdown content and a single template."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Out: os.Stdout}, cli)
	if err == nil {
		return
	}

	adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
	if stderrors.Is(err, commands.ErrBuildFailed) {
		// Any failed build exits 1, whatever the underlying category.
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(1)
	}
	adapter.HandleError(err)
}
