package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pressdarling/simple-ssg/internal/config"
	"github.com/pressdarling/simple-ssg/internal/eventstore"
	"github.com/pressdarling/simple-ssg/internal/foundation/errors"
	"github.com/pressdarling/simple-ssg/internal/gitinfo"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config, config.Overrides{})
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return errors.ConfigError("history_db is not configured").UserAction().Build()
	}

	store, err := eventstore.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds, err := eventstore.History(context.Background(), store, h.Limit)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		fmt.Fprintln(g.Out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUILD\tSTATUS\tSTARTED\tDURATION\tPROCESSED\tERRORS\tSKIPPED\tCOMMIT")
	for _, b := range builds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			b.BuildID,
			b.Status,
			b.StartedAt.Local().Format(time.DateTime),
			b.Duration().Round(time.Millisecond),
			b.Processed,
			b.Errors,
			b.Skipped,
			gitinfo.Short(b.SourceCommit))
	}
	return tw.Flush()
}
