package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/llmdocs/internal/server/handlers"
	"git.home.luguber.info/inful/llmdocs/internal/server/responses"
)

// StatsCmd implements the 'stats' command.
type StatsCmd struct {
	JSON bool `help:"Print machine-readable JSON"`
}

func (s *StatsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	totals, err := store.Totals(ctx)
	if err != nil {
		return err
	}
	run, hasRun, err := store.LastRun(ctx)
	if err != nil {
		return err
	}

	if s.JSON {
		resp := responses.StatsResponse{
			Documents: totals.Documents,
			Tokens:    totals.Tokens,
			Malformed: totals.Malformed,
			Absent:    totals.Absent,
		}
		if !totals.LastUpdated.IsZero() {
			t := totals.LastUpdated.UTC()
			resp.LastUpdated = &t
		}
		if hasRun {
			rr := handlers.RunResponseFrom(run)
			resp.LastRun = &rr
		}
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "documents\t%d\n", totals.Documents)
	_, _ = fmt.Fprintf(tw, "tokens\t%d\n", totals.Tokens)
	_, _ = fmt.Fprintf(tw, "malformed frontmatter\t%d\n", totals.Malformed)
	_, _ = fmt.Fprintf(tw, "no frontmatter\t%d\n", totals.Absent)
	if hasRun {
		_, _ = fmt.Fprintf(tw, "last run\t%s (%s, %s, %s)\n",
			run.ID, run.Status, run.TriggeredBy, run.StartTime.Format("2006-01-02 15:04:05"))
		if run.Revision != "" {
			_, _ = fmt.Fprintf(tw, "content revision\t%s\n", run.Revision)
		}
	}
	return tw.Flush()
}
