package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/colonyops/powerbar/pkg/iojson"
)

type SearchCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
	limit      int
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags, app *App) *SearchCmd {
	return &SearchCmd{flags: flags, app: app}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog once and print the suggestions",
		UsageText: "powerbar search [--json] [--limit n] <query...>",
		Description: `Runs the same categorized search the overlay runs and prints the result
grouped by category (tracks, artists, albums, playlists).

Use --json for machine-readable output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the categorized result as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "results per category (defaults to results_per_category)",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if utf8.RuneCountInString(query) < search.MinQueryLength {
		return fmt.Errorf("query must be at least %d characters", search.MinQueryLength)
	}

	limit := cmd.limit
	if limit == 0 {
		limit = cmd.app.Config.ResultsPerCategory
	}
	if limit < config.MinResultsPerCategory || limit > config.MaxResultsPerCategory {
		return fmt.Errorf("limit must be between %d and %d, got %d",
			config.MinResultsPerCategory, config.MaxResultsPerCategory, limit)
	}

	d := search.New(cmd.app.Searcher, search.Options{Limit: limit})
	resp := d.Run(ctx, search.Request{Seq: 1, Query: query, Limit: limit})
	if resp.Err != nil {
		return resp.Err
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.Write(out, c.Root().ErrWriter, searchOutput{
			Query: query,
			Sets:  nonNilSets(resp.Result.Sets()),
		})
	}

	if resp.Result.Empty() {
		_, _ = fmt.Fprintln(out, "No results")
		return nil
	}
	writeTable(out, resp.Result)
	return nil
}

// searchOutput is the JSON output format for powerbar search --json.
type searchOutput struct {
	Query string        `json:"query"`
	Sets  []suggest.Set `json:"sets"`
}

func nonNilSets(sets []suggest.Set) []suggest.Set {
	if sets == nil {
		return []suggest.Set{}
	}
	return sets
}

func writeTable(out io.Writer, r suggest.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATEGORY\tNAME\tINFO\tURI")
	for _, e := range r.Flat() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Category.Label(), e.Item.Name, e.Item.Info(), e.Item.URI)
	}
	_ = w.Flush()
}
