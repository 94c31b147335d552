package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/claimdeck/internal/claims"
	"github.com/five82/claimdeck/internal/export"
	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/logging"
	"github.com/five82/claimdeck/internal/query"
	"github.com/five82/claimdeck/internal/window"
)

type listOptions struct {
	statuses []string
	sort     string
	search   string
	offset   int
	limit    int
	format   string
	columns  []string
}

func newListCmd(v *viper.Viper) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print claims once and exit",
		Long: `Fetch the claims collection, apply the same filter, sort and search the
dashboard uses, and print one page of the result.`,
		Example: `  claimdeck list --status Approved --sort total-highest --limit 20
  claimdeck list --search ada --format csv > claims.csv
  claimdeck list --where "total > 1000" --format ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, v, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.statuses, "status", nil, "only show these statuses (repeatable)")
	f.StringVar(&opts.sort, "sort", string(query.DefaultSort), "sort option")
	f.StringVar(&opts.search, "search", "", "match claim number, holder or policy number")
	f.IntVar(&opts.offset, "offset", 0, "skip this many claims")
	f.IntVar(&opts.limit, "limit", 0, "print at most this many claims (0 for all)")
	f.StringVar(&opts.format, "format", string(export.FormatTable), "table, csv or ndjson")
	f.StringSliceVar(&opts.columns, "columns", nil, "columns to print for table and csv output")
	return cmd
}

func runList(cmd *cobra.Command, v *viper.Viper, opts listOptions) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	sortOpt, err := query.ParseSortOption(opts.sort)
	if err != nil {
		return err
	}
	where, err := query.ParseExpr(v.GetString("where"))
	if err != nil {
		return err
	}
	outFormat, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cols, err := parseColumns(opts.columns)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	client, err := claims.NewClient(cfg.APIURL, claims.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init claims client: %w", err)
	}
	items, err := client.FetchClaims(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch claims: %w", err)
	}

	formatted := format.New().Format(items)
	visible := query.NewPipeline[format.FormattedClaim]().Run(formatted, query.Query{
		Statuses: query.NewStatusSet(opts.statuses...),
		Sort:     sortOpt,
		Where:    where,
		Term:     opts.search,
	})
	return export.Write(cmd.OutOrStdout(), outFormat, page(visible, opts.offset, opts.limit), cols)
}

// page windows items the way the dashboard does, with one-unit rows and no
// buffer so the range is exactly [offset, offset+limit).
func page[T any](items []T, offset, limit int) []T {
	offset = max(0, offset)
	if offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		return items[offset:]
	}
	r := window.Rows(offset, window.RowParams{
		ItemHeight:      1,
		ContainerHeight: limit,
		Total:           len(items),
	})
	return items[r.Start:r.End]
}

func parseColumns(names []string) ([]query.Column, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := make(map[string]query.Column)
	for _, col := range query.Columns() {
		known[string(col)] = col
	}
	out := make([]query.Column, 0, len(names))
	for _, name := range names {
		col, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		out = append(out, col)
	}
	return out, nil
}
