package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lexwatch/judgment-scraper/internal/export"
	"github.com/lexwatch/judgment-scraper/internal/filter"
	"github.com/lexwatch/judgment-scraper/internal/judgment"
	"github.com/lexwatch/judgment-scraper/internal/storage"
)

type exportFlags struct {
	recent   int
	out      string
	csv      string
	period   string
	from     string
	to       string
	keywords []string
	terms    []string
	delivery deliveryFlags
}

// filter builds the record filter from the selection flags.
func (f *exportFlags) filter() (*filter.Filter, error) {
	flt := filter.NewFilter()

	if f.period != "" {
		if f.from != "" || f.to != "" {
			return nil, fmt.Errorf("--period cannot be combined with --from or --to")
		}
		from, to, err := filter.ParseDateRange(f.period)
		if err != nil {
			return nil, err
		}
		flt.DateFrom, flt.DateTo = from, to
	}
	if f.from != "" {
		from, err := filter.ParseDate(f.from)
		if err != nil {
			return nil, err
		}
		flt.DateFrom = from
	}
	if f.to != "" {
		to, err := filter.ParseDate(f.to)
		if err != nil {
			return nil, err
		}
		flt.DateTo = to
	}
	if flt.DateFrom != nil && flt.DateTo != nil && flt.DateFrom.After(*flt.DateTo) {
		return nil, fmt.Errorf("--from must not be after --to")
	}

	flt.Keywords = append(flt.Keywords, f.keywords...)
	flt.Terms = append(flt.Terms, f.terms...)
	return flt, nil
}

func newExportCmd(a *app) *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored judgments to a workbook",
		Example: `  judgments export
  judgments export --recent 30 --email
  judgments export --out weekly.xlsx --csv weekly.csv
  judgments export --period "Jan 2024 - Jun 2024" --keyword bail
  judgments export --from 2024-01-01 --match "state of kerala"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, a, &f)
		},
	}

	cmd.Flags().IntVar(&f.recent, "recent", 0, "Only judgments dated within the last N days")
	cmd.Flags().StringVar(&f.out, "out", "", "Workbook path (default <out_dir>/judgments_<date>.xlsx)")
	cmd.Flags().StringVar(&f.csv, "csv", "", "Also write a CSV file to this path")
	cmd.Flags().StringVar(&f.period, "period", "", `Judgment date period ("2024", "Mar 2024", "Jan 2024 - Jun 2024", "2024-01-15..2024-02-10")`)
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest judgment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest judgment date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.keywords, "keyword", nil, "Only judgments found by this search keyword (repeatable)")
	cmd.Flags().StringSliceVar(&f.terms, "match", nil, "Only judgments whose case name or title contains this text (repeatable)")
	f.delivery.register(cmd)

	return cmd
}

func runExport(cmd *cobra.Command, a *app, f *exportFlags) error {
	if f.recent < 0 {
		return fmt.Errorf("--recent must not be negative, got %d", f.recent)
	}
	flt, err := f.filter()
	if err != nil {
		return err
	}

	cfg, err := a.load()
	if err != nil {
		return err
	}
	if err := f.delivery.validate(cfg); err != nil {
		return err
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var records []*judgment.Record
	if f.recent > 0 {
		records, err = store.Recent(cmd.Context(), f.recent)
	} else {
		records, err = store.All(cmd.Context())
	}
	if err != nil {
		return err
	}
	if !flt.IsEmpty() {
		records = flt.Apply(records)
		fmt.Fprintf(a.stdout, "Filter: %s (%d matching)\n", flt, len(records))
	}

	out := f.out
	if out == "" {
		out = filepath.Join(cfg.OutDir, export.Filename(a.now(), "xlsx"))
	}

	written, err := writeArtifactsTo(out, f.csv, records)
	if err != nil {
		return err
	}

	if err := f.delivery.deliver(cmd.Context(), a, cfg, written.xlsx); err != nil {
		return err
	}

	for _, p := range written.paths() {
		fmt.Fprintf(a.stdout, "Wrote %s (%d records)\n", p, written.xlsx.Records)
	}
	return nil
}
