package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/milkbench-cli/internal/config"
	"github.com/KaramelBytes/milkbench-cli/internal/loader"
	"github.com/KaramelBytes/milkbench-cli/internal/pipeline"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"github.com/KaramelBytes/milkbench-cli/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func parseOptions(c *cfgpkg.Global) (record.Options, error) {
	dec, err := cfgpkg.DecimalRune(c.DecimalSeparator)
	if err != nil {
		return record.Options{}, err
	}
	return record.Options{DecimalSeparator: dec}, nil
}

func loadDataset(path string) (*pipeline.Dataset, error) {
	rows, err := loader.LoadFile(path, loader.Options{Sheet: sheetFlag})
	if err != nil {
		return nil, err
	}
	return pipeline.NewDataset(filepath.Base(path), rows), nil
}

// buildContext loads --data (and --tank when needTank) and applies the
// effective KPI, peer group and parse settings.
func buildContext(needTank bool) (*pipeline.Context, error) {
	c := effectiveConfig()
	if dataPath == "" {
		return nil, fmt.Errorf("--data is required: %w", pipeline.ErrNoDataset)
	}
	opt, err := parseOptions(c)
	if err != nil {
		return nil, err
	}
	ds, err := loadDataset(dataPath)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{
		pipeline.WithParseOptions(opt),
		pipeline.WithLactationYears(c.LactationYears, c.MinLactationMonths),
		pipeline.WithHistogramMonths(c.HistogramMonths),
	}
	if needTank {
		if tankPath == "" {
			return nil, fmt.Errorf("--tank is required: %w", pipeline.ErrNoTank)
		}
		tank, err := loadDataset(tankPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithTank(tank))
	}
	sel := pipeline.Selection{
		KPI:    c.DefaultKPI,
		Filter: record.Filter{Province: c.Province, Processor: c.Processor},
	}
	log.Info().Str("dataset", ds.Name).Int("rows", ds.Len()).Str("kpi", sel.KPI).Msg("dataset loaded")
	return pipeline.New(ds, sel, opts...), nil
}

func entityArg(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if e := strings.TrimSpace(effectiveConfig().DefaultEntity); e != "" {
		return e, nil
	}
	return "", fmt.Errorf("an entity is required (argument or default_entity)")
}

// parseYears accepts start years ("2023") and lactation labels ("2023-24").
func parseYears(vals []string) ([]int, error) {
	var out []int
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		start := v
		if i := strings.IndexByte(v, '-'); i > 0 {
			start = v[:i]
		}
		y, err := strconv.Atoi(start)
		if err != nil || y < 1900 {
			return nil, fmt.Errorf("invalid lactation year %q (use 2023 or 2023-24)", v)
		}
		out = append(out, y)
	}
	return out, nil
}

// parseYearMonth accepts "2024-03" (1-based month).
func parseYearMonth(s string) (*analysis.YearMonth, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid month %q (use YYYY-MM)", s)
	}
	y, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return nil, fmt.Errorf("invalid month %q (use YYYY-MM)", s)
	}
	return &analysis.YearMonth{Year: y, Month: m - 1}, nil
}

type windowFlags struct {
	months    int
	lactation string
	from, to  string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&w.months, "months", 0, "window: trailing months ending at the newest month with data")
	cmd.Flags().StringVar(&w.lactation, "lactation", "", "window: one lactation year (2023 or 2023-24)")
	cmd.Flags().StringVar(&w.from, "from", "", "window: first month YYYY-MM (custom range)")
	cmd.Flags().StringVar(&w.to, "to", "", "window: last month YYYY-MM (custom range)")
}

// window returns the zero Window when no flag was given, letting the
// pipeline pick its default.
func (w *windowFlags) window() (analysis.Window, error) {
	set := 0
	if w.months > 0 {
		set++
	}
	if w.lactation != "" {
		set++
	}
	if w.from != "" || w.to != "" {
		set++
	}
	if set > 1 {
		return analysis.Window{}, fmt.Errorf("use only one of --months, --lactation or --from/--to")
	}
	switch {
	case w.months > 0:
		return analysis.Window{Kind: analysis.WindowLastMonths, Months: w.months}, nil
	case w.lactation != "":
		ys, err := parseYears([]string{w.lactation})
		if err != nil {
			return analysis.Window{}, err
		}
		return analysis.Window{Kind: analysis.WindowLactation, StartYear: ys[0]}, nil
	case w.from != "" || w.to != "":
		win := analysis.Window{Kind: analysis.WindowCustom}
		if w.from != "" {
			ym, err := parseYearMonth(w.from)
			if err != nil {
				return win, err
			}
			win.From = ym
		}
		if w.to != "" {
			ym, err := parseYearMonth(w.to)
			if err != nil {
				return win, err
			}
			win.To = ym
		}
		return win, nil
	}
	return analysis.Window{}, nil
}

// emit renders v in the configured format and writes it to --output or out.
func emit(out io.Writer, v any, markdown func() string) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(effectiveConfig().OutputFormat) {
	case "json":
		b, err = utils.PrettyJSON(v)
		if err == nil {
			b = append(b, '\n')
		}
	case "yaml", "yml":
		b, err = utils.YAML(v)
	case "", "text", "md", "markdown":
		b = []byte(markdown())
	default:
		return fmt.Errorf("unsupported output format: %s (use text, json or yaml)", effectiveConfig().OutputFormat)
	}
	if err != nil {
		return err
	}
	if outputPath != "" {
		if err := utils.SafeWriteFile(outputPath, b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote report to %s\n", outputPath)
		return nil
	}
	_, err = out.Write(b)
	return err
}
