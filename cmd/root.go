package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/milkbench-cli/internal/config"
	"github.com/KaramelBytes/milkbench-cli/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	logLevel     string
	dataPath     string
	tankPath     string
	kpiFlag      string
	provinceFlag string
	procFlag     string
	decimalFlag  string
	sheetFlag    string
	formatFlag   string
	outputPath   string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "milkbench",
	Short: "MilkBench CLI: benchmark farm milk-quality results against their peers",
	Long: `MilkBench reads lab exports of milk-quality results (somatic cells, bacterial
count, fat, protein, urea and more) and ranks each farm against its peer group
month by month, laid out on the October to September lactation year.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.milkbench/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	pf.StringVarP(&dataPath, "data", "d", "", "sample export to analyze (.json, .csv, .tsv, .xlsx, .yaml)")
	pf.StringVar(&tankPath, "tank", "", "processor bulk-tank export")
	pf.StringVarP(&kpiFlag, "kpi", "k", "", "KPI to analyze (overrides config default_kpi)")
	pf.StringVar(&provinceFlag, "province", "", "restrict the peer group to a province (CA, SS, OR, NU or name; 'all' clears)")
	pf.StringVar(&procFlag, "processor", "", "restrict the peer group to one processor's suppliers")
	pf.StringVar(&decimalFlag, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	pf.StringVar(&sheetFlag, "sheet", "", "XLSX: sheet name to read (default first sheet)")
	pf.StringVarP(&formatFlag, "format", "f", "", "output format: text|json|yaml (overrides config)")
	pf.StringVarP(&outputPath, "output", "o", "", "write the report to this path instead of stdout")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands with defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{DefaultKPI: "cellule", LactationYears: 3, MinLactationMonths: 4, HistogramMonths: 12, OutputFormat: "text", LogLevel: "info"}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") && logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if f.Changed("format") && formatFlag != "" {
		cfg.OutputFormat = formatFlag
	}
	if f.Changed("kpi") && kpiFlag != "" {
		cfg.DefaultKPI = kpiFlag
	}
	if f.Changed("province") {
		cfg.Province = provinceFlag
	}
	if f.Changed("processor") {
		cfg.Processor = procFlag
	}
	if f.Changed("decimal") {
		cfg.DecimalSeparator = decimalFlag
	}
	logging.Setup(cfg.LogLevel, debug, os.Stderr)
	log.Debug().Str("kpi", cfg.DefaultKPI).Str("format", cfg.OutputFormat).Msg("configuration loaded")
}
