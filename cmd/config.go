package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/milkbench-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set MilkBench configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_kpi: %s\n", c.DefaultKPI)
		if c.DefaultEntity != "" {
			fmt.Fprintf(out, "default_entity: %s\n", c.DefaultEntity)
		}
		fmt.Fprintf(out, "lactation_years: %d\n", c.LactationYears)
		fmt.Fprintf(out, "min_lactation_months: %d\n", c.MinLactationMonths)
		fmt.Fprintf(out, "histogram_months: %d\n", c.HistogramMonths)
		if c.Province != "" {
			fmt.Fprintf(out, "province: %s\n", c.Province)
		}
		if c.Processor != "" {
			fmt.Fprintf(out, "processor: %s\n", c.Processor)
		}
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %s\n", c.DecimalSeparator)
		}
		fmt.Fprintf(out, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// reload so command-line overrides are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
