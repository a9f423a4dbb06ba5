package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
	"github.com/KaramelBytes/milkbench-cli/internal/pipeline"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"github.com/spf13/cobra"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List farms with data for the selected KPI and peer group",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := buildContext(false)
		if err != nil {
			return err
		}
		list, err := pc.Entities()
		if err != nil {
			return err
		}
		kpiKey := kpi.Canonical(pc.Selection().KPI)
		return emit(cmd.OutOrStdout(), list, func() string { return pipeline.EntitiesMarkdown(kpiKey, list) })
	},
}

// KPIInfo describes one catalog entry and how many rows carry it.
type KPIInfo struct {
	Key           string   `json:"key" yaml:"key"`
	Unit          string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	LowerIsBetter bool     `json:"lower_is_better" yaml:"lower_is_better"`
	LogDomain     bool     `json:"log_domain" yaml:"log_domain"`
	Aliases       []string `json:"aliases" yaml:"aliases"`
	Rows          int      `json:"rows" yaml:"rows"`
}

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "List known KPIs, and row counts when --data is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := map[string]int{}
		var unknown []string
		if dataPath != "" {
			ds, err := loadDataset(dataPath)
			if err != nil {
				return err
			}
			counts = record.KPICounts(ds.Rows())
			for k := range counts {
				if !kpi.IsKnown(k) {
					unknown = append(unknown, k)
				}
			}
			sort.Strings(unknown)
		}
		var infos []KPIInfo
		for _, k := range kpi.Known() {
			infos = append(infos, KPIInfo{
				Key:           k,
				Unit:          kpi.Unit(k),
				LowerIsBetter: kpi.LowerIsBetter(k),
				LogDomain:     kpi.LogDomain(k),
				Aliases:       kpi.Aliases(k),
				Rows:          counts[k],
			})
		}
		return emit(cmd.OutOrStdout(), infos, func() string {
			var b strings.Builder
			b.WriteString("[KPIS]\n")
			for _, in := range infos {
				dir := "higher is better"
				if in.LowerIsBetter {
					dir = "lower is better"
				}
				b.WriteString(fmt.Sprintf("- %s", in.Key))
				if in.Unit != "" {
					b.WriteString(fmt.Sprintf(" [%s]", in.Unit))
				}
				b.WriteString(fmt.Sprintf(": %s", dir))
				if in.LogDomain {
					b.WriteString(", geometric mean")
				}
				if dataPath != "" {
					b.WriteString(fmt.Sprintf(", %d rows", in.Rows))
				}
				b.WriteString("\n")
			}
			if len(unknown) > 0 {
				b.WriteString("Unrecognized labels: " + strings.Join(unknown, ", ") + "\n")
			}
			return b.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(kpisCmd)
}
