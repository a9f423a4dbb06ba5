package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/milkbench-cli/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags clears values and Changed state left by earlier invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// writeFixtures writes four farms with constant fat from October 2023 to
// March 2024 and a processor tank reading 4.0 in the same months.
func writeFixtures(t *testing.T) (data, tank string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	fat := map[string]string{"A": "3.5", "B": "3.8", "C": "4.0", "D": "4.2"}
	var rows, tankRows []string
	for _, ym := range [][2]int{{2023, 10}, {2023, 11}, {2023, 12}, {2024, 1}, {2024, 2}, {2024, 3}} {
		for _, e := range []string{"A", "B", "C", "D"} {
			rows = append(rows, fmt.Sprintf(`{"Azienda":%q,"KPI":"Grassi","Anno":%d,"Mese":%d,"Valore":%s,"Provincia":"SS"}`, e, ym[0], ym[1], fat[e]))
		}
		tankRows = append(tankRows, fmt.Sprintf(`{"Azienda":"CAO","KPI":"grassi","Anno":%d,"Mese":%d,"Valore":4.0}`, ym[0], ym[1]))
	}
	data = filepath.Join(home, "samples.json")
	tank = filepath.Join(home, "tank.json")
	if err := os.WriteFile(data, []byte("["+strings.Join(rows, ",\n")+"]"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := os.WriteFile(tank, []byte("["+strings.Join(tankRows, ",\n")+"]"), 0o644); err != nil {
		t.Fatalf("write tank: %v", err)
	}
	return data, tank
}

func TestCLI_PercentileJSON(t *testing.T) {
	data, _ := writeFixtures(t)
	out := mustRun(t, "percentile", "D", "-d", data, "-k", "grassi", "-f", "json")
	var rep pipeline.PercentileReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rep.Trajectories) != 1 || rep.Trajectories[0].Label != "2023-24" {
		t.Fatalf("trajectories = %+v", rep.Trajectories)
	}
	v := rep.Trajectories[0].Values
	// highest of four: 3.5 / 4 = 87.5 -> 88
	if v[0] == nil || *v[0] != 88 || v[11] != nil {
		t.Fatalf("values = %v", v)
	}
	if !strings.Contains(out, `null`) {
		t.Fatalf("months without data must encode as null")
	}
}

func TestCLI_ValuesAndLactationsText(t *testing.T) {
	data, _ := writeFixtures(t)
	out := mustRun(t, "values", "A", "-d", data, "-k", "fat", "--years", "2023-24")
	if !strings.Contains(out, "[VALUE TRAJECTORY]") || !strings.Contains(out, "2023-24 median") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	out = mustRun(t, "lactations", "A", "-d", data, "-k", "grassi")
	if !strings.Contains(out, "Default: 2023-24") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCLI_HistogramToFile(t *testing.T) {
	data, _ := writeFixtures(t)
	dest := filepath.Join(t.TempDir(), "reports", "hist.md")
	out := mustRun(t, "histogram", "B", "-d", data, "-k", "grassi", "--lactation", "2023", "-o", dest)
	if !strings.Contains(out, "✓ Wrote report to") {
		t.Fatalf("expected confirmation, got %q", out)
	}
	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(body), "[DISTRIBUTION]") || !strings.Contains(string(body), "Marker: 3.8") {
		t.Fatalf("unexpected report:\n%s", body)
	}
	if _, err := runCLI(t, "histogram", "-d", data, "--months", "3", "--lactation", "2023"); err == nil {
		t.Fatalf("conflicting window flags must fail")
	}
}

func TestCLI_TankYAML(t *testing.T) {
	data, tank := writeFixtures(t)
	out := mustRun(t, "tank", "-d", data, "--tank", tank, "-k", "grassi", "-f", "yaml", "--mode", "samples")
	if !strings.Contains(out, "mode: samples") || !strings.Contains(out, "label: 2023-24") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
	out = mustRun(t, "tank", "-d", data, "--tank", tank, "-k", "grassi", "--histogram")
	if !strings.Contains(out, "Subject: tank.json") || !strings.Contains(out, "percentile 63") {
		t.Fatalf("unexpected histogram:\n%s", out)
	}
	if _, err := runCLI(t, "tank", "-d", data, "-k", "grassi"); !errors.Is(err, pipeline.ErrNoTank) {
		t.Fatalf("expected ErrNoTank, got %v", err)
	}
}

func TestCLI_ErrorsAndFilters(t *testing.T) {
	data, _ := writeFixtures(t)
	if _, err := runCLI(t, "percentile", "Z", "-d", data, "-k", "grassi"); !errors.Is(err, pipeline.ErrNoEntity) {
		t.Fatalf("expected ErrNoEntity, got %v", err)
	}
	if _, err := runCLI(t, "percentile", "A", "-k", "grassi"); !errors.Is(err, pipeline.ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}
	// every fixture row is in Sassari; a Cagliari peer group is empty
	if _, err := runCLI(t, "percentile", "A", "-d", data, "-k", "grassi", "--province", "CA"); !errors.Is(err, pipeline.ErrNoEntity) {
		t.Fatalf("expected ErrNoEntity under a foreign province, got %v", err)
	}
	out := mustRun(t, "entities", "-d", data, "-k", "grassi", "--province", "ss")
	if !strings.Contains(out, "Count: 4") {
		t.Fatalf("unexpected entities:\n%s", out)
	}
}

func TestCLI_ConfigSetShowAndKPIs(t *testing.T) {
	data, _ := writeFixtures(t)
	mustRun(t, "config", "set", "default_kpi", "urea")
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "default_kpi: urea") {
		t.Fatalf("config not persisted:\n%s", out)
	}
	if _, err := runCLI(t, "config", "set", "histogram_months", "zero"); err == nil {
		t.Fatalf("invalid value must fail")
	}
	mustRun(t, "config", "set", "decimal_separator", "comma")
	if _, err := runCLI(t, "config", "set", "decimal_separator", "x"); err == nil {
		t.Fatalf("unknown decimal separator must be rejected by config set")
	}
	if _, err := runCLI(t, "entities", "-d", data, "--decimal", "x"); err == nil {
		t.Fatalf("unknown decimal separator must be rejected on the command line")
	}
	out = mustRun(t, "kpis", "-d", data)
	if !strings.Contains(out, "- grassi [%]: higher is better, 24 rows") || !strings.Contains(out, "- cellule [cell/mL]: lower is better, geometric mean") {
		t.Fatalf("unexpected kpis:\n%s", out)
	}
}
