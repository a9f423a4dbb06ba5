package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte("default_kpi: grassi\nprovince: SS\nlactation_years: 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultKPI != "grassi" || c.Province != "SS" || c.LactationYears != 2 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.MinLactationMonths != 4 || c.HistogramMonths != 12 || c.OutputFormat != "text" {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("default_kpi: grassi\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MILKBENCH_DEFAULT_KPI", "urea")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DefaultKPI != "urea" {
		t.Fatalf("env must win over file, got %q", c.DefaultKPI)
	}
}

func TestSetAndSaveRoundTrip(t *testing.T) {
	c := &Global{}
	if err := c.Set("histogram_months", "6"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set("histogram_months", "zero"); err == nil {
		t.Fatalf("non-numeric value must fail")
	}
	if err := c.Set("output_format", "xml"); err == nil {
		t.Fatalf("unknown format must fail")
	}
	if err := c.Set("nope", "1"); err == nil {
		t.Fatalf("unknown key must fail")
	}
	_ = c.Set("processor", "CAO")
	p := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.HistogramMonths != 6 || back.Processor != "CAO" {
		t.Fatalf("round trip lost values: %+v", back)
	}
}

func TestDecimalSeparatorValues(t *testing.T) {
	c := &Global{}
	for _, ok := range []string{",", ".", "comma", "dot", "Comma", ""} {
		if err := c.Set("decimal_separator", ok); err != nil {
			t.Fatalf("%q must be accepted: %v", ok, err)
		}
		if _, err := DecimalRune(c.DecimalSeparator); err != nil {
			t.Fatalf("saved %q must parse: %v", ok, err)
		}
	}
	if err := c.Set("decimal_separator", "x"); err == nil {
		t.Fatalf("unknown separator must fail")
	}
	if r, _ := DecimalRune("comma"); r != ',' {
		t.Fatalf("comma maps to %q", r)
	}
}
