package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/milkbench-cli/internal/loader"
	"github.com/xuri/excelize/v2"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadJSONArrayKeepsNumberText(t *testing.T) {
	p := write(t, "samples.json", `[
		{"Azienda": "A1", "KPI": "Grassi", "Anno": 2024, "Mese": 3, "Valore": 3.80, "Provincia": "SS"},
		{"azienda": "A2", "kpi": "Cellule", "anno": "2024", "mese": "3", "valore": "250000", "Extra": true}
	]`)
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Value != "3.80" || rows[0].Year != "2024" || rows[0].Province != "SS" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Entity != "A2" || rows[1].KPI != "Cellule" {
		t.Fatalf("case-insensitive keys not matched: %+v", rows[1])
	}
}

func TestLoadJSONWrapped(t *testing.T) {
	p := write(t, "wrapped.json", `{"generated": "x", "data": [{"Azienda": "A1", "KPI": "urea", "Valore": 22}]}`)
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil || len(rows) != 1 || rows[0].Value != "22" {
		t.Fatalf("wrapped load = %+v, %v", rows, err)
	}
	bad := write(t, "bad.json", `{"nothing": 1}`)
	if _, err := loader.LoadFile(bad, loader.Options{}); err == nil {
		t.Fatalf("an object without a row array must fail")
	}
}

func TestLoadCSVSemicolon(t *testing.T) {
	p := write(t, "export.csv", "\ufeffAzienda;KPI;Anno;Mese;Valore\n"+
		"A1;Grassi;2024;1;3,75\n"+
		";;;;\n"+
		"A2;Grassi;2024;1;4,10\n")
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("blank rows must be skipped, got %d", len(rows))
	}
	if rows[0].Entity != "A1" || rows[0].Value != "3,75" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestLoadTSV(t *testing.T) {
	p := write(t, "export.tsv", "Azienda\tKPI\tData\tValore\nA1\tUrea\t2024-02-03\t25\n")
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil || len(rows) != 1 || rows[0].Date != "2024-02-03" {
		t.Fatalf("tsv load = %+v, %v", rows, err)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"Azienda", "KPI", "Anno", "Mese", "Valore", "Caseificio"},
		{"A1", "Proteine", 2023, 11, 3.4, "CAO"},
		{"A2", "Proteine", 2023, 11, 3.6, "CAO"},
	}
	for i, row := range cells {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("coords: %v", err)
		}
		if err := f.SetSheetRow(sheet, ref, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 || rows[1].Value != "3.6" || rows[0].Processor != "CAO" || rows[0].Month != "11" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if _, err := loader.LoadFile(p, loader.Options{Sheet: "Missing"}); err == nil {
		t.Fatalf("unknown sheet must fail")
	}
}

func TestLoadYAML(t *testing.T) {
	p := write(t, "rows.yaml", "- Azienda: A1\n  KPI: pH\n  Anno: 2024\n  Mese: 5\n  Valore: 6.7\n")
	rows, err := loader.LoadFile(p, loader.Options{})
	if err != nil || len(rows) != 1 || rows[0].Value != "6.7" || rows[0].Year != "2024" {
		t.Fatalf("yaml load = %+v, %v", rows, err)
	}
}

func TestLoadUnsupported(t *testing.T) {
	p := write(t, "notes.txt", "hello")
	if _, err := loader.LoadFile(p, loader.Options{}); !errors.Is(err, loader.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
