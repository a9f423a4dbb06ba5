package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

func TestAggregateGeometricForLogDomain(t *testing.T) {
	rows := []record.Row{
		{Entity: "A", Year: 2024, Month: 0, Value: 100},
		{Entity: "A", Year: 2024, Month: 0, Value: 200},
		{Entity: "A", Year: 2024, Month: 0, Value: 400},
	}
	cells := Aggregate(rows, "cellule")
	if len(cells) != 1 {
		t.Fatalf("expected one cell, got %+v", cells)
	}
	want := math.Exp((math.Log(100) + math.Log(200) + math.Log(400)) / 3)
	if math.Abs(cells[0].Value-want) > 1e-9 || math.Abs(cells[0].Value-200) > 1e-6 {
		t.Fatalf("geometric mean = %v, want %v", cells[0].Value, want)
	}
	arith := Aggregate(rows, "urea")
	if math.Abs(arith[0].Value-700.0/3) > 1e-9 {
		t.Fatalf("arithmetic mean = %v", arith[0].Value)
	}
}

func TestAggregateDropsCellsWithoutPositiveValues(t *testing.T) {
	rows := []record.Row{
		{Entity: "A", Year: 2024, Month: 1, Value: 0},
		{Entity: "A", Year: 2024, Month: 1, Value: -5},
		{Entity: "B", Year: 2024, Month: 1, Value: 0},
		{Entity: "B", Year: 2024, Month: 1, Value: 50},
	}
	cells := Aggregate(rows, "carica")
	if len(cells) != 1 || cells[0].Entity != "B" || cells[0].Value != 50 {
		t.Fatalf("unexpected cells: %+v", cells)
	}
}

func TestAggregateSortedAndUnique(t *testing.T) {
	rows := []record.Row{
		{Entity: "B", Year: 2024, Month: 2, Value: 1},
		{Entity: "A", Year: 2024, Month: 3, Value: 1},
		{Entity: "A", Year: 2023, Month: 11, Value: 3},
		{Entity: "A", Year: 2024, Month: 3, Value: 3},
	}
	cells := Aggregate(rows, "grassi")
	if len(cells) != 3 {
		t.Fatalf("expected 3 unique cells, got %+v", cells)
	}
	if cells[0].Year != 2023 || cells[1].Value != 2 || cells[2].Entity != "B" {
		t.Fatalf("unexpected order/values: %+v", cells)
	}
}
