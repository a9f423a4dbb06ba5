package analysis

import (
	"math"
	"testing"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

func TestGroupAndSampleMonthlyMeans(t *testing.T) {
	rows := []record.Row{
		{Entity: "A", Year: 2024, Month: 0, Value: 3},
		{Entity: "A", Year: 2024, Month: 0, Value: 5},
		{Entity: "B", Year: 2024, Month: 0, Value: 10},
		{Entity: "B", Year: 2024, Month: 1, Value: 2},
	}
	group := GroupMonthlyMeans(rows, "grassi")
	// January: entity means 4 and 10 -> 7
	if len(group) != 2 || group[0].Value != 7 || group[1].Value != 2 {
		t.Fatalf("group means = %+v", group)
	}
	samples := SampleMonthlyMeans(rows, "grassi")
	// January pooled: (3 + 5 + 10) / 3 = 6
	if samples[0].Value != 6 {
		t.Fatalf("sample means = %+v", samples)
	}
	geo := SampleMonthlyMeans(rows, "cellule")
	if math.Abs(geo[0].Value-math.Cbrt(150)) > 1e-9 {
		t.Fatalf("log-domain sample mean = %v", geo[0].Value)
	}
}

func TestTankMonthlyAndPeers(t *testing.T) {
	tank := TankMonthly([]record.Row{
		{Entity: "CAO", Year: 2024, Month: 3, Value: 4},
		{Entity: "CAO", Year: 2024, Month: 3, Value: 6},
		{Entity: "CAO", Year: 2023, Month: 9, Value: 1},
	})
	if len(tank) != 2 || tank[0].Year != 2023 || tank[1].Value != 5 {
		t.Fatalf("tank monthly = %+v", tank)
	}
	pc := CountPeers([]record.Row{
		{Entity: "A", Year: 2024, Month: 0},
		{Entity: "B", Year: 2024, Month: 0},
		{Entity: "A", Year: 2024, Month: 1},
	})
	if pc.Entities != 2 || pc.Samples != 3 || pc.SamplesPerMonth != 2 {
		t.Fatalf("peer counts = %+v", pc)
	}
}
