package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

func TestToLactation(t *testing.T) {
	if l := ToLactation(2023, 9); l.StartYear != 2023 || l.Position != 0 {
		t.Fatalf("October 2023 -> %+v", l)
	}
	if l := ToLactation(2024, 2); l.StartYear != 2023 || l.Position != 5 {
		t.Fatalf("March 2024 -> %+v", l)
	}
	if l := ToLactation(2024, 8); l.StartYear != 2023 || l.Position != 11 {
		t.Fatalf("September 2024 -> %+v", l)
	}
	for pos := 0; pos < 12; pos++ {
		ym := CalendarMonth(2022, pos)
		if l := ToLactation(ym.Year, ym.Month); l.StartYear != 2022 || l.Position != pos {
			t.Fatalf("round trip failed at position %d: %+v -> %+v", pos, ym, l)
		}
	}
	if LactationLabel(2023) != "2023-24" || LactationLabel(1999) != "1999-00" {
		t.Fatalf("unexpected labels %q %q", LactationLabel(2023), LactationLabel(1999))
	}
}

func TestLastNLactationYearsIsPerEntity(t *testing.T) {
	rows := []record.Row{
		{Entity: "A", Year: 2020, Month: 10},
		{Entity: "A", Year: 2022, Month: 1},
		{Entity: "A", Year: 2023, Month: 9},
		{Entity: "A", Year: 2024, Month: 3},
		{Entity: "B", Year: 2019, Month: 0},
	}
	got := LastNLactationYears("A", rows, 3)
	// A's lactation starts: 2020, 2021 (Feb 2022), 2023, 2023 (Apr 2024) -> {2020, 2021, 2023}
	if len(got) != 3 || got[0] != 2020 || got[1] != 2021 || got[2] != 2023 {
		t.Fatalf("A years = %v", got)
	}
	if b := LastNLactationYears("B", rows, 0); len(b) != 1 || b[0] != 2018 {
		t.Fatalf("B years = %v", b)
	}
	rows = append(rows, record.Row{Entity: "A", Year: 2025, Month: 0})
	if got := LastNLactationYears("A", rows, 3); got[0] != 2021 || got[2] != 2024 {
		t.Fatalf("only the three most recent years are kept, got %v", got)
	}
}

func TestDefaultLactationsRequiresEstablishedYears(t *testing.T) {
	var vals []MonthValue
	// 2021-22: five months, 2022-23: six months, 2023-24: two months
	for _, m := range []int{9, 10, 11, 0, 1} {
		y := 2021
		if m < 9 {
			y = 2022
		}
		vals = append(vals, MonthValue{Year: y, Month: m, Value: 1})
	}
	for m := 0; m < 6; m++ {
		vals = append(vals, MonthValue{Year: 2023, Month: m, Value: 1})
	}
	vals = append(vals, MonthValue{Year: 2023, Month: 10, Value: 1}, MonthValue{Year: 2024, Month: 0, Value: 1})
	got := DefaultLactations(vals, 3, 4)
	if len(got) != 2 || got[0] != 2021 || got[1] != 2022 {
		t.Fatalf("established years = %v", got)
	}
	few := []MonthValue{{Year: 2024, Month: 0, Value: 1}, {Year: 2024, Month: 11, Value: 1}}
	if got := DefaultLactations(few, 3, 4); len(got) != 2 || got[1] != 2024 {
		t.Fatalf("fallback years = %v", got)
	}
}

func TestGroupByLactationKeepsFixedSlots(t *testing.T) {
	series := GroupByLactation([]MonthValue{
		{Year: 2023, Month: 9, Value: 1},
		{Year: 2024, Month: 8, Value: 2},
	})
	if len(series) != 1 {
		t.Fatalf("expected one lactation, got %+v", series)
	}
	s := series[0]
	if s.Count != 2 || s.Values[0] == nil || *s.Values[11] != 2 || s.Values[3] != nil {
		t.Fatalf("unexpected series: %+v", s)
	}
}

func TestDailyPointsFractionalPosition(t *testing.T) {
	rows := []record.Row{
		{Entity: "A", Value: 3.9, Date: time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)},
		{Entity: "A", Value: 4.1, Date: time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{Entity: "A", Value: 9.9, Year: 2024, Month: 1},
	}
	series := DailyPoints(rows, "A")
	if len(series) != 1 || len(series[0].Points) != 2 {
		t.Fatalf("unexpected series: %+v", series)
	}
	p := series[0].Points
	if p[0].X != 0 || math.Abs(p[1].X-(3+15.0/31.0)) > 1e-12 {
		t.Fatalf("unexpected x positions: %v %v", p[0].X, p[1].X)
	}
}
