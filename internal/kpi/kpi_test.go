package kpi

import "testing"

func TestMatchesAliasesCaseInsensitive(t *testing.T) {
	for _, label := range []string{"Cellule", "SCC", "cellule somatiche", "Cellule Somatiche (SCC)"} {
		if !Matches(Cells, label) {
			t.Fatalf("expected %q to match %s", label, Cells)
		}
	}
	if Matches(Cells, "cellule somatiche scc") {
		t.Fatalf("matching must be exact, not substring")
	}
	if Matches(Cells, "carica") {
		t.Fatalf("carica must not match cellule")
	}
}

func TestCanonicalResolvesSynonyms(t *testing.T) {
	cases := map[string]string{
		"grasso":  Fat,
		"% FAT":   Fat,
		"caseine": Casein,
		"CBT":     Bacteria,
		"unknown": "unknown",
	}
	for in, want := range cases {
		if got := Canonical(in); got != want {
			t.Fatalf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
	if a := Aliases("mystery"); len(a) != 1 || a[0] != "mystery" {
		t.Fatalf("unknown key should alias itself, got %v", a)
	}
}

func TestTraits(t *testing.T) {
	if !LowerIsBetter("scc") || !LogDomain(Bacteria) {
		t.Fatalf("cell and bacterial counts are lower-is-better log-domain KPIs")
	}
	if LowerIsBetter(Fat) || LogDomain(Urea) {
		t.Fatalf("fat/urea are ordinary KPIs")
	}
	if Unit("grasso") != "%" || Unit(Cells) != "cell/mL" {
		t.Fatalf("unexpected units: %q %q", Unit("grasso"), Unit(Cells))
	}
	if !IsKnown(Ratio) || IsKnown("nope") {
		t.Fatalf("IsKnown mismatch")
	}
}
