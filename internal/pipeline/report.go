package pipeline

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/analysis"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

func writeHeader(b *strings.Builder, title, dataset, kpiKey, unit string, f record.Filter) {
	b.WriteString("[" + title + "]\n")
	if dataset != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", dataset))
	}
	if unit != "" {
		b.WriteString(fmt.Sprintf("KPI: %s [%s]\n", kpiKey, unit))
	} else {
		b.WriteString(fmt.Sprintf("KPI: %s\n", kpiKey))
	}
	b.WriteString(fmt.Sprintf("Peer group: %s\n", describeFilter(f)))
}

func describeFilter(f record.Filter) string {
	if f.IsZero() {
		return "all"
	}
	var parts []string
	if p := record.ProvinceName(f.Province); p != "" {
		parts = append(parts, "province "+p)
	}
	if p := strings.TrimSpace(f.Processor); p != "" {
		parts = append(parts, "processor "+p)
	}
	return strings.Join(parts, ", ")
}

func positionHeader(b *strings.Builder, first string) {
	b.WriteString("| " + first + " |")
	for _, l := range analysis.PositionLabels {
		b.WriteString(" " + l + " |")
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---:|", len(analysis.PositionLabels)))
	b.WriteString("\n")
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *v)
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func floatRow(b *strings.Builder, label string, vals [12]*float64) {
	b.WriteString("| " + label + " |")
	for _, v := range vals {
		b.WriteString(" " + fmtFloat(v) + " |")
	}
	b.WriteString("\n")
}

// Markdown renders the lactation choice.
func (ch *LactationChoice) Markdown() string {
	var b strings.Builder
	b.WriteString("[LACTATION YEARS]\n")
	b.WriteString(fmt.Sprintf("Entity: %s\nKPI: %s\n", ch.Entity, ch.KPI))
	b.WriteString("Recent: " + labels(ch.Recent) + "\n")
	b.WriteString("Established: " + labels(ch.Established) + "\n")
	if ch.Default != 0 {
		b.WriteString("Default: " + analysis.LactationLabel(ch.Default) + "\n")
	}
	return b.String()
}

func labels(years []int) string {
	if len(years) == 0 {
		return "none"
	}
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = analysis.LactationLabel(y)
	}
	return strings.Join(out, ", ")
}

// Markdown renders the percentile trajectories as one table row per year.
func (r *PercentileReport) Markdown() string {
	var b strings.Builder
	writeHeader(&b, "PERCENTILE TRAJECTORY", r.Dataset, r.KPI, r.Unit, r.Filter)
	b.WriteString(fmt.Sprintf("Entity: %s\n", r.Entity))
	if r.LowerIsBetter {
		b.WriteString("Direction: lower is better (100 = best in group)\n")
	} else {
		b.WriteString("Direction: higher is better (100 = best in group)\n")
	}
	if r.Latest != nil {
		b.WriteString(fmt.Sprintf("Latest: %s value %.4g, percentile %d (%s, %d peers)\n",
			r.Latest.Month, r.Latest.Value, r.Latest.Percentile, r.Latest.Band, r.Latest.Peers))
	}
	b.WriteString("\n")
	positionHeader(&b, "Lactation")
	for _, t := range r.Trajectories {
		b.WriteString("| " + t.Label + " |")
		for _, v := range t.Values {
			b.WriteString(" " + fmtInt(v) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders focal and median rows for every lactation year.
func (r *ValueReport) Markdown() string {
	var b strings.Builder
	writeHeader(&b, "VALUE TRAJECTORY", r.Dataset, r.KPI, r.Unit, r.Filter)
	b.WriteString(fmt.Sprintf("Entity: %s\n\n", r.Entity))
	positionHeader(&b, "Series")
	for _, t := range r.Trajectories {
		floatRow(&b, t.Label+" "+r.Entity, t.Focal)
		floatRow(&b, t.Label+" median", t.GroupMedian)
	}
	if len(r.Daily) > 0 {
		b.WriteString("\n[DAILY SAMPLES]\n")
		for _, s := range r.Daily {
			b.WriteString(fmt.Sprintf("- %s (%d samples)\n", s.Label, len(s.Points)))
			for _, p := range s.Points {
				b.WriteString(fmt.Sprintf("  • %s x=%.2f %.4g\n", p.Date.Format("2006-01-02"), p.X, p.Value))
			}
		}
	}
	return b.String()
}

// Markdown renders the bins and the marker line.
func (r *DistributionReport) Markdown() string {
	var b strings.Builder
	writeHeader(&b, "DISTRIBUTION", r.Dataset, r.KPI, r.Unit, r.Filter)
	if r.Subject != "" {
		b.WriteString(fmt.Sprintf("Subject: %s\n", r.Subject))
	}
	b.WriteString(fmt.Sprintf("Window: %s", r.Window.Signature()))
	if n := len(r.Months); n > 0 {
		b.WriteString(fmt.Sprintf(" (%s to %s, %d months)", r.Months[0], r.Months[n-1], n))
	}
	b.WriteString("\n")
	d := r.Distribution
	if d.Total == 0 {
		b.WriteString("\nNo values in window.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Values: %d, range %.4g to %.4g, bin width %.4g\n", d.Total, d.Min, d.Max, d.Step))
	if d.Marker != nil {
		b.WriteString(fmt.Sprintf("Marker: %.4g", d.Marker.Value))
		if d.Marker.Percentile != nil {
			b.WriteString(fmt.Sprintf(" at percentile %d", *d.Marker.Percentile))
		}
		if r.Band != "" {
			b.WriteString(fmt.Sprintf(" (%s)", r.Band))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n| Center | From | To | Count | % |\n|---:|---:|---:|---:|---:|\n")
	for _, bin := range d.Bins {
		b.WriteString(fmt.Sprintf("| %.4g | %.4g | %.4g | %d | %.1f |\n",
			bin.Center, bin.LowerEdge, bin.UpperEdge, bin.Count, bin.FrequencyPct))
	}
	return b.String()
}

// Markdown renders tank, peer and delta rows per lactation year.
func (r *TankReport) Markdown() string {
	var b strings.Builder
	writeHeader(&b, "TANK BENCHMARK", r.Dataset, r.KPI, r.Unit, r.Filter)
	b.WriteString(fmt.Sprintf("Tank: %s\nMode: %s\n", r.Tank, r.Mode))
	b.WriteString(fmt.Sprintf("Peers: %d entities, %d samples (~%d per month)\n",
		r.PeerCount.Entities, r.PeerCount.Samples, r.PeerCount.SamplesPerMonth))
	b.WriteString("Available: " + labels(r.Available) + "\n\n")
	positionHeader(&b, "Series")
	for _, s := range r.Series {
		floatRow(&b, s.Label+" tank", s.Tank)
		floatRow(&b, s.Label+" "+string(r.Mode), s.Peers)
		floatRow(&b, s.Label+" delta", s.Delta)
	}
	return b.String()
}

// EntitiesMarkdown renders the entity listing.
func EntitiesMarkdown(kpiKey string, list []EntitySummary) string {
	var b strings.Builder
	b.WriteString("[ENTITIES]\n")
	b.WriteString(fmt.Sprintf("KPI: %s\nCount: %d\n\n", kpiKey, len(list)))
	b.WriteString("| Entity | Samples | Months | First | Last |\n|---|---:|---:|---|---|\n")
	for _, e := range list {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s |\n", e.Entity, e.Samples, e.Months, e.First, e.Last))
	}
	return b.String()
}
