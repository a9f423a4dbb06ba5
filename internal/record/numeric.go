package record

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Options tunes how text fields are parsed.
type Options struct {
	// DecimalSeparator forces ',' or '.'; 0 auto-detects per value.
	DecimalSeparator rune
	// ThousandsSeparator is optional; 0 strips the common separators that
	// differ from the decimal one.
	ThousandsSeparator rune
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// ParseNumber parses lab-export numbers such as "12,5", "1.000,0" or "3e5".
// It reports false for empty, malformed and non-finite input.
//
// Auto-detection reads a lone separator as the decimal mark, so "1.000" is
// 1 and "1,000" is 1. JSON numbers reach here as text ("4.125") and must
// keep that reading. Set DecimalSeparator to ',' for exports that group
// thousands with dots.
func ParseNumber(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseInt accepts integral numbers only ("2024", "10", "10.0").
func parseInt(s string) (int, bool) {
	f, ok := ParseNumber(s, Options{DecimalSeparator: '.'})
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "2006-01-02 15:04",
	"2006-01-02 15:04:05", "2006-01-02T15:04:05", "02/01/2006 15:04", "02-01-2006",
}

// ParseDate tries the layouts found in lab exports. Day-first layouts win
// over month-first ones because the exports are Italian.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
