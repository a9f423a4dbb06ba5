package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	if lvl := Setup("warn", false, &buf); lvl != zerolog.WarnLevel {
		t.Fatalf("level = %v", lvl)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("kpi", "cellule").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "kpi=cellule") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if lvl := Setup("bogus", false, &buf); lvl != zerolog.InfoLevel {
		t.Fatalf("unknown level must fall back to info, got %v", lvl)
	}
	if lvl := Setup("error", true, &buf); lvl != zerolog.DebugLevel {
		t.Fatalf("debug flag must force debug, got %v", lvl)
	}
	Setup("info", false, nil)
}
