package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLatencyTrackerKeepsNewestSamples(t *testing.T) {
	lt := NewLatencyTracker(3)
	for _, ms := range []int{50, 10, 40, 20, 30} {
		lt.Record(time.Duration(ms) * time.Millisecond)
	}

	if got := lt.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	if got := lt.P50(); got != 30*time.Millisecond {
		t.Errorf("P50() = %s, want 30ms", got)
	}
	if got := lt.Max(); got != 40*time.Millisecond {
		t.Errorf("Max() = %s, want 40ms", got)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	if got := NewLatencyTracker(5).P50(); got != 0 {
		t.Errorf("P50() on empty tracker = %s, want 0", got)
	}
}

func TestPrettyHandlerPrefixesAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelInfo)
	defer Init(slog.LevelInfo)

	Debugf("hidden")
	Warnf("webhook status=%d", 500)
	L().With("run", "abc").Info("done")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "WARN: webhook status=500") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "done run=abc") {
		t.Errorf("missing attrs on info line: %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		" WARN ": slog.LevelWarn,
		"error":  slog.LevelError,
		"":       slog.LevelInfo,
		"bogus":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
