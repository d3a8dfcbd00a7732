package main

import (
	"log/slog"
	"testing"
	"time"
)

func TestParseDateArg(t *testing.T) {
	d, err := parseDateArg([]string{"2024-10-04"})
	if err != nil {
		t.Fatalf("parseDateArg: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.October || d.Day() != 4 {
		t.Errorf("parsed %v", d)
	}

	if _, err := parseDateArg([]string{"Oct 4 2024"}); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := parseDateArg([]string{"2024-13-45"}); err == nil {
		t.Error("expected error for impossible date")
	}

	today, err := parseDateArg(nil)
	if err != nil {
		t.Fatalf("parseDateArg(nil): %v", err)
	}
	if today.Hour() != 0 || today.Minute() != 0 {
		t.Errorf("default date not truncated to midnight: %v", today)
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for name, want := range cases {
		if got := logLevel(name); got != want {
			t.Errorf("logLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	noColor = true
	if got := styled(ansiGreen, "ok"); got != "ok" {
		t.Errorf("noColor output = %q", got)
	}

	noColor = false
	if got := styled(ansiGreen, "ok"); got != ansiGreen+"ok"+ansiReset {
		t.Errorf("styled output = %q", got)
	}

	t.Setenv("NO_COLOR", "1")
	if got := styled(ansiGreen, "ok"); got != "ok" {
		t.Errorf("NO_COLOR env not honored: %q", got)
	}
	noColor = true
}
