package main

import (
	"testing"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

func TestLogLevel_YAMLRoundTrip(t *testing.T) {
	cases := []struct {
		yaml string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
	}
	for _, c := range cases {
		var got LogLevel
		if err := yaml.Unmarshal([]byte(c.yaml), &got); err != nil {
			t.Fatalf("Unmarshal(%q): %v", c.yaml, err)
		}
		if got != c.want {
			t.Fatalf("Unmarshal(%q) = %v, want %v", c.yaml, got, c.want)
		}
		out, err := yaml.Marshal(c.want)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", c.want, err)
		}
		var roundTripped LogLevel
		if err := yaml.Unmarshal(out, &roundTripped); err != nil {
			t.Fatalf("Unmarshal(Marshal(%v)): %v", c.want, err)
		}
		if roundTripped != c.want {
			t.Fatalf("round trip of %v produced %v", c.want, roundTripped)
		}
	}
}

func TestLogLevel_UnmarshalDefaultsToInfoForUnknownValue(t *testing.T) {
	var got LogLevel
	if err := yaml.Unmarshal([]byte("verbose"), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != LevelInfo {
		t.Fatalf("got = %v, want LevelInfo for an unrecognized level", got)
	}
}

func TestLogLevel_SlogMapping(t *testing.T) {
	cases := []struct {
		level LogLevel
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
	}
	for _, c := range cases {
		if got := c.level.Slog(); got != c.want {
			t.Fatalf("LogLevel(%v).Slog() = %v, want %v", c.level, got, c.want)
		}
	}
}

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Build.WalkSpeedMPS != 1.4 {
		t.Fatalf("WalkSpeedMPS = %v, want 1.4", cfg.Build.WalkSpeedMPS)
	}
	if cfg.Server.ListenAddr != ":5002" || cfg.Server.MetricsAddr != ":9102" {
		t.Fatalf("Server = %+v, want :5002 and :9102", cfg.Server)
	}
	if cfg.Log.Level != LevelInfo {
		t.Fatalf("Log.Level = %v, want LevelInfo", cfg.Log.Level)
	}
}
