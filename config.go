package main

import (
	"os"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) Config {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	return config
}

func DefaultConfig() Config {
	return Config{
		Build: BuildOptions{
			WalkSpeedMPS: 1.4,
		},
		Server: ServerOptions{
			ListenAddr:  ":5002",
			MetricsAddr: ":9102",
		},
		Log: LogOptions{
			Level: LevelInfo,
		},
	}
}

// Config is the top-level settings document: where the preprocessed
// store lives, what the server listens on, and how verbosely it logs.
type Config struct {
	Build  BuildOptions  `yaml:"build"`
	Server ServerOptions `yaml:"server"`
	Log    LogOptions    `yaml:"log"`
}

// BuildOptions controls the offline OSM+GTFS ingestion pass.
type BuildOptions struct {
	Source       SourceOptions `yaml:"source"`
	StorePath    string        `yaml:"store-path"`
	WalkSpeedMPS float64       `yaml:"walk-speed-mps"`
}

type SourceOptions struct {
	OSM  string `yaml:"osm"`
	GTFS string `yaml:"gtfs"`
}

type ServerOptions struct {
	ListenAddr  string `yaml:"listen-addr"`
	MetricsAddr string `yaml:"metrics-addr"`
}

type LogOptions struct {
	Level LogLevel `yaml:"level"`
}

//**********************************************************
// enums
//**********************************************************

type LogLevel byte

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) Slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "debug":
		*l = LevelDebug
	case "warn":
		*l = LevelWarn
	case "error":
		*l = LevelError
	default:
		*l = LevelInfo
	}
	return nil
}

func (l LogLevel) MarshalYAML() (any, error) {
	return l.String(), nil
}
